package domain

// A single charging configuration offered by a station.
// A station may expose several (different connectors or power tiers).
type ChargingConfig struct {
	ChargingType  string
	ConnectorType string
	PowerOutputKW float64
	CostPerKWh    float64
}

// Represents a charging station snapshot as read from the station source.
// The planner treats it as immutable for the duration of a planning call.
type Station struct {
	ID              int64
	Name            string
	Location        string
	Lat             float64
	Lon             float64
	IsAvailable     bool
	IsMaintenance   bool
	ChargingConfigs []ChargingConfig
}

func (s Station) Point() Point { return Point{Lat: s.Lat, Lon: s.Lon} }

// StationFilter narrows station selection by charging capability.
// Zero-valued fields are ignored; set fields are ANDed on a single config.
type StationFilter struct {
	ChargingType  string
	ConnectorType string
	MinPowerKW    *float64
}

func (f StationFilter) IsZero() bool {
	return f.ChargingType == "" && f.ConnectorType == "" && f.MinPowerKW == nil
}

// Matches reports whether a single config satisfies every set predicate.
func (f StationFilter) Matches(c ChargingConfig) bool {
	if f.ChargingType != "" && c.ChargingType != f.ChargingType {
		return false
	}
	if f.ConnectorType != "" && c.ConnectorType != f.ConnectorType {
		return false
	}
	if f.MinPowerKW != nil && c.PowerOutputKW < *f.MinPowerKW {
		return false
	}
	return true
}

// MatchingConfigs returns the station configs accepted by the filter.
func (f StationFilter) MatchingConfigs(s Station) []ChargingConfig {
	out := make([]ChargingConfig, 0, len(s.ChargingConfigs))
	for _, c := range s.ChargingConfigs {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}
