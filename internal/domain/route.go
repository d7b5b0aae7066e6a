package domain

import "encoding/json"

type SegmentType string

const (
	SegmentStartToStation       SegmentType = "start_to_station"
	SegmentStationToStation     SegmentType = "station_to_station"
	SegmentStationToDestination SegmentType = "station_to_destination"
)

// A station on a found path together with the leg used to reach it.
type Hop struct {
	Station Station
	Leg     DistanceResult
}

// Snapshot of station identity and charging offer embedded in a segment.
type StationRef struct {
	ID              int64
	Name            string
	Lat             float64
	Lon             float64
	ChargingConfigs []ChargingConfig
}

func NewStationRef(s Station) *StationRef {
	configs := make([]ChargingConfig, len(s.ChargingConfigs))
	copy(configs, s.ChargingConfigs)
	return &StationRef{
		ID:              s.ID,
		Name:            s.Name,
		Lat:             s.Lat,
		Lon:             s.Lon,
		ChargingConfigs: configs,
	}
}

// Represents a single leg of an itinerary.
// Exactly one of FromPoint/FromStation and one of ToPoint/ToStation is set.
type Segment struct {
	Type        SegmentType
	FromPoint   *Point
	FromStation *StationRef
	ToPoint     *Point
	ToStation   *StationRef
	DistanceKm  float64
	DurationMin float64
	Geometry    json.RawMessage
}

// Represents a planned charging itinerary between an origin and destination.
// A RoutePlan is built once per successful plan and is not mutated afterwards.
type RoutePlan struct {
	Origin      Point
	Destination Point
	Stations    []Station
	Segments    []Segment

	TotalDistanceKm      float64
	TotalDurationMin     float64
	DirectDistanceKm     float64
	DirectDurationMin    float64
	DistanceOverheadPct  float64
	TimeOverheadPct      float64
	NumberOfStops        int
	EstimatedChargingMin float64
	TotalTripMin         float64
}
