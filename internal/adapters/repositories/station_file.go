package repositories

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"charging-route-service/internal/domain"
)

type ChargingConfigRecord struct {
	ChargingType  string  `json:"charging_type"`
	ConnectorType string  `json:"connector_type"`
	PowerOutput   float64 `json:"power_output"`
	CostPerKWh    float64 `json:"cost_per_kwh"`
}

// StationRecord is one station in a station JSON file.
type StationRecord struct {
	ID              int64                  `json:"id"`
	Name            string                 `json:"name"`
	Location        string                 `json:"location"`
	Latitude        float64                `json:"latitude"`
	Longitude       float64                `json:"longitude"`
	IsAvailable     *bool                  `json:"is_available"`
	IsMaintenance   bool                   `json:"is_maintenance"`
	ChargingConfigs []ChargingConfigRecord `json:"charging_configs"`
}

// ReadStationFile loads and validates every station in a JSON array file.
func ReadStationFile(path string) ([]domain.Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read stations: open %q: %w", path, err)
	}
	defer f.Close()

	stations, err := DecodeStations(f)
	if err != nil {
		return nil, fmt.Errorf("read stations %q: %w", path, err)
	}
	return stations, nil
}

// DecodeStations parses a JSON array of StationRecord.
// Stations default to available when is_available is omitted.
func DecodeStations(r io.Reader) ([]domain.Station, error) {
	var records []StationRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	seen := make(map[int64]struct{}, len(records))
	out := make([]domain.Station, 0, len(records))
	for i, rec := range records {
		if rec.ID <= 0 {
			return nil, fmt.Errorf("invalid station id at index %d: %d", i, rec.ID)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("duplicate station id %d at index %d", rec.ID, i)
		}
		seen[rec.ID] = struct{}{}

		p := domain.Point{Lat: rec.Latitude, Lon: rec.Longitude}
		if !p.Valid() {
			return nil, fmt.Errorf("station %d: coordinates out of range: %v", rec.ID, p)
		}

		available := true
		if rec.IsAvailable != nil {
			available = *rec.IsAvailable
		}

		configs := make([]domain.ChargingConfig, 0, len(rec.ChargingConfigs))
		for _, c := range rec.ChargingConfigs {
			if c.PowerOutput < 0 || c.CostPerKWh < 0 {
				return nil, fmt.Errorf("station %d: negative power or cost", rec.ID)
			}
			configs = append(configs, domain.ChargingConfig{
				ChargingType:  strings.TrimSpace(c.ChargingType),
				ConnectorType: strings.TrimSpace(c.ConnectorType),
				PowerOutputKW: c.PowerOutput,
				CostPerKWh:    c.CostPerKWh,
			})
		}

		out = append(out, domain.Station{
			ID:              rec.ID,
			Name:            strings.TrimSpace(rec.Name),
			Location:        strings.TrimSpace(rec.Location),
			Lat:             rec.Latitude,
			Lon:             rec.Longitude,
			IsAvailable:     available,
			IsMaintenance:   rec.IsMaintenance,
			ChargingConfigs: configs,
		})
	}
	return out, nil
}
