package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"charging-route-service/internal/domain"
)

// Postgres-backed implementation of the StationRepository port.
type PostgresStationRepository struct{ DB *sql.DB }

func NewPostgresStationRepository(db *sql.DB) *PostgresStationRepository {
	return &PostgresStationRepository{DB: db}
}

// stationRow is one row of the stations/charging_configs join. Config
// columns are NULL for stations without configs.
type stationRow struct {
	ID            int64
	Name          string
	Location      string
	Lat           float64
	Lon           float64
	IsAvailable   bool
	IsMaintenance bool

	ConfigID      sql.NullInt64
	ChargingType  sql.NullString
	ConnectorType sql.NullString
	PowerOutput   sql.NullFloat64
	CostPerKWh    sql.NullFloat64
}

// Return available stations with their charging configurations, ordered by
// station id and config id.
func (s *PostgresStationRepository) ListAvailableStations(ctx context.Context) ([]domain.Station, error) {
	if s.DB == nil {
		return nil, errors.New("postgres station repository: DB is nil")
	}

	query := `
	SELECT
		s.id, s.name, s.location, s.latitude, s.longitude, s.is_available, s.is_maintenance,
		c.id, c.charging_type, c.connector_type, c.power_output, c.cost_per_kwh
	FROM stations s
	LEFT JOIN charging_configs c ON c.station_id = s.id
	WHERE s.is_available = TRUE
	ORDER BY s.id, c.id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stations: query stations table: %w", err)
	}
	defer rows.Close()

	joined := make([]stationRow, 0, 64)
	for rows.Next() {
		var r stationRow
		err := rows.Scan(
			&r.ID, &r.Name, &r.Location, &r.Lat, &r.Lon, &r.IsAvailable, &r.IsMaintenance,
			&r.ConfigID, &r.ChargingType, &r.ConnectorType, &r.PowerOutput, &r.CostPerKWh,
		)
		if err != nil {
			return nil, fmt.Errorf("list stations: scan row: %w", err)
		}
		joined = append(joined, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stations: row iteration: %w", err)
	}

	return assembleStations(joined), nil
}

// assembleStations folds consecutive join rows of the same station into one
// Station. Rows must be grouped by station id.
func assembleStations(rows []stationRow) []domain.Station {
	out := make([]domain.Station, 0, len(rows))
	for _, r := range rows {
		if len(out) == 0 || out[len(out)-1].ID != r.ID {
			out = append(out, domain.Station{
				ID:              r.ID,
				Name:            r.Name,
				Location:        r.Location,
				Lat:             r.Lat,
				Lon:             r.Lon,
				IsAvailable:     r.IsAvailable,
				IsMaintenance:   r.IsMaintenance,
				ChargingConfigs: []domain.ChargingConfig{},
			})
		}
		if !r.ConfigID.Valid {
			continue
		}
		st := &out[len(out)-1]
		st.ChargingConfigs = append(st.ChargingConfigs, domain.ChargingConfig{
			ChargingType:  r.ChargingType.String,
			ConnectorType: r.ConnectorType.String,
			PowerOutputKW: r.PowerOutput.Float64,
			CostPerKWh:    r.CostPerKWh.Float64,
		})
	}
	return out
}
