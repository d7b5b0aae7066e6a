package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"charging-route-service/internal/domain"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStationsQuery := `
	CREATE TABLE IF NOT EXISTS stations (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		is_maintenance BOOLEAN NOT NULL DEFAULT FALSE
	);
	`

	createChargingConfigsQuery := `
	CREATE TABLE IF NOT EXISTS charging_configs (
		id BIGSERIAL PRIMARY KEY,
		station_id BIGINT NOT NULL REFERENCES stations(id) ON DELETE CASCADE,
		charging_type TEXT NOT NULL DEFAULT '',
		connector_type TEXT NOT NULL DEFAULT '',
		power_output DOUBLE PRECISION NOT NULL DEFAULT 0,
		cost_per_kwh DOUBLE PRECISION NOT NULL DEFAULT 0
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_charging_configs_station_id
	ON charging_configs(station_id);
	`

	statements := []string{
		createStationsQuery,
		createChargingConfigsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the database with stations from a JSON file.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) (int, error) {
	stations, err := ReadStationFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed stations: %w", err)
	}
	if err := SeedStations(ctx, db, stations); err != nil {
		return 0, err
	}
	return len(stations), nil
}

// SeedStations upserts stations and replaces their charging configs.
func SeedStations(ctx context.Context, db *sql.DB, stations []domain.Station) error {
	if db == nil {
		return errors.New("seed stations: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed stations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsertStation, err := tx.PrepareContext(ctx, `
	INSERT INTO stations (id, name, location, latitude, longitude, is_available, is_maintenance)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		location = EXCLUDED.location,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		is_available = EXCLUDED.is_available,
		is_maintenance = EXCLUDED.is_maintenance;
	`)
	if err != nil {
		return fmt.Errorf("seed stations: prepare station upsert: %w", err)
	}
	defer upsertStation.Close()

	deleteConfigs, err := tx.PrepareContext(ctx, `DELETE FROM charging_configs WHERE station_id = $1;`)
	if err != nil {
		return fmt.Errorf("seed stations: prepare config delete: %w", err)
	}
	defer deleteConfigs.Close()

	insertConfig, err := tx.PrepareContext(ctx, `
	INSERT INTO charging_configs (station_id, charging_type, connector_type, power_output, cost_per_kwh)
	VALUES ($1, $2, $3, $4, $5);
	`)
	if err != nil {
		return fmt.Errorf("seed stations: prepare config insert: %w", err)
	}
	defer insertConfig.Close()

	for _, s := range stations {
		if _, err := upsertStation.ExecContext(ctx,
			s.ID, s.Name, s.Location, s.Lat, s.Lon, s.IsAvailable, s.IsMaintenance,
		); err != nil {
			return fmt.Errorf("seed stations: upsert station id=%d: %w", s.ID, err)
		}
		if _, err := deleteConfigs.ExecContext(ctx, s.ID); err != nil {
			return fmt.Errorf("seed stations: clear configs station id=%d: %w", s.ID, err)
		}
		for _, c := range s.ChargingConfigs {
			if _, err := insertConfig.ExecContext(ctx,
				s.ID, c.ChargingType, c.ConnectorType, c.PowerOutputKW, c.CostPerKWh,
			); err != nil {
				return fmt.Errorf("seed stations: insert config station id=%d: %w", s.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed stations: commit tx: %w", err)
	}

	return nil
}
