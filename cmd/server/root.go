package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"charging-route-service/internal/adapters/distance"
	"charging-route-service/internal/adapters/repositories"
	"charging-route-service/internal/config"
	"charging-route-service/internal/platform/db"
	"charging-route-service/internal/platform/logger"
	"charging-route-service/internal/ports"
	"charging-route-service/internal/services"

	"github.com/spf13/cobra"
)

var (
	cfgPath string
	logOut  io.Writer = os.Stdout
)

var rootCmd = &cobra.Command{
	Use:           "charging-route-service",
	Short:         "Range-constrained EV charging route planner",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

func newLogger(cfg *config.Config, component string) logger.Logger {
	return logger.New(component, logger.Options{Format: cfg.Log.Format, Level: cfg.Log.Level, Out: logOut})
}

// newRoutingClient returns nil when no OSRM server is configured, which
// puts every planner in great-circle fallback mode.
func newRoutingClient(cfg *config.Config) (ports.RoutingClient, error) {
	log := newLogger(cfg, "osrm")
	if cfg.Oracle.BaseURL == "" {
		log.Warnf("oracle.base_url is empty: distances are great-circle estimates")
		return nil, nil
	}
	client, err := distance.NewOSRMClient(distance.OSRMOptions{
		BaseURL:     cfg.Oracle.BaseURL,
		Profile:     cfg.Oracle.Profile,
		Timeout:     cfg.Oracle.Timeout,
		MaxAttempts: cfg.Oracle.MaxAttempts,
		Backoff:     cfg.Oracle.Backoff,
		Logger:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("routing client: %w", err)
	}
	return client, nil
}

// newStationRepository prefers the database when both sources are set.
// The returned cleanup func is never nil.
func newStationRepository(ctx context.Context, cfg *config.Config) (ports.StationRepository, func(), error) {
	if err := cfg.Stations.Validate(); err != nil {
		return nil, nil, fmt.Errorf("stations: %w", err)
	}
	if cfg.Stations.DatabaseURL == "" {
		return repositories.NewJSONStationRepository(cfg.Stations.File), func() {}, nil
	}

	conn, err := db.Open(ctx, cfg.Stations.DatabaseURL, db.PoolOptions{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewPostgresStationRepository(conn), func() { _ = conn.Close() }, nil
}

func plannerOptions(cfg *config.Config) services.Options {
	return services.Options{
		DefaultRangeKm:     cfg.Planner.DefaultRangeKm,
		BatchThreshold:     cfg.Planner.BatchThreshold,
		NearestCandidates:  cfg.Planner.NearestCandidates,
		ChargingMinPerStop: cfg.Planner.ChargingMinPerStop,
		FallbackMinPerKm:   cfg.Planner.FallbackMinPerKm,
		MaintenanceScope:   services.MaintenanceScope(cfg.Planner.MaintenanceScope),
	}
}
