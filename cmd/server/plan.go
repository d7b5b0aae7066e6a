package main

import (
	"encoding/json"
	"fmt"

	"charging-route-service/internal/adapters/repositories"
	"charging-route-service/internal/api/dto"
	"charging-route-service/internal/config"
	"charging-route-service/internal/domain"
	"charging-route-service/internal/ports"
	"charging-route-service/internal/services"

	"github.com/spf13/cobra"
)

var planFlags struct {
	stations string
	startLat float64
	startLon float64
	endLat   float64
	endLon   float64
	rangeKm  float64
	offline  bool
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a single route from a station file and print it as JSON",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&planFlags.stations, "stations", "", "station JSON file (defaults to stations.file from config)")
	f.Float64Var(&planFlags.startLat, "start-lat", 0, "origin latitude")
	f.Float64Var(&planFlags.startLon, "start-lon", 0, "origin longitude")
	f.Float64Var(&planFlags.endLat, "end-lat", 0, "destination latitude")
	f.Float64Var(&planFlags.endLon, "end-lon", 0, "destination longitude")
	f.Float64Var(&planFlags.rangeKm, "range", 0, "vehicle range in km (defaults to planner.default_range_km)")
	f.BoolVar(&planFlags.offline, "offline", false, "skip the routing service and use great-circle estimates")
	for _, name := range []string{"start-lat", "start-lon", "end-lat", "end-lon"} {
		_ = planCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg, "plan")

	path := planFlags.stations
	if path == "" {
		path = cfg.Stations.File
	}
	if path == "" {
		return fmt.Errorf("no station file: pass --stations or set stations.file")
	}
	stations, err := repositories.ReadStationFile(path)
	if err != nil {
		return err
	}

	var routing ports.RoutingClient
	if !planFlags.offline {
		if routing, err = newRoutingClient(cfg); err != nil {
			return err
		}
	}

	planner := services.NewPlanner(stations, routing, plannerOptions(cfg), log)
	plan, err := planner.Optimize(cmd.Context(), services.PlanRequest{
		Origin:      domain.Point{Lat: planFlags.startLat, Lon: planFlags.startLon},
		Destination: domain.Point{Lat: planFlags.endLat, Lon: planFlags.endLon},
		RangeKm:     planFlags.rangeKm,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(dto.NewRouteResponse(plan))
}
