package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"charging-route-service/internal/adapters/repositories"
	"charging-route-service/internal/config"
	"charging-route-service/internal/platform/db"
	"charging-route-service/internal/platform/logger"

	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	seedFile string
)

var rootCmd = &cobra.Command{
	Use:           "dbtool",
	Short:         "Manage the charging station database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the station tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, conn *sql.DB, log logger.Logger) error {
			if err := repositories.InitSchema(ctx, conn); err != nil {
				return err
			}
			log.Infof("schema ready")
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the station tables and load stations from a JSON file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, conn *sql.DB, log logger.Logger) error {
			if err := repositories.InitSchema(ctx, conn); err != nil {
				return err
			}
			n, err := repositories.SeedFromJSON(ctx, conn, seedFile)
			if err != nil {
				return err
			}
			log.Infof("seeded %d stations from %s", n, seedFile)
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	seedCmd.Flags().StringVar(&seedFile, "file", "data/stations.json", "station JSON file")
	rootCmd.AddCommand(initCmd, seedCmd)
}

func withDB(parent context.Context, fn func(context.Context, *sql.DB, logger.Logger) error) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New("dbtool", logger.Options{Format: cfg.Log.Format, Level: cfg.Log.Level})

	if cfg.Stations.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	conn, err := db.Open(ctx, cfg.Stations.DatabaseURL, db.PoolOptions{MaxOpenConns: 2})
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(ctx, conn, log)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
