package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         int           `json:"port"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 120 * time.Second
	}
}

func (c ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}

// OracleConfig configures the OSRM routing service.
type OracleConfig struct {
	// BaseURL of the OSRM server. Empty disables road routing and every
	// distance becomes a great-circle estimate.
	BaseURL string        `json:"base_url"`
	Profile string        `json:"profile"`
	Timeout time.Duration `json:"timeout"`
	// MaxAttempts per request; 1 disables retries.
	MaxAttempts int           `json:"max_attempts"`
	Backoff     time.Duration `json:"backoff"`
}

func (c *OracleConfig) SetDefaults() {
	if c.Profile == "" {
		c.Profile = "driving"
	}
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Second
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 1
	}
	if c.Backoff == 0 {
		c.Backoff = 200 * time.Millisecond
	}
}

func (c OracleConfig) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base_url %q is not an absolute url", c.BaseURL)
		}
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1; got %d", c.MaxAttempts)
	}
	return nil
}

// PlannerConfig tunes route planning.
type PlannerConfig struct {
	DefaultRangeKm     float64 `json:"default_range_km"`
	BatchThreshold     int     `json:"batch_threshold"`
	NearestCandidates  int     `json:"nearest_candidates"`
	ChargingMinPerStop float64 `json:"charging_min_per_stop"`
	FallbackMinPerKm   float64 `json:"fallback_min_per_km"`
	// MaintenanceScope is "anchors" or "all".
	MaintenanceScope string `json:"maintenance_scope"`
}

func (c *PlannerConfig) SetDefaults() {
	if c.DefaultRangeKm == 0 {
		c.DefaultRangeKm = 20
	}
	if c.BatchThreshold == 0 {
		c.BatchThreshold = 5
	}
	if c.NearestCandidates == 0 {
		c.NearestCandidates = 5
	}
	if c.ChargingMinPerStop == 0 {
		c.ChargingMinPerStop = 30
	}
	if c.FallbackMinPerKm == 0 {
		c.FallbackMinPerKm = 1.5
	}
	if c.MaintenanceScope == "" {
		c.MaintenanceScope = "anchors"
	}
}

func (c PlannerConfig) Validate() error {
	if c.DefaultRangeKm <= 0 {
		return fmt.Errorf("default_range_km must be positive; got %v", c.DefaultRangeKm)
	}
	if c.BatchThreshold < 1 || c.NearestCandidates < 1 {
		return errors.New("batch_threshold and nearest_candidates must be at least 1")
	}
	if c.ChargingMinPerStop < 0 || c.FallbackMinPerKm < 0 {
		return errors.New("charging_min_per_stop and fallback_min_per_km must not be negative")
	}
	if c.MaintenanceScope != "anchors" && c.MaintenanceScope != "all" {
		return fmt.Errorf("unknown maintenance_scope %s", c.MaintenanceScope)
	}
	return nil
}

// StationsConfig selects the station source. DatabaseURL wins over File.
// It is validated by the commands that read stations, since the plan
// command may take its file from a flag.
type StationsConfig struct {
	DatabaseURL string `json:"database_url"`
	File        string `json:"file"`
}

func (c StationsConfig) Validate() error {
	if c.DatabaseURL == "" && c.File == "" {
		return errors.New("database_url or file is required")
	}
	return nil
}

type LogConfig struct {
	// Format is "json" or "console".
	Format string `json:"format"`
	Level  string `json:"level"`
}

func (c *LogConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = "json"
	}
	if c.Level == "" {
		c.Level = "info"
	}
}

func (c LogConfig) Validate() error {
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("unknown format %s", c.Format)
	}
	return nil
}
