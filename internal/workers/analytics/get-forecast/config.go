package getforecast

import (
	"fmt"
	"time"

	"accreditation-workers/internal/common/config"
)

type Config struct {
	Enabled           bool          `mapstructure:"enabled"`
	MaxJobsActive     int           `mapstructure:"max_jobs_active"`
	Timeout           time.Duration `mapstructure:"timeout"`
	DefaultYearsAhead int           `mapstructure:"default_years_ahead"`
	MaxYearsAhead     int           `mapstructure:"max_years_ahead"`
	Z                 float64       `mapstructure:"z"`
	MinPoints         int           `mapstructure:"min_points"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:           true,
		MaxJobsActive:     5,
		Timeout:           15 * time.Second,
		DefaultYearsAhead: 3,
		MaxYearsAhead:     5,
		Z:                 1.96,
		MinPoints:         3,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.DefaultYearsAhead <= 0 || c.DefaultYearsAhead > c.MaxYearsAhead {
		return fmt.Errorf("default_years_ahead must be between 1 and max_years_ahead (%d)", c.MaxYearsAhead)
	}
	if c.Z <= 0 {
		return fmt.Errorf("z must be positive")
	}
	if c.MinPoints < 3 {
		return fmt.Errorf("min_points must be at least 3")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	if workerCfg, exists := appConfig.Workers[TaskType]; exists {
		cfg.Enabled = workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(workerCfg.Timeout)
		}
	}

	f := appConfig.Engine.Forecast
	if f.DefaultYearsAhead > 0 {
		cfg.DefaultYearsAhead = f.DefaultYearsAhead
	}
	if f.MaxYearsAhead > 0 {
		cfg.MaxYearsAhead = f.MaxYearsAhead
	}
	if f.Z > 0 {
		cfg.Z = f.Z
	}
	if f.MinPoints > 0 {
		cfg.MinPoints = f.MinPoints
	}
	return cfg
}
