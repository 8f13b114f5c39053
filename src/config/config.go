package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"stock-forecaster/src/forecast"
	"stock-forecaster/src/helpers"
	"stock-forecaster/src/models"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Known option values.
var (
	Providers    = []string{"yahoo", "alpaca"}
	StorageTypes = []string{"none", "sqlite", "postgres"}
	HorizonModes = []string{"calendar", "trading"}
)

// Bounds on request parameters.
const (
	MinHistoryYears = 1
	MaxHistoryYears = 5
	MinHorizonDays  = 1
	MaxHorizonDays  = 365
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig loads configuration. A .env file in the working directory is
// applied first, then the YAML file at configPath (if any), then
// environment variables, then tag defaults.
func NewConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, helpers.NewConfigurationError("failed to load .env: %v", err)
	}

	var modelConfig models.MConfig
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, helpers.NewConfigurationError("failed to read config file '%s': %v", configPath, err)
		}
		if err := cleanenv.ReadConfig(configPath, &modelConfig); err != nil {
			return nil, helpers.NewConfigurationError("failed to parse config '%s': %v", configPath, err)
		}
	} else if err := cleanenv.ReadEnv(&modelConfig); err != nil {
		return nil, helpers.NewConfigurationError("failed to read environment: %v", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

func (c *Config) normalize() {
	c.DataSource.Provider = strings.ToLower(strings.TrimSpace(c.DataSource.Provider))
	c.Storage.DBType = strings.ToLower(strings.TrimSpace(c.Storage.DBType))
	c.Forecast.DefaultStrategy = strings.ToLower(strings.TrimSpace(c.Forecast.DefaultStrategy))
	c.Forecast.HorizonMode = strings.ToLower(strings.TrimSpace(c.Forecast.HorizonMode))
	for i, s := range c.Scheduler.Watchlist {
		c.Scheduler.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return helpers.NewConfigurationError("application name cannot be empty")
	}

	if c.Host == "" {
		return helpers.NewConfigurationError("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return helpers.NewConfigurationError("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort != 0 && (c.GrpcPort <= 1024 || c.GrpcPort > 65535) {
		return helpers.NewConfigurationError("invalid grpc port number: %d", c.GrpcPort)
	}

	if !contains(StorageTypes, c.Storage.DBType) {
		return helpers.NewConfigurationError("unknown database type %q", c.Storage.DBType)
	}
	if c.Storage.DBType == "sqlite" && c.Storage.DBPath == "" {
		return helpers.NewConfigurationError("database path cannot be empty for sqlite")
	}
	if c.Storage.DBType == "postgres" && c.Storage.DBConnectionString == "" {
		return helpers.NewConfigurationError("database connection string cannot be empty for postgres")
	}

	if c.Network.RequestTimeout <= 0 {
		return helpers.NewConfigurationError("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return helpers.NewConfigurationError("max retries cannot be negative")
	}

	if !contains(Providers, c.DataSource.Provider) {
		return helpers.NewConfigurationError("unknown data provider %q", c.DataSource.Provider)
	}
	if c.DataSource.HistoryYears < MinHistoryYears || c.DataSource.HistoryYears > MaxHistoryYears {
		return helpers.NewConfigurationError("history_years must be between %d and %d, got %d",
			MinHistoryYears, MaxHistoryYears, c.DataSource.HistoryYears)
	}
	if c.DataSource.Cache.Enabled && c.DataSource.Cache.TTLSeconds <= 0 {
		return helpers.NewConfigurationError("cache ttl must be greater than 0")
	}

	if c.Forecast.DefaultStrategy == "" {
		return helpers.NewConfigurationError("default strategy cannot be empty")
	}
	if !forecast.NewRegistry(c.Forecast.SeasonalPeriod).Has(c.Forecast.DefaultStrategy) {
		return helpers.NewConfigurationError("unknown default strategy %q", c.Forecast.DefaultStrategy)
	}
	if c.Forecast.HorizonDays < MinHorizonDays || c.Forecast.HorizonDays > MaxHorizonDays {
		return helpers.NewConfigurationError("horizon_days must be between %d and %d, got %d",
			MinHorizonDays, MaxHorizonDays, c.Forecast.HorizonDays)
	}
	if !contains(HorizonModes, c.Forecast.HorizonMode) {
		return helpers.NewConfigurationError("unknown horizon mode %q", c.Forecast.HorizonMode)
	}
	if c.Forecast.DecompositionPeriod < 2 {
		return helpers.NewConfigurationError("decomposition period must be at least 2")
	}
	if c.Forecast.SeasonalPeriod < 2 {
		return helpers.NewConfigurationError("seasonal period must be at least 2")
	}

	if c.Scheduler.Enabled && c.Scheduler.Cron == "" {
		return helpers.NewConfigurationError("scheduler cron expression cannot be empty")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
