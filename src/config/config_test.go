package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stock-forecaster/src/helpers"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNewConfigDefaults(t *testing.T) {
	path := writeYAML(t, "name: test-forecaster\n")

	cfg, err := NewConfig(path)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Port != 5000 {
		t.Errorf("port = %d, want 5000", cfg.Port)
	}
	if cfg.DataSource.Provider != "yahoo" {
		t.Errorf("provider = %q, want yahoo", cfg.DataSource.Provider)
	}
	if cfg.DataSource.HistoryYears != 1 {
		t.Errorf("history_years = %d, want 1", cfg.DataSource.HistoryYears)
	}
	if cfg.Forecast.HorizonDays != 30 || cfg.Forecast.HorizonMode != "calendar" {
		t.Errorf("forecast defaults = %+v", cfg.Forecast)
	}
	if cfg.Network.MaxRetries != 0 {
		t.Errorf("retries = %d, want 0", cfg.Network.MaxRetries)
	}
}

func TestNewConfigEnvOverride(t *testing.T) {
	t.Setenv("PORT", "6001")
	path := writeYAML(t, "name: test-forecaster\nport: 5500\n")

	cfg, err := NewConfig(path)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Port != 6001 {
		t.Errorf("port = %d, want env override 6001", cfg.Port)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"history":  "data_source:\n  history_years: 9\n",
		"horizon":  "forecast:\n  horizon_days: 400\n",
		"provider": "data_source:\n  provider: bloomberg\n",
		"mode":     "forecast:\n  horizon_mode: lunar\n",
		"storage":  "storage:\n  db_type: mongo\n",
		"strategy": "forecast:\n  default_strategy: neural_net\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewConfig(writeYAML(t, body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			var ce *helpers.ConfigurationError
			if !errors.As(err, &ce) {
				t.Errorf("expected ConfigurationError, got %T", err)
			}
		})
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := NewConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg, err := NewConfig(writeYAML(t, "name: saved\nforecast:\n  default_strategy: linear\n"))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	out := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.Save(out); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, err := NewConfig(out)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Name != "saved" || again.Forecast.DefaultStrategy != "linear" {
		t.Errorf("round trip lost values: %+v", again.MConfig)
	}
}
