// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "latencycalc.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Measurement.CaptureDuration() != time.Second {
		t.Errorf("capture window = %s, want 1s", cfg.Measurement.CaptureDuration())
	}
	if !slices.Equal(cfg.Measurement.SampleRates, DefaultSampleRates()) {
		t.Errorf("sample rates = %v, want defaults", cfg.Measurement.SampleRates)
	}
	if cfg.ConfigPath != "" {
		t.Errorf("ConfigPath = %q, want empty for built-in defaults", cfg.ConfigPath)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("nonexistent.yaml")
	if err == nil {
		t.Errorf("expected error for missing file, got nil")
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLoadConfig_UnmarshalError(t *testing.T) {
	path := writeTempConfig(t, ":\n:bad")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Error("expected unmarshal error, got nil or wrong error")
	}
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := writeTempConfig(t, `
log_level: debug
device:
  marker: Focusrite
measurement:
  capture_seconds: 0.5
  sample_rates: [48000, 96000]
  block_sizes: [256, 512]
output:
  csv_file: out.csv
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Device.Marker != "Focusrite" {
		t.Errorf("marker = %q, want Focusrite", cfg.Device.Marker)
	}
	if cfg.Device.MaxActiveChannels != DefaultMaxActiveChannels {
		t.Errorf("unset max_active_channels = %d, want default", cfg.Device.MaxActiveChannels)
	}
	if !slices.Equal(cfg.Measurement.SampleRates, []int{48000, 96000}) {
		t.Errorf("sample rates = %v", cfg.Measurement.SampleRates)
	}
	if !slices.Equal(cfg.Measurement.BlockSizes, []int{256, 512}) {
		t.Errorf("block sizes = %v", cfg.Measurement.BlockSizes)
	}
	if cfg.Measurement.PulseSeconds != DefaultPulseSeconds {
		t.Errorf("pulse = %g, want default", cfg.Measurement.PulseSeconds)
	}
	if cfg.ConfigPath != path {
		t.Errorf("ConfigPath = %q, want %q", cfg.ConfigPath, path)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LATENCYCALC_MARKER", "CoreAudio")
	t.Setenv("LATENCYCALC_CAPTURE_SECONDS", "2")
	t.Setenv("LATENCYCALC_SERVE", "127.0.0.1:9090")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Device.Marker != "CoreAudio" {
		t.Errorf("marker = %q", cfg.Device.Marker)
	}
	if cfg.Measurement.CaptureDuration() != 2*time.Second {
		t.Errorf("capture = %s", cfg.Measurement.CaptureDuration())
	}
	if cfg.Transport.ServeAddress != "127.0.0.1:9090" {
		t.Errorf("serve address = %q", cfg.Transport.ServeAddress)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		substr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.LogLevel = "chatty" }, "log_level"},
		{"zero channels", func(c *Config) { c.Device.MaxActiveChannels = 0 }, "max_active_channels"},
		{"zero capture", func(c *Config) { c.Measurement.CaptureSeconds = 0 }, "capture_seconds"},
		{"pulse longer than capture", func(c *Config) { c.Measurement.PulseSeconds = 2 }, "pulse_seconds"},
		{"empty rates", func(c *Config) { c.Measurement.SampleRates = nil }, "sample_rates must not be empty"},
		{"descending rates", func(c *Config) { c.Measurement.SampleRates = []int{96000, 48000} }, "strictly ascending"},
		{"duplicate blocks", func(c *Config) { c.Measurement.BlockSizes = []int{128, 128} }, "strictly ascending"},
		{"huge block", func(c *Config) { c.Measurement.BlockSizes = []int{16384} }, "outside"},
		{"csv without file", func(c *Config) { c.Output.CSVFile = "" }, "csv_file"},
		{"negative channel", func(c *Config) { c.InputChannel = -1 }, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.substr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.substr)
			}
		})
	}
}
