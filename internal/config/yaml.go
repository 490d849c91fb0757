// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	applog "github.com/nicola-lunghi/latencycalc/internal/log"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from the YAML file at path. An empty path
// falls back to DefaultConfigFile in the working directory, and to built-in
// defaults when that does not exist either. Environment overrides are
// applied after the file, then the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		cfg.ConfigPath = path
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the measurement grid and output settings. Channel indices
// are checked against the device later, once its capabilities are known.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := applog.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("log_level %q is not recognised", c.LogLevel))
	}
	if c.Device.MaxActiveChannels < 1 {
		errs = append(errs, fmt.Errorf("device.max_active_channels must be at least 1, got %d", c.Device.MaxActiveChannels))
	}

	m := c.Measurement
	if m.CaptureSeconds <= 0 || m.CaptureDuration() > MaxCaptureDuration {
		errs = append(errs, fmt.Errorf("measurement.capture_seconds must be in (0, %s], got %g", MaxCaptureDuration, m.CaptureSeconds))
	}
	if m.PulseSeconds <= 0 || m.PulseSeconds >= m.CaptureSeconds {
		errs = append(errs, fmt.Errorf("measurement.pulse_seconds must be positive and shorter than the capture, got %g", m.PulseSeconds))
	}
	if err := validateAscending("measurement.sample_rates", m.SampleRates, MinSampleRate, MaxSampleRate); err != nil {
		errs = append(errs, err)
	}
	if err := validateAscending("measurement.block_sizes", m.BlockSizes, 1, MaxBlockSize); err != nil {
		errs = append(errs, err)
	}

	if c.Output.CSV && c.Output.CSVFile == "" {
		errs = append(errs, errors.New("output.csv_file must be set when CSV export is enabled"))
	}
	if c.InputChannel < 0 || c.OutputChannel < 0 {
		errs = append(errs, fmt.Errorf("channel indices must not be negative (input %d, output %d)", c.InputChannel, c.OutputChannel))
	}

	return errors.Join(errs...)
}

func validateAscending(field string, values []int, lo, hi int) error {
	if len(values) == 0 {
		return fmt.Errorf("%s must not be empty", field)
	}
	for _, v := range values {
		if v < lo || v > hi {
			return fmt.Errorf("%s value %d outside [%d, %d]", field, v, lo, hi)
		}
	}
	if !slices.IsSorted(values) || len(slices.Compact(slices.Clone(values))) != len(values) {
		return fmt.Errorf("%s must be strictly ascending, got %v", field, values)
	}
	return nil
}

// applyEnvOverrides applies LATENCYCALC_* variables on top of the loaded
// file. Malformed values are ignored.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("LATENCYCALC_LOG_LEVEL"); ok {
		c.LogLevel = val
		applog.Debugf("configuration: overriding log_level from env: %s", val)
	}
	if val, ok := os.LookupEnv("LATENCYCALC_MARKER"); ok {
		c.Device.Marker = val
		applog.Debugf("configuration: overriding device.marker from env: %s", val)
	}
	if val, ok := os.LookupEnv("LATENCYCALC_CAPTURE_SECONDS"); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.Measurement.CaptureSeconds = f
			applog.Debugf("configuration: overriding measurement.capture_seconds from env: %g", f)
		}
	}
	if val, ok := os.LookupEnv("LATENCYCALC_CAPTURE_DIR"); ok {
		c.Output.CaptureDir = val
		applog.Debugf("configuration: overriding output.capture_dir from env: %s", val)
	}
	if val, ok := os.LookupEnv("LATENCYCALC_SERVE"); ok {
		c.Transport.ServeAddress = val
		applog.Debugf("configuration: overriding transport.serve_address from env: %s", val)
	}
}
