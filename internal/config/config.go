package config

import "time"

// Defaults and limits for a latency sweep.
const (
	DefaultLogLevel          = "info"
	DefaultDeviceID          = -1     // Unset; auto-select by marker
	ListDevicesID            = -1     // --device -1 lists devices and exits
	DefaultMarker            = "ASIO" // Driver-family token searched in device names
	DefaultMaxActiveChannels = 2      // Stream channel count cap per direction
	DefaultInputChannel      = 0
	DefaultOutputChannel     = 0
	DefaultCaptureSeconds    = 1.0   // Recording window per configuration
	DefaultPulseSeconds      = 0.001 // 1ms pulse of ones
	DefaultCSV               = true
	DefaultCSVFile           = "latency_results.csv"
	DefaultConfigFile        = "latencycalc.yaml"

	MinSampleRate      = 8000
	MaxSampleRate      = 384000
	MaxBlockSize       = 8192
	MaxCaptureDuration = 30 * time.Second
)

// DefaultSampleRates are the candidate rates probed in ascending order.
func DefaultSampleRates() []int {
	return []int{44100, 48000, 88200, 96000, 176400, 192000}
}

// DefaultBlockSizes are the candidate block sizes probed in ascending order.
func DefaultBlockSizes() []int {
	return []int{32, 64, 128, 256, 512, 1024, 2048}
}

// Config holds all runtime options. The file-backed sections are loaded from
// YAML; the remaining fields only come from the command line.
type Config struct {
	LogLevel    string            `yaml:"log_level"`
	Device      DeviceConfig      `yaml:"device"`
	Measurement MeasurementConfig `yaml:"measurement"`
	Output      OutputConfig      `yaml:"output"`
	Transport   TransportConfig   `yaml:"transport"`

	// Command line only
	Command       string `yaml:"-"` // One-off command ("list")
	ConfigPath    string `yaml:"-"`
	DeviceID      int    `yaml:"-"`
	DeviceSet     bool   `yaml:"-"` // DeviceID was given explicitly
	InputChannel  int    `yaml:"-"`
	OutputChannel int    `yaml:"-"`
	Pick          bool   `yaml:"-"` // Choose the device interactively
	Verbose       bool   `yaml:"-"`
}

// DeviceConfig selects and constrains the device under test.
type DeviceConfig struct {
	Marker            string `yaml:"marker"`              // Auto-select the first device whose name contains this.
	MaxActiveChannels int    `yaml:"max_active_channels"` // Channels opened per direction, capped at the device maximum.
}

// MeasurementConfig shapes each duplex measurement and the sweep grid.
type MeasurementConfig struct {
	CaptureSeconds float64 `yaml:"capture_seconds"` // Length of the pulse/capture window.
	PulseSeconds   float64 `yaml:"pulse_seconds"`   // Length of the leading run of ones.
	SampleRates    []int   `yaml:"sample_rates"`    // Candidate rates, ascending.
	BlockSizes     []int   `yaml:"block_sizes"`     // Candidate block sizes, ascending.
}

// OutputConfig controls the result sinks.
type OutputConfig struct {
	CSV        bool   `yaml:"csv"`         // Write the CSV file.
	CSVFile    string `yaml:"csv_file"`    // Path of the CSV file.
	CaptureDir string `yaml:"capture_dir"` // Dump pulse+capture WAV files here when set.
}

// TransportConfig controls live publication of measurement rows.
type TransportConfig struct {
	ServeAddress string `yaml:"serve_address"` // host:port of the WebSocket endpoint, empty disables it.
}

// CaptureDuration returns the capture window as a time.Duration.
func (m MeasurementConfig) CaptureDuration() time.Duration {
	return time.Duration(m.CaptureSeconds * float64(time.Second))
}

// NewConfig creates a Config populated with defaults. It is the base that
// configuration files and command line flags are applied on top of.
func NewConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Device: DeviceConfig{
			Marker:            DefaultMarker,
			MaxActiveChannels: DefaultMaxActiveChannels,
		},
		Measurement: MeasurementConfig{
			CaptureSeconds: DefaultCaptureSeconds,
			PulseSeconds:   DefaultPulseSeconds,
			SampleRates:    DefaultSampleRates(),
			BlockSizes:     DefaultBlockSizes(),
		},
		Output: OutputConfig{
			CSV:     DefaultCSV,
			CSVFile: DefaultCSVFile,
		},
		DeviceID:      DefaultDeviceID,
		InputChannel:  DefaultInputChannel,
		OutputChannel: DefaultOutputChannel,
	}
}
