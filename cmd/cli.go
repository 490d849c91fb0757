package cmd

import (
	"fmt"

	"github.com/nicola-lunghi/latencycalc/internal/config"
	"github.com/nicola-lunghi/latencycalc/pkg/build"

	"github.com/spf13/cobra"
)

// Commands reported in Config.Command. It stays empty when cobra only
// printed help or the version.
const (
	CommandRun  = "run"
	CommandList = "list"
)

// flagValues are the raw flag targets; only flags the user actually set are
// applied on top of the configuration file.
type flagValues struct {
	configPath    string
	deviceID      int
	inputChannel  int
	outputChannel int
	csv           bool
	csvFile       string
	marker        string
	captureDir    string
	serve         string
	pick          bool
	verbose       bool
}

// ParseArgs parses args (without the program name), loads the configuration
// file and applies the flags on top of it.
func ParseArgs(args []string) (*config.Config, error) {
	buildInfo := build.GetBuildFlags()
	var fv flagValues
	command := ""

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Long:          "Measures round-trip latency through a physical loopback for every supported sample rate and block size.",
		Version:       buildInfo.Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			command = CommandRun
			return nil
		},
	}

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			command = CommandList
		},
	}
	rootCmd.AddCommand(listCmd)

	flags := rootCmd.PersistentFlags()

	// Device selection
	flags.IntVarP(&fv.deviceID, "device", "d", config.DefaultDeviceID,
		"Device ID to measure. -1 lists devices; unset selects the first device matching --marker.")
	flags.StringVar(&fv.marker, "marker", config.DefaultMarker,
		"Substring of the device name used for automatic selection")
	flags.BoolVar(&fv.pick, "pick", false,
		"Choose the device interactively")
	flags.IntVarP(&fv.inputChannel, "input-channel", "i", config.DefaultInputChannel,
		"Input channel index (0-based) receiving the loopback")
	flags.IntVarP(&fv.outputChannel, "output-channel", "o", config.DefaultOutputChannel,
		"Output channel index (0-based) emitting the pulse")

	// Output
	flags.BoolVar(&fv.csv, "csv", config.DefaultCSV,
		"Write results to a CSV file")
	flags.StringVar(&fv.csvFile, "csv-file", config.DefaultCSVFile,
		"CSV output path")
	flags.StringVar(&fv.captureDir, "capture-dir", "",
		"Write the pulse and capture of every configuration as WAV files to this directory")
	flags.StringVar(&fv.serve, "serve", "",
		"Publish rows on a WebSocket endpoint at this address (e.g. localhost:8090)")

	// General
	flags.StringVar(&fv.configPath, "config", "",
		"Configuration file (default "+config.DefaultConfigFile+" if present)")
	flags.BoolVarP(&fv.verbose, "verbose", "v", false,
		"Show verbose output")

	// Execute the CLI
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	options, err := config.LoadConfig(fv.configPath)
	if err != nil {
		return nil, err
	}
	options.Command = command

	changed := flags.Changed
	if changed("device") {
		options.DeviceID = fv.deviceID
		options.DeviceSet = true
	}
	if changed("marker") {
		options.Device.Marker = fv.marker
	}
	if changed("input-channel") {
		options.InputChannel = fv.inputChannel
	}
	if changed("output-channel") {
		options.OutputChannel = fv.outputChannel
	}
	if changed("csv") {
		options.Output.CSV = fv.csv
	}
	if changed("csv-file") {
		options.Output.CSVFile = fv.csvFile
	}
	if changed("capture-dir") {
		options.Output.CaptureDir = fv.captureDir
	}
	if changed("serve") {
		options.Transport.ServeAddress = fv.serve
	}
	options.Pick = fv.pick
	options.Verbose = fv.verbose

	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return options, nil
}
