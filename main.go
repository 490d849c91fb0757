package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nicola-lunghi/latencycalc/cmd"
	"github.com/nicola-lunghi/latencycalc/internal/audio"
	"github.com/nicola-lunghi/latencycalc/internal/config"
	applog "github.com/nicola-lunghi/latencycalc/internal/log"
	"github.com/nicola-lunghi/latencycalc/internal/probe"
	"github.com/nicola-lunghi/latencycalc/internal/report"
	"github.com/nicola-lunghi/latencycalc/internal/session"
	"github.com/nicola-lunghi/latencycalc/internal/sweep"
	"github.com/nicola-lunghi/latencycalc/internal/transport"
	"github.com/nicola-lunghi/latencycalc/internal/tui"
	"github.com/nicola-lunghi/latencycalc/pkg/build"
)

// main is the entry point for the latency sweep.
// The program flow is divided into three phases:
//
// 1. Startup Phase:
//   - Initialize build information
//   - Parse command line arguments and the configuration file
//   - Initialize PortAudio
//   - Execute one-off commands (device listing) if requested
//
// 2. Sweep Phase:
//   - Select the device under test
//   - Probe supported sample rates and block sizes
//   - Measure every configuration, one duplex stream at a time
//
// 3. Report Phase:
//   - Print the results table
//   - Write the CSV file
func main() {
	// ==================== STARTUP PHASE ====================

	if err := build.Initialize(); err != nil {
		applog.Fatalf("%v", err)
	}

	options, err := cmd.ParseArgs(os.Args[1:])
	if err != nil {
		applog.Fatalf("%v", err)
	}
	if options.Command == "" {
		return
	}

	if err := applog.Configure(options.LogLevel, options.Verbose); err != nil {
		applog.Warnf("%v", err)
	}
	if options.ConfigPath != "" {
		applog.Debugf("configuration loaded from %s", options.ConfigPath)
	}

	if err := audio.Initialize(); err != nil {
		applog.Fatalf("%v", err)
	}

	// Fatalf exits without running deferred calls, so PortAudio is shut
	// down before the exit status is decided.
	err = run(options, audio.PortAudio{})
	if terr := audio.Terminate(); terr != nil {
		applog.Warnf("%v", terr)
	}
	if err != nil {
		applog.Fatalf("%v", err)
	}
}

func run(options *config.Config, backend audio.Backend) error {
	devices, err := backend.Devices()
	if err != nil {
		return err
	}

	if options.Command == cmd.CommandList || (options.DeviceSet && options.DeviceID == config.ListDevicesID) {
		audio.ListDevices(os.Stdout, devices)
		return nil
	}

	// ==================== SWEEP PHASE ====================

	device, err := selectDevice(options, devices)
	if err != nil {
		return err
	}

	var publisher transport.Transport = transport.NewLoggingTransport()
	if addr := options.Transport.ServeAddress; addr != "" {
		wst, err := transport.NewWebSocketTransport(addr)
		if err != nil {
			return err
		}
		publisher = wst
	}
	defer publisher.Close()

	prober := probe.New(backend, options.Measurement.SampleRates, options.Measurement.BlockSizes)
	measurer := session.New(backend, session.Options{
		CaptureSeconds:    options.Measurement.CaptureSeconds,
		PulseSeconds:      options.Measurement.PulseSeconds,
		MaxActiveChannels: options.Device.MaxActiveChannels,
		CaptureDir:        options.Output.CaptureDir,
	})
	controller := sweep.New(backend, prober, measurer,
		sweep.WithTransport(publisher),
		sweep.WithMaxActiveChannels(options.Device.MaxActiveChannels),
	)

	report.PrintDevice(os.Stdout, device.Capabilities())
	fmt.Println()

	rep, err := controller.Run(device.ID, options.InputChannel, options.OutputChannel)
	if err != nil {
		return err
	}

	// ==================== REPORT PHASE ====================

	fmt.Println()
	report.PrintSupported(os.Stdout, rep)
	fmt.Println()
	report.RenderTable(os.Stdout, rep)

	if options.Output.CSV {
		if err := report.WriteCSV(options.Output.CSVFile, rep.Rows); err != nil {
			return err
		}
		fmt.Printf("\nResults saved to %s\n", options.Output.CSVFile)
	}
	return nil
}

// selectDevice resolves the device under test: the interactive picker, an
// explicit --device, or the first device matching the marker.
func selectDevice(options *config.Config, devices []audio.Device) (audio.Device, error) {
	switch {
	case options.Pick:
		return tui.Pick(devices, options.Device.Marker)
	case options.DeviceSet:
		for _, d := range devices {
			if d.ID == options.DeviceID {
				return d, nil
			}
		}
		return audio.Device{}, fmt.Errorf("%w: invalid device ID %d", audio.ErrNoDevice, options.DeviceID)
	default:
		d, err := audio.FindByMarker(devices, options.Device.Marker)
		if errors.Is(err, audio.ErrNoDevice) {
			return audio.Device{}, fmt.Errorf("%w; use --device or 'list' to choose one", err)
		}
		return d, err
	}
}
