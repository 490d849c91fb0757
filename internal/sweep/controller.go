// Package sweep drives a latency measurement across every sample rate and
// block size a device supports.
package sweep

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nicola-lunghi/latencycalc/internal/audio"
	"github.com/nicola-lunghi/latencycalc/internal/config"
	applog "github.com/nicola-lunghi/latencycalc/internal/log"
	"github.com/nicola-lunghi/latencycalc/internal/session"
	"github.com/nicola-lunghi/latencycalc/internal/transport"
)

// Prober reports the sample rates and block sizes worth measuring.
type Prober interface {
	SupportedSampleRates(deviceID, inputChannels, outputChannels int) []int
	SupportedBlockSizes(deviceID, sampleRate, inputChannels, outputChannels int) []int
}

// Measurer runs one duplex measurement.
type Measurer interface {
	Measure(deviceID int, cfg audio.StreamConfig) (session.Result, error)
}

// Controller runs sweeps. It is used from a single goroutine.
type Controller struct {
	devices   audio.DeviceLister
	prober    Prober
	measurer  Measurer
	transport transport.Transport
	maxActive int
	newID     func() uuid.UUID
}

// Option configures a Controller.
type Option func(*Controller)

// WithTransport publishes every row as it is produced.
func WithTransport(t transport.Transport) Option {
	return func(c *Controller) { c.transport = t }
}

// WithMaxActiveChannels overrides the per-direction channel cap.
func WithMaxActiveChannels(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxActive = n
		}
	}
}

// New creates a Controller.
func New(devices audio.DeviceLister, prober Prober, measurer Measurer, opts ...Option) *Controller {
	c := &Controller{
		devices:   devices,
		prober:    prober,
		measurer:  measurer,
		maxActive: config.DefaultMaxActiveChannels,
		newID:     uuid.New,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run measures every (rate, block size) pair on deviceID using the given
// channel pair. Only device lookup and channel validation abort the sweep;
// per-configuration failures are recorded in their row.
func (c *Controller) Run(deviceID, inputChannel, outputChannel int) (*Report, error) {
	dev, err := audio.Lookup(c.devices, deviceID)
	if err != nil {
		return nil, err
	}
	caps := dev.Capabilities()

	if err := caps.ValidateChannels(inputChannel, outputChannel); err != nil {
		return nil, err
	}
	activeIn, activeOut := caps.ActiveChannels(c.maxActive)

	rep := &Report{
		RunID:  c.newID(),
		Device: caps,
	}
	rep.SampleRates = c.prober.SupportedSampleRates(deviceID, activeIn, activeOut)
	if len(rep.SampleRates) == 0 {
		return nil, fmt.Errorf("%w: no sample rates to test on %q", audio.ErrConfigUnsupported, caps.Name)
	}
	// Block sizes are only probed at the first rate and assumed for the rest.
	rep.BlockSizes = c.prober.SupportedBlockSizes(deviceID, rep.SampleRates[0], activeIn, activeOut)

	applog.Debugf("sweep %s: %d rates x %d block sizes on %q",
		rep.RunID, len(rep.SampleRates), len(rep.BlockSizes), caps.Name)

	rep.Rows = make([]Row, 0, len(rep.SampleRates)*len(rep.BlockSizes))
	for _, rate := range rep.SampleRates {
		for _, block := range rep.BlockSizes {
			cfg := audio.StreamConfig{
				SampleRate:    rate,
				BlockSize:     block,
				InputChannel:  inputChannel,
				OutputChannel: outputChannel,
			}
			applog.Infof("Testing Sample Rate: %d Hz, Block Size: %d", rate, block)

			row := Row{Config: cfg, Driver: caps.Latency}
			res, err := c.measurer.Measure(deviceID, cfg)
			if err != nil {
				row.Err = err
				applog.Warnf("measurement failed at %s: %v", cfg, err)
			} else {
				row.LatencyMs = res.LatencyMs
				applog.Debugf("measured %.2f ms (%d samples) at %s", res.LatencyMs, res.DelaySamples, cfg)
			}

			rep.Rows = append(rep.Rows, row)
			c.publish(rep.RunID, len(rep.Rows)-1, row)
		}
	}
	return rep, nil
}

func (c *Controller) publish(runID uuid.UUID, index int, row Row) {
	if c.transport == nil {
		return
	}
	if err := c.transport.Send(NewEvent(runID, index, row)); err != nil {
		applog.Warnf("sweep: failed to publish row %d: %v", index, err)
	}
}
