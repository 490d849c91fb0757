package audio

import (
	"fmt"
	"time"
)

// Device is one entry of the host's device enumeration.
type Device struct {
	ID                int
	Name              string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
	Latency           LatencyBounds
}

// LatencyBounds are the driver's own input/output buffering estimates.
type LatencyBounds struct {
	LowInput   time.Duration
	HighInput  time.Duration
	LowOutput  time.Duration
	HighOutput time.Duration
}

// Milliseconds returns the bounds as low-in, high-in, low-out, high-out in ms.
func (b LatencyBounds) Milliseconds() (lowIn, highIn, lowOut, highOut float64) {
	return ms(b.LowInput), ms(b.HighInput), ms(b.LowOutput), ms(b.HighOutput)
}

func ms(d time.Duration) float64 {
	return d.Seconds() * 1000
}

// Capabilities is the immutable snapshot of a device taken at the start of
// a run.
type Capabilities struct {
	DeviceID          int
	Name              string
	MaxInputChannels  int
	MaxOutputChannels int
	Latency           LatencyBounds
}

// Capabilities snapshots the device.
func (d Device) Capabilities() Capabilities {
	return Capabilities{
		DeviceID:          d.ID,
		Name:              d.Name,
		MaxInputChannels:  d.MaxInputChannels,
		MaxOutputChannels: d.MaxOutputChannels,
		Latency:           d.Latency,
	}
}

// ActiveChannels returns the channel counts a stream is opened with: the
// device maxima, each capped at limit.
func (c Capabilities) ActiveChannels(limit int) (in, out int) {
	return min(c.MaxInputChannels, limit), min(c.MaxOutputChannels, limit)
}

// ValidateChannels checks requested channel indices against the device
// maxima.
func (c Capabilities) ValidateChannels(inputChannel, outputChannel int) error {
	if inputChannel < 0 || inputChannel >= c.MaxInputChannels {
		return fmt.Errorf("%w: input channel %d exceeds max input channels (%d)",
			ErrChannelOutOfRange, inputChannel, c.MaxInputChannels)
	}
	if outputChannel < 0 || outputChannel >= c.MaxOutputChannels {
		return fmt.Errorf("%w: output channel %d exceeds max output channels (%d)",
			ErrChannelOutOfRange, outputChannel, c.MaxOutputChannels)
	}
	return nil
}

// StreamConfig is one point of the sweep grid plus the channel pair.
type StreamConfig struct {
	SampleRate    int // Hz
	BlockSize     int // frames per callback
	InputChannel  int
	OutputChannel int
}

// Validate checks the configuration against the active channel counts of
// the stream it will be opened on.
func (c StreamConfig) Validate(activeInputs, activeOutputs int) error {
	if c.SampleRate <= 0 || c.BlockSize <= 0 {
		return fmt.Errorf("%w: sample rate %d and block size %d must be positive",
			ErrConfigUnsupported, c.SampleRate, c.BlockSize)
	}
	if c.InputChannel < 0 || c.InputChannel >= activeInputs ||
		c.OutputChannel < 0 || c.OutputChannel >= activeOutputs {
		return fmt.Errorf("%w: invalid channel selection (input: %d of %d, output: %d of %d)",
			ErrChannelOutOfRange, c.InputChannel, activeInputs, c.OutputChannel, activeOutputs)
	}
	return nil
}

func (c StreamConfig) String() string {
	return fmt.Sprintf("%d Hz / %d frames (in %d, out %d)",
		c.SampleRate, c.BlockSize, c.InputChannel, c.OutputChannel)
}
