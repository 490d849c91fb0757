// Package audiotest provides an in-memory audio.Backend whose duplex streams
// route the output channel back to the input channel after a fixed delay.
package audiotest

import (
	"fmt"
	"sync"

	"github.com/nicola-lunghi/latencycalc/internal/audio"
)

// Backend is a deterministic audio.Backend. The zero value has no devices.
type Backend struct {
	DeviceList []audio.Device

	// Rates missing from a direction's set fail that direction's check.
	// A nil set accepts every rate.
	InputRates  map[int]bool
	OutputRates map[int]bool
	// BlockSizes accepted by OpenDuplex; nil accepts every size.
	BlockSizes map[int]bool
	// OpenErr, when set, is consulted before every OpenDuplex.
	OpenErr func(p audio.DuplexParams) error
	// StartErr makes Start fail.
	StartErr error

	// LoopDelay is the loopback delay in frames from LoopOut to LoopIn. It
	// must be at least the block size, as on real hardware.
	LoopDelay int
	LoopIn    int
	LoopOut   int
	// Gain scales the looped-back signal; zero means unity.
	Gain float32
	// Blocks delivered per started stream; zero delivers one second plus
	// two extra blocks to exercise truncation.
	Blocks int
	// ShortInput hands the handler an empty input buffer, mimicking a
	// misbehaving driver.
	ShortInput bool

	mu      sync.Mutex
	opened  []audio.DuplexParams
	open    int
	maxOpen int
}

var _ audio.Backend = (*Backend)(nil)

// Devices implements audio.DeviceLister.
func (b *Backend) Devices() ([]audio.Device, error) {
	out := make([]audio.Device, len(b.DeviceList))
	copy(out, b.DeviceList)
	return out, nil
}

func (b *Backend) device(id int) (audio.Device, error) {
	if id < 0 || id >= len(b.DeviceList) {
		return audio.Device{}, fmt.Errorf("%w: invalid device ID %d", audio.ErrNoDevice, id)
	}
	return b.DeviceList[id], nil
}

// CheckInput implements audio.Backend.
func (b *Backend) CheckInput(deviceID, channels, sampleRate int) error {
	d, err := b.device(deviceID)
	if err != nil {
		return err
	}
	if channels < 1 || channels > d.MaxInputChannels || (b.InputRates != nil && !b.InputRates[sampleRate]) {
		return fmt.Errorf("%w: input %d ch @ %d Hz", audio.ErrConfigUnsupported, channels, sampleRate)
	}
	return nil
}

// CheckOutput implements audio.Backend.
func (b *Backend) CheckOutput(deviceID, channels, sampleRate int) error {
	d, err := b.device(deviceID)
	if err != nil {
		return err
	}
	if channels < 1 || channels > d.MaxOutputChannels || (b.OutputRates != nil && !b.OutputRates[sampleRate]) {
		return fmt.Errorf("%w: output %d ch @ %d Hz", audio.ErrConfigUnsupported, channels, sampleRate)
	}
	return nil
}

// OpenDuplex implements audio.Backend.
func (b *Backend) OpenDuplex(p audio.DuplexParams, h audio.BlockHandler) (audio.Stream, error) {
	if _, err := b.device(p.DeviceID); err != nil {
		return nil, err
	}
	if b.OpenErr != nil {
		if err := b.OpenErr(p); err != nil {
			return nil, fmt.Errorf("%w: %w", audio.ErrDeviceOpen, err)
		}
	}
	if b.BlockSizes != nil && !b.BlockSizes[p.BlockSize] {
		return nil, fmt.Errorf("%w: block size %d rejected", audio.ErrDeviceOpen, p.BlockSize)
	}

	b.mu.Lock()
	b.opened = append(b.opened, p)
	b.open++
	b.maxOpen = max(b.maxOpen, b.open)
	b.mu.Unlock()

	return &stream{backend: b, params: p, handler: h}, nil
}

// Opened returns the parameters of every successful OpenDuplex, in order.
func (b *Backend) Opened() []audio.DuplexParams {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]audio.DuplexParams(nil), b.opened...)
}

// OpenStreams returns how many streams are currently open.
func (b *Backend) OpenStreams() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

// MaxConcurrent returns the highest number of simultaneously open streams.
func (b *Backend) MaxConcurrent() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.maxOpen
}

func (b *Backend) released() {
	b.mu.Lock()
	b.open--
	b.mu.Unlock()
}
