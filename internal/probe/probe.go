// Package probe discovers which sample rates and block sizes a device really
// accepts. Device metadata is not trusted: every candidate is checked against
// the driver, and block sizes are confirmed by opening a real duplex stream.
package probe

import (
	"github.com/nicola-lunghi/latencycalc/internal/audio"
	"github.com/nicola-lunghi/latencycalc/internal/config"
	applog "github.com/nicola-lunghi/latencycalc/internal/log"
)

// Returned when no candidate succeeds, so callers always get a non-empty grid.
const (
	FallbackSampleRate = 44100
	FallbackBlockSize  = 128
)

// Prober tests candidate configurations against a backend.
type Prober struct {
	backend     audio.Backend
	sampleRates []int
	blockSizes  []int
}

// New returns a Prober over the given candidates. Nil candidate lists use
// the config defaults.
func New(backend audio.Backend, sampleRates, blockSizes []int) *Prober {
	if sampleRates == nil {
		sampleRates = config.DefaultSampleRates()
	}
	if blockSizes == nil {
		blockSizes = config.DefaultBlockSizes()
	}
	return &Prober{
		backend:     backend,
		sampleRates: sampleRates,
		blockSizes:  blockSizes,
	}
}

// SupportedSampleRates returns the candidate rates, in order, for which
// both an input-only and an output-only check succeed.
func (p *Prober) SupportedSampleRates(deviceID, inputChannels, outputChannels int) []int {
	var supported []int
	for _, rate := range p.sampleRates {
		if err := p.backend.CheckOutput(deviceID, outputChannels, rate); err != nil {
			applog.Debugf("probe: %d Hz output rejected: %v", rate, err)
			continue
		}
		if err := p.backend.CheckInput(deviceID, inputChannels, rate); err != nil {
			applog.Debugf("probe: %d Hz input rejected: %v", rate, err)
			continue
		}
		supported = append(supported, rate)
	}
	if len(supported) == 0 {
		applog.Warnf("probe: no sample rate accepted, falling back to %d Hz", FallbackSampleRate)
		return []int{FallbackSampleRate}
	}
	return supported
}

// SupportedBlockSizes returns the candidate block sizes, in order, for which
// a duplex stream at sampleRate can be opened. Each stream is closed again
// straight away.
func (p *Prober) SupportedBlockSizes(deviceID, sampleRate, inputChannels, outputChannels int) []int {
	var supported []int
	for _, size := range p.blockSizes {
		params := audio.DuplexParams{
			DeviceID:       deviceID,
			SampleRate:     sampleRate,
			BlockSize:      size,
			InputChannels:  inputChannels,
			OutputChannels: outputChannels,
		}
		stream, err := p.backend.OpenDuplex(params, silence{})
		if err != nil {
			applog.Debugf("probe: block size %d rejected: %v", size, err)
			continue
		}
		if err := stream.Close(); err != nil {
			applog.Debugf("probe: block size %d failed to close: %v", size, err)
			continue
		}
		supported = append(supported, size)
	}
	if len(supported) == 0 {
		applog.Warnf("probe: no block size accepted, falling back to %d frames", FallbackBlockSize)
		return []int{FallbackBlockSize}
	}
	return supported
}

// silence is the handler for probe streams; they are never started, but a
// driver that calls back anyway gets silence.
type silence struct{}

func (silence) OnBlock(_, out []float32, _ int) {
	clear(out)
}
