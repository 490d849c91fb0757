package probe

import (
	"errors"
	"testing"

	"github.com/nicola-lunghi/latencycalc/internal/audio"
	"github.com/nicola-lunghi/latencycalc/internal/audio/audiotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend() *audiotest.Backend {
	return &audiotest.Backend{
		DeviceList: []audio.Device{
			{ID: 0, Name: "ASIO Loopback", MaxInputChannels: 2, MaxOutputChannels: 2},
		},
	}
}

func TestSupportedSampleRates_AllAccepted(t *testing.T) {
	p := New(newBackend(), nil, nil)

	rates := p.SupportedSampleRates(0, 2, 2)
	assert.Equal(t, []int{44100, 48000, 88200, 96000, 176400, 192000}, rates)
}

func TestSupportedSampleRates_NeedsBothDirections(t *testing.T) {
	b := newBackend()
	b.InputRates = map[int]bool{44100: true, 48000: true, 96000: true}
	b.OutputRates = map[int]bool{48000: true, 96000: true, 192000: true}

	rates := New(b, nil, nil).SupportedSampleRates(0, 2, 2)
	assert.Equal(t, []int{48000, 96000}, rates)
}

func TestSupportedSampleRates_Fallback(t *testing.T) {
	b := newBackend()
	b.InputRates = map[int]bool{}

	rates := New(b, nil, nil).SupportedSampleRates(0, 2, 2)
	assert.Equal(t, []int{FallbackSampleRate}, rates)
}

func TestSupportedSampleRates_UnknownDeviceFallsBack(t *testing.T) {
	rates := New(newBackend(), nil, nil).SupportedSampleRates(7, 2, 2)
	assert.Equal(t, []int{44100}, rates)
}

func TestSupportedBlockSizes(t *testing.T) {
	b := newBackend()
	b.BlockSizes = map[int]bool{64: true, 256: true, 2048: true, 4096: true}

	sizes := New(b, nil, nil).SupportedBlockSizes(0, 48000, 2, 2)
	assert.Equal(t, []int{64, 256, 2048}, sizes)

	opened := b.Opened()
	require.Len(t, opened, 3)
	for _, p := range opened {
		assert.Equal(t, 48000, p.SampleRate)
		assert.Equal(t, 2, p.InputChannels)
		assert.Equal(t, 2, p.OutputChannels)
	}
	assert.Zero(t, b.OpenStreams(), "probe streams must be closed")
	assert.Equal(t, 1, b.MaxConcurrent())
}

func TestSupportedBlockSizes_Fallback(t *testing.T) {
	b := newBackend()
	b.OpenErr = func(audio.DuplexParams) error { return errors.New("device busy") }

	sizes := New(b, nil, nil).SupportedBlockSizes(0, 48000, 2, 2)
	assert.Equal(t, []int{FallbackBlockSize}, sizes)
}

func TestCustomCandidates(t *testing.T) {
	p := New(newBackend(), []int{22050, 32000}, []int{100, 200})

	assert.Equal(t, []int{22050, 32000}, p.SupportedSampleRates(0, 1, 1))
	assert.Equal(t, []int{100, 200}, p.SupportedBlockSizes(0, 22050, 1, 1))
}
