// SPDX-License-Identifier: MIT
/*
Package audio wraps the PortAudio host behind a small Backend interface:
device enumeration, per-direction format checks and duplex streams whose
callback hands interleaved float32 blocks to a BlockHandler.

Real-time rules for handlers:
- The callback runs on a PortAudio-owned thread
- Handlers receive pre-allocated buffers and must not allocate or block
- Exactly one stream is open at a time; the caller owns its lifetime
*/
package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// checkFrames only sizes the dummy buffer handed to IsFormatSupported, which
// uses it to infer the float32 sample format.
const checkFrames = 256

// PortAudio is the Backend backed by the host's PortAudio library.
// Initialize must have been called first.
type PortAudio struct{}

var _ Backend = PortAudio{}

// Devices returns all host devices in enumeration order.
func (PortAudio) Devices() ([]Device, error) {
	infos, err := paDevices()
	if err != nil {
		return nil, err
	}
	devices := make([]Device, len(infos))
	for i, info := range infos {
		devices[i] = fromDeviceInfo(i, info)
	}
	return devices, nil
}

func deviceInfo(deviceID int) (*portaudio.DeviceInfo, error) {
	infos, err := paDevices()
	if err != nil {
		return nil, err
	}
	if deviceID < 0 || deviceID >= len(infos) {
		return nil, fmt.Errorf("%w: invalid device ID %d", ErrNoDevice, deviceID)
	}
	return infos[deviceID], nil
}

// CheckInput reports whether an input-only stream at the given rate would
// be accepted.
func (PortAudio) CheckInput(deviceID, channels, sampleRate int) error {
	info, err := deviceInfo(deviceID)
	if err != nil {
		return err
	}
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   info,
			Channels: channels,
			Latency:  info.DefaultHighInputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: checkFrames,
	}
	if err := portaudio.IsFormatSupported(params, make([]float32, checkFrames*max(channels, 1))); err != nil {
		return fmt.Errorf("%w: input %d ch @ %d Hz: %w", ErrConfigUnsupported, channels, sampleRate, err)
	}
	return nil
}

// CheckOutput reports whether an output-only stream at the given rate would
// be accepted.
func (PortAudio) CheckOutput(deviceID, channels, sampleRate int) error {
	info, err := deviceInfo(deviceID)
	if err != nil {
		return err
	}
	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   info,
			Channels: channels,
			Latency:  info.DefaultHighOutputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: checkFrames,
	}
	if err := portaudio.IsFormatSupported(params, make([]float32, checkFrames*max(channels, 1))); err != nil {
		return fmt.Errorf("%w: output %d ch @ %d Hz: %w", ErrConfigUnsupported, channels, sampleRate, err)
	}
	return nil
}

// OpenDuplex opens, but does not start, a play/record stream on a single
// device. The handler is invoked with interleaved float32 buffers.
func (PortAudio) OpenDuplex(p DuplexParams, h BlockHandler) (Stream, error) {
	info, err := deviceInfo(p.DeviceID)
	if err != nil {
		return nil, err
	}
	if p.InputChannels < 1 || p.OutputChannels < 1 {
		return nil, fmt.Errorf("%w: duplex stream needs input and output channels (got %d/%d)",
			ErrDeviceOpen, p.InputChannels, p.OutputChannels)
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   info,
			Channels: p.InputChannels,
			Latency:  info.DefaultHighInputLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Device:   info,
			Channels: p.OutputChannels,
			Latency:  info.DefaultHighOutputLatency,
		},
		SampleRate:      float64(p.SampleRate),
		FramesPerBuffer: p.BlockSize,
	}

	outChannels := p.OutputChannels
	stream, err := portaudio.OpenStream(params, func(in, out []float32) {
		h.OnBlock(in, out, len(out)/outChannels)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %d Hz / %d frames: %w", ErrDeviceOpen, p.SampleRate, p.BlockSize, err)
	}
	return stream, nil
}
