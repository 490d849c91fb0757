package audio

// DuplexParams describes one synchronized play/record stream.
type DuplexParams struct {
	DeviceID       int
	SampleRate     int
	BlockSize      int
	InputChannels  int
	OutputChannels int
}

// BlockHandler is invoked by the backend once per audio block on its
// real-time thread. in and out are interleaved and hold frames frames of
// InputChannels and OutputChannels samples. Implementations must not block
// or allocate.
type BlockHandler interface {
	OnBlock(in, out []float32, frames int)
}

// Stream is an opened duplex stream. Close must be called exactly once,
// whether or not the stream was started.
type Stream interface {
	Start() error
	Stop() error
	Close() error
}

// DeviceLister enumerates the host's devices.
type DeviceLister interface {
	Devices() ([]Device, error)
}

// Backend is the audio host the core drives. Check* and OpenDuplex failures
// wrap ErrConfigUnsupported and ErrDeviceOpen respectively.
type Backend interface {
	DeviceLister
	CheckInput(deviceID, channels, sampleRate int) error
	CheckOutput(deviceID, channels, sampleRate int) error
	OpenDuplex(p DuplexParams, h BlockHandler) (Stream, error)
}
