package audio

import "errors"

// Error classes shared by the probe, session and sweep. Concrete errors wrap
// one of these so callers can branch with errors.Is.
var (
	ErrConfigUnsupported = errors.New("configuration unsupported")
	ErrChannelOutOfRange = errors.New("channel out of range")
	ErrDeviceOpen        = errors.New("device open failure")
	ErrCallback          = errors.New("audio callback failure")
	ErrNoDevice          = errors.New("no device found")
	ErrSinkWrite         = errors.New("result sink write failure")
)
