package audio

import (
	"fmt"
	"io"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// PortAudio library entry points, replaced in tests.
var (
	paLibInitialize = portaudio.Initialize
	paLibTerminate  = portaudio.Terminate
	paLibDevices    = portaudio.Devices
)

// Initialize sets up the PortAudio subsystem.
// This must be called before any audio operations and paired with a Terminate() call.
func Initialize() error {
	if err := paLibInitialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return nil
}

// Terminate cleanly shuts down the PortAudio subsystem.
// This should be deferred immediately after Initialize().
func Terminate() error {
	if err := paLibTerminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}

// paDevices returns all PortAudio devices, never a nil slice on success.
func paDevices() ([]*portaudio.DeviceInfo, error) {
	devices, err := paLibDevices()
	if err != nil {
		return nil, err
	}
	if devices == nil {
		devices = []*portaudio.DeviceInfo{}
	}
	return devices, nil
}

func fromDeviceInfo(id int, info *portaudio.DeviceInfo) Device {
	return Device{
		ID:                id,
		Name:              info.Name,
		MaxInputChannels:  info.MaxInputChannels,
		MaxOutputChannels: info.MaxOutputChannels,
		DefaultSampleRate: info.DefaultSampleRate,
		Latency: LatencyBounds{
			LowInput:   info.DefaultLowInputLatency,
			HighInput:  info.DefaultHighInputLatency,
			LowOutput:  info.DefaultLowOutputLatency,
			HighOutput: info.DefaultHighOutputLatency,
		},
	}
}

// Lookup returns the device with the given enumeration index.
func Lookup(l DeviceLister, deviceID int) (Device, error) {
	devices, err := l.Devices()
	if err != nil {
		return Device{}, err
	}
	if deviceID < 0 || deviceID >= len(devices) {
		return Device{}, fmt.Errorf("%w: invalid device ID %d (have %d devices)", ErrNoDevice, deviceID, len(devices))
	}
	return devices[deviceID], nil
}

// FindByMarker returns the first device whose name contains marker.
func FindByMarker(devices []Device, marker string) (Device, error) {
	for _, d := range devices {
		if marker != "" && strings.Contains(d.Name, marker) {
			return d, nil
		}
	}
	return Device{}, fmt.Errorf("%w: no device name contains %q", ErrNoDevice, marker)
}

// Kind describes which directions a device supports.
func (d Device) Kind() string {
	switch {
	case d.MaxInputChannels > 0 && d.MaxOutputChannels > 0:
		return "Input/Output"
	case d.MaxInputChannels > 0:
		return "Input"
	case d.MaxOutputChannels > 0:
		return "Output"
	default:
		return "None"
	}
}

// ListDevices prints every device with its channel counts, default sample
// rate and driver latency bounds.
func ListDevices(w io.Writer, devices []Device) {
	fmt.Fprintf(w, "\nAvailable Audio Devices\n\n")

	for _, d := range devices {
		lowIn, highIn, lowOut, highOut := d.Latency.Milliseconds()
		fmt.Fprintf(w, "[%d] %s (%s)\n", d.ID, d.Name, d.Kind())
		fmt.Fprintf(w, "    Input channels: %d, Output channels: %d\n", d.MaxInputChannels, d.MaxOutputChannels)
		fmt.Fprintf(w, "    Default sample rate: %.0f Hz\n", d.DefaultSampleRate)
		fmt.Fprintf(w, "    Input latency: Low=%.2fms, High=%.2fms\n", lowIn, highIn)
		fmt.Fprintf(w, "    Output latency: Low=%.2fms, High=%.2fms\n", lowOut, highOut)
		fmt.Fprintln(w)
	}
}
