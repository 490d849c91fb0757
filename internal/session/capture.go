package session

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	paudio "github.com/nicola-lunghi/latencycalc/internal/audio"
)

const captureBitDepth = 24

// CaptureFileName names the dump of one configuration.
func CaptureFileName(cfg paudio.StreamConfig) string {
	return fmt.Sprintf("capture-%d-%d.wav", cfg.SampleRate, cfg.BlockSize)
}

// WriteCapture stores a measurement as a stereo WAV file: the emitted pulse
// on the left channel and the recording on the right.
func WriteCapture(path string, sampleRate int, pulse, captured []float32) error {
	if len(pulse) != len(captured) {
		return fmt.Errorf("pulse and capture lengths differ (%d != %d)", len(pulse), len(captured))
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(file, sampleRate, captureBitDepth, 2, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, 2*len(captured)),
		SourceBitDepth: captureBitDepth,
	}
	for i := range captured {
		buf.Data[2*i] = toPCM(pulse[i])
		buf.Data[2*i+1] = toPCM(captured[i])
	}

	if err := enc.Write(buf); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		file.Close()
		return fmt.Errorf("finalise %s: %w", path, err)
	}
	return file.Close()
}

func toPCM(v float32) int {
	const full = 1<<(captureBitDepth-1) - 1
	f := math.Max(-1, math.Min(1, float64(v)))
	return int(math.Round(f * full))
}
