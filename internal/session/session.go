// SPDX-License-Identifier: MIT
/*
Package session runs one latency measurement: a duplex stream that plays a
pulse on one output channel while recording one input channel, followed by
a cross-correlation delay estimate.

Ordering:
- The stream is opened only after the channel selection is validated
- The controller sleeps for the capture window while the backend writes
- The stream is closed on every path before the capture is read
*/
package session

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/nicola-lunghi/latencycalc/internal/analysis"
	"github.com/nicola-lunghi/latencycalc/internal/audio"
	"github.com/nicola-lunghi/latencycalc/internal/config"
	applog "github.com/nicola-lunghi/latencycalc/internal/log"
)

// Options shape every measurement of a session.
type Options struct {
	CaptureSeconds    float64
	PulseSeconds      float64
	MaxActiveChannels int
	CaptureDir        string // write a WAV per measurement when set
}

// DefaultOptions returns a 1s capture with a 1ms pulse on at most two
// channels per direction.
func DefaultOptions() Options {
	return Options{
		CaptureSeconds:    config.DefaultCaptureSeconds,
		PulseSeconds:      config.DefaultPulseSeconds,
		MaxActiveChannels: config.DefaultMaxActiveChannels,
	}
}

// Result is a successful measurement.
type Result struct {
	analysis.Estimate
	Frames  int // frames delivered by the backend
	Dropped int // frames beyond the capture window, ignored
}

// Session measures loopback latency on a backend, one stream at a time.
type Session struct {
	backend audio.Backend
	opts    Options
	sleep   func(time.Duration)
}

// New returns a Session. Zero fields of opts take their defaults.
func New(backend audio.Backend, opts Options) *Session {
	def := DefaultOptions()
	if opts.CaptureSeconds <= 0 {
		opts.CaptureSeconds = def.CaptureSeconds
	}
	if opts.PulseSeconds <= 0 {
		opts.PulseSeconds = def.PulseSeconds
	}
	if opts.MaxActiveChannels <= 0 {
		opts.MaxActiveChannels = def.MaxActiveChannels
	}
	return &Session{
		backend: backend,
		opts:    opts,
		sleep:   time.Sleep,
	}
}

func (s *Session) captureWindow() time.Duration {
	return time.Duration(s.opts.CaptureSeconds * float64(time.Second))
}

// Measure emits one pulse at cfg and estimates the loopback delay. All
// failures are returned as errors wrapping one of the audio error classes;
// no hardware is touched when the channel selection is invalid.
func (s *Session) Measure(deviceID int, cfg audio.StreamConfig) (Result, error) {
	dev, err := audio.Lookup(s.backend, deviceID)
	if err != nil {
		return Result{}, err
	}
	inChannels, outChannels := dev.Capabilities().ActiveChannels(s.opts.MaxActiveChannels)
	if err := cfg.Validate(inChannels, outChannels); err != nil {
		return Result{}, err
	}

	pulse := analysis.Pulse(cfg.SampleRate, s.opts.CaptureSeconds, s.opts.PulseSeconds)
	d := newDuplex(toFloat32(pulse), inChannels, outChannels, cfg.InputChannel, cfg.OutputChannel)

	stream, err := s.backend.OpenDuplex(audio.DuplexParams{
		DeviceID:       deviceID,
		SampleRate:     cfg.SampleRate,
		BlockSize:      cfg.BlockSize,
		InputChannels:  inChannels,
		OutputChannels: outChannels,
	}, d)
	if err != nil {
		return Result{}, err
	}

	if err := s.run(stream, d); err != nil {
		return Result{}, err
	}
	if err := d.err(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", audio.ErrCallback, err)
	}

	captured, err := d.take()
	if err != nil {
		return Result{}, err
	}
	if d.offset == 0 {
		applog.Warnf("session: no audio blocks delivered at %s", cfg)
	}

	est, err := analysis.EstimateDelay(pulse, toFloat64(captured), cfg.SampleRate)
	if err != nil {
		return Result{}, err
	}

	if s.opts.CaptureDir != "" {
		path := filepath.Join(s.opts.CaptureDir, CaptureFileName(cfg))
		if err := WriteCapture(path, cfg.SampleRate, d.pulse, captured); err != nil {
			applog.Warnf("session: capture dump failed: %v", err)
		} else {
			applog.Debugf("session: capture written to %s", path)
		}
	}

	return Result{
		Estimate: est,
		Frames:   d.offset,
		Dropped:  d.dropped,
	}, nil
}

// run starts the stream, waits out the capture window and closes it. The
// buffer is sealed after Close on every path.
func (s *Session) run(stream audio.Stream, d *duplex) (err error) {
	defer func() {
		if cerr := stream.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close stream: %w", audio.ErrDeviceOpen, cerr)
		}
		d.seal()
	}()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("%w: start stream: %w", audio.ErrDeviceOpen, err)
	}

	s.sleep(s.captureWindow())

	if err := stream.Stop(); err != nil {
		return fmt.Errorf("%w: stop stream: %w", audio.ErrDeviceOpen, err)
	}
	return nil
}

func toFloat32(src []float64) []float32 {
	dst := make([]float32, len(src))
	for i, v := range src {
		dst[i] = float32(v)
	}
	return dst
}

func toFloat64(src []float32) []float64 {
	dst := make([]float64, len(src))
	for i, v := range src {
		dst[i] = float64(v)
	}
	return dst
}
