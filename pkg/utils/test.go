// Package utils holds signal generators and transport doubles shared by the
// package tests.
package utils

import (
	"math"
	"sync"
)

// MockTransport implements transport.Transport by recording what is sent.
type MockTransport struct {
	mu     sync.Mutex
	Sent   []any
	Err    error // returned from every Send when set
	Closed bool
}

// Send stores the data for later inspection instead of transmitting.
func (m *MockTransport) Send(data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, data)
	return m.Err
}

// Close marks the transport closed.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Messages returns a copy of everything sent so far.
func (m *MockTransport) Messages() []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]any(nil), m.Sent...)
}

// SineWave returns size samples of a sine at frequency Hz with the given
// peak amplitude.
func SineWave(size int, sampleRate, frequency, amplitude float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = math.Sin(2*math.Pi*frequency*t) * amplitude
	}
	return buffer
}

// Shift returns a copy of signal delayed by d samples: zeros enter at the
// front and the tail beyond the original length is dropped.
func Shift(signal []float64, d int) []float64 {
	out := make([]float64, len(signal))
	if d < 0 || d >= len(signal) {
		return out
	}
	copy(out[d:], signal)
	return out
}
