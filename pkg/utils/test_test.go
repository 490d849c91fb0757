// SPDX-License-Identifier: MIT
package utils

import (
	"errors"
	"math"
	"testing"
)

func TestMockTransport(t *testing.T) {
	tests := []struct {
		name string
		data any
	}{
		{"Nil", nil},
		{"String", "row"},
		{"Struct", struct{ LatencyMs float64 }{12.5}},
	}

	mt := &MockTransport{}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := mt.Send(tt.data); err != nil {
				t.Errorf("MockTransport.Send() error = %v", err)
			}
			if got := len(mt.Messages()); got != i+1 {
				t.Errorf("messages = %d, want %d", got, i+1)
			}
		})
	}

	mt.Err = errors.New("offline")
	if err := mt.Send("x"); err == nil {
		t.Error("expected configured error")
	}
	_ = mt.Close()
	if !mt.Closed {
		t.Error("Close did not mark the transport")
	}
}

func TestSineWave(t *testing.T) {
	const rate = 48000
	wave := SineWave(rate, rate, 1000, 0.5)

	if len(wave) != rate {
		t.Fatalf("length = %d, want %d", len(wave), rate)
	}
	peak := 0.0
	for _, v := range wave {
		peak = math.Max(peak, math.Abs(v))
	}
	if math.Abs(peak-0.5) > 1e-3 {
		t.Errorf("peak = %f, want 0.5", peak)
	}
	// A quarter period of 1 kHz at 48 kHz is 12 samples.
	if math.Abs(wave[12]-0.5) > 1e-9 {
		t.Errorf("wave[12] = %f, want 0.5", wave[12])
	}
}

func TestShift(t *testing.T) {
	src := []float64{1, 2, 3, 4}

	tests := []struct {
		d    int
		want []float64
	}{
		{0, []float64{1, 2, 3, 4}},
		{1, []float64{0, 1, 2, 3}},
		{3, []float64{0, 0, 0, 1}},
		{4, []float64{0, 0, 0, 0}},
		{-1, []float64{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		got := Shift(src, tt.d)
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("Shift(%d) = %v, want %v", tt.d, got, tt.want)
				break
			}
		}
	}
	if src[0] != 1 {
		t.Error("Shift modified its input")
	}
}
