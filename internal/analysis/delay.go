// SPDX-License-Identifier: MIT
/*
Package analysis estimates loopback delay. The emitted pulse is used as a
template and cross-correlated with the recording; the lag of the correlation
maximum is the delay in samples.

The maximum is accepted unconditionally. A silent or noise-only recording
still produces a delay, and Estimate.Peak is exposed so callers can judge
how much of the pulse was actually seen.
*/
package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrEmptySignal       = errors.New("analysis: pulse and recording must not be empty")
	ErrInvalidSampleRate = errors.New("analysis: sample rate must be positive")
)

// Estimate is the outcome of one delay estimation.
type Estimate struct {
	DelaySamples int     // Lag of the correlation maximum; negative when the recording leads.
	LatencyMs    float64 // DelaySamples expressed in milliseconds.
	Peak         float64 // Correlation value at the maximum.
}

// EstimateDelay returns the lag that best aligns recorded with pulse:
// argmax(Correlate(recorded, pulse)) - (len(pulse) - 1).
func EstimateDelay(pulse, recorded []float64, sampleRate int) (Estimate, error) {
	if len(pulse) == 0 || len(recorded) == 0 {
		return Estimate{}, ErrEmptySignal
	}
	if sampleRate <= 0 {
		return Estimate{}, fmt.Errorf("%w: got %d", ErrInvalidSampleRate, sampleRate)
	}

	corr := Correlate(recorded, pulse)
	peakIdx := floats.MaxIdx(corr)
	delay := peakIdx - (len(pulse) - 1)

	return Estimate{
		DelaySamples: delay,
		LatencyMs:    float64(delay) / float64(sampleRate) * 1000,
		Peak:         corr[peakIdx],
	}, nil
}
