// SPDX-License-Identifier: MIT
package analysis

import (
	"github.com/nicola-lunghi/latencycalc/pkg/bitint"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Correlate returns the full cross-correlation of x against template:
//
//	z[k] = sum_l x[l] * template[l - k + len(template) - 1]
//
// for k in [0, len(x)+len(template)-1). Index len(template)-1 is zero lag.
// It is computed as IFFT(FFT(x) * conj(FFT(template))) on buffers
// zero-padded to the next power of two, which makes the circular result
// equal to the linear one.
func Correlate(x, template []float64) []float64 {
	if len(x) == 0 || len(template) == 0 {
		return nil
	}

	outLen := len(x) + len(template) - 1
	size := bitint.NextPowerOfTwo(outLen)
	fft := fourier.NewFFT(size)

	padded := make([]float64, size)
	copy(padded, x)
	xCoeffs := fft.Coefficients(nil, padded)

	clear(padded)
	copy(padded, template)
	tCoeffs := fft.Coefficients(nil, padded)

	for i := range xCoeffs {
		t := tCoeffs[i]
		xCoeffs[i] *= complex(real(t), -imag(t))
	}

	// gonum leaves the inverse transform unnormalised.
	circular := fft.Sequence(padded, xCoeffs)
	scale := 1 / float64(size)

	// Positive lags sit at the start of the circular buffer, negative lags
	// wrap around to its end.
	neg := len(template) - 1
	out := make([]float64, outLen)
	for k := 0; k < neg; k++ {
		out[k] = circular[size-neg+k] * scale
	}
	for k := neg; k < outLen; k++ {
		out[k] = circular[k-neg] * scale
	}
	return out
}

// CorrelateDirect computes the same result as Correlate in O(N*M). It is
// the reference the FFT path is checked against.
func CorrelateDirect(x, template []float64) []float64 {
	if len(x) == 0 || len(template) == 0 {
		return nil
	}

	neg := len(template) - 1
	out := make([]float64, len(x)+neg)
	for k := range out {
		lag := k - neg
		var sum float64
		for l := max(0, lag); l < len(x) && l-lag < len(template); l++ {
			sum += x[l] * template[l-lag]
		}
		out[k] = sum
	}
	return out
}
