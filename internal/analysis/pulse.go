// SPDX-License-Identifier: MIT
package analysis

// Samples converts a duration in seconds to a whole number of samples at
// sampleRate, truncating any fractional sample.
func Samples(seconds float64, sampleRate int) int {
	return int(seconds * float64(sampleRate))
}

// Pulse returns the test signal for one measurement: captureSeconds of
// silence whose first pulseSeconds worth of samples are 1.0. The result is
// never shorter than the leading run of ones.
func Pulse(sampleRate int, captureSeconds, pulseSeconds float64) []float64 {
	total := Samples(captureSeconds, sampleRate)
	ones := min(Samples(pulseSeconds, sampleRate), total)

	pulse := make([]float64, total)
	for i := 0; i < ones; i++ {
		pulse[i] = 1.0
	}
	return pulse
}
