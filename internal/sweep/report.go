package sweep

import (
	"github.com/google/uuid"
	"github.com/nicola-lunghi/latencycalc/internal/audio"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Row is the outcome of one configuration.
type Row struct {
	Config    audio.StreamConfig
	LatencyMs float64
	Err       error
	Driver    audio.LatencyBounds
}

// Failed reports whether the row carries an error instead of a latency.
func (r Row) Failed() bool {
	return r.Err != nil
}

// Report is a whole sweep in iteration order: rate-major, block-size-minor.
type Report struct {
	RunID       uuid.UUID
	Device      audio.Capabilities
	SampleRates []int
	BlockSizes  []int
	Rows        []Row
}

// Summary aggregates the successful rows of a report.
type Summary struct {
	Count    int
	Failures int
	MinMs    float64
	MaxMs    float64
	MeanMs   float64
	StdDevMs float64
}

// Latencies returns the measured latencies of the successful rows.
func (r *Report) Latencies() []float64 {
	var out []float64
	for _, row := range r.Rows {
		if !row.Failed() {
			out = append(out, row.LatencyMs)
		}
	}
	return out
}

// Summary computes statistics over the successful rows. The deviation is
// the sample standard deviation and is zero below two measurements.
func (r *Report) Summary() Summary {
	lat := r.Latencies()
	s := Summary{
		Count:    len(lat),
		Failures: len(r.Rows) - len(lat),
	}
	if len(lat) == 0 {
		return s
	}
	s.MinMs = floats.Min(lat)
	s.MaxMs = floats.Max(lat)
	s.MeanMs = stat.Mean(lat, nil)
	if len(lat) > 1 {
		s.StdDevMs = stat.StdDev(lat, nil)
	}
	return s
}
