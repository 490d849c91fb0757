package report

import (
	"bytes"
	"testing"

	"github.com/nicola-lunghi/latencycalc/internal/audio"
	"github.com/nicola-lunghi/latencycalc/internal/sweep"
	"github.com/stretchr/testify/assert"
)

func TestPrintDevice(t *testing.T) {
	var buf bytes.Buffer
	PrintDevice(&buf, audio.Capabilities{
		Name: "ASIO Fireface", MaxInputChannels: 18, MaxOutputChannels: 18, Latency: bounds,
	})

	out := buf.String()
	assert.Contains(t, out, "Device: ASIO Fireface\n")
	assert.Contains(t, out, "Max input channels: 18\n")
	assert.Contains(t, out, "Driver input latency: 2.90 ms (low), 11.61 ms (high)\n")
	assert.Contains(t, out, "Driver output latency: 5.00 ms (low), 20.00 ms (high)\n")
}

func TestPrintSupported(t *testing.T) {
	var buf bytes.Buffer
	PrintSupported(&buf, &sweep.Report{SampleRates: []int{44100, 48000}, BlockSizes: []int{64, 128, 256}})

	assert.Equal(t, "Supported sample rates: 44100, 48000\nSupported block sizes: 64, 128, 256\n", buf.String())
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, &sweep.Report{Rows: sampleRows()})

	out := buf.String()
	assert.Contains(t, out, "Sample Rate (Hz)")
	assert.Contains(t, out, "10.67")
	assert.Contains(t, out, "Error: device open failure")
	assert.Contains(t, out, "2 measured, 1 failed")
}

func TestRenderTable_AllFailed(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, &sweep.Report{Rows: sampleRows()[1:2]})
	assert.Contains(t, buf.String(), "No successful measurements (1 failed)")
}
