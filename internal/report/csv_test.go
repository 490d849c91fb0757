package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nicola-lunghi/latencycalc/internal/audio"
	"github.com/nicola-lunghi/latencycalc/internal/sweep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bounds = audio.LatencyBounds{
	LowInput:   2900 * time.Microsecond,
	HighInput:  11610 * time.Microsecond,
	LowOutput:  5 * time.Millisecond,
	HighOutput: 20 * time.Millisecond,
}

func sampleRows() []sweep.Row {
	return []sweep.Row{
		{Config: audio.StreamConfig{SampleRate: 48000, BlockSize: 256}, LatencyMs: 10.6666, Driver: bounds},
		{
			Config: audio.StreamConfig{SampleRate: 48000, BlockSize: 512, InputChannel: 1, OutputChannel: 1},
			Err:    fmt.Errorf("%w: buffer size, rejected", audio.ErrDeviceOpen),
			Driver: bounds,
		},
		{Config: audio.StreamConfig{SampleRate: 96000, BlockSize: 32}, LatencyMs: -0.3333, Driver: bounds},
	}
}

func TestEncodeCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, sampleRows()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Join(Header, ","), lines[0])
	assert.Equal(t, "48000,256,0,0,10.67,2.90,11.61,5.00,20.00", lines[1])
	assert.Equal(t, `48000,512,1,1,"Error: device open failure: buffer size, rejected",2.90,11.61,5.00,20.00`, lines[2])
	assert.Equal(t, "96000,32,0,0,-0.33,2.90,11.61,5.00,20.00", lines[3])
}

func TestCSVRoundTrip(t *testing.T) {
	rows := sampleRows()
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, rows))

	records, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, records, len(rows))

	for i, row := range rows {
		rec := records[i]
		assert.Equal(t, row.Config, rec.Config)
		if row.Failed() {
			assert.Equal(t, row.Err.Error(), rec.Error)
			continue
		}
		assert.Empty(t, rec.Error)
		assert.InDelta(t, row.LatencyMs, rec.LatencyMs, 0.005)
		assert.Equal(t, [4]float64{2.90, 11.61, 5.00, 20.00}, rec.Driver)
	}
}

func TestReadCSV_Errors(t *testing.T) {
	header := strings.Join(Header, ",")
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", strings.Replace(header, "Block Size", "Buffer", 1)},
		{"short record", header + "\n48000,256\n"},
		{"bad rate", header + "\nfast,256,0,0,1.00,0,0,0,0\n"},
		{"bad latency", header + "\n48000,256,0,0,soon,0,0,0,0\n"},
		{"bad driver bound", header + "\n48000,256,0,0,1.00,0,x,0,0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latency_results.csv")
	require.NoError(t, WriteCSV(path, sampleRows()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := ReadCSV(f)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestWriteCSV_SinkFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")
	err := WriteCSV(path, sampleRows())
	assert.True(t, errors.Is(err, audio.ErrSinkWrite))
}
