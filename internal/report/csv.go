package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nicola-lunghi/latencycalc/internal/audio"
	"github.com/nicola-lunghi/latencycalc/internal/sweep"
)

// Header is the first CSV record.
var Header = []string{
	"Sample Rate (Hz)",
	"Block Size",
	"Input Channel",
	"Output Channel",
	"Measured Latency (ms)",
	"Driver Low Input Latency (ms)",
	"Driver High Input Latency (ms)",
	"Driver Low Output Latency (ms)",
	"Driver High Output Latency (ms)",
}

const errorPrefix = "Error: "

// FormatLatency renders a row's latency with two decimals, or its error.
func FormatLatency(row sweep.Row) string {
	if row.Failed() {
		return errorPrefix + row.Err.Error()
	}
	return strconv.FormatFloat(row.LatencyMs, 'f', 2, 64)
}

func formatMs(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// EncodeCSV writes the header and one record per row.
func EncodeCSV(w io.Writer, rows []sweep.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, row := range rows {
		lowIn, highIn, lowOut, highOut := row.Driver.Milliseconds()
		record := []string{
			strconv.Itoa(row.Config.SampleRate),
			strconv.Itoa(row.Config.BlockSize),
			strconv.Itoa(row.Config.InputChannel),
			strconv.Itoa(row.Config.OutputChannel),
			FormatLatency(row),
			formatMs(lowIn),
			formatMs(highIn),
			formatMs(lowOut),
			formatMs(highOut),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV creates (or truncates) path and writes rows to it. Failures wrap
// audio.ErrSinkWrite.
func WriteCSV(path string, rows []sweep.Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", audio.ErrSinkWrite, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", audio.ErrSinkWrite, cerr)
		}
	}()

	if err := EncodeCSV(f, rows); err != nil {
		return fmt.Errorf("%w: %s: %w", audio.ErrSinkWrite, path, err)
	}
	return nil
}

// Record is one parsed CSV line. Error is set instead of LatencyMs for
// failed configurations.
type Record struct {
	Config    audio.StreamConfig
	LatencyMs float64
	Error     string
	// Driver bounds in milliseconds: low-in, high-in, low-out, high-out.
	Driver    [4]float64
}

// ReadCSV parses a file produced by EncodeCSV.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, h := range Header {
		if head[i] != h {
			return nil, fmt.Errorf("unexpected csv column %d: %q", i, head[i])
		}
	}

	var records []Record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		rec, err := parseRecord(fields)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		records = append(records, rec)
	}
}

func parseRecord(fields []string) (Record, error) {
	var ints [4]int
	for i := range ints {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return Record{}, fmt.Errorf("%s: %w", Header[i], err)
		}
		ints[i] = v
	}

	rec := Record{Config: audio.StreamConfig{
		SampleRate:    ints[0],
		BlockSize:     ints[1],
		InputChannel:  ints[2],
		OutputChannel: ints[3],
	}}

	if msg, ok := strings.CutPrefix(fields[4], errorPrefix); ok {
		rec.Error = msg
	} else {
		v, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return Record{}, fmt.Errorf("%s: %w", Header[4], err)
		}
		rec.LatencyMs = v
	}

	for i := range rec.Driver {
		v, err := strconv.ParseFloat(fields[5+i], 64)
		if err != nil {
			return Record{}, fmt.Errorf("%s: %w", Header[5+i], err)
		}
		rec.Driver[i] = v
	}
	return rec, nil
}
