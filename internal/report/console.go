// Package report renders sweep results to the console and to CSV files.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nicola-lunghi/latencycalc/internal/audio"
	"github.com/nicola-lunghi/latencycalc/internal/sweep"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E06C75")).
			Padding(0, 1)
)

// PrintDevice writes the device header printed before a sweep.
func PrintDevice(w io.Writer, caps audio.Capabilities) {
	lowIn, highIn, lowOut, highOut := caps.Latency.Milliseconds()

	fmt.Fprintf(w, "Device: %s\n", caps.Name)
	fmt.Fprintf(w, "Max input channels: %d\n", caps.MaxInputChannels)
	fmt.Fprintf(w, "Max output channels: %d\n", caps.MaxOutputChannels)
	fmt.Fprintf(w, "Driver input latency: %.2f ms (low), %.2f ms (high)\n", lowIn, highIn)
	fmt.Fprintf(w, "Driver output latency: %.2f ms (low), %.2f ms (high)\n", lowOut, highOut)
}

// PrintSupported writes the probed sample rates and block sizes.
func PrintSupported(w io.Writer, rep *sweep.Report) {
	fmt.Fprintf(w, "Supported sample rates: %s\n", joinInts(rep.SampleRates))
	fmt.Fprintf(w, "Supported block sizes: %s\n", joinInts(rep.BlockSizes))
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

// RenderTable writes the results as a console table followed by a summary
// line.
func RenderTable(w io.Writer, rep *sweep.Report) {
	failed := make(map[int]bool)
	cells := make([][]string, len(rep.Rows))
	for i, row := range rep.Rows {
		cells[i] = []string{
			strconv.Itoa(row.Config.SampleRate),
			strconv.Itoa(row.Config.BlockSize),
			strconv.Itoa(row.Config.InputChannel),
			strconv.Itoa(row.Config.OutputChannel),
			FormatLatency(row),
		}
		failed[i] = row.Failed()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Sample Rate (Hz)", "Block Size", "In", "Out", "Latency (ms)").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case failed[row] && col == 4:
				return errorStyle
			default:
				return cellStyle
			}
		})

	fmt.Fprintln(w, t.Render())

	s := rep.Summary()
	if s.Count == 0 {
		fmt.Fprintf(w, "No successful measurements (%d failed)\n", s.Failures)
		return
	}
	fmt.Fprintf(w, "%d measured, %d failed: min %.2f ms, max %.2f ms, mean %.2f ms, stddev %.2f ms\n",
		s.Count, s.Failures, s.MinMs, s.MaxMs, s.MeanMs, s.StdDevMs)
}
