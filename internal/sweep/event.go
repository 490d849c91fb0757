package sweep

import "github.com/google/uuid"

// Event is the JSON form of a row published while a sweep runs.
type Event struct {
	RunID         string   `json:"run_id"`
	Index         int      `json:"index"`
	SampleRate    int      `json:"sample_rate"`
	BlockSize     int      `json:"block_size"`
	InputChannel  int      `json:"input_channel"`
	OutputChannel int      `json:"output_channel"`
	LatencyMs     *float64 `json:"latency_ms,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// NewEvent converts the index-th row of run runID.
func NewEvent(runID uuid.UUID, index int, row Row) Event {
	ev := Event{
		RunID:         runID.String(),
		Index:         index,
		SampleRate:    row.Config.SampleRate,
		BlockSize:     row.Config.BlockSize,
		InputChannel:  row.Config.InputChannel,
		OutputChannel: row.Config.OutputChannel,
	}
	if row.Failed() {
		ev.Error = row.Err.Error()
	} else {
		latency := row.LatencyMs
		ev.LatencyMs = &latency
	}
	return ev
}
