package transport

import (
	"encoding/json"

	applog "github.com/nicola-lunghi/latencycalc/internal/log"
)

// LoggingTransport writes every event to the debug log. It is the transport
// used when no WebSocket endpoint is configured.
type LoggingTransport struct{}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	return &LoggingTransport{}
}

// Send logs the event as JSON, or with %+v when it cannot be marshalled.
func (lt *LoggingTransport) Send(data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		applog.Debugf("transport: event (%T): %+v", data, data)
		return nil
	}
	applog.Debugf("transport: event %s", payload)
	return nil
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	return nil
}

var _ Transport = (*LoggingTransport)(nil)
