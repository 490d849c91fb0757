// Package transport publishes measurement rows while a sweep is running.
package transport

// Transport defines a generic interface for sending sweep events.
// Implementations must be safe for use from one producer goroutine while
// serving their own clients concurrently.
type Transport interface {
	Send(data any) error
	Close() error
}
