// SPDX-License-Identifier: MIT
package session

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Capture buffer lifecycle. The backend thread is the only writer while
// writing; the controller may read only once the stream has been closed.
const (
	phaseWriting uint32 = iota
	phaseClosed
	phaseReadable
)

var errNotClosed = errors.New("capture read before the stream was closed")

// duplex is the block handler of one measurement. It owns the pulse and the
// capture buffer, and offset is its only mutable state across callbacks.
type duplex struct {
	pulse   []float32
	capture []float32

	inChannels  int
	outChannels int
	inIdx       int
	outIdx      int

	offset  int // frames seen so far, including dropped ones
	dropped int // frames beyond the capture window

	phase atomic.Uint32

	faulted atomic.Bool
	fault   any
}

func newDuplex(pulse []float32, inChannels, outChannels, inIdx, outIdx int) *duplex {
	return &duplex{
		pulse:       pulse,
		capture:     make([]float32, len(pulse)),
		inChannels:  inChannels,
		outChannels: outChannels,
		inIdx:       inIdx,
		outIdx:      outIdx,
	}
}

// OnBlock implements audio.BlockHandler. It runs on the backend's real-time
// thread: no allocation, no locks, no blocking.
func (d *duplex) OnBlock(in, out []float32, frames int) {
	defer d.recoverFault()

	clear(out)
	if d.phase.Load() != phaseWriting || d.faulted.Load() {
		return
	}

	for i := 0; i < frames; i++ {
		pos := d.offset + i
		if pos >= len(d.capture) {
			d.dropped += frames - i
			break
		}
		d.capture[pos] = in[i*d.inChannels+d.inIdx]
		out[i*d.outChannels+d.outIdx] = d.pulse[pos]
	}
	d.offset += frames
}

func (d *duplex) recoverFault() {
	if r := recover(); r != nil {
		d.fault = r
		d.faulted.Store(true)
	}
}

// seal moves the buffer out of the writing phase. It must only be called
// after the stream is closed, at which point no callback can still run.
func (d *duplex) seal() {
	d.phase.CompareAndSwap(phaseWriting, phaseClosed)
}

// err reports a recovered callback panic.
func (d *duplex) err() error {
	if !d.faulted.Load() {
		return nil
	}
	return fmt.Errorf("callback panicked after %d frames: %v", d.offset, d.fault)
}

// take hands the capture to the reader. It fails while the stream may still
// be writing.
func (d *duplex) take() ([]float32, error) {
	if !d.phase.CompareAndSwap(phaseClosed, phaseReadable) && d.phase.Load() != phaseReadable {
		return nil, errNotClosed
	}
	return d.capture, nil
}
