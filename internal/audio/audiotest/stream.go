package audiotest

import (
	"errors"
	"sync"

	"github.com/nicola-lunghi/latencycalc/internal/audio"
)

// stream delivers its blocks from a separate goroutine, like a driver
// thread. Stop waits for every block to have been delivered.
type stream struct {
	backend *Backend
	params  audio.DuplexParams
	handler audio.BlockHandler

	wg      sync.WaitGroup
	started bool
	closed  bool
}

func (s *stream) Start() error {
	if s.closed {
		return errors.New("stream closed")
	}
	if s.backend.StartErr != nil {
		return s.backend.StartErr
	}
	s.started = true
	s.wg.Add(1)
	go s.run()
	return nil
}

func (s *stream) Stop() error {
	s.wg.Wait()
	return nil
}

func (s *stream) Close() error {
	if s.closed {
		return errors.New("stream already closed")
	}
	s.wg.Wait()
	s.closed = true
	s.backend.released()
	return nil
}

func (s *stream) run() {
	defer s.wg.Done()

	b := s.backend
	p := s.params
	frames := p.BlockSize
	blocks := b.Blocks
	if blocks == 0 {
		blocks = (p.SampleRate+frames-1)/frames + 2
	}
	gain := b.Gain
	if gain == 0 {
		gain = 1
	}

	in := make([]float32, frames*p.InputChannels)
	out := make([]float32, frames*p.OutputChannels)
	history := make([]float32, 0, blocks*frames)

	for blk := 0; blk < blocks; blk++ {
		clear(in)
		start := blk * frames
		for i := 0; i < frames; i++ {
			src := start + i - b.LoopDelay
			if src >= 0 && src < len(history) && b.LoopIn < p.InputChannels {
				in[i*p.InputChannels+b.LoopIn] = history[src] * gain
			}
		}

		input := in
		if b.ShortInput {
			input = in[:0]
		}
		s.handler.OnBlock(input, out, frames)

		for i := 0; i < frames; i++ {
			var v float32
			if b.LoopOut < p.OutputChannels {
				v = out[i*p.OutputChannels+b.LoopOut]
			}
			history = append(history, v)
		}
	}
}
