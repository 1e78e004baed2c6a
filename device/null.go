// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"
	"sync"
	"time"
)

// NullHost is a hardware-free Host. Input streams produce silence and output
// streams discard samples, both paced in real time according to the stream's
// sample rate. It lets the mixer run end-to-end on machines with no audio
// hardware, and it drives the examples.
type NullHost struct{}

func (NullHost) OpenInput(p Params) (Stream, error) {
	return openNull(p)
}

func (NullHost) OpenOutput(p Params) (Stream, error) {
	return openNull(p)
}

func openNull(p Params) (Stream, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDevice, err)
	}
	return &nullStream{params: p}, nil
}

type nullStream struct {
	params Params

	mtx    sync.Mutex
	closed bool
}

func (s *nullStream) SampleRate() int { return s.params.SampleRate }
func (s *nullStream) Channels() int   { return s.params.Channels }

func (s *nullStream) Read(dst []float32) (bool, error) {
	if err := s.pace(len(dst)); err != nil {
		return false, err
	}
	for i := range dst {
		dst[i] = 0
	}
	return false, nil
}

func (s *nullStream) Write(src []float32) error {
	return s.pace(len(src))
}

// pace sleeps for the wall-clock duration the samples would occupy on real
// hardware, so producers and consumers see realistic backpressure.
func (s *nullStream) pace(samples int) error {
	s.mtx.Lock()
	closed := s.closed
	s.mtx.Unlock()
	if closed {
		return ErrStreamClosed
	}

	frames := samples / s.params.Channels
	time.Sleep(time.Duration(frames) * time.Second / time.Duration(s.params.SampleRate))
	return nil
}

func (s *nullStream) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return ErrStreamClosed
	}
	s.closed = true
	return nil
}
