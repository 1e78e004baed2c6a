// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides mock device hosts and streams for testing the
// mixer without hardware. Unlike device.NullHost the mocks do not pace in
// real time; delays are explicit and every written sample is recorded.
package audiotest

import (
	"fmt"
	"sync"
	"time"

	"github.com/ik5/audmix/device"
)

// Host is a mock device.Host. The zero value opens instantly-succeeding
// streams; set OpenErr to make every open fail, or the delay fields to slow
// the streams down.
type Host struct {
	// OpenErr, when set, is returned (wrapped in device.ErrDevice) by every
	// open call.
	OpenErr error
	// ReadDelay is slept per capture read; emulates the blocking device.
	ReadDelay time.Duration
	// WriteDelay is slept per playback write.
	WriteDelay time.Duration
	// Fill is the sample value capture reads produce.
	Fill float32
	// Overflow makes every capture read report dropped samples.
	Overflow bool

	mtx     sync.Mutex
	streams []*Stream
}

func (h *Host) OpenInput(p device.Params) (device.Stream, error)  { return h.open(p) }
func (h *Host) OpenOutput(p device.Params) (device.Stream, error) { return h.open(p) }

func (h *Host) open(p device.Params) (device.Stream, error) {
	if h.OpenErr != nil {
		return nil, fmt.Errorf("%w: %w", device.ErrDevice, h.OpenErr)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", device.ErrDevice, err)
	}

	s := &Stream{
		params:     p,
		readDelay:  h.ReadDelay,
		writeDelay: h.WriteDelay,
		fill:       h.Fill,
		overflow:   h.Overflow,
	}

	h.mtx.Lock()
	h.streams = append(h.streams, s)
	h.mtx.Unlock()
	return s, nil
}

// Streams returns every stream the host has opened, in order.
func (h *Host) Streams() []*Stream {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return append([]*Stream(nil), h.streams...)
}

// Stream is a mock device.Stream recording all traffic.
type Stream struct {
	params     device.Params
	readDelay  time.Duration
	writeDelay time.Duration
	fill       float32
	overflow   bool

	mtx    sync.Mutex
	writes [][]float32
	reads  int
	closed bool

	writeErr error
	readErr  error
}

func (s *Stream) SampleRate() int { return s.params.SampleRate }
func (s *Stream) Channels() int   { return s.params.Channels }

func (s *Stream) Read(dst []float32) (bool, error) {
	if s.readDelay > 0 {
		time.Sleep(s.readDelay)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.closed {
		return false, device.ErrStreamClosed
	}
	if s.readErr != nil {
		return false, s.readErr
	}

	for i := range dst {
		dst[i] = s.fill
	}
	s.reads++
	return s.overflow, nil
}

func (s *Stream) Write(src []float32) error {
	if s.writeDelay > 0 {
		time.Sleep(s.writeDelay)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.closed {
		return device.ErrStreamClosed
	}
	if s.writeErr != nil {
		return s.writeErr
	}

	s.writes = append(s.writes, append([]float32(nil), src...))
	return nil
}

func (s *Stream) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.closed {
		return device.ErrStreamClosed
	}
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Stream) Closed() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.closed
}

// Reads returns the number of capture reads served.
func (s *Stream) Reads() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.reads
}

// Writes returns a copy of every chunk written, in emission order.
func (s *Stream) Writes() [][]float32 {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	out := make([][]float32, len(s.writes))
	copy(out, s.writes)
	return out
}

// Written returns all emitted samples flattened into one buffer.
func (s *Stream) Written() []float32 {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	var all []float32
	for _, w := range s.writes {
		all = append(all, w...)
	}
	return all
}

// SetWriteErr arms the stream to fail its next Write.
func (s *Stream) SetWriteErr(err error) {
	s.mtx.Lock()
	s.writeErr = err
	s.mtx.Unlock()
}

// SetReadErr arms the stream to fail its next Read.
func (s *Stream) SetReadErr(err error) {
	s.mtx.Lock()
	s.readErr = err
	s.mtx.Unlock()
}
