// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audmix/track"
)

// Mixer routes playback requests across a pool of tracks and fans lifecycle
// operations out to all of them. It does not open or close device streams
// itself; every track owns its own.
type Mixer struct {
	tracks []track.Track
}

// NewMixer builds a mixer over the given tracks. Registration order is
// stable: PlayFile always picks the first available output track.
func NewMixer(tracks ...track.Track) *Mixer {
	return &Mixer{tracks: tracks}
}

// Add appends a track to the pool.
func (m *Mixer) Add(t track.Track) {
	m.tracks = append(m.tracks, t)
}

// Tracks returns the full pool in registration order.
func (m *Mixer) Tracks() []track.Track {
	return m.tracks
}

// InputTracks returns the capture tracks of the pool.
func (m *Mixer) InputTracks() []*track.Input {
	var ins []*track.Input
	for _, t := range m.tracks {
		if in, ok := t.(*track.Input); ok {
			ins = append(ins, in)
		}
	}
	return ins
}

// OutputTracks returns the playback tracks of the pool.
func (m *Mixer) OutputTracks() []*track.Output {
	var outs []*track.Output
	for _, t := range m.tracks {
		if out, ok := t.(*track.Output); ok {
			outs = append(outs, out)
		}
	}
	return outs
}

// AvailableOutputTracks returns the playback tracks that are currently not
// playing anything.
func (m *Mixer) AvailableOutputTracks() []*track.Output {
	var free []*track.Output
	for _, out := range m.OutputTracks() {
		if !out.Playing() {
			free = append(free, out)
		}
	}
	return free
}

// PlayFile plays path on the first available output track and returns that
// track. A (nil, nil) result means every output track is busy - ordinary
// control flow, not an error; callers are expected to check.
func (m *Mixer) PlayFile(path string, opts track.PlayOptions) (*track.Output, error) {
	free := m.AvailableOutputTracks()
	if len(free) == 0 {
		logrus.WithField("path", path).Debug("no output track available")
		return nil, nil
	}

	out := free[0]
	if err := out.PlayFile(path, opts); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"path":  path,
		"track": out.Name(),
	}).Debug("file routed to output track")
	return out, nil
}

// StopInputs stops every capture track. All tracks are attempted; failures
// are collected, never short-circuited.
func (m *Mixer) StopInputs() error {
	var errs []error
	for _, in := range m.InputTracks() {
		if err := in.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop input %q: %w", in.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// StopOutputs stops every playback track, collecting failures.
func (m *Mixer) StopOutputs() error {
	var errs []error
	for _, out := range m.OutputTracks() {
		if err := out.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop output %q: %w", out.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// AbortOutputs drains pending playback on every output track without
// closing any stream.
func (m *Mixer) AbortOutputs() {
	for _, out := range m.OutputTracks() {
		out.Abort()
	}
}
