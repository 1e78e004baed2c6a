// SPDX-License-Identifier: EPL-2.0

package track

import (
	"errors"

	"github.com/ik5/audmix/audio"
)

var (
	// ErrInterrupted is returned by Write when an abort drained the track.
	// The playback pipeline treats it as the expected end of a cancelled
	// write loop; it never surfaces to Mixer callers.
	ErrInterrupted = errors.New("write interrupted by abort")

	// ErrStopped is returned when an operation needs a running stream but
	// the track is stopped.
	ErrStopped = errors.New("track is stopped")

	// ErrCallbackPanic wraps a panic raised by a user callback inside the
	// stream runner. The runner terminates and the wrapped error is
	// returned by the next lifecycle call on the track.
	ErrCallbackPanic = errors.New("track callback panicked")

	// ErrUnsupportedChannelLayout mirrors the audio package sentinel so
	// pipeline callers can match it without importing audio.
	ErrUnsupportedChannelLayout = audio.ErrUnsupportedLayout
)
