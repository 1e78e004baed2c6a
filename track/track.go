// SPDX-License-Identifier: EPL-2.0

package track

import "time"

// Track is the capability shared by capture and playback tracks. The mixer
// partitions its collection by the concrete type behind this interface.
type Track interface {
	// Name is the user-supplied label. Not required to be unique.
	Name() string
	// Start opens the device stream and spawns the runner. No-op when the
	// track is already running.
	Start() error
	// Stop tears the stream down and waits for the runner to exit.
	// Idempotent. Returns any fatal runner error recorded since the last
	// lifecycle call.
	Stop() error
	// Running reports whether the runner currently owns an open stream.
	Running() bool
}

// pollInterval is the cadence of the cooperative waits in lifecycle calls
// (abort waiting for playing to clear, pipelines waiting on the flag). The
// runner itself never waits on it.
const pollInterval = time.Millisecond

// idleInterval is how long the output runner sleeps on an empty queue cycle
// so the loop does not spin between silence checks.
const idleInterval = time.Millisecond
