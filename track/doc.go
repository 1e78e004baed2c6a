// SPDX-License-Identifier: EPL-2.0

// Package track implements the mixer core: capture and playback tracks with
// a race-free lifecycle, the bounded queue/backpressure protocol between
// producers and the device loop, and the file playback pipeline.
//
// # Lifecycle
//
// A track is Stopped or Running. Construction starts the track and blocks
// until its runner goroutine owns an open device stream:
//
//	out, err := track.NewOutput("main", device.NullHost{}, track.OutputConfig{})
//	if err != nil {
//	    // device.ErrDevice: unsupported parameters or unavailable hardware
//	}
//	defer out.Stop()
//
// Start, Stop and Abort all block the caller until the transition is
// externally visible, and are serialized against each other per track. The
// runner is the only goroutine that ever touches the device stream.
//
// # Playback and backpressure
//
// Output tracks buffer chunks in a bounded FIFO (default capacity 50).
// Write(c, true) blocks until there is space or an abort interrupts it;
// Write(c, false) reports a full queue as (false, nil). The runner pops
// without blocking and treats an empty queue as silence, so the
// hardware-facing side never stalls.
//
// Abort drains the queue and interrupts blocked writers without closing the
// stream. Starting a new PlayFile aborts the previous one first, which is
// what guarantees chunks of two files never interleave.
//
// # Capture
//
// Input tracks publish each captured chunk into a single last-write-wins
// slot read by Read. There is deliberately no queue: readers get the most
// recent window, duplicates and gaps included.
//
// # Effects
//
// The built-in volume transform applies gain = 2^((vol^(1/8)*192-192)/6)
// per chunk, a perceptual curve with unity at vol=1.0. Disable it via
// OutputConfig when a callback already manages gain.
package track
