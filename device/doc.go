// SPDX-License-Identifier: EPL-2.0

// Package device defines the contracts the mixer requires from an audio
// backend: opening capture and playback streams with negotiated parameters,
// and moving interleaved float32 samples to and from hardware.
//
// The mixer core never opens devices itself; each track receives a Host and
// delegates to it. A Stream is exclusively owned by the goroutine that runs
// its track - no locking is layered on top of it.
//
// # Parameters
//
// Streams are requested with Params and may be negotiated to different
// values:
//
//	params := device.DefaultParams()
//	params.SampleRate = 48000
//	stream, err := host.OpenOutput(params)
//	// stream.SampleRate() is what the device actually granted
//
// Open failures wrap ErrDevice:
//
//	if errors.Is(err, device.ErrDevice) {
//	    // unsupported parameters or unavailable hardware
//	}
//
// # NullHost
//
// NullHost emulates a sound card: capture returns silence, playback is
// discarded, and both are paced in real time. It is useful for tests,
// headless servers and the bundled examples.
package device
