// SPDX-License-Identifier: EPL-2.0

package device

import "errors"

var (
	// ErrDevice is the base error for stream open/negotiate failures.
	// Host implementations wrap their failures with it so callers can
	// detect device trouble with errors.Is.
	ErrDevice = errors.New("audio device error")

	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidChannels   = errors.New("channel count must be positive")
	ErrInvalidBlockSize  = errors.New("block size must be positive")
	ErrStreamClosed      = errors.New("stream is closed")
)
