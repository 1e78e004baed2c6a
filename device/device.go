// SPDX-License-Identifier: EPL-2.0

package device

// Params describes the device configuration requested when opening a stream.
// A Host may negotiate different values; the Stream reports what it actually
// got. There is no process-wide default state: every track carries its own
// Params, starting from DefaultParams.
type Params struct {
	// SampleRate of the stream in Hz.
	SampleRate int
	// Channels count (1=mono, 2=stereo).
	Channels int
	// BlockSize is the preferred number of frames moved per device I/O cycle.
	BlockSize int
}

// DefaultParams returns the reference device configuration:
// 44.1kHz stereo with 512-frame blocks.
func DefaultParams() Params {
	return Params{
		SampleRate: 44100,
		Channels:   2,
		BlockSize:  512,
	}
}

// Validate reports whether the parameters can be used to open a stream.
func (p Params) Validate() error {
	if p.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}
	if p.Channels <= 0 {
		return ErrInvalidChannels
	}
	if p.BlockSize <= 0 {
		return ErrInvalidBlockSize
	}
	return nil
}

// Stream is one open connection to an audio device. Only a single goroutine
// may call Read/Write on a Stream; the track runner owns it exclusively.
type Stream interface {
	// Read blocks until len(dst) interleaved samples have been captured and
	// reports whether the device dropped samples (overflow) while waiting.
	Read(dst []float32) (overflow bool, err error)
	// Write blocks until all interleaved samples in src have been emitted.
	Write(src []float32) error
	// SampleRate is the negotiated rate in Hz (may differ from the request).
	SampleRate() int
	// Channels is the negotiated channel count.
	Channels() int
	// Close releases the device handle. The Stream is unusable afterwards.
	Close() error
}

// Host opens device streams. Implementations wrap a physical audio backend
// or, like NullHost, emulate one.
type Host interface {
	OpenInput(p Params) (Stream, error)
	OpenOutput(p Params) (Stream, error)
}
