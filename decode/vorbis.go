// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

// Vorbis decodes Ogg Vorbis files via github.com/jfreymuth/oggvorbis.
type Vorbis struct{}

func (Vorbis) Decode(r io.ReadSeeker) (*Result, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	channels := dec.Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("%w: bad Vorbis header", ErrInvalidFile)
	}

	var samples []float32
	buf := make([]float32, 8192-(8192%channels))
	for {
		// Read returns interleaved float32 values, already normalized.
		n, err := dec.Read(buf)
		if n > 0 {
			samples = append(samples, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read Vorbis samples: %w", err)
		}
	}

	return &Result{
		Samples:    samples,
		SampleRate: dec.SampleRate(),
		Channels:   channels,
	}, nil
}
