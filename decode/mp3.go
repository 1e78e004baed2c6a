// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audmix/utils"
)

// MP3 decodes MPEG layer-3 files via github.com/hajimehoshi/go-mp3,
// which always emits 16-bit little-endian stereo.
type MP3 struct{}

func (MP3) Decode(r io.ReadSeeker) (*Result, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	const channels = 2

	var samples []float32
	buf := make([]byte, 8192)
	for {
		n, err := dec.Read(buf)
		// go-mp3 hands out pairs of little-endian int16 bytes
		for i := 0; i+1 < n; i += 2 {
			v := int16(uint16(buf[i]) | uint16(buf[i+1])<<8)
			samples = append(samples, utils.Int16ToFloat32(v))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read MP3 samples: %w", err)
		}
	}

	return &Result{
		Samples:    samples,
		SampleRate: dec.SampleRate(),
		Channels:   channels,
	}, nil
}
