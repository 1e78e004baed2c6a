// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audmix/utils"
)

// AIFF decodes AIFF PCM files via github.com/go-audio/aiff.
type AIFF struct{}

func (AIFF) Decode(r io.ReadSeeker) (*Result, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not an AIFF file", ErrInvalidFile)
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: bad AIFF format header", ErrInvalidFile)
	}
	channels := format.NumChannels
	sampleRate := format.SampleRate
	bitDepth := int(dec.BitDepth)

	buf := &goaudio.IntBuffer{
		Data:   make([]int, 8192-(8192%channels)),
		Format: format,
	}

	var samples []float32
	for {
		n, err := dec.PCMBuffer(buf)
		if n > 0 {
			for _, v := range buf.Data[:n] {
				samples = append(samples, utils.PCMToFloat32(v, bitDepth))
			}
		}
		if err == io.EOF || n == 0 {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read AIFF samples: %w", err)
		}
	}

	return &Result{
		Samples:    samples,
		SampleRate: sampleRate,
		Channels:   channels,
	}, nil
}
