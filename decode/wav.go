// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audmix/utils"
)

// WAV decodes RIFF/WAVE PCM files via github.com/go-audio/wav.
type WAV struct{}

func (WAV) Decode(r io.ReadSeeker) (*Result, error) {
	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a WAV file", ErrInvalidFile)
	}

	sampleRate := int(dec.SampleRate)
	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: bad WAV format header", ErrInvalidFile)
	}

	buf := &goaudio.IntBuffer{
		Data:   make([]int, 8192-(8192%channels)),
		Format: &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
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
			return nil, fmt.Errorf("read WAV samples: %w", err)
		}
	}

	return &Result{
		Samples:    samples,
		SampleRate: sampleRate,
		Channels:   channels,
	}, nil
}
