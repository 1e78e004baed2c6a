// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audmix/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation. Works on interleaved samples; preserves channel count.
// Includes basic anti-aliasing filtering when downsampling.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames consumed per output frame
	channels int

	// Sliding window of 4 frames for cubic interpolation:
	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames   [4][]float32
	hasFrame [4]bool
	primed   bool

	// Fractional position between frames[1] and frames[2]
	pos float64

	frameBuf []float32
	eof      bool

	// One-pole low-pass state for anti-aliasing (downsampling only)
	filterState []float32
	filterAlpha float32
	useFilter   bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:         src,
		dstRate:     dstRate,
		ratio:       ratio,
		channels:    channels,
		frameBuf:    make([]float32, channels),
		filterState: make([]float32, channels),
	}

	if ratio > 1.0 {
		// Cutoff near the Nyquist frequency of the destination rate.
		// A single pole is crude but cheap; good enough for voice and
		// playback material.
		r.useFilter = true
		r.filterAlpha = 0.5
	}

	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("close resampler source: %w", err)
	}
	return nil
}

// readFrame reads one source frame into dst, running the anti-alias filter
// when enabled. Returns false when the source is exhausted.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	if r.eof {
		return false, io.EOF
	}

	n, err := r.src.ReadSamples(r.frameBuf)
	if n > 0 {
		copy(dst, r.frameBuf[:n])
		if r.useFilter {
			for c := 0; c < r.channels; c++ {
				// y[n] = alpha*x[n] + (1-alpha)*y[n-1]
				dst[c] = r.filterAlpha*dst[c] + (1-r.filterAlpha)*r.filterState[c]
				r.filterState[c] = dst[c]
			}
		}
	}

	if err == io.EOF {
		r.eof = true
		if n == 0 {
			return false, io.EOF
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read source frame: %w", err)
	}
	return n > 0, nil
}

// prime fills the initial 4-frame window, duplicating the last valid frame
// into any slots the source was too short to fill.
func (r *Resampler) prime() error {
	last := -1
	for i := 0; i < 4; i++ {
		ok, err := r.readFrame(r.frames[i])
		if ok {
			r.hasFrame[i] = true
			last = i
			if i == 0 && r.useFilter {
				// Seed the filter with the first frame to avoid a
				// warm-up transient.
				copy(r.filterState, r.frames[0])
			}
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	if last < 0 {
		return io.EOF
	}
	for i := last + 1; i < 4; i++ {
		copy(r.frames[i], r.frames[last])
		r.hasFrame[i] = true
	}
	r.primed = true
	return nil
}

// advance shifts the window one source frame forward.
func (r *Resampler) advance() error {
	copy(r.frames[0], r.frames[1])
	copy(r.frames[1], r.frames[2])
	copy(r.frames[2], r.frames[3])
	r.hasFrame[0] = r.hasFrame[1]
	r.hasFrame[1] = r.hasFrame[2]
	r.hasFrame[2] = r.hasFrame[3]

	ok, err := r.readFrame(r.frames[3])
	r.hasFrame[3] = ok
	if err == io.EOF && (r.hasFrame[1] || r.hasFrame[2]) {
		// Tail of the stream: interpolate against the remaining window.
		return nil
	}
	return err
}

// ReadSamples produces dst samples at the destination rate.
// len(dst) must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				if err == io.EOF {
					if written == 0 {
						return 0, io.EOF
					}
					return written * r.channels, io.EOF
				}
				return written * r.channels, err
			}
		}

		if !r.hasFrame[1] || !r.hasFrame[2] {
			if written == 0 {
				return 0, io.EOF
			}
			return written * r.channels, io.EOF
		}

		alpha := float32(r.pos)
		for c := 0; c < r.channels; c++ {
			y1 := r.frames[1][c]
			y2 := r.frames[2][c]
			y0 := y1
			if r.hasFrame[0] {
				y0 = r.frames[0][c]
			}
			y3 := y2
			if r.hasFrame[3] {
				y3 = r.frames[3][c]
			}
			dst[written*r.channels+c] = utils.CubicInterpolate(y0, y1, y2, y3, alpha)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}

// ResampleBuffer converts an in-memory interleaved buffer from srcRate to
// dstRate, preserving channel layout. A same-rate call returns the input
// untouched.
func ResampleBuffer(samples []float32, channels, srcRate, dstRate int) ([]float32, error) {
	if srcRate == dstRate || len(samples) == 0 {
		return samples, nil
	}

	r := NewResampler(NewBufferSource(samples, srcRate, channels), dstRate)

	// Estimate output size up front so the collect loop rarely reallocates.
	estimated := int(float64(len(samples))*float64(dstRate)/float64(srcRate)) + channels
	out := make([]float32, 0, estimated)
	bufLen := 4096 - 4096%channels
	if bufLen == 0 {
		bufLen = channels
	}
	buf := make([]float32, bufLen)

	for {
		n, err := r.ReadSamples(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("resample buffer: %w", err)
		}
	}
}
