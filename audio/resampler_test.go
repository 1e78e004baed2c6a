// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"
)

func constant(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestBufferSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := NewBufferSource([]float32{0.1, 0.2, 0.3, 0.4, 0.5}, 8000, 1)
	if src.SampleRate() != 8000 || src.Channels() != 1 {
		t.Fatalf("format not preserved: %d Hz, %d channels", src.SampleRate(), src.Channels())
	}

	dst := make([]float32, 3)
	n, err := src.ReadSamples(dst)
	if n != 3 || err != nil {
		t.Fatalf("first read: n=%d err=%v, want 3, nil", n, err)
	}

	// The final read drains the buffer and reports EOF alongside the data.
	n, err = src.ReadSamples(dst)
	if n != 2 || err != io.EOF {
		t.Fatalf("final read: n=%d err=%v, want 2, io.EOF", n, err)
	}
	if dst[0] != 0.4 || dst[1] != 0.5 {
		t.Errorf("final read data: got %v", dst[:2])
	}

	n, err = src.ReadSamples(dst)
	if n != 0 || err != io.EOF {
		t.Fatalf("drained read: n=%d err=%v, want 0, io.EOF", n, err)
	}
}

func TestResampler_Format(t *testing.T) {
	t.Parallel()

	r := NewResampler(NewBufferSource(constant(64, 0.5), 44100, 2), 22050)
	if r.SampleRate() != 22050 {
		t.Errorf("SampleRate() = %d, want 22050", r.SampleRate())
	}
	if r.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", r.Channels())
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestResampler_InvalidDstSize(t *testing.T) {
	t.Parallel()

	r := NewResampler(NewBufferSource(constant(64, 0.5), 8000, 2), 4000)
	if _, err := r.ReadSamples(make([]float32, 5)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("got %v, want ErrInvalidDstSize", err)
	}
}

func TestResampler_EmptySource(t *testing.T) {
	t.Parallel()

	r := NewResampler(NewBufferSource(nil, 8000, 1), 4000)
	if n, err := r.ReadSamples(make([]float32, 16)); n != 0 || err != io.EOF {
		t.Errorf("n=%d err=%v, want 0, io.EOF", n, err)
	}
}

func TestResampleBuffer_SameRatePassthrough(t *testing.T) {
	t.Parallel()

	in := []float32{0.1, 0.2, 0.3}
	out, err := ResampleBuffer(in, 1, 8000, 8000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if &out[0] != &in[0] {
		t.Error("same rate must return the input buffer untouched")
	}
}

func TestResampleBuffer_EmptyInput(t *testing.T) {
	t.Parallel()

	out, err := ResampleBuffer(nil, 1, 4000, 8000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d samples, want 0", len(out))
	}
}

func TestResampleBuffer_UpsampleConstant(t *testing.T) {
	t.Parallel()

	// Cubic interpolation of a constant signal is exact, so every output
	// sample must equal the input level.
	in := constant(200, 0.5)
	out, err := ResampleBuffer(in, 1, 4000, 8000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := 2 * len(in)
	if math.Abs(float64(len(out)-want)) > 8 {
		t.Fatalf("got %d samples, want about %d", len(out), want)
	}
	for i, v := range out {
		if math.Abs(float64(v)-0.5) > 1e-5 {
			t.Fatalf("sample %d: got %v, want 0.5", i, v)
		}
	}
}

func TestResampleBuffer_DownsampleConstant(t *testing.T) {
	t.Parallel()

	// The anti-alias filter is seeded with the first frame, so a constant
	// signal passes through the downsampling path unchanged too.
	in := constant(400, 0.5)
	out, err := ResampleBuffer(in, 1, 8000, 4000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := len(in) / 2
	if math.Abs(float64(len(out)-want)) > 8 {
		t.Fatalf("got %d samples, want about %d", len(out), want)
	}
	for i, v := range out {
		if math.Abs(float64(v)-0.5) > 1e-5 {
			t.Fatalf("sample %d: got %v, want 0.5", i, v)
		}
	}
}

func TestResampleBuffer_UpsampleRampIsMonotonic(t *testing.T) {
	t.Parallel()

	in := make([]float32, 100)
	for i := range in {
		in[i] = float32(i) / 100
	}

	out, err := ResampleBuffer(in, 1, 4000, 8000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(out); i++ {
		if out[i] < out[i-1]-1e-6 {
			t.Fatalf("sample %d: ramp not monotonic (%v after %v)", i, out[i], out[i-1])
		}
	}
}

func TestResampleBuffer_StereoPreservesChannels(t *testing.T) {
	t.Parallel()

	// Constant but different per channel: interleaving mistakes would leak
	// one channel's level into the other.
	frames := 200
	in := make([]float32, frames*2)
	for f := 0; f < frames; f++ {
		in[2*f] = 0.25
		in[2*f+1] = -0.25
	}

	out, err := ResampleBuffer(in, 2, 4000, 8000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out)%2 != 0 {
		t.Fatalf("output not frame aligned: %d samples", len(out))
	}
	for f := 0; f < len(out)/2; f++ {
		if math.Abs(float64(out[2*f])-0.25) > 1e-5 {
			t.Fatalf("frame %d left: got %v, want 0.25", f, out[2*f])
		}
		if math.Abs(float64(out[2*f+1])+0.25) > 1e-5 {
			t.Fatalf("frame %d right: got %v, want -0.25", f, out[2*f+1])
		}
	}
}
