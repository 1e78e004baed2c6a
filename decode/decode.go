// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Result is a fully decoded audio file: interleaved float32 samples in
// [-1, 1] plus the format they were decoded at.
type Result struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames in the result.
func (r *Result) Frames() int {
	if r.Channels <= 0 {
		return 0
	}
	return len(r.Samples) / r.Channels
}

// Decoder decodes one container format into a Result.
type Decoder interface {
	Decode(r io.ReadSeeker) (*Result, error)
}

// Registry maps file extensions (lower case, no dot) to decoders.
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(ext string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[ext] = d
}

func (r *Registry) Get(ext string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[ext]
	return d, ok
}

// defaultRegistry holds the built-in decoders. Populated once; File never
// mutates it.
var defaultRegistry = func() *Registry {
	r := NewRegistry()
	r.Register("wav", WAV{})
	r.Register("wave", WAV{})
	r.Register("aiff", AIFF{})
	r.Register("aif", AIFF{})
	r.Register("mp3", MP3{})
	r.Register("ogg", Vorbis{})
	r.Register("oga", Vorbis{})
	return r
}()

// Config controls how File resolves a path to samples.
type Config struct {
	// ConversionDir, when non-empty, enables the ffmpeg fallback: files no
	// built-in decoder handles are transcoded to a .wav under this
	// directory and decoded from there. Without it such files fail with
	// ErrUnsupportedFormat.
	ConversionDir string
	// Registry overrides the built-in decoder set when non-nil.
	Registry *Registry
}

// File decodes the audio file at path into memory. The extension selects
// the decoder; on failure (or an unknown extension) the ffmpeg fallback
// runs once when configured.
func File(path string, cfg Config) (*Result, error) {
	reg := cfg.Registry
	if reg == nil {
		reg = defaultRegistry
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	var derr error
	if dec, ok := reg.Get(ext); ok {
		res, err := decodeWith(dec, path)
		if err == nil {
			return res, nil
		}
		derr = err
	} else {
		derr = fmt.Errorf("%w: no decoder for %q", ErrUnsupportedFormat, ext)
	}

	if cfg.ConversionDir == "" {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, derr)
	}

	converted, err := convert(path, cfg.ConversionDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	// One retry against the converted file; no second fallback.
	wav, ok := reg.Get("wav")
	if !ok {
		return nil, fmt.Errorf("%w: no wav decoder for converted file", ErrUnsupportedFormat)
	}
	res, err := decodeWith(wav, converted)
	if err != nil {
		return nil, fmt.Errorf("%w: converted file: %w", ErrUnsupportedFormat, err)
	}
	return res, nil
}

func decodeWith(dec Decoder, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	res, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	return res, nil
}

// convert transcodes path to a PCM WAV under dir using ffmpeg.
func convert(path, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create conversion dir: %w", err)
	}

	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	out := filepath.Join(dir, base+".wav")

	logrus.WithFields(logrus.Fields{
		"input":  path,
		"output": out,
	}).Info("converting unsupported format with ffmpeg")

	cmd := exec.Command("ffmpeg",
		"-loglevel", "quiet",
		"-y",
		"-i", path,
		"-acodec", "pcm_s16le",
		out,
	)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: ffmpeg: %w", ErrConversionFailed, err)
	}
	return out, nil
}
