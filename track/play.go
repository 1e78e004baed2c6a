// SPDX-License-Identifier: EPL-2.0

package track

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/decode"
)

// PlayOptions tunes a single PlayFile invocation. The zero value plays
// non-blocking, resampled to the device rate, in 512-frame chunks.
type PlayOptions struct {
	// Blocking makes PlayFile return only after every chunk has been
	// written and playback has drained. Otherwise the write loop runs on
	// its own goroutine and PlayFile returns once playback is audible.
	Blocking bool
	// SkipResample keeps the file's original sample rate even when it
	// differs from the device rate, trading pitch/speed accuracy for the
	// cost of resampling.
	SkipResample bool
	// ChunkSize is the split size in frames; 0 means DefaultChunkSize.
	ChunkSize int
}

// PlayFile decodes path and streams it through the track's queue. Whatever
// the track was playing before is aborted first, so at most one producer
// ever feeds the queue.
//
// The whole file is decoded, channel-matched and resampled up front;
// decode/convert and layout errors are returned synchronously in both
// blocking and non-blocking mode. An abort during the write phase is the
// expected cancellation path and is not an error.
func (t *Output) PlayFile(path string, opts PlayOptions) error {
	// Abort whatever is in flight and capture the fresh generation in the
	// same locked step, so two overlapping PlayFile calls can never share
	// one generation. This pipeline lives and dies with it; a later Abort
	// interrupts exactly this writer.
	intr := t.abortAndCapture()

	if t.stopped.Load() {
		return fmt.Errorf("play %q: %w", path, ErrStopped)
	}

	res, err := decode.File(path, decode.Config{ConversionDir: t.conversionDir})
	if err != nil {
		return fmt.Errorf("play %q: %w", path, err)
	}

	stream := t.Stream()
	if stream == nil {
		return fmt.Errorf("play %q: %w", path, ErrStopped)
	}
	channels := stream.Channels()

	samples, err := audio.MatchChannels(res.Samples, res.Channels, channels)
	if err != nil {
		return fmt.Errorf("play %q (%d -> %d channels): %w",
			path, res.Channels, channels, err)
	}

	rate := res.SampleRate
	if !opts.SkipResample && rate != stream.SampleRate() {
		samples, err = audio.ResampleBuffer(samples, channels, rate, stream.SampleRate())
		if err != nil {
			return fmt.Errorf("play %q: %w", path, err)
		}
		rate = stream.SampleRate()
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	chunks := splitChunks(samples, channels, chunkSize)

	t.setDetails(&PlayingDetails{
		Path:       path,
		SampleRate: rate,
		Channels:   channels,
	})

	logrus.WithFields(logrus.Fields{
		"track":       t.name,
		"path":        path,
		"sample_rate": rate,
		"channels":    channels,
		"chunks":      len(chunks),
		"blocking":    opts.Blocking,
	}).Debug("starting file playback")

	writer := func() {
		for _, c := range chunks {
			if _, err := t.writeWith(c, intr, true); err != nil {
				// ErrInterrupted is the abort handshake; anything else
				// still must not escape a detached writer.
				if !errors.Is(err, ErrInterrupted) {
					logrus.WithFields(logrus.Fields{
						"track": t.name,
						"path":  path,
						"error": err,
					}).Error("playback writer stopped")
				}
				return
			}
		}
	}

	if opts.Blocking {
		writer()
		// Wait for the queue tail to drain and the last chunk to leave
		// the device loop.
		for (t.playing.Load() || t.q.Len() > 0) && !t.stopped.Load() {
			time.Sleep(pollInterval)
		}
		return nil
	}

	wdone := make(chan struct{})
	go func() {
		defer close(wdone)
		writer()
	}()

	for !t.playing.Load() {
		if t.stopped.Load() {
			return nil
		}
		select {
		case <-wdone:
			if t.q.Len() == 0 {
				// Writer finished (or was aborted) and everything already
				// drained; nothing left to wait for.
				return nil
			}
		default:
		}
		time.Sleep(pollInterval)
	}
	return nil
}

// splitChunks slices an interleaved buffer into chunkSize-frame pieces; the
// last piece may be shorter, and a buffer below one chunk becomes a single
// piece. The chunks alias the buffer - the pipeline owns it exclusively by
// the time they are queued.
func splitChunks(samples []float32, channels, chunkSize int) []Chunk {
	if len(samples) == 0 {
		return nil
	}

	stride := chunkSize * channels
	chunks := make([]Chunk, 0, len(samples)/stride+1)
	for start := 0; start < len(samples); start += stride {
		end := min(start+stride, len(samples))
		chunks = append(chunks, Chunk{Data: samples[start:end], Channels: channels})
	}
	return chunks
}
