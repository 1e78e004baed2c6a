// SPDX-License-Identifier: EPL-2.0

// Package decode turns audio files into in-memory float32 sample buffers
// for the playback pipeline.
//
// # Supported Formats
//
//   - WAV via github.com/go-audio/wav
//   - AIFF via github.com/go-audio/aiff
//   - MP3 via github.com/hajimehoshi/go-mp3
//   - Ogg Vorbis via github.com/jfreymuth/oggvorbis
//
// The file extension selects the decoder through a Registry; custom
// decoders can be registered under additional extensions.
//
// # Conversion Fallback
//
// When Config.ConversionDir is set, a file that no decoder handles is
// transcoded once with ffmpeg into a PCM WAV under that directory and
// decoded from there. Without a conversion dir the decode fails with
// ErrUnsupportedFormat:
//
//	res, err := decode.File("speech.m4a", decode.Config{ConversionDir: "/tmp/conv"})
//	if errors.Is(err, decode.ErrUnsupportedFormat) {
//	    // no decoder and no usable conversion
//	}
//
// Decoding loads the whole file; the buffer is released when playback of it
// finishes. This matches how the playback pipeline consumes it.
package decode
