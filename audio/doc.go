// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample-level processing primitives the mixer
// builds on.
//
// This package contains:
//   - Source interface for streaming interleaved float32 audio
//   - BufferSource for running in-memory buffers through stream processors
//   - Resampler for sample rate conversion (cubic interpolation)
//   - MatchChannels for mono up-mix / mono down-mix conversions
//
// # Sample Format
//
// Audio samples are represented as interleaved float32 in the range
// [-1.0, 1.0], frames-major:
//
//	[L0, R0, L1, R1, ...]
//
// This normalized format makes it easy to process audio without worrying
// about bit depths and ensures no clipping during intermediate processing.
//
// # Resampling
//
// The Resampler changes the sample rate of a Source using cubic
// interpolation, with simple anti-alias filtering when downsampling:
//
//	r := audio.NewResampler(source, 48000)
//	buf := make([]float32, 4096)
//	n, err := r.ReadSamples(buf)
//
// ResampleBuffer is the buffer-level convenience used by the playback
// pipeline:
//
//	out, err := audio.ResampleBuffer(samples, 2, 44100, 48000)
//
// # Channel Matching
//
// MatchChannels supports exactly the conversions that have a well-defined
// meaning without a mixing matrix: replication from mono and averaging to
// mono. Every other layout pair returns ErrUnsupportedLayout.
//
// # Error Handling
//
// Streaming functions return io.EOF when no more data is available. Other
// errors indicate problems with the source or processing.
package audio
