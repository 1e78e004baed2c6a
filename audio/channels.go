// SPDX-License-Identifier: EPL-2.0

package audio

// MatchChannels converts an interleaved buffer from srcChannels to
// dstChannels. Supported layouts:
//
//   - same count: returned untouched
//   - mono to N: each sample replicated across all N channels
//   - N to mono: channels averaged per frame
//
// Anything else returns ErrUnsupportedLayout. Silently repeating channels
// for arbitrary N:M pairs produces wrong mixes, so it is refused outright.
func MatchChannels(samples []float32, srcChannels, dstChannels int) ([]float32, error) {
	if srcChannels <= 0 || dstChannels <= 0 {
		return nil, ErrUnsupportedLayout
	}
	if srcChannels == dstChannels {
		return samples, nil
	}

	switch {
	case srcChannels == 1:
		return upmixMono(samples, dstChannels), nil
	case dstChannels == 1:
		return downmixMono(samples, srcChannels), nil
	default:
		return nil, ErrUnsupportedLayout
	}
}

// upmixMono replicates each mono sample into every destination channel.
// The replicas are bit-identical copies.
func upmixMono(samples []float32, channels int) []float32 {
	out := make([]float32, len(samples)*channels)
	for f, v := range samples {
		base := f * channels
		for c := 0; c < channels; c++ {
			out[base+c] = v
		}
	}
	return out
}

// downmixMono averages the channels of each frame.
func downmixMono(samples []float32, channels int) []float32 {
	frames := len(samples) / channels
	out := make([]float32, frames)
	inv := float32(1.0) / float32(channels)

	switch channels {
	case 2: // Stereo (most common)
		for f := 0; f < frames; f++ {
			idx := f << 1
			out[f] = (samples[idx] + samples[idx+1]) * 0.5
		}
	case 4: // Quad
		for f := 0; f < frames; f++ {
			idx := f << 2
			sum := samples[idx] + samples[idx+1] + samples[idx+2] + samples[idx+3]
			out[f] = sum * 0.25
		}
	default: // Generic path
		for f := 0; f < frames; f++ {
			sum := float32(0)
			base := f * channels
			for c := 0; c < channels; c++ {
				sum += samples[base+c]
			}
			out[f] = sum * inv
		}
	}

	return out
}
