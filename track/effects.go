// SPDX-License-Identifier: EPL-2.0

package track

import "math"

// Gain converts a volume setting into a linear gain factor using a
// perceptual loudness curve:
//
//	gain = 2^((vol^(1/8) * 192 - 192) / 6)
//
// vol=1.0 maps to unity gain; the curve is monotonic on (0, inf). Values
// above ~1.4 amplify and will clip hot material.
func Gain(vol float64) float64 {
	root := math.Sqrt(math.Sqrt(math.Sqrt(vol)))
	return math.Pow(2, (root*192-192)/6)
}

// ApplyGain scales samples in place.
func ApplyGain(data []float32, gain float64) {
	if gain == 1 {
		return
	}
	g := float32(gain)
	for i := range data {
		data[i] *= g
	}
}
