// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a normalized sample to 16-bit PCM.
func Float32ToInt16(x float32) int16 {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// Int16ToFloat32 converts a 16-bit PCM sample to the normalized range.
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}

// PCMToFloat32 converts a signed PCM sample of the given bit depth to the
// normalized range. Depths outside 8..32 fall back to 16-bit scaling.
func PCMToFloat32(v int, bitDepth int) float32 {
	if bitDepth < 8 || bitDepth > 32 {
		bitDepth = 16
	}
	scale := float32(int64(1) << (bitDepth - 1))
	return float32(v) / scale
}
