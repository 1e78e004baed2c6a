// SPDX-License-Identifier: EPL-2.0

package track

// Chunk is one block of interleaved float32 audio in transit between a
// producer and the device loop. Frames-major layout: [L0, R0, L1, R1, ...].
// A Chunk is immutable while queued; whoever pops it owns it.
type Chunk struct {
	Data     []float32
	Channels int
}

// Frames returns the number of sample frames in the chunk.
func (c Chunk) Frames() int {
	if c.Channels <= 0 {
		return 0
	}
	return len(c.Data) / c.Channels
}

// Empty reports whether the chunk carries no samples.
func (c Chunk) Empty() bool { return len(c.Data) == 0 }
