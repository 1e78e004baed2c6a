// SPDX-License-Identifier: EPL-2.0

package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunkOf(v float32, frames, channels int) Chunk {
	data := make([]float32, frames*channels)
	for i := range data {
		data[i] = v
	}
	return Chunk{Data: data, Channels: channels}
}

func TestQueue_DefaultCapacity(t *testing.T) {
	t.Parallel()

	q := NewQueue(0)
	assert.Equal(t, DefaultQueueSize, q.Cap())
}

func TestQueue_BackpressureSequence(t *testing.T) {
	t.Parallel()

	// Capacity 2: three non-blocking pushes must yield true, true, false,
	// and popping twice must free space for a fourth push.
	q := NewQueue(2)

	a := chunkOf(0.1, 4, 1)
	b := chunkOf(0.2, 4, 1)
	c := chunkOf(0.3, 4, 1)

	assert.True(t, q.TryPush(a))
	assert.True(t, q.TryPush(b))
	assert.False(t, q.TryPush(c))
	assert.Equal(t, 2, q.Len())

	got, ok := q.TryPop()
	require.True(t, ok)
	assert.Equal(t, a.Data, got.Data)

	got, ok = q.TryPop()
	require.True(t, ok)
	assert.Equal(t, b.Data, got.Data)

	assert.True(t, q.TryPush(c))
	assert.Equal(t, 1, q.Len())
}

func TestQueue_TryPopEmpty(t *testing.T) {
	t.Parallel()

	q := NewQueue(4)
	c, ok := q.TryPop()
	assert.False(t, ok)
	assert.True(t, c.Empty())
}

func TestQueue_FIFOOrder(t *testing.T) {
	t.Parallel()

	q := NewQueue(8)
	for i := 0; i < 8; i++ {
		require.True(t, q.TryPush(chunkOf(float32(i), 1, 1)))
	}
	for i := 0; i < 8; i++ {
		c, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, float32(i), c.Data[0])
	}
}

func TestQueue_PushBlocksUntilSpace(t *testing.T) {
	t.Parallel()

	q := NewQueue(1)
	require.True(t, q.TryPush(chunkOf(1, 1, 1)))

	done := make(chan error, 1)
	go func() {
		done <- q.Push(chunkOf(2, 1, 1), nil)
	}()

	select {
	case <-done:
		t.Fatal("Push returned while the queue was full")
	case <-time.After(20 * time.Millisecond):
	}

	_, ok := q.TryPop()
	require.True(t, ok)

	require.NoError(t, <-done)
	c, ok := q.TryPop()
	require.True(t, ok)
	assert.Equal(t, float32(2), c.Data[0])
}

func TestQueue_PushInterrupted(t *testing.T) {
	t.Parallel()

	q := NewQueue(1)
	require.True(t, q.TryPush(chunkOf(1, 1, 1)))

	cancel := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- q.Push(chunkOf(2, 1, 1), cancel)
	}()

	close(cancel)
	require.ErrorIs(t, <-done, ErrInterrupted)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_Drain(t *testing.T) {
	t.Parallel()

	q := NewQueue(4)
	for i := 0; i < 3; i++ {
		q.TryPush(chunkOf(0.5, 2, 2))
	}

	assert.Equal(t, 3, q.Drain())
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Drain())
}
