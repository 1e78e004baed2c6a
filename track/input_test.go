// SPDX-License-Identifier: EPL-2.0

package track

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/internal/audiotest"
)

func newTestInput(t *testing.T, host *audiotest.Host, cfg InputConfig) *Input {
	t.Helper()
	if cfg.Params == (device.Params{}) {
		cfg.Params = testParams()
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 16
	}
	in, err := NewInput("test-in", host, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = in.Stop() })
	return in
}

func TestInput_ConstructStop(t *testing.T) {
	t.Parallel()

	host := &audiotest.Host{ReadDelay: time.Millisecond}
	in := newTestInput(t, host, InputConfig{})

	require.NotNil(t, in.Stream())
	assert.True(t, in.Running())

	require.NoError(t, in.Stop())
	assert.Nil(t, in.Stream())
	assert.False(t, in.Running())
	assert.True(t, host.Streams()[0].Closed())

	// The slot is cleared on stop; readers see "nothing captured".
	_, ok := in.Read()
	assert.False(t, ok)
}

func TestInput_OpenFailure(t *testing.T) {
	t.Parallel()

	host := &audiotest.Host{OpenErr: errors.New("no such device")}
	in, err := NewInput("broken", host, InputConfig{Params: testParams()})
	require.Error(t, err)
	assert.ErrorIs(t, err, device.ErrDevice)
	assert.Nil(t, in)
}

func TestInput_ReadLatestChunk(t *testing.T) {
	t.Parallel()

	host := &audiotest.Host{ReadDelay: time.Millisecond, Fill: 0.25}
	in := newTestInput(t, host, InputConfig{ChunkSize: 8})

	waitFor(t, func() bool { _, ok := in.Read(); return ok }, "nothing captured")

	c, ok := in.Read()
	require.True(t, ok)
	assert.Equal(t, 8, c.Frames())
	assert.Equal(t, 1, c.Channels)
	for _, v := range c.Data {
		assert.InDelta(t, 0.25, float64(v), 1e-6)
	}
}

func TestInput_ReadIsLastWriteWins(t *testing.T) {
	t.Parallel()

	host := &audiotest.Host{ReadDelay: time.Millisecond}
	in := newTestInput(t, host, InputConfig{ChunkSize: 4})

	stream := host.Streams()[0]
	waitFor(t, func() bool { return stream.Reads() >= 3 }, "device not cycling")

	// Successive reads between publications return the same chunk; the
	// slot never queues.
	a, ok := in.Read()
	require.True(t, ok)
	b, ok := in.Read()
	require.True(t, ok)
	assert.Equal(t, a.Frames(), b.Frames())
}

func TestInput_CallbackTransforms(t *testing.T) {
	t.Parallel()

	cb := func(_ *Input, c Chunk, _ bool) (Chunk, bool) {
		ApplyGain(c.Data, 2.0)
		return c, true
	}

	host := &audiotest.Host{ReadDelay: time.Millisecond, Fill: 0.1}
	in := newTestInput(t, host, InputConfig{ChunkSize: 4, Callback: cb})

	waitFor(t, func() bool { _, ok := in.Read(); return ok }, "nothing captured")

	c, _ := in.Read()
	assert.InDelta(t, 0.2, float64(c.Data[0]), 1e-6)
}

func TestInput_CallbackSuppressesPublication(t *testing.T) {
	t.Parallel()

	cb := func(_ *Input, c Chunk, _ bool) (Chunk, bool) {
		return Chunk{}, false
	}

	host := &audiotest.Host{ReadDelay: time.Millisecond, Fill: 0.5}
	in := newTestInput(t, host, InputConfig{ChunkSize: 4, Callback: cb})

	stream := host.Streams()[0]
	waitFor(t, func() bool { return stream.Reads() >= 3 }, "device not cycling")

	_, ok := in.Read()
	assert.False(t, ok, "vetoed chunks must never be published")
}

func TestInput_CallbackPanicIsFatal(t *testing.T) {
	t.Parallel()

	cb := func(_ *Input, c Chunk, _ bool) (Chunk, bool) {
		panic("boom")
	}

	host := &audiotest.Host{}
	in := newTestInput(t, host, InputConfig{ChunkSize: 4, Callback: cb})

	waitFor(t, func() bool { return !in.Running() }, "runner did not terminate")

	err := in.Stop()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCallbackPanic)
	require.NoError(t, in.Stop())
}

func TestInput_OverflowFlag(t *testing.T) {
	t.Parallel()

	host := &audiotest.Host{ReadDelay: time.Millisecond, Overflow: true}
	in := newTestInput(t, host, InputConfig{ChunkSize: 4})

	waitFor(t, in.Overflow, "overflow never reported")
}

func TestInput_DeviceReadFailureIsFatal(t *testing.T) {
	t.Parallel()

	host := &audiotest.Host{}
	in := newTestInput(t, host, InputConfig{ChunkSize: 4})
	host.Streams()[0].SetReadErr(errors.New("device unplugged"))

	waitFor(t, func() bool { return !in.Running() }, "runner did not terminate")

	err := in.Stop()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device unplugged")
}

// Piping capture into playback is the monitoring loop the two track kinds
// are built to form. The bounded queue on the playback side must absorb the
// rate mismatch without ever exceeding its capacity.
func TestInput_PipeIntoOutput(t *testing.T) {
	t.Parallel()

	host := &audiotest.Host{ReadDelay: time.Millisecond, Fill: 0.4}
	in := newTestInput(t, host, InputConfig{ChunkSize: 8})
	out := newTestOutput(t, host, OutputConfig{QueueSize: 4, DisableEffects: true})

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			if c, ok := in.Read(); ok {
				// Non-blocking on purpose: a full queue drops the chunk
				// instead of stalling the monitor loop.
				_, _ = out.Write(c, false)
			}
			assert.LessOrEqual(t, out.QueueLen(), out.QueueCap())
			time.Sleep(time.Millisecond)
		}
	}()

	outStream := host.Streams()[1]
	waitFor(t, func() bool { return len(outStream.Writes()) >= 2 }, "no audio piped through")
	assert.InDelta(t, 0.4, float64(outStream.Writes()[0][0]), 1e-6)
}
