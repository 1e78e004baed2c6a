// SPDX-License-Identifier: EPL-2.0

package track

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audmix/device"
)

// DefaultChunkSize is the capture window, in frames, published per cycle.
const DefaultChunkSize = 512

// InputCallback lets the application transform or veto captured data before
// it is published. overflow reports whether the device dropped samples while
// the previous cycle ran. Returning ok=false suppresses publication for this
// cycle; readers keep seeing the previous chunk. A panic inside the callback
// is fatal to the runner.
type InputCallback func(t *Input, c Chunk, overflow bool) (Chunk, bool)

// InputConfig configures a capture track. The zero value is usable.
type InputConfig struct {
	// Params requested from the device host. Zero value means
	// device.DefaultParams().
	Params device.Params
	// ChunkSize is the capture window in frames; 0 means DefaultChunkSize.
	ChunkSize int
	// Callback is the optional per-cycle transform.
	Callback InputCallback
}

func (cfg InputConfig) withDefaults() InputConfig {
	if cfg.Params == (device.Params{}) {
		cfg.Params = device.DefaultParams()
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	return cfg
}

// Input is a capture track. The runner blocks on the device for one chunk
// per cycle and publishes it into a single last-write-wins slot; there is no
// queue on the capture side. Fast readers may observe the same chunk twice,
// slow readers miss intermediate chunks. Both are by design: Read answers
// "what does the microphone hear right now", not "give me every frame".
type Input struct {
	name      string
	host      device.Host
	params    device.Params
	chunkSize int
	callback  InputCallback

	lifecycleMu sync.Mutex
	stopc       chan struct{}
	done        chan struct{}

	stopped  atomic.Bool
	overflow atomic.Bool
	slot     atomic.Pointer[Chunk]

	streamMu sync.Mutex
	stream   device.Stream

	errMu  sync.Mutex
	runErr error
}

// NewInput creates a capture track and synchronously starts it. Fails with
// a device.ErrDevice-wrapped error when the stream cannot be opened.
func NewInput(name string, host device.Host, cfg InputConfig) (*Input, error) {
	cfg = cfg.withDefaults()

	t := &Input{
		name:      name,
		host:      host,
		params:    cfg.Params,
		chunkSize: cfg.ChunkSize,
		callback:  cfg.Callback,
	}
	t.stopped.Store(true)

	if err := t.Start(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Input) Name() string          { return t.name }
func (t *Input) Params() device.Params { return t.params }
func (t *Input) ChunkSize() int        { return t.chunkSize }
func (t *Input) Running() bool         { return !t.stopped.Load() }

// Overflow reports whether the device lost samples on the last cycle.
func (t *Input) Overflow() bool { return t.overflow.Load() }

// Stream returns the open device stream, or nil when the track is stopped.
func (t *Input) Stream() device.Stream {
	t.streamMu.Lock()
	defer t.streamMu.Unlock()
	return t.stream
}

// Read returns the most recently captured chunk. ok=false means nothing has
// been published yet, or the track is stopped.
func (t *Input) Read() (Chunk, bool) {
	p := t.slot.Load()
	if p == nil {
		return Chunk{}, false
	}
	return *p, true
}

// Start opens the device stream and spawns the runner, blocking until the
// track is Running. A previously recorded fatal runner error is returned
// (and cleared) instead of starting.
func (t *Input) Start() error {
	t.lifecycleMu.Lock()
	defer t.lifecycleMu.Unlock()

	if err := t.takeRunErr(); err != nil {
		return err
	}
	if !t.stopped.Load() {
		return nil
	}

	t.stopc = make(chan struct{})
	t.done = make(chan struct{})

	ready := make(chan error, 1)
	go t.run(t.stopc, t.done, ready)

	if err := <-ready; err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"track":      t.name,
		"chunk_size": t.chunkSize,
	}).Info("input track started")
	return nil
}

// Stop signals the runner, waits for teardown and clears the slot.
// Idempotent.
func (t *Input) Stop() error {
	t.lifecycleMu.Lock()
	defer t.lifecycleMu.Unlock()

	if t.stopped.Load() {
		return t.takeRunErr()
	}

	close(t.stopc)
	<-t.done

	logrus.WithField("track", t.name).Info("input track stopped")
	return t.takeRunErr()
}

// run is the stream runner; it owns the device stream exclusively.
func (t *Input) run(stopc, done chan struct{}, ready chan<- error) {
	stream, err := t.host.OpenInput(t.params)
	if err != nil {
		ready <- fmt.Errorf("open input %q: %w", t.name, err)
		return
	}

	channels := stream.Channels()
	t.setStream(stream)
	t.stopped.Store(false)
	ready <- nil

	defer func() {
		if r := recover(); r != nil {
			t.setRunErr(fmt.Errorf("%w: %v", ErrCallbackPanic, r))
			logrus.WithFields(logrus.Fields{
				"track": t.name,
				"panic": r,
			}).Error("input runner terminated by callback panic")
		}
		_ = stream.Close()
		t.setStream(nil)
		t.slot.Store(nil)
		t.overflow.Store(false)
		t.stopped.Store(true)
		close(done)
	}()

	for {
		select {
		case <-stopc:
			return
		default:
		}

		// The blocking device read paces this loop at one chunk duration
		// per cycle. Each published chunk gets a fresh buffer because
		// readers hold references to whatever was in the slot before.
		data := make([]float32, t.chunkSize*channels)
		overflow, err := stream.Read(data)
		if err != nil {
			t.setRunErr(fmt.Errorf("capture chunk on %q: %w", t.name, err))
			logrus.WithFields(logrus.Fields{
				"track": t.name,
				"error": err,
			}).Error("input runner terminated by device read failure")
			return
		}

		c := Chunk{Data: data, Channels: channels}
		ok := true
		if t.callback != nil {
			c, ok = t.callback(t, c, overflow)
		}

		t.overflow.Store(overflow)
		if ok && !c.Empty() {
			t.slot.Store(&c)
		}
	}
}

func (t *Input) setStream(s device.Stream) {
	t.streamMu.Lock()
	t.stream = s
	t.streamMu.Unlock()
}

func (t *Input) setRunErr(err error) {
	t.errMu.Lock()
	t.runErr = err
	t.errMu.Unlock()
}

func (t *Input) takeRunErr() error {
	t.errMu.Lock()
	defer t.errMu.Unlock()
	err := t.runErr
	t.runErr = nil
	return err
}
