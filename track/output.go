// SPDX-License-Identifier: EPL-2.0

package track

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audmix/device"
)

// OutputCallback lets the application transform or inject playback data.
// It runs on the stream runner once per device cycle, even when the queue
// was empty (ok=false), so it can synthesize audio from nothing. Returning
// ok=false (or an empty chunk) plays silence for that cycle. A panic inside
// the callback is fatal to the runner.
type OutputCallback func(t *Output, c Chunk, ok bool) (Chunk, bool)

// OutputConfig configures a playback track. The zero value is usable:
// default device parameters, queue of DefaultQueueSize, volume 1.0, basic
// effects enabled.
type OutputConfig struct {
	// Params requested from the device host. Zero value means
	// device.DefaultParams().
	Params device.Params
	// Callback is the optional per-cycle transform.
	Callback OutputCallback
	// QueueSize overrides the chunk queue capacity when positive.
	QueueSize int
	// Volume is the initial volume; 0 means the default of 1.0. Use
	// SetVolume afterwards to actually mute.
	Volume float64
	// DisableEffects turns the built-in volume gain off, for callers whose
	// callback already manages gain staging.
	DisableEffects bool
	// ConversionDir, when set, enables the ffmpeg fallback for files the
	// built-in decoders reject. See the decode package.
	ConversionDir string
}

func (cfg OutputConfig) withDefaults() OutputConfig {
	if cfg.Params == (device.Params{}) {
		cfg.Params = device.DefaultParams()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.Volume == 0 {
		cfg.Volume = 1.0
	}
	return cfg
}

// Output is a playback track: one device stream, one runner goroutine and a
// bounded chunk queue between them. Producers feed the queue through Write
// or PlayFile; the runner pops one chunk per device cycle and emits it.
type Output struct {
	name          string
	host          device.Host
	params        device.Params
	callback      OutputCallback
	applyFX       bool
	conversionDir string

	q *Queue

	// interrupt holds the current abort generation channel. Abort swaps in
	// a fresh channel and closes the old one; writers that captured the old
	// generation observe the close and stop producing.
	interrupt atomic.Value // chan struct{}

	// lifecycleMu serializes Start/Stop; abortMu serializes Abort and the
	// abort prologue of PlayFile.
	lifecycleMu sync.Mutex
	abortMu     sync.Mutex

	stopc chan struct{}
	done  chan struct{}

	stopped atomic.Bool
	playing atomic.Bool
	vol     atomic.Uint64 // math.Float64bits

	streamMu sync.Mutex
	stream   device.Stream

	errMu  sync.Mutex
	runErr error

	detailsMu sync.Mutex
	details   *PlayingDetails
}

// NewOutput creates a playback track and synchronously starts it: the call
// returns only after the runner owns an open device stream, or fails with a
// device.ErrDevice-wrapped error and no track.
func NewOutput(name string, host device.Host, cfg OutputConfig) (*Output, error) {
	cfg = cfg.withDefaults()

	t := &Output{
		name:          name,
		host:          host,
		params:        cfg.Params,
		callback:      cfg.Callback,
		applyFX:       !cfg.DisableEffects,
		conversionDir: cfg.ConversionDir,
		q:             NewQueue(cfg.QueueSize),
	}
	t.stopped.Store(true)
	t.interrupt.Store(make(chan struct{}))
	t.SetVolume(cfg.Volume)

	if err := t.Start(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Output) Name() string          { return t.name }
func (t *Output) Params() device.Params { return t.params }
func (t *Output) Running() bool         { return !t.stopped.Load() }

// Playing reports whether the runner emitted audio on its last cycle.
func (t *Output) Playing() bool { return t.playing.Load() }

// Volume returns the current volume setting (1.0 = unity).
func (t *Output) Volume() float64 {
	return math.Float64frombits(t.vol.Load())
}

// SetVolume changes the volume applied by the basic-effects transform.
// Takes effect on the next chunk; safe to call during playback.
func (t *Output) SetVolume(v float64) {
	t.vol.Store(math.Float64bits(v))
}

// Stream returns the open device stream, or nil when the track is stopped.
// Only the runner may call Read/Write on it.
func (t *Output) Stream() device.Stream {
	t.streamMu.Lock()
	defer t.streamMu.Unlock()
	return t.stream
}

// QueueLen returns the number of chunks currently queued.
func (t *Output) QueueLen() int { return t.q.Len() }

// QueueCap returns the queue capacity.
func (t *Output) QueueCap() int { return t.q.Cap() }

// PlayingDetails describes what an output track is currently rendering.
type PlayingDetails struct {
	Path       string
	SampleRate int
	Channels   int
}

// Details returns metadata about the current playback, or ok=false when the
// track is idle.
func (t *Output) Details() (PlayingDetails, bool) {
	if !t.playing.Load() {
		return PlayingDetails{}, false
	}
	t.detailsMu.Lock()
	defer t.detailsMu.Unlock()
	if t.details == nil {
		return PlayingDetails{}, false
	}
	return *t.details, true
}

// Start opens the device stream and spawns the runner. The call blocks
// until the runner reports Running. A previously recorded fatal runner
// error is returned (and cleared) instead of starting.
func (t *Output) Start() error {
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
		"track":       t.name,
		"sample_rate": t.Stream().SampleRate(),
		"channels":    t.Stream().Channels(),
	}).Info("output track started")
	return nil
}

// Stop aborts pending playback, tears down the stream and waits for the
// runner to exit. Idempotent.
func (t *Output) Stop() error {
	t.Abort()

	t.lifecycleMu.Lock()
	defer t.lifecycleMu.Unlock()

	if t.stopped.Load() {
		return t.takeRunErr()
	}

	close(t.stopc)
	<-t.done
	t.q.Drain()

	logrus.WithField("track", t.name).Info("output track stopped")
	return t.takeRunErr()
}

// Abort drains whatever is queued and interrupts any writer blocked on the
// queue, then waits until playback is observably over. The stream stays
// open; the track keeps running silence.
func (t *Output) Abort() {
	t.abortMu.Lock()
	defer t.abortMu.Unlock()
	t.abortLocked()
}

// abortAndCapture aborts and returns the fresh interrupt generation in one
// locked step. The playback pipeline must use this rather than Abort
// followed by interruptChan: an abort landing between those two calls would
// hand the same generation to two pipelines, and neither would interrupt
// the other.
func (t *Output) abortAndCapture() chan struct{} {
	t.abortMu.Lock()
	defer t.abortMu.Unlock()
	return t.abortLocked()
}

// abortLocked does the abort work under abortMu and returns the current
// interrupt generation.
func (t *Output) abortLocked() chan struct{} {
	if t.stopped.Load() {
		t.q.Drain()
		return t.interruptChan()
	}

	// New generation first: a writer mid-loop must see the closed channel
	// before it can race another chunk into the drained queue.
	next := make(chan struct{})
	old := t.interrupt.Swap(next).(chan struct{})
	close(old)
	t.setDetails(nil)

	// A writer blocked on the queue may complete its send in the same
	// instant the generation closes, so drain until the queue stays empty
	// and the runner has gone silent.
	for {
		t.q.Drain()
		if !t.playing.Load() && t.q.Len() == 0 {
			return next
		}
		time.Sleep(pollInterval)
	}
}

// Write queues one chunk for playback. With wait=true it blocks until there
// is space or an abort interrupts it (ErrInterrupted); with wait=false a
// full queue yields (false, nil) so hot-path callers can react without an
// error allocation.
func (t *Output) Write(c Chunk, wait bool) (bool, error) {
	return t.writeWith(c, t.interruptChan(), wait)
}

// writeWith writes against one fixed abort generation. The playback
// pipeline captures its generation once, via abortAndCapture, so a chunk of
// an aborted pipeline can never slip into the next fill.
func (t *Output) writeWith(c Chunk, intr chan struct{}, wait bool) (bool, error) {
	select {
	case <-intr:
		return false, ErrInterrupted
	default:
	}

	if !wait {
		return t.q.TryPush(c), nil
	}
	if err := t.q.Push(c, intr); err != nil {
		return false, err
	}
	return true, nil
}

func (t *Output) interruptChan() chan struct{} {
	return t.interrupt.Load().(chan struct{})
}

// run is the stream runner. It owns the device stream exclusively: opened
// here, closed here, never touched from any other goroutine.
func (t *Output) run(stopc, done chan struct{}, ready chan<- error) {
	stream, err := t.host.OpenOutput(t.params)
	if err != nil {
		ready <- fmt.Errorf("open output %q: %w", t.name, err)
		return
	}

	t.setStream(stream)
	t.stopped.Store(false)
	ready <- nil

	defer func() {
		if r := recover(); r != nil {
			t.setRunErr(fmt.Errorf("%w: %v", ErrCallbackPanic, r))
			logrus.WithFields(logrus.Fields{
				"track": t.name,
				"panic": r,
			}).Error("output runner terminated by callback panic")
		}
		// Swap and close the current generation so a writer blocked on
		// the now-dead queue is released instead of parking until the
		// next lifecycle call. The swap leaves a fresh channel behind
		// for a later restart.
		old := t.interrupt.Swap(make(chan struct{})).(chan struct{})
		close(old)
		_ = stream.Close()
		t.setStream(nil)
		t.q.Drain()
		t.playing.Store(false)
		t.setDetails(nil)
		t.stopped.Store(true)
		close(done)
	}()

	for {
		select {
		case <-stopc:
			return
		default:
		}

		c, ok := t.q.TryPop()
		if t.callback != nil {
			c, ok = t.callback(t, c, ok)
		}

		if !ok || c.Empty() {
			t.playing.Store(false)
			time.Sleep(idleInterval)
			continue
		}

		t.playing.Store(true)
		if t.applyFX {
			ApplyGain(c.Data, Gain(t.Volume()))
		}
		if err := stream.Write(c.Data); err != nil {
			t.setRunErr(fmt.Errorf("emit chunk on %q: %w", t.name, err))
			logrus.WithFields(logrus.Fields{
				"track": t.name,
				"error": err,
			}).Error("output runner terminated by device write failure")
			return
		}
	}
}

func (t *Output) setStream(s device.Stream) {
	t.streamMu.Lock()
	t.stream = s
	t.streamMu.Unlock()
}

func (t *Output) setRunErr(err error) {
	t.errMu.Lock()
	t.runErr = err
	t.errMu.Unlock()
}

func (t *Output) takeRunErr() error {
	t.errMu.Lock()
	defer t.errMu.Unlock()
	err := t.runErr
	t.runErr = nil
	return err
}

func (t *Output) setDetails(d *PlayingDetails) {
	t.detailsMu.Lock()
	t.details = d
	t.detailsMu.Unlock()
}
