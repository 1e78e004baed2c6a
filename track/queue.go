// SPDX-License-Identifier: EPL-2.0

package track

// DefaultQueueSize is the queue capacity an output track gets when its
// config does not say otherwise. There is usually no reason to change it.
const DefaultQueueSize = 50

// Queue is a bounded FIFO of chunks connecting one playback producer to one
// stream runner. Built on a buffered channel, so single-producer /
// single-consumer access needs no external locking; the runner side pops
// without blocking and the producer side chooses between blocking and
// non-blocking pushes.
type Queue struct {
	ch chan Chunk
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueSize
	}
	return &Queue{ch: make(chan Chunk, capacity)}
}

// TryPush enqueues without blocking. Returns false when the queue is full;
// the chunk is never silently dropped.
func (q *Queue) TryPush(c Chunk) bool {
	select {
	case q.ch <- c:
		return true
	default:
		return false
	}
}

// Push blocks until space is available or cancel fires, in which case it
// returns ErrInterrupted.
func (q *Queue) Push(c Chunk, cancel <-chan struct{}) error {
	select {
	case q.ch <- c:
		return nil
	case <-cancel:
		return ErrInterrupted
	}
}

// TryPop dequeues without blocking. The runner treats a false result as
// silence for that cycle; nothing may stall the device loop.
func (q *Queue) TryPop() (Chunk, bool) {
	select {
	case c := <-q.ch:
		return c, true
	default:
		return Chunk{}, false
	}
}

// Drain empties the queue and returns how many chunks were discarded.
func (q *Queue) Drain() int {
	n := 0
	for {
		select {
		case <-q.ch:
			n++
		default:
			return n
		}
	}
}

// Len returns the number of queued chunks.
func (q *Queue) Len() int { return len(q.ch) }

// Cap returns the configured capacity.
func (q *Queue) Cap() int { return cap(q.ch) }
