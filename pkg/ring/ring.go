// Package ring implements the lock-free single-producer/single-consumer
// ring that crosses the real-time boundary: a real-time audio callback
// writes records that a separate consumer thread drains and formats. The
// producer never blocks or allocates; on overflow it drops silently. The
// accompanying mutex+condition-variable pair is used purely to wake a
// sleeping consumer - it protects no data, mirroring spec §5's "the mutex
// protects no data, it exists so the condition variable has a lock to
// associate with" requirement. The drop-on-overflow discipline is grounded
// on blitss-sip-tg-bridge/bridge/pcm/playout_buffer.go; the atomic
// head/tail counters are grounded on bridge/pipeline/silence_filler.go's
// use of atomic.Uint64 for lock-free producer-side state.
package ring

import (
	"sync"
	"sync/atomic"
)

// Ring is a fixed-capacity SPSC ring buffer of T. Capacity is rounded up
// internally only in the sense that one slot is always left empty to
// distinguish full from empty; callers size it per spec §4.6 (20 records
// for timecode; the log ring holds 4096 LogRecord slots rather than bytes).
type Ring[T any] struct {
	buf []T
	cap uint64

	head uint64 // next write index, producer-owned
	tail uint64 // next read index, consumer-owned

	mu   sync.Mutex
	cond *sync.Cond

	// alive is cleared by the host shutdown callback so the consumer
	// loop can observe it after waking and exit.
	alive atomic.Bool
}

// New creates a ring with room for capacity records. capacity must be >=1.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	r := &Ring[T]{
		buf: make([]T, capacity+1),
		cap: uint64(capacity + 1),
	}
	r.cond = sync.NewCond(&r.mu)
	r.alive.Store(true)
	return r
}

// writeSpace returns how many records can currently be written without
// overtaking the consumer's tail.
func (r *Ring[T]) writeSpace() uint64 {
	head := atomic.LoadUint64(&r.head)
	tail := atomic.LoadUint64(&r.tail)
	used := (head - tail + r.cap) % r.cap
	return r.cap - 1 - used
}

// Push is the RT-side producer call: it writes v if there is room,
// otherwise it drops the record silently and returns false. It never
// blocks. After a successful write it attempts a non-blocking wakeup
// signal via TryLock; if the lock is held by the consumer it gives up
// immediately rather than waiting, per spec §4.6's "try-acquire the
// mutex; if obtained, signal... and release".
func (r *Ring[T]) Push(v T) bool {
	if r.writeSpace() < 1 {
		return false
	}
	head := atomic.LoadUint64(&r.head)
	r.buf[head%r.cap] = v
	atomic.StoreUint64(&r.head, (head+1)%r.cap)

	if r.mu.TryLock() {
		r.cond.Signal()
		r.mu.Unlock()
	}
	return true
}

// Drain is the consumer-side call: it removes and returns every record
// currently available, in production order, without blocking.
func (r *Ring[T]) Drain() []T {
	tail := atomic.LoadUint64(&r.tail)
	head := atomic.LoadUint64(&r.head)
	if tail == head {
		return nil
	}
	n := (head - tail + r.cap) % r.cap
	out := make([]T, 0, n)
	for i := uint64(0); i < n; i++ {
		out = append(out, r.buf[(tail+i)%r.cap])
	}
	atomic.StoreUint64(&r.tail, head)
	return out
}

// Wait blocks the consumer until either a producer signal wakes it or the
// ring has been marked not-alive (host shutdown). Callers loop: Drain,
// process, then Wait if nothing was drained.
func (r *Ring[T]) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.Alive() {
		return
	}
	r.cond.Wait()
}

// Alive reports whether the host client is still alive, per the shutdown
// ordering in spec §4.6: the shutdown callback clears this and signals the
// condition variable so a waiting consumer observes it and exits.
func (r *Ring[T]) Alive() bool {
	return r.alive.Load()
}

// Shutdown marks the ring not-alive and wakes any waiting consumer.
func (r *Ring[T]) Shutdown() {
	r.alive.Store(false)
	r.mu.Lock()
	r.cond.Broadcast()
	r.mu.Unlock()
}
