// Package deferheap postpones cleanup work: instead of releasing a value
// at scope exit, its byte image and a type-bound release callback are
// parked in a bounded per-goroutine buffer and run later, in FIFO order,
// at an explicitly chosen drain point.
package deferheap

import (
	"github.com/rs/zerolog"
)

// DefaultCapacity is the arena capacity used when none is given (512 bytes).
const DefaultCapacity = 512

// ReleaseFunc runs the cleanup logic for one buffered value. It receives
// the value's byte image and must not panic: by the time it runs, no
// caller remains positioned to recover. A callback may enqueue new work
// on its heap but must not dequeue or drain it.
type ReleaseFunc func(data []byte)

// pendingEntry describes one buffered value awaiting cleanup. Owned
// exclusively by the heap between enqueue and dequeue.
type pendingEntry struct {
	size    int
	offset  int
	release ReleaseFunc
	// ref pins a boxed copy of the wrapped value so the garbage
	// collector keeps its pointees reachable while the image sits in
	// untyped arena memory. Nil for raw Enqueue callers.
	ref any
}

// Options configures a Heap.
type Options struct {
	// Logger receives debug events (fallback cleanups, close-time
	// drains). Defaults to a no-op logger.
	Logger zerolog.Logger
}

// Heap buffers cleanup work for later execution. It owns a fixed-capacity
// arena and a FIFO queue of pending entries. Not goroutine-safe; each
// goroutine uses its own heap (see Get) or a SharedHeap.
type Heap struct {
	arena   *arena
	pending []pendingEntry
	pop     int // index of the queue head within pending
	log     zerolog.Logger

	deferred  uint64 // entries accepted into the arena
	released  uint64 // callbacks run through Dequeue
	fallbacks uint64 // immediate cleanups due to capacity exhaustion
}

// New creates a Heap with the given arena capacity.
// If capacity <= 0, DefaultCapacity is used.
func New(capacity int, optFns ...func(o *Options)) *Heap {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	opts := Options{Logger: zerolog.Nop()}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Heap{
		arena: newArena(capacity),
		log:   opts.Logger,
	}
}

// Enqueue hands len(src) bytes and their release callback to the heap.
// On success the bytes are copied into the arena and the callback is
// deferred; if no room is left, the callback runs immediately and
// synchronously against src and the heap is left unchanged. Either way
// the callback runs exactly once, so Enqueue never fails.
func (h *Heap) Enqueue(release ReleaseFunc, src []byte) {
	h.enqueue(release, src, nil)
}

func (h *Heap) enqueue(release ReleaseFunc, src []byte, ref any) {
	h.panicIfClosed()

	offset, ok := h.arena.reserve(len(src))
	if !ok {
		h.fallbacks++
		h.log.Debug().
			Int("size", len(src)).
			Int("pending", h.Pending()).
			Int("capacity", h.arena.capacity()).
			Msg("deferral capacity exhausted, releasing immediately")
		release(src)
		return
	}

	h.arena.store(offset, src)
	h.pending = append(h.pending, pendingEntry{
		size:    len(src),
		offset:  offset,
		release: release,
		ref:     ref,
	})
	h.deferred++
}

// Dequeue pops the oldest pending entry, runs its release callback
// against the arena bytes and reclaims the range. Returns false if
// nothing is pending. O(1).
func (h *Heap) Dequeue() bool {
	h.panicIfClosed()

	if h.pop == len(h.pending) {
		return false
	}

	e := h.pending[h.pop]
	h.pending[h.pop] = pendingEntry{} // drop callback and ref
	h.pop++
	if h.pop == len(h.pending) {
		// Queue emptied, reuse the slice from the start.
		h.pending = h.pending[:0]
		h.pop = 0
	}

	e.release(h.arena.view(e.offset, e.size))

	// The callback may itself have enqueued, so the next-oldest entry is
	// read only now.
	if h.Pending() > 0 {
		h.arena.release(e.size, h.pending[h.pop].offset, true)
	} else {
		h.arena.release(e.size, 0, false)
	}
	h.released++
	return true
}

// Drain runs every pending release callback in enqueue order and returns
// how many ran. Safe to call on an empty heap.
func (h *Heap) Drain() int {
	n := 0
	for h.Dequeue() {
		n++
	}
	return n
}

// Close drains the heap and makes it unusable. Any later Enqueue or
// Dequeue panics. Calling Close again is a no-op.
func (h *Heap) Close() {
	if h.arena == nil {
		return
	}
	if n := h.Drain(); n > 0 {
		h.log.Debug().Int("released", n).Msg("drained pending cleanups on close")
	}
	h.arena = nil
	h.pending = nil
	h.pop = 0
}

// Pending returns the number of entries awaiting cleanup.
func (h *Heap) Pending() int {
	return len(h.pending) - h.pop
}

// panicIfClosed panics if the heap has been closed.
func (h *Heap) panicIfClosed() {
	if h.arena == nil {
		panic("deferheap: use after Close()")
	}
}
