package deferheap

import "sync"

// SharedHeap is a mutex-protected wrapper around Heap for callers that
// want one heap shared by several goroutines instead of the per-goroutine
// instances handed out by Get. All operations are safe for concurrent use
// but pay for the lock; release callbacks run under it, so they must not
// touch the shared heap.
type SharedHeap struct {
	mu sync.Mutex
	h  *Heap
}

// NewShared creates a goroutine-safe heap with the given arena capacity.
// If capacity <= 0, DefaultCapacity is used.
func NewShared(capacity int, optFns ...func(o *Options)) *SharedHeap {
	return &SharedHeap{h: New(capacity, optFns...)}
}

// Enqueue hands bytes and their release callback to the heap. See
// (*Heap).Enqueue.
func (s *SharedHeap) Enqueue(release ReleaseFunc, src []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h.Enqueue(release, src)
}

func (s *SharedHeap) enqueue(release ReleaseFunc, src []byte, ref any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h.enqueue(release, src, ref)
}

// Dequeue pops and releases the oldest pending entry. See (*Heap).Dequeue.
func (s *SharedHeap) Dequeue() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Dequeue()
}

// Drain runs every pending release callback in enqueue order and returns
// how many ran.
func (s *SharedHeap) Drain() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Drain()
}

// Close drains the heap and makes it unusable.
func (s *SharedHeap) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h.Close()
}

// Pending returns the number of entries awaiting cleanup.
func (s *SharedHeap) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Pending()
}
