package deferheap

// Capacity returns the arena capacity in bytes, fixed at construction.
// Returns 0 after Close.
func (h *Heap) Capacity() int {
	if h.arena == nil {
		return 0
	}
	return h.arena.capacity()
}

// BytesPending returns the number of arena bytes occupied by entries
// awaiting cleanup. This includes internal fragmentation due to
// alignment.
func (h *Heap) BytesPending() int {
	if h.arena == nil {
		return 0
	}
	return h.arena.used
}

// Utilization returns the ratio of pending bytes to capacity (0.0 to 1.0).
// Returns 0.0 if the heap has no capacity.
func (h *Heap) Utilization() float64 {
	capacity := h.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(h.BytesPending()) / float64(capacity)
}

// Deferred returns the total number of entries accepted into the arena
// over the heap's lifetime.
func (h *Heap) Deferred() uint64 {
	return h.deferred
}

// Released returns the total number of release callbacks run through
// Dequeue or Drain.
func (h *Heap) Released() uint64 {
	return h.released
}

// Fallbacks returns the total number of immediate cleanups caused by
// capacity exhaustion.
func (h *Heap) Fallbacks() uint64 {
	return h.fallbacks
}

// Metrics returns a snapshot of heap statistics.
func (h *Heap) Metrics() HeapMetrics {
	return HeapMetrics{
		Capacity:     h.Capacity(),
		BytesPending: h.BytesPending(),
		Pending:      h.Pending(),
		Deferred:     h.deferred,
		Released:     h.released,
		Fallbacks:    h.fallbacks,
		Utilization:  h.Utilization(),
	}
}

// HeapMetrics contains statistical information about a heap.
type HeapMetrics struct {
	Capacity     int     // Arena capacity in bytes
	BytesPending int     // Arena bytes occupied by pending entries
	Pending      int     // Entries awaiting cleanup
	Deferred     uint64  // Lifetime entries accepted into the arena
	Released     uint64  // Lifetime callbacks run
	Fallbacks    uint64  // Lifetime immediate cleanups (arena full)
	Utilization  float64 // Ratio of pending bytes to capacity (0.0-1.0)
}

// Goroutine-safe metrics for SharedHeap

// Capacity returns the arena capacity in bytes.
func (s *SharedHeap) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Capacity()
}

// BytesPending returns the number of arena bytes occupied by pending
// entries.
func (s *SharedHeap) BytesPending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.BytesPending()
}

// Utilization returns the ratio of pending bytes to capacity.
func (s *SharedHeap) Utilization() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Utilization()
}

// Deferred returns the total number of entries accepted into the arena.
func (s *SharedHeap) Deferred() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.deferred
}

// Released returns the total number of release callbacks run.
func (s *SharedHeap) Released() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.released
}

// Fallbacks returns the total number of immediate cleanups.
func (s *SharedHeap) Fallbacks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.fallbacks
}

// Metrics returns a snapshot of heap statistics.
func (s *SharedHeap) Metrics() HeapMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Metrics()
}
