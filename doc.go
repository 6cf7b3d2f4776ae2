// Package deferheap implements deferred destruction: a value's cleanup
// logic is postponed from scope exit to a later, explicitly chosen drain
// point. This is particularly useful for:
//
//   - Hot paths where release work is expensive or disruptive
//   - Batching many small cleanups into one drain pass
//   - Keeping teardown cost off latency-sensitive code
//
// # Basic Usage
//
//	type conn struct{ fd int }
//
//	func (c *conn) Release() { closeFd(c.fd) }
//
//	func handle() {
//		slot := deferheap.NewSlot(nil, conn{fd: open()})
//		defer slot.Close() // defers Release, does not run it
//
//		use(slot.Value())
//	}
//
//	// later, off the hot path:
//	deferheap.Get().Drain()
//
// A slot is constructed exactly like the bare value and used through
// Value. Close does not run the value's Release; it copies the value's
// bytes into a bounded arena and queues a release callback bound to the
// value's type. Drain (or Dequeue, one entry at a time) runs the queued
// callbacks in the order the slots were closed. Types that do not
// implement Releasable are trivial: their slots never touch the heap.
//
// # Capacity
//
// The arena has a fixed capacity (default 512 bytes) set when the heap is
// first created. When an entry does not fit, deferral degrades to running
// the release immediately and synchronously; nothing is lost but the
// postponement. Space is laid out as a ring and reclaimed as soon as an
// entry is released, so a drained heap can be filled again.
//
// # Goroutine Model
//
// Get returns a heap private to the calling goroutine, created lazily.
// No state is shared between goroutines, so the heap takes no locks.
// Pending work is only drainable by the owning goroutine and must be
// drained before it exits: call Detach, or run the goroutine body under
// Scope, which detaches on return.
//
// For a single heap shared across goroutines, use SharedHeap:
//
//	sh := deferheap.NewShared(4096)
//	defer sh.Close()
//
//	slot := deferheap.NewSharedSlot(sh, conn{fd: open()})
//	defer slot.Close()
//
// # Ordering and Failure
//
// Within one heap, release callbacks always run in the exact order their
// slots were closed, exactly once each, either through Dequeue/Drain or
// through the drain performed by Close. Release callbacks must not panic:
// when they run, no caller remains positioned to recover. The facility
// itself never fails; capacity exhaustion is the only degraded mode and
// is handled internally.
//
// # Important Notes
//
//   - The arena is untyped memory: after Close the heap's byte copy is
//     the only surviving image of the value, so wrapped types must not
//     rely on the address of their own storage. A boxed reference keeps
//     pointees reachable until the release runs.
//   - Slots must not be copied after creation.
//   - There is no cancellation: a closed slot's release always runs.
//
// # Metrics and Monitoring
//
// The heap exposes counters and a snapshot for monitoring:
//
//	m := deferheap.Get().Metrics()
//	fmt.Printf("Pending: %d entries, %d bytes\n", m.Pending, m.BytesPending)
//	fmt.Printf("Fallbacks: %d\n", m.Fallbacks)
package deferheap
