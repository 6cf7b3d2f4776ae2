package deferheap

import (
	"runtime"

	"github.com/puzpuzpuz/xsync/v3"
)

// locals maps goroutine id to that goroutine's heap.
var locals = xsync.NewMapOf[uint64, *Heap]()

// Get returns the calling goroutine's heap, creating it with
// DefaultCapacity on first use. The heap is private to the goroutine:
// work deferred on it is only visible to, and only drainable by, the same
// goroutine. Pair every goroutine that uses Get with Detach, or run it
// under Scope, so pending cleanups are drained before it exits.
func Get() *Heap {
	return GetSized(0)
}

// GetSized is like Get but creates the heap with the given capacity on
// first use. The capacity of a heap that already exists is not changed.
func GetSized(capacity int) *Heap {
	h, _ := locals.LoadOrCompute(gid(), func() *Heap {
		return New(capacity)
	})
	return h
}

// Detach drains, closes and removes the calling goroutine's heap.
// A no-op if the goroutine never called Get.
func Detach() {
	if h, ok := locals.LoadAndDelete(gid()); ok {
		h.Close()
	}
}

// Scope runs fn and tears down the calling goroutine's heap when it
// returns, draining everything still pending. It stands in for the
// thread-teardown drain of thread-local storage:
//
//	go func() {
//		deferheap.Scope(func() {
//			// slots closed here drain at the latest when Scope returns
//		})
//	}()
func Scope(fn func()) {
	defer Detach()
	fn()
}

// gid extracts the goroutine id from the runtime.Stack header, which
// starts "goroutine N [".
func gid() uint64 {
	var buf [32]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for _, c := range buf[len("goroutine "):n] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
