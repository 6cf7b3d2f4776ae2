package deferheap

import "unsafe"

// Releasable is implemented by wrapped types that carry cleanup logic.
// Release must not panic (see ReleaseFunc). Types that do not implement
// it are trivial: their slots never touch the heap.
type Releasable interface {
	Release()
}

// sink is where a slot hands off its byte image at scope exit.
// Implemented by Heap and SharedHeap.
type sink interface {
	enqueue(release ReleaseFunc, src []byte, ref any)
}

// Slot holds one value of type T in inline storage and postpones its
// cleanup. Construct a slot instead of the bare value, use the value
// through Value, and defer Close; Close hands the value's byte image and
// a release callback bound to T over to the heap in place of immediate
// cleanup.
//
// A slot is used through the pointer returned by NewSlot and must not be
// copied: after Close the heap's copy is the only surviving image of the
// value, transferred verbatim, so T must not rely on the address of its
// own storage.
type Slot[T any] struct {
	heap   sink
	value  T
	closed bool
}

// NewSlot wraps value in a slot bound to h. A nil heap binds the slot to
// the calling goroutine's heap (see Get).
func NewSlot[T any](h *Heap, value T) *Slot[T] {
	if h == nil {
		h = Get()
	}
	return &Slot[T]{heap: h, value: value}
}

// NewSharedSlot wraps value in a slot bound to a shared heap.
func NewSharedSlot[T any](sh *SharedHeap, value T) *Slot[T] {
	return &Slot[T]{heap: sh, value: value}
}

// Value returns the live value. Valid only before Close.
func (s *Slot[T]) Value() *T {
	return &s.value
}

// Close ends the value's scope. For trivial T nothing happens. Otherwise
// the value's raw bytes and the release function for T are enqueued on
// the bound heap; if the heap's arena is full the release runs
// immediately instead. Close is idempotent and nil-safe.
func (s *Slot[T]) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true

	if _, ok := any(&s.value).(Releasable); !ok {
		return
	}

	size := unsafe.Sizeof(s.value)
	src := unsafe.Slice((*byte)(unsafe.Pointer(&s.value)), size)
	// The boxed copy keeps pointees of s.value reachable while the image
	// waits in the arena's untyped memory.
	s.heap.enqueue(releaseImage[T], src, s.value)
}

// releaseImage is the release function for one wrapped type. One
// instantiation exists per T, resolved at compile time; it reinterprets
// the byte image as a T and runs its cleanup.
func releaseImage[T any](data []byte) {
	if len(data) == 0 {
		// Zero-size T carries no state, a fresh value is equivalent.
		var v T
		any(&v).(Releasable).Release()
		return
	}
	v := (*T)(unsafe.Pointer(unsafe.SliceData(data)))
	any(v).(Releasable).Release()
}
