package deferheap

// arena is a fixed-capacity byte region laid out as a ring. Space is
// handed out by reserve in FIFO order and reclaimed by release the moment
// the corresponding entry is popped, so the region can be reused within a
// single heap lifetime. The arena never grows.
//
// Live bytes occupy either one contiguous range [head, tail) or, after a
// wrap, two ranges [head, cap) and [0, tail). A reservation is always
// contiguous: when the space at the end is too small but the reclaimed
// space at the front fits, placement wraps to offset 0 and the dead gap
// at the end is skipped once the head moves past it.
type arena struct {
	buf   []byte
	head  int // offset of the oldest live range
	tail  int // next write position
	used  int // live bytes including alignment padding, excluding wrap gaps
	count int // live ranges
}

func newArena(capacity int) *arena {
	return &arena{buf: make([]byte, capacity)}
}

func (a *arena) capacity() int {
	return len(a.buf)
}

// entryAlign is the alignment of every reservation. 8 covers all Go
// types, so a byte image can be reinterpreted as its original type at
// any offset the arena hands out.
const entryAlign = 8

// alignUp rounds n up to the next entryAlign boundary.
func alignUp(n int) int {
	return (n + entryAlign - 1) &^ (entryAlign - 1)
}

// reserve finds a contiguous spot for n bytes and returns its offset,
// always a multiple of entryAlign. Returns false when no contiguous run
// of n free bytes exists; the caller falls back to immediate cleanup in
// that case. Zero-size reservations succeed at the current tail without
// consuming space.
func (a *arena) reserve(n int) (int, bool) {
	if n == 0 {
		return a.tail, true
	}
	if n < 0 || n > len(a.buf) {
		return 0, false
	}
	n = alignUp(n)

	if a.count == 0 {
		a.head, a.tail = 0, 0
	}

	if a.count == 0 || a.tail > a.head {
		// Live range (if any) is [head, tail).
		if len(a.buf)-a.tail >= n {
			off := a.tail
			a.tail += n
			a.used += n
			a.count++
			return off, true
		}
		// Wrap: leave the end gap dead, start over at offset 0.
		if a.head >= n {
			a.tail = n
			a.used += n
			a.count++
			return 0, true
		}
		return 0, false
	}

	// Wrapped: live ranges are [head, cap) and [0, tail).
	if a.head-a.tail >= n {
		off := a.tail
		a.tail += n
		a.used += n
		a.count++
		return off, true
	}
	return 0, false
}

// store copies src into the arena at a previously reserved offset.
// Writing outside the region is a bug in the caller.
func (a *arena) store(offset int, src []byte) {
	if offset < 0 || offset+len(src) > len(a.buf) {
		panic("deferheap: arena store out of range")
	}
	copy(a.buf[offset:], src)
}

// view returns the bytes of a live range. The slice is capped so a
// release callback cannot write past its own entry.
func (a *arena) view(offset, n int) []byte {
	return a.buf[offset : offset+n : offset+n]
}

// release reclaims the oldest range. The head jumps directly to the next
// live range's offset, which also skips any dead wrap gap; when nothing
// remains the ring resets to empty.
func (a *arena) release(size, nextOffset int, hasNext bool) {
	if size > 0 {
		a.used -= alignUp(size)
		a.count--
	}
	if hasNext {
		a.head = nextOffset
		return
	}
	a.head, a.tail = 0, 0
}
