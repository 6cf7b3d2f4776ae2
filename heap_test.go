package deferheap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		expected int
	}{
		{"default capacity", 0, DefaultCapacity},
		{"negative capacity", -1, DefaultCapacity},
		{"custom capacity", 4096, 4096},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(tt.capacity)
			defer h.Close()
			assert.Equal(t, tt.expected, h.Capacity())
			assert.Equal(t, 0, h.Pending())
		})
	}
}

func TestHeapFIFO(t *testing.T) {
	h := New(64)
	defer h.Close()

	var got []string
	for _, s := range []string{"one", "two", "three"} {
		h.Enqueue(func(data []byte) {
			got = append(got, string(data))
		}, []byte(s))
	}

	require.Equal(t, 3, h.Pending())
	assert.Empty(t, got, "nothing runs before drain")

	n := h.Drain()
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"one", "two", "three"}, got)
	assert.Equal(t, 0, h.Pending())
}

func TestHeapCopiesSource(t *testing.T) {
	h := New(64)
	defer h.Close()

	src := []byte("live")
	var got string
	h.Enqueue(func(data []byte) { got = string(data) }, src)

	// Mutating the source after enqueue must not affect the buffered
	// image; the heap owns its own copy.
	copy(src, "dead")
	h.Drain()
	assert.Equal(t, "live", got)
}

func TestHeapFallbackWhenFull(t *testing.T) {
	h := New(8)
	defer h.Close()

	h.Enqueue(func([]byte) {}, []byte("12345678"))
	require.Equal(t, 1, h.Pending())
	require.Equal(t, 8, h.BytesPending())

	ran := false
	src := []byte("abcd")
	h.Enqueue(func(data []byte) {
		ran = true
		assert.Equal(t, "abcd", string(data))
	}, src)

	assert.True(t, ran, "fallback cleanup runs synchronously")
	assert.Equal(t, 1, h.Pending(), "queue unchanged")
	assert.Equal(t, 8, h.BytesPending(), "no arena bytes written")
	assert.Equal(t, uint64(1), h.Fallbacks())
}

func TestHeapOversizedEntry(t *testing.T) {
	h := New(8)
	defer h.Close()

	// Larger than the whole arena: immediate cleanup even when empty.
	ran := false
	h.Enqueue(func([]byte) { ran = true }, make([]byte, 9))
	assert.True(t, ran)
	assert.Equal(t, 0, h.Pending())
}

func TestDequeue(t *testing.T) {
	h := New(64)
	defer h.Close()

	assert.False(t, h.Dequeue(), "empty heap dequeues nothing")

	calls := 0
	h.Enqueue(func([]byte) { calls++ }, []byte("x"))
	h.Enqueue(func([]byte) { calls++ }, []byte("y"))

	assert.True(t, h.Dequeue())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, h.Pending())

	assert.True(t, h.Dequeue())
	assert.False(t, h.Dequeue())
	assert.Equal(t, 2, calls)
}

func TestDrainEmpty(t *testing.T) {
	h := New(64)
	defer h.Close()

	assert.Equal(t, 0, h.Drain())
	assert.Equal(t, 0, h.Drain(), "drain is idempotent")
}

func TestHeapReusesDrainedSpace(t *testing.T) {
	h := New(16)
	defer h.Close()

	for round := 0; round < 10; round++ {
		h.Enqueue(func([]byte) {}, []byte("12345678"))
		h.Enqueue(func([]byte) {}, []byte("abcdefgh"))
		require.Equal(t, 2, h.Pending(), "round %d", round)
		require.Equal(t, 2, h.Drain())
	}
	assert.Equal(t, uint64(20), h.Deferred())
	assert.Equal(t, uint64(0), h.Fallbacks())
}

func TestHeapZeroSizeEntry(t *testing.T) {
	h := New(16)
	defer h.Close()

	ran := false
	h.Enqueue(func(data []byte) {
		ran = true
		assert.Empty(t, data)
	}, nil)

	assert.Equal(t, 1, h.Pending())
	assert.Equal(t, 0, h.BytesPending())
	h.Drain()
	assert.True(t, ran)
}

func TestHeapReentrantEnqueue(t *testing.T) {
	h := New(64)
	defer h.Close()

	var got []string
	h.Enqueue(func([]byte) {
		got = append(got, "outer")
		h.Enqueue(func([]byte) { got = append(got, "inner") }, []byte("innerdat"))
	}, []byte("outerdat"))

	// Drain picks up work enqueued by callbacks themselves.
	assert.Equal(t, 2, h.Drain())
	assert.Equal(t, []string{"outer", "inner"}, got)
	assert.Equal(t, 0, h.Pending())
	assert.Equal(t, 0, h.BytesPending())
}

func TestClose(t *testing.T) {
	h := New(64)

	calls := 0
	h.Enqueue(func([]byte) { calls++ }, []byte("x"))
	h.Close()
	assert.Equal(t, 1, calls, "close drains pending entries")

	h.Close() // idempotent

	assert.Panics(t, func() { h.Enqueue(func([]byte) {}, []byte("x")) })
	assert.Panics(t, func() { h.Dequeue() })
}

func TestManyEntriesKeepOrder(t *testing.T) {
	h := New(1 << 16)
	defer h.Close()

	const n = 1000
	var got []int
	for i := 0; i < n; i++ {
		i := i
		h.Enqueue(func(data []byte) {
			assert.Equal(t, fmt.Sprintf("%04d", i), string(data))
			got = append(got, i)
		}, []byte(fmt.Sprintf("%04d", i)))
	}

	require.Equal(t, n, h.Drain())
	for i := 1; i < n; i++ {
		require.Less(t, got[i-1], got[i])
	}
}
