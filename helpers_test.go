package blobbuf

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// pattern returns n distinct-looking bytes derived from seed. Offsets map to
// different bytes, so chunks that secretly alias each other corrupt the
// pattern and fail verification.
func pattern(seed byte, n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = seed + byte(i*7)
	}
	return p
}

// fill overwrites the blob's whole data region with pattern(seed).
func fill(tb testing.TB, b *Blob, seed byte) {
	tb.Helper()
	n := CopyIn(b, 0, pattern(seed, b.Length()))
	require.Equal(tb, b.Length(), n)
}

// verify asserts the data region still reads back as pattern(seed).
func verify(tb testing.TB, b *Blob, seed byte) {
	tb.Helper()
	require.Equal(tb, pattern(seed, b.Length()), Bytes(b))
}

// checkInvariants asserts the structural relationships every mutator must
// preserve: the capacity account matches the chunk sizes, the boundary is
// the minimal covering prefix, and a nonempty blob's last data buffer holds
// at least one byte.
func checkInvariants(tb testing.TB, b *Blob) {
	tb.Helper()
	require.GreaterOrEqual(tb, b.Length(), 0)
	require.LessOrEqual(tb, b.Length(), b.TotalSize())

	sum := 0
	for i := range b.NumBuffers() {
		sum += b.BufferAt(i).Size()
	}
	require.Equal(tb, sum, b.TotalSize())

	ndb := b.NumDataBuffers()
	ldbl := b.LastDataBufferLength()
	require.LessOrEqual(tb, ndb, b.NumBuffers())
	if b.Length() == 0 {
		require.Zero(tb, ndb)
		require.Zero(tb, ldbl)
		return
	}
	require.Positive(tb, ldbl)
	require.LessOrEqual(tb, ldbl, b.BufferAt(ndb-1).Size())
	prefix := 0
	for i := range ndb - 1 {
		prefix += b.BufferAt(i).Size()
	}
	require.Equal(tb, b.Length()-prefix, ldbl)
}

// countingFactory allocates fixed-size chunks and tracks how many are still
// referenced somewhere, via their release hooks.
type countingFactory struct {
	size int
	mu   sync.Mutex
	live int
}

func newCountingFactory(size int) *countingFactory {
	return &countingFactory{size: size}
}

func (f *countingFactory) Allocate() Buffer {
	f.mu.Lock()
	f.live++
	f.mu.Unlock()
	return NewBufferWithRelease(make([]byte, f.size), func([]byte) {
		f.mu.Lock()
		f.live--
		f.mu.Unlock()
	})
}

func (f *countingFactory) liveChunks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live
}
