package blobbuf

import "sync/atomic"

// storage is the shared backing for one chunk of blob memory. Every Buffer
// cut from the same allocation points at one storage record, and the last
// reference to drop runs the release hook.
type storage struct {
	data    []byte
	refs    atomic.Int32
	release func([]byte)
}

func (s *storage) ref() {
	s.refs.Add(1)
}

func (s *storage) unref() {
	n := s.refs.Add(-1)
	switch {
	case n == 0:
		if s.release != nil {
			s.release(s.data)
		}
	case n < 0:
		panic("blobbuf: buffer released more times than referenced")
	}
}

// A Buffer is a fixed-size window over shared, reference-counted storage.
// The zero value is an empty buffer with no storage.
//
// Buffers are plain values and copying one does not add a reference: a copy
// is the same reference seen twice. Ownership moves with the value. Passing
// a Buffer to a [Blob] mutator hands the reference to the blob; keeping a
// usable handle as well requires [Buffer.Ref].
type Buffer struct {
	store *storage
	off   int
	n     int
}

// NewBuffer wraps caller-owned bytes in a Buffer holding one reference.
// There is no release hook, so the bytes live until the garbage collector
// can prove all references and outside aliases are gone.
func NewBuffer(data []byte) Buffer {
	return NewBufferWithRelease(data, nil)
}

// NewBufferWithRelease wraps bytes whose storage needs explicit
// reclamation. release runs exactly once, when the last reference drops,
// and receives the original data slice. A nil release is equivalent to
// [NewBuffer].
func NewBufferWithRelease(data []byte, release func([]byte)) Buffer {
	s := &storage{data: data, release: release}
	s.refs.Store(1)
	return Buffer{store: s, n: len(data)}
}

// Data returns the bytes visible through this window, nil for the zero
// value. The slice remains valid only while the buffer holds a reference.
func (b Buffer) Data() []byte {
	if b.store == nil {
		return nil
	}
	return b.store.data[b.off : b.off+b.n]
}

// Size returns the width of the window in bytes.
func (b Buffer) Size() int {
	return b.n
}

// Equal reports whether two buffers are the same window over the same
// storage. Content is never compared: two buffers with identical bytes in
// distinct allocations are not equal.
func (b Buffer) Equal(o Buffer) bool {
	return b.store == o.store && b.off == o.off && b.n == o.n
}

// Ref acquires an additional reference and returns the same window. Use it
// to keep a handle across an ownership transfer, or to insert the same
// storage into a blob more than once.
func (b Buffer) Ref() Buffer {
	if b.store != nil {
		b.store.ref()
	}
	return b
}

// Release drops one reference. Releasing the zero value is a no-op;
// releasing more references than were acquired panics.
func (b Buffer) Release() {
	if b.store != nil {
		b.store.unref()
	}
}

// Slice returns a sub-window [i, j) of this buffer, holding its own new
// reference. The result aliases the same storage, so writes through either
// window are visible in both. Panics if the range is out of bounds.
func (b Buffer) Slice(i, j int) Buffer {
	if i < 0 || j < i || j > b.n {
		panic("blobbuf: buffer slice out of range")
	}
	if b.store != nil {
		b.store.ref()
	}
	return Buffer{store: b.store, off: b.off + i, n: j - i}
}
