package blobbuf

import "sync"

// A Factory is a blob's growth policy. Allocate produces one new chunk with
// a size chosen by the policy; the blob appends chunks until it has enough
// capacity. Factories shared across goroutines must be safe for concurrent
// use; all implementations in this package are.
//
// Chunks handed out for growth must have positive size. [Blob.SetLength]
// panics on a factory that returns an empty chunk, since growth could never
// terminate.
type Factory interface {
	Allocate() Buffer
}

var (
	_ Factory = (*SimpleFactory)(nil)
	_ Factory = (*PooledFactory)(nil)
	_ Factory = (*GeometricFactory)(nil)
	_ Factory = (*MmapFactory)(nil)
)

// SimpleFactory allocates fixed-size zeroed chunks from the heap.
type SimpleFactory struct {
	size int
}

// NewSimpleFactory returns a factory producing chunks of the given size.
// Panics if size is not positive.
func NewSimpleFactory(size int) *SimpleFactory {
	if size <= 0 {
		panic("blobbuf: factory chunk size must be positive")
	}
	return &SimpleFactory{size: size}
}

// Allocate returns a fresh heap chunk.
func (f *SimpleFactory) Allocate() Buffer {
	return NewBuffer(make([]byte, f.size))
}

// BufferSize returns the fixed chunk size.
func (f *SimpleFactory) BufferSize() int {
	return f.size
}

// PooledFactory allocates fixed-size chunks and recycles their storage
// through a [sync.Pool]: a chunk's bytes go back to the pool when its last
// reference drops. Recycled chunks carry stale bytes, so callers must write
// before they read. A stale alias held past its Release reads recycled
// memory; balance Ref and Release precisely.
type PooledFactory struct {
	size int
	pool sync.Pool
}

// NewPooledFactory returns a pooled factory producing chunks of the given
// size. Panics if size is not positive.
func NewPooledFactory(size int) *PooledFactory {
	if size <= 0 {
		panic("blobbuf: factory chunk size must be positive")
	}
	f := &PooledFactory{size: size}
	f.pool.New = func() any {
		b := make([]byte, size)
		return &b
	}
	return f
}

// Allocate returns a chunk from the pool, growing the pool as needed.
func (f *PooledFactory) Allocate() Buffer {
	p := f.pool.Get().(*[]byte)
	return NewBufferWithRelease(*p, func([]byte) {
		f.pool.Put(p)
	})
}

// BufferSize returns the fixed chunk size.
func (f *PooledFactory) BufferSize() int {
	return f.size
}

// GeometricFactory doubles the chunk size on every allocation, from initial
// up to a cap. Suited to blobs whose final size is unknown up front: the
// chunk count stays logarithmic in the total.
type GeometricFactory struct {
	mu   sync.Mutex
	next int
	max  int
}

// NewGeometricFactory returns a doubling factory starting at initial and
// capped at max. A max below initial is raised to initial. Panics if
// initial is not positive.
func NewGeometricFactory(initial, max int) *GeometricFactory {
	if initial <= 0 {
		panic("blobbuf: factory chunk size must be positive")
	}
	if max < initial {
		max = initial
	}
	return &GeometricFactory{next: initial, max: max}
}

// Allocate returns a fresh heap chunk of the current size and doubles the
// size for the next call.
func (f *GeometricFactory) Allocate() Buffer {
	f.mu.Lock()
	size := f.next
	if size < f.max {
		f.next = min(size*2, f.max)
	}
	f.mu.Unlock()
	return NewBuffer(make([]byte, size))
}
