package blobbuf

import "slices"

// A Blob is a logical byte sequence stored across an ordered list of
// reference-counted chunks, plus an optional growth policy. The chunks up
// to the data/capacity boundary hold the data region; chunks past the
// boundary are capacity waiting for the length to grow over them.
//
// The boundary is always derived from the chunk list and the length, never
// stored: [Blob.NumDataBuffers] is the size of the minimal chunk prefix
// covering [Blob.Length], and [Blob.LastDataBufferLength] is the data held
// by the last chunk of that prefix. A zero-size chunk is a data buffer
// exactly when it sits inside the minimal prefix; at the boundary it is
// capacity. Whenever the length is positive, the last data buffer holds at
// least one byte of data.
//
// A Blob takes ownership of every chunk inserted into it and releases every
// chunk it removes. The zero value is an empty blob with no factory.
//
// Blobs are not safe for concurrent mutation. Concurrent readers are safe
// while no goroutine mutates the blob; chunk release is atomic, so blobs
// sharing storage may live on different goroutines.
type Blob struct {
	buffers []Buffer
	length  int
	total   int
	factory Factory
}

// New returns an empty blob configured by opts.
func New(opts ...Option) *Blob {
	b := &Blob{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Clone returns a copy sharing every chunk's storage: the clone holds one
// new reference per chunk and copies the length, so both blobs expose the
// same bytes until one of them removes or swaps chunks. The source's
// factory is not inherited; pass [WithFactory] to make the clone growable.
// Options apply after the chunks are copied.
func (b *Blob) Clone(opts ...Option) *Blob {
	c := &Blob{
		buffers: make([]Buffer, len(b.buffers)),
		length:  b.length,
		total:   b.total,
	}
	for i, buf := range b.buffers {
		c.buffers[i] = buf.Ref()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// dataEnd derives the data/capacity boundary: the number of chunks in the
// minimal prefix covering length, and the bytes of data in the last of
// them. The boundary is never stored; a stored copy is exactly what drifts
// out of sync with the chunk list.
func (b *Blob) dataEnd() (n, last int) {
	if b.length == 0 {
		return 0, 0
	}
	sum := 0
	for i, buf := range b.buffers {
		sum += buf.n
		if sum >= b.length {
			return i + 1, b.length - (sum - buf.n)
		}
	}
	panic("blobbuf: corrupt blob: length exceeds capacity")
}

// chunkAt locates the chunk containing data offset off, returning its index
// and the position inside it. An offset on a chunk boundary maps to the
// start of the next chunk that can hold a byte, and off == TotalSize maps
// past the last chunk.
func (b *Blob) chunkAt(off int) (idx, pos int) {
	for i, buf := range b.buffers {
		if off < buf.n {
			return i, off
		}
		off -= buf.n
	}
	return len(b.buffers), off
}

func (b *Blob) checkIndex(i int) {
	if i < 0 || i >= len(b.buffers) {
		panic("blobbuf: buffer index out of range")
	}
}

// allocate draws one chunk from the factory, enforcing the Factory contract
// that growth chunks have positive size. Callers check for a nil factory
// first; the right reaction differs by surface.
func (b *Blob) allocate() Buffer {
	buf := b.factory.Allocate()
	if buf.n == 0 {
		buf.Release()
		panic("blobbuf: factory returned an empty buffer")
	}
	return buf
}

// Length returns the number of bytes of data in the blob.
func (b *Blob) Length() int {
	return b.length
}

// TotalSize returns the summed size of all chunks, data and capacity alike.
// It is an account maintained by the mutators, not a recomputation, which
// is what makes [Blob.SetLength] within capacity O(1) and what
// [Blob.SwapBufferRaw] can knock out of sync.
func (b *Blob) TotalSize() int {
	return b.total
}

// NumBuffers returns the number of chunks, data and capacity alike.
func (b *Blob) NumBuffers() int {
	return len(b.buffers)
}

// NumDataBuffers returns the number of chunks in the data region: the
// smallest prefix whose sizes sum to at least the length, zero for an
// empty blob.
func (b *Blob) NumDataBuffers() int {
	n, _ := b.dataEnd()
	return n
}

// LastDataBufferLength returns the bytes of data held by the last data
// buffer, zero for an empty blob.
func (b *Blob) LastDataBufferLength() int {
	_, last := b.dataEnd()
	return last
}

// BufferAt returns the chunk at position i as a borrowed view: no reference
// is acquired, and the view is valid only until the blob releases the
// chunk. Call [Buffer.Ref] on the result to retain it. Panics if i is out
// of range.
func (b *Blob) BufferAt(i int) Buffer {
	b.checkIndex(i)
	return b.buffers[i]
}

// SetLength sets the logical length to n. Within existing capacity, both
// growing and shrinking are O(1) assignments and reversible: no chunk
// changes, so shrinking and growing back restores the exact prior state,
// and setting the current length is a no-op. Beyond capacity the factory
// allocates chunks, appended at the physical end, until capacity covers n;
// any overshoot in the final chunk remains capacity. Panics if n is
// negative, or if growth is required and the blob has no factory.
func (b *Blob) SetLength(n int) {
	if n < 0 {
		panic("blobbuf: negative blob length")
	}
	if n > b.total {
		if b.factory == nil {
			panic("blobbuf: blob growth requires a factory")
		}
		for b.total < n {
			buf := b.allocate()
			b.buffers = append(b.buffers, buf)
			b.total += buf.n
		}
	}
	b.length = n
}

// InsertBuffer inserts buf into the chunk sequence at position i, taking
// ownership of the caller's reference. The insertion extends the data
// region, and with it the length, by buf's size exactly when it lands
// strictly before the data/capacity boundary; at or past the boundary it
// adds capacity. Existing data bytes are unchanged either way. Panics if i
// is outside [0, NumBuffers()].
func (b *Blob) InsertBuffer(i int, buf Buffer) {
	if i < 0 || i > len(b.buffers) {
		panic("blobbuf: buffer index out of range")
	}
	ndb, _ := b.dataEnd()
	if i < ndb {
		b.length += buf.n
	}
	b.total += buf.n
	b.buffers = slices.Insert(b.buffers, i, buf)
}

// AppendBuffer appends buf at the physical end of the chunk sequence as
// capacity, taking ownership of the caller's reference. The length never
// changes, whatever buf's size.
func (b *Blob) AppendBuffer(buf Buffer) {
	b.total += buf.n
	b.buffers = append(b.buffers, buf)
}

// PrependDataBuffer inserts buf at position 0 as the new first data buffer,
// taking ownership of the caller's reference. The length grows by buf's
// size and existing data follows the new bytes. Prepending an empty chunk
// onto an empty blob leaves the length zero, so the chunk arrives as
// capacity rather than an empty data buffer.
func (b *Blob) PrependDataBuffer(buf Buffer) {
	b.length += buf.n
	b.total += buf.n
	b.buffers = slices.Insert(b.buffers, 0, buf)
}

// AppendDataBuffer appends buf as the new last data buffer, taking
// ownership of the caller's reference. The previous last data buffer is
// first trimmed of its unused tail; the implicit trim is a required part of
// the operation, since without it the old tail would silently join the data
// region. buf then lands at the data/capacity boundary, ahead of any
// capacity chunks, and the length grows by its size. Appending an empty
// chunk still trims, and the chunk itself arrives as leading capacity.
func (b *Blob) AppendDataBuffer(buf Buffer) {
	ndb := b.trim()
	b.length += buf.n
	b.total += buf.n
	b.buffers = slices.Insert(b.buffers, ndb, buf)
}

// TrimLastDataBuffer shrinks the recorded size of the last data buffer to
// the data it holds. Only the recorded size changes: the shared storage
// keeps its physical extent and other windows over it are unaffected, while
// the freed tail leaves the capacity account. No-op on an empty blob or
// when the last data buffer is already exact, so the operation is its own
// fixed point.
func (b *Blob) TrimLastDataBuffer() {
	b.trim()
}

// trim implements TrimLastDataBuffer and returns the boundary, which a
// trim never moves.
func (b *Blob) trim() int {
	ndb, last := b.dataEnd()
	if ndb > 0 {
		if tail := b.buffers[ndb-1].n - last; tail > 0 {
			b.buffers[ndb-1].n = last
			b.total -= tail
		}
	}
	return ndb
}

// RemoveBuffer removes and releases the chunk at position i. A capacity
// chunk costs capacity only. Removing a data chunk deletes its bytes from
// the data region: an interior data chunk shortens the length by its full
// size, the last data chunk by the data it held, which leaves the new last
// data buffer, if any, fully used. Panics if i is out of range.
func (b *Blob) RemoveBuffer(i int) {
	b.checkIndex(i)
	ndb, last := b.dataEnd()
	switch {
	case i == ndb-1:
		b.length -= last
	case i < ndb:
		b.length -= b.buffers[i].n
	}
	b.total -= b.buffers[i].n
	b.buffers[i].Release()
	b.buffers = slices.Delete(b.buffers, i, i+1)
}

// RemoveBuffers removes and releases n chunks starting at position i, each
// accounted against the boundary as it stood before the call. Panics if the
// range is out of bounds.
func (b *Blob) RemoveBuffers(i, n int) {
	if i < 0 || n < 0 || n > len(b.buffers)-i {
		panic("blobbuf: buffer range out of range")
	}
	ndb, last := b.dataEnd()
	for j := i; j < i+n; j++ {
		switch {
		case j == ndb-1:
			b.length -= last
		case j < ndb:
			b.length -= b.buffers[j].n
		}
		b.total -= b.buffers[j].n
		b.buffers[j].Release()
	}
	b.buffers = slices.Delete(b.buffers, i, i+n)
}

// RemoveUnusedBuffers removes and releases every pure capacity chunk, the
// ones past the data/capacity boundary. Data, length, and the boundary are
// unchanged; NumBuffers becomes NumDataBuffers.
func (b *Blob) RemoveUnusedBuffers() {
	ndb, _ := b.dataEnd()
	for j := ndb; j < len(b.buffers); j++ {
		b.total -= b.buffers[j].n
		b.buffers[j].Release()
	}
	clear(b.buffers[ndb:])
	b.buffers = b.buffers[:ndb]
}

// RemoveAll releases every chunk and resets length and capacity to zero.
// The factory is kept.
func (b *Blob) RemoveAll() {
	for _, buf := range b.buffers {
		buf.Release()
	}
	clear(b.buffers)
	b.buffers = b.buffers[:0]
	b.length = 0
	b.total = 0
}

// SwapBufferRaw exchanges the chunk at position i with *buf, unchecked:
// ownership swaps between the slot and the caller and no accounting is
// updated. Callers must supply a same-sized replacement or accept that the
// capacity account no longer matches the physical chunk sizes. Panics if i
// is out of range or buf is nil.
func (b *Blob) SwapBufferRaw(i int, buf *Buffer) {
	b.checkIndex(i)
	if buf == nil {
		panic("blobbuf: nil buffer")
	}
	b.buffers[i], *buf = *buf, b.buffers[i]
}

// MoveBuffers transplants other's chunk list and length into b in O(1),
// releasing b's current chunks. other is left with no chunks and zero
// length; both blobs keep their own factories. Moving a blob into itself
// is a no-op.
func (b *Blob) MoveBuffers(other *Blob) {
	if other == b {
		return
	}
	for _, buf := range b.buffers {
		buf.Release()
	}
	b.buffers = other.buffers
	b.length = other.length
	b.total = other.total
	other.buffers = nil
	other.length = 0
	other.total = 0
}

// MoveDataBuffers replaces b's entire chunk list with other's data chunks,
// adopting other's length. b's previous chunks, data and capacity alike,
// are released; capacity b held beforehand is not retained. other keeps
// only its former capacity chunks and is left with zero length. No-op when
// other holds no data, or when other is b.
func (b *Blob) MoveDataBuffers(other *Blob) {
	if other.length == 0 || other == b {
		return
	}
	ndb, _ := other.dataEnd()
	moved := 0
	for _, buf := range other.buffers[:ndb] {
		moved += buf.n
	}
	for _, buf := range b.buffers {
		buf.Release()
	}
	b.buffers = slices.Clone(other.buffers[:ndb])
	b.length = other.length
	b.total = moved

	n := copy(other.buffers, other.buffers[ndb:])
	clear(other.buffers[n:])
	other.buffers = other.buffers[:n]
	other.length = 0
	other.total -= moved
}

// MoveAndAppendDataBuffers moves other's data chunks onto the end of b's
// data region with [Blob.AppendDataBuffer] semantics applied chunk-wise:
// b's last data buffer is implicitly trimmed, the moved chunks land at b's
// data/capacity boundary ahead of b's capacity chunks, and b's length grows
// by other's. other keeps only its former capacity chunks and is left with
// zero length. No-op when other holds no data, or when other is b.
func (b *Blob) MoveAndAppendDataBuffers(other *Blob) {
	if other.length == 0 || other == b {
		return
	}
	srcNDB, _ := other.dataEnd()
	moved := 0
	for _, buf := range other.buffers[:srcNDB] {
		moved += buf.n
	}
	ndb := b.trim()
	b.buffers = slices.Insert(b.buffers, ndb, other.buffers[:srcNDB]...)
	b.length += other.length
	b.total += moved

	n := copy(other.buffers, other.buffers[srcNDB:])
	clear(other.buffers[n:])
	other.buffers = other.buffers[:n]
	other.length = 0
	other.total -= moved
}
