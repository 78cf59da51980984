package blobbuf

import "bytes"

// CopyIn copies p over existing data starting at offset off, crossing chunk
// boundaries as needed, and returns the number of bytes copied. Like the
// built-in copy it is clamped: bytes past the data region are not written
// and the length does not move. Use [Writer] to extend the blob. Panics if
// off is negative or past the length.
func CopyIn(b *Blob, off int, p []byte) int {
	if off < 0 || off > b.length {
		panic("blobbuf: offset out of range")
	}
	idx, pos := b.chunkAt(off)
	copied := 0
	for copied < len(p) && off+copied < b.length {
		buf := b.buffers[idx]
		span := min(buf.n-pos, b.length-off-copied)
		if span == 0 {
			idx++
			pos = 0
			continue
		}
		n := copy(buf.Data()[pos:pos+span], p[copied:])
		copied += n
		pos += n
	}
	return copied
}

// CopyOut copies data starting at offset off into p and returns the number
// of bytes copied, clamped to the end of the data region. Panics if off is
// negative or past the length.
func CopyOut(p []byte, b *Blob, off int) int {
	if off < 0 || off > b.length {
		panic("blobbuf: offset out of range")
	}
	idx, pos := b.chunkAt(off)
	copied := 0
	for copied < len(p) && off+copied < b.length {
		buf := b.buffers[idx]
		span := min(buf.n-pos, b.length-off-copied)
		if span == 0 {
			idx++
			pos = 0
			continue
		}
		n := copy(p[copied:], buf.Data()[pos:pos+span])
		copied += n
		pos += n
	}
	return copied
}

// Bytes materializes the data region into one contiguous slice.
func Bytes(b *Blob) []byte {
	out := make([]byte, b.length)
	CopyOut(out, b, 0)
	return out
}

// Equal reports whether two blobs hold the same data bytes, whatever the
// chunk layout of either; capacity never participates. Compare with
// [Buffer.Equal], which is storage identity, never content.
func Equal(a, b *Blob) bool {
	if a.length != b.length {
		return false
	}
	ai, ap := 0, 0
	bi, bp := 0, 0
	for remaining := a.length; remaining > 0; {
		for a.buffers[ai].n == ap {
			ai++
			ap = 0
		}
		for b.buffers[bi].n == bp {
			bi++
			bp = 0
		}
		span := min(a.buffers[ai].n-ap, b.buffers[bi].n-bp, remaining)
		if !bytes.Equal(a.buffers[ai].Data()[ap:ap+span], b.buffers[bi].Data()[bp:bp+span]) {
			return false
		}
		ap += span
		bp += span
		remaining -= span
	}
	return true
}
