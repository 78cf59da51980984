package blobbuf

import (
	"errors"
	"io"
)

// A Reader streams a blob's data region. It implements [io.Reader],
// [io.ByteReader], [io.WriterTo], and [io.Seeker] over the bytes in
// [0, Length()), walking the chunk list without staging copies.
//
// The reader holds a position, not a snapshot: mutating the blob while a
// reader is active leaves the position meaningless. Concurrent readers over
// an unchanging blob are safe, each with its own cursor.
type Reader struct {
	b   *Blob
	off int // absolute offset in the data region
	idx int // chunk holding off
	pos int // position of off inside chunk idx
}

var (
	_ io.Reader     = (*Reader)(nil)
	_ io.ByteReader = (*Reader)(nil)
	_ io.WriterTo   = (*Reader)(nil)
	_ io.Seeker     = (*Reader)(nil)
)

// NewReader returns a reader positioned at the start of b's data.
func NewReader(b *Blob) *Reader {
	return &Reader{b: b}
}

// Len returns the number of unread data bytes.
func (r *Reader) Len() int {
	if r.off >= r.b.length {
		return 0
	}
	return r.b.length - r.off
}

// Read copies data into p, crossing chunk boundaries as needed, and returns
// [io.EOF] once the data region is exhausted.
func (r *Reader) Read(p []byte) (int, error) {
	if r.off >= r.b.length {
		return 0, io.EOF
	}
	n := 0
	for n < len(p) && r.off < r.b.length {
		buf := r.b.buffers[r.idx]
		span := min(buf.n-r.pos, r.b.length-r.off)
		if span == 0 {
			r.idx++
			r.pos = 0
			continue
		}
		c := copy(p[n:], buf.Data()[r.pos:r.pos+span])
		n += c
		r.off += c
		r.pos += c
	}
	return n, nil
}

// ReadByte returns the next data byte, or [io.EOF] past the end.
func (r *Reader) ReadByte() (byte, error) {
	if r.off >= r.b.length {
		return 0, io.EOF
	}
	for r.pos >= r.b.buffers[r.idx].n {
		r.idx++
		r.pos = 0
	}
	c := r.b.buffers[r.idx].Data()[r.pos]
	r.off++
	r.pos++
	return c, nil
}

// WriteTo writes the unread data to w chunk by chunk, with no intermediate
// copy.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for r.off < r.b.length {
		buf := r.b.buffers[r.idx]
		span := min(buf.n-r.pos, r.b.length-r.off)
		if span == 0 {
			r.idx++
			r.pos = 0
			continue
		}
		n, err := w.Write(buf.Data()[r.pos : r.pos+span])
		written += int64(n)
		r.off += n
		r.pos += n
		if err != nil {
			return written, err
		}
		if n < span {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}

// Seek sets the read position. Seeking past the end is allowed; reads there
// return [io.EOF].
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(r.off) + offset
	case io.SeekEnd:
		abs = int64(r.b.length) + offset
	default:
		return 0, errors.New("blobbuf: reader seek: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("blobbuf: reader seek: negative position")
	}
	r.off = int(abs)
	r.idx, r.pos = r.b.chunkAt(min(r.off, r.b.length))
	return abs, nil
}
