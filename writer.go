package blobbuf

import "io"

// A Writer appends to a blob's data region through the standard io
// interfaces. Writes fill the unused tail of the last data buffer and any
// existing capacity chunks first, then grow through the blob's factory.
// Without a factory, a write that fits in capacity succeeds and one that
// does not returns [ErrNoFactory] after writing what fits.
//
// The writer appends at the blob's live length: interleaving writes with
// other mutations is allowed, each write starting where the blob then
// ends.
type Writer struct {
	b *Blob
}

var (
	_ io.Writer     = (*Writer)(nil)
	_ io.ReaderFrom = (*Writer)(nil)
)

// NewWriter returns a writer appending to b.
func NewWriter(b *Blob) *Writer {
	return &Writer{b: b}
}

// Write appends p to the data region, growing the blob as needed, and
// reports how many bytes it placed.
func (w *Writer) Write(p []byte) (int, error) {
	b := w.b
	written := 0
	for written < len(p) {
		if b.length == b.total {
			if b.factory == nil {
				return written, ErrNoFactory
			}
			b.AppendBuffer(b.allocate())
		}
		idx, pos := b.chunkAt(b.length)
		n := copy(b.buffers[idx].Data()[pos:], p[written:])
		written += n
		b.SetLength(b.length + n)
	}
	return written, nil
}

// ReadFrom appends r's bytes to the data region until EOF, reading directly
// into chunk tails with no staging copy.
func (w *Writer) ReadFrom(r io.Reader) (int64, error) {
	b := w.b
	var written int64
	for {
		if b.length == b.total {
			if b.factory == nil {
				return written, ErrNoFactory
			}
			b.AppendBuffer(b.allocate())
		}
		idx, pos := b.chunkAt(b.length)
		n, err := r.Read(b.buffers[idx].Data()[pos:])
		written += int64(n)
		b.SetLength(b.length + n)
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}
	}
}
