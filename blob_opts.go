package blobbuf

// Option configures a Blob at construction.
type Option func(*Blob)

// WithFactory sets the growth policy consulted when the length must grow
// past existing capacity. Blobs without a factory can hold and rearrange
// chunks but never allocate.
func WithFactory(f Factory) Option {
	return func(b *Blob) {
		b.factory = f
	}
}

// WithBuffers seeds the blob with chunks, taking ownership of the caller's
// references. The chunks arrive as capacity: the total size grows by their
// sizes while the length stays zero, the same as [Blob.AppendBuffer].
func WithBuffers(bufs ...Buffer) Option {
	return func(b *Blob) {
		for _, buf := range bufs {
			b.AppendBuffer(buf)
		}
	}
}
