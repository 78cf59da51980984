package blobbuf

import "log/slog"

// MmapFactory allocates fixed-size chunks backed by anonymous memory
// mappings and returns them to the OS when the last reference drops. Mapped
// chunks live outside the Go heap, which keeps large staging buffers out of
// garbage collector scans. On platforms without mmap, and when a mapping
// fails, Allocate falls back to heap chunks.
type MmapFactory struct {
	size   int
	logger *slog.Logger
}

// MmapOption configures an MmapFactory.
type MmapOption func(*MmapFactory)

// MmapWithLogger sets the logger used to report mapping failures. Without
// it, failures fall back silently.
func MmapWithLogger(logger *slog.Logger) MmapOption {
	return func(f *MmapFactory) {
		f.logger = logger
	}
}

// NewMmapFactory returns a factory producing mapped chunks of the given
// size. Panics if size is not positive.
func NewMmapFactory(size int, opts ...MmapOption) *MmapFactory {
	if size <= 0 {
		panic("blobbuf: factory chunk size must be positive")
	}
	f := &MmapFactory{size: size}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *MmapFactory) log() *slog.Logger {
	if f.logger != nil {
		return f.logger
	}
	return slog.New(slog.DiscardHandler)
}

// Allocate returns a mapped chunk, or a heap chunk when mapping is
// unavailable.
func (f *MmapFactory) Allocate() Buffer {
	if buf, ok := f.mmap(); ok {
		return buf
	}
	return NewBuffer(make([]byte, f.size))
}

// BufferSize returns the fixed chunk size.
func (f *MmapFactory) BufferSize() int {
	return f.size
}
