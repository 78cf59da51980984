package blobbuf

import "errors"

// ErrNoFactory is returned by [Writer] operations that need to grow a blob
// that has no growth policy. The corresponding [Blob.SetLength] call panics
// instead: the io surface stays recoverable so a partial write can report
// how far it got.
var ErrNoFactory = errors.New("blobbuf: blob has no factory")
