// Package blobbuf provides a segmented byte buffer: a logical byte sequence
// stored across an ordered list of independently allocated, reference-counted
// chunks, with a pluggable growth policy.
//
// A [Blob] separates its chunk list from its logical length. Chunks covering
// the length form the data region; chunks past it are capacity that future
// growth consumes without copying. Chunk storage is shared: the same bytes
// can back several buffers, or several positions of one blob, and are
// reclaimed when the last reference drops. That makes a Blob a cheap staging
// area for protocol and message composition, where payloads are assembled
// from pieces, moved between buffers, and framed without flattening.
//
// # Quick Start
//
// Assemble data through a factory and read it back:
//
//	b := blobbuf.New(blobbuf.WithFactory(blobbuf.NewPooledFactory(4096)))
//	w := blobbuf.NewWriter(b)
//	if _, err := io.Copy(w, src); err != nil {
//	    return err
//	}
//	_, err := blobbuf.NewReader(b).WriteTo(dst)
//
// # Composing Messages
//
// Chunk-level operations rearrange data without copying bytes:
//
//	payload := blobbuf.New(blobbuf.WithFactory(factory))
//	// ... fill payload ...
//	msg := blobbuf.New()
//	msg.PrependDataBuffer(header)
//	msg.MoveAndAppendDataBuffers(payload)
//
// # Ownership
//
// A [Buffer] is a window over reference-counted storage. Inserting a buffer
// into a blob hands over the caller's reference; [Buffer.Ref] keeps an extra
// handle alive, and aliased windows over one allocation are released
// independently. Factories with real reclamation ([PooledFactory],
// [MmapFactory]) rely on the counts; heap buffers fall back to the garbage
// collector.
package blobbuf
