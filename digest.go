package blobbuf

import "github.com/opencontainers/go-digest"

// Digest returns the canonical content digest of the data region, streamed
// chunk by chunk without materializing the blob. Blobs with equal data
// digest equally whatever their chunk layouts.
func Digest(b *Blob) digest.Digest {
	d := digest.Canonical.Digester()
	_, _ = NewReader(b).WriteTo(d.Hash()) // hash.Hash never errors
	return d.Digest()
}
