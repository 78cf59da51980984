//go:build integration

package integration

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meigma/blobbuf"
)

// --- Test Data Helpers ---

// makePatternContent creates deterministic content that is easy to spot-check.
func makePatternContent(seed byte, size int) []byte {
	p := make([]byte, size)
	for i := range p {
		p[i] = seed + byte(i*7)
	}
	return p
}

// makeRandomContent creates random binary content.
func makeRandomContent(size int) []byte {
	data := make([]byte, size)
	_, _ = rand.Read(data)
	return data
}

// fillBlob replaces the blob's contents with the given bytes.
func fillBlob(tb testing.TB, b *blobbuf.Blob, data []byte) {
	tb.Helper()

	b.SetLength(len(data))
	blobbuf.CopyIn(b, 0, data)
}

// --- Factory Fixtures ---

type factoryCase struct {
	name    string
	factory blobbuf.Factory
}

// testFactories returns one factory of each kind, sized for small test payloads.
func testFactories() []factoryCase {
	return []factoryCase{
		{name: "simple", factory: blobbuf.NewSimpleFactory(256)},
		{name: "pooled", factory: blobbuf.NewPooledFactory(256)},
		{name: "geometric", factory: blobbuf.NewGeometricFactory(64, 1024)},
		{name: "mmap", factory: blobbuf.NewMmapFactory(4096)},
	}
}

// --- Assertion Helpers ---

// assertBlobBytes verifies a blob's full data region against expected content.
func assertBlobBytes(tb testing.TB, b *blobbuf.Blob, expected []byte) {
	tb.Helper()

	require.Equal(tb, len(expected), b.Length(), "blob length")
	require.Equal(tb, expected, blobbuf.Bytes(b), "blob content")
}

// assertBlobEmpty verifies a blob holds no buffers at all.
func assertBlobEmpty(tb testing.TB, b *blobbuf.Blob) {
	tb.Helper()

	require.Zero(tb, b.Length(), "blob length")
	require.Zero(tb, b.NumBuffers(), "blob buffer count")
	require.Zero(tb, b.TotalSize(), "blob total size")
}

// frameHeader builds a fixed-size framing header carrying the payload length.
func frameHeader(payloadLen int) []byte {
	return []byte(fmt.Sprintf("LEN:%08d", payloadLen))
}
