//go:build integration

package integration

import (
	"fmt"
	"io"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/blobbuf"
)

// TestE2E_MessageAssembly builds a framed message the way a protocol stack
// would: stream the body in small slices, trim the unused tail, then prepend
// the header without copying the body.
func TestE2E_MessageAssembly(t *testing.T) {
	t.Parallel()

	const writeStep = 13

	for _, fc := range testFactories() {
		t.Run(fc.name, func(t *testing.T) {
			t.Parallel()

			payload := makePatternContent(3, 1000)
			header := frameHeader(len(payload))
			expected := append(append([]byte{}, header...), payload...)

			msg := blobbuf.New(blobbuf.WithFactory(fc.factory))
			w := blobbuf.NewWriter(msg)
			for off := 0; off < len(payload); off += writeStep {
				end := min(off+writeStep, len(payload))
				n, err := w.Write(payload[off:end])
				require.NoError(t, err)
				require.Equal(t, end-off, n)
			}

			msg.TrimLastDataBuffer()
			require.Equal(t, msg.Length(), msg.TotalSize(), "trim reclaims the unused tail")

			msg.PrependDataBuffer(blobbuf.NewBuffer(header))

			assertBlobBytes(t, msg, expected)
			assert.Equal(t, digest.FromBytes(expected), blobbuf.Digest(msg))
		})
	}
}

// TestE2E_ScatterGather assembles one outbound message from several producer
// blobs by transplanting their chunks instead of copying bytes.
func TestE2E_ScatterGather(t *testing.T) {
	t.Parallel()

	factory := blobbuf.NewPooledFactory(256)

	parts := [][]byte{
		makePatternContent(1, 300),
		makePatternContent(2, 64),
		makePatternContent(3, 777),
	}

	producers := make([]*blobbuf.Blob, len(parts))
	for i, part := range parts {
		producers[i] = blobbuf.New(blobbuf.WithFactory(factory))
		fillBlob(t, producers[i], part)
	}

	out := blobbuf.New()
	out.PrependDataBuffer(blobbuf.NewBuffer(frameHeader(300 + 64 + 777)))
	for _, p := range producers {
		out.MoveAndAppendDataBuffers(p)
	}

	var expected []byte
	expected = append(expected, frameHeader(300+64+777)...)
	for _, part := range parts {
		expected = append(expected, part...)
	}
	assertBlobBytes(t, out, expected)

	for _, p := range producers {
		assertBlobEmpty(t, p)
	}
}

// TestE2E_StreamRelay copies a blob into another blob with a different chunk
// geometry through the standard io plumbing.
func TestE2E_StreamRelay(t *testing.T) {
	t.Parallel()

	content := makeRandomContent(10_000)

	src := blobbuf.New(blobbuf.WithFactory(blobbuf.NewSimpleFactory(256)))
	fillBlob(t, src, content)

	dst := blobbuf.New(blobbuf.WithFactory(blobbuf.NewGeometricFactory(64, 1024)))
	n, err := io.Copy(blobbuf.NewWriter(dst), blobbuf.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, int64(len(content)), n)

	assertBlobBytes(t, dst, content)
	assert.True(t, blobbuf.Equal(src, dst), "relay preserves content across geometries")
	assert.Equal(t, blobbuf.Digest(src), blobbuf.Digest(dst))
	assert.Greater(t, dst.NumBuffers(), 1, "geometric factory splits the stream")
}

// TestE2E_RecycleChurn runs many message cycles over one shared pooled
// factory from several goroutines, checking content integrity every round.
func TestE2E_RecycleChurn(t *testing.T) {
	t.Parallel()

	const (
		workers = 4
		rounds  = 25
	)

	factory := blobbuf.NewPooledFactory(512)

	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		seed := byte(w)
		eg.Go(func() error {
			for round := 0; round < rounds; round++ {
				content := makePatternContent(seed+byte(round), 3000)

				msg := blobbuf.New(blobbuf.WithFactory(factory))
				if _, err := blobbuf.NewWriter(msg).Write(content); err != nil {
					return err
				}
				if got, want := blobbuf.Digest(msg), digest.FromBytes(content); got != want {
					return fmt.Errorf("round %d: digest mismatch: got %s want %s", round, got, want)
				}
				msg.RemoveAll()
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
}
