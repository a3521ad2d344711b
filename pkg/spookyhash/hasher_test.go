package spookyhash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func hashChunked(t *testing.T, data []byte, chunkSize int, seed1, seed2 uint64) (uint64, uint64) {
	t.Helper()
	h := New(seed1, seed2)
	for i := 0; i < len(data); i += chunkSize {
		end := i + chunkSize
		if end > len(data) {
			end = len(data)
		}
		require.NoError(t, h.Update(data[i:end]))
	}
	return h.Final()
}

// TestStreamingMatchesOneShot covers spec §8 property 9: one-shot vs.
// streamed digests at every named length, chunked several ways.
func TestStreamingMatchesOneShot(t *testing.T) {
	chunkSizes := []int{1, 2, 3, 7, 97, 193}
	for _, n := range boundaryLengths() {
		data := seqBytes(n)
		want1, want2 := Hash128(data, SC, SC)
		for _, cs := range chunkSizes {
			got1, got2 := hashChunked(t, data, cs, SC, SC)
			require.Equalf(t, want1, got1, "len=%d chunk=%d", n, cs)
			require.Equalf(t, want2, got2, "len=%d chunk=%d", n, cs)
		}
	}
}

// TestStreamingS6 is spec scenario S6: 1000 bytes of 0x55, streamed in
// increasing chunk sizes 1+2+3+...+k, against the one-shot digest.
func TestStreamingS6(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = 0x55
	}
	want1, want2 := Hash128(data, SC, SC)

	h := New(SC, SC)
	pos, chunk := 0, 1
	for pos < len(data) {
		end := pos + chunk
		if end > len(data) {
			end = len(data)
		}
		require.NoError(t, h.Update(data[pos:end]))
		pos = end
		chunk++
	}
	got1, got2 := h.Final()
	require.Equal(t, want1, got1)
	require.Equal(t, want2, got2)
}

func TestFinalIsIdempotent(t *testing.T) {
	h := New(SC, SC)
	require.NoError(t, h.Update([]byte("idempotence check, no update between finals")))
	h1a, h2a := h.Final()
	h1b, h2b := h.Final()
	require.Equal(t, h1a, h1b)
	require.Equal(t, h2a, h2b)
}

func TestFinalIsNonDestructive(t *testing.T) {
	x := []byte("first half of the stream, exercising the buffered tail path nicely")
	y := []byte("second half, appended after a Final() call that must not have mutated state")

	h := New(SC, SC)
	require.NoError(t, h.Update(x))
	_, _ = h.Final()
	require.NoError(t, h.Update(y))
	got1, got2 := h.Final()

	want1, want2 := Hash128(append(append([]byte{}, x...), y...), SC, SC)
	require.Equal(t, want1, got1)
	require.Equal(t, want2, got2)
}

func TestUpdateNilReturnsError(t *testing.T) {
	h := New(SC, SC)
	require.NoError(t, h.Update([]byte("seed the stream")))
	before := h.Export()

	err := h.Update(nil)
	require.ErrorIs(t, err, ErrNilUpdate)

	after := h.Export()
	require.Equal(t, before, after, "a rejected Update must not mutate hasher state")
}

func TestUpdateEmptySliceIsNoop(t *testing.T) {
	h := New(SC, SC)
	require.NoError(t, h.Update([]byte("abc")))
	before := h.Export()
	require.NoError(t, h.Update([]byte{}))
	require.Equal(t, before, h.Export())
}

func TestUpdateRangeBounds(t *testing.T) {
	h := New(SC, SC)
	data := []byte("0123456789")

	require.NoError(t, h.UpdateRange(data, 2, 5))

	before := h.Export()
	require.ErrorIs(t, h.UpdateRange(data, -1, 3), ErrRangeOutOfBounds)
	require.ErrorIs(t, h.UpdateRange(data, 5, 10), ErrRangeOutOfBounds)
	require.ErrorIs(t, h.UpdateRange(data, 0, -1), ErrRangeOutOfBounds)
	require.Equal(t, before, h.Export(), "rejected UpdateRange must not mutate state")
}

func TestStateExportImportRoundTrip(t *testing.T) {
	h := New(11, 22)
	require.NoError(t, h.Update(seqBytes(500)))

	st := h.Export()
	restored := FromState(st)

	want1, want2 := h.Final()
	got1, got2 := restored.Final()
	require.Equal(t, want1, got1)
	require.Equal(t, want2, got2)

	require.NoError(t, h.Update([]byte("more data after snapshot")))
	require.NoError(t, restored.Update([]byte("more data after snapshot")))
	want1, want2 = h.Final()
	got1, got2 = restored.Final()
	require.Equal(t, want1, got1)
	require.Equal(t, want2, got2)
}

func TestLenTracksBytesAbsorbed(t *testing.T) {
	h := New(SC, SC)
	require.NoError(t, h.Update(seqBytes(50)))
	require.EqualValues(t, 50, h.Len())
	require.NoError(t, h.Update(seqBytes(200)))
	require.EqualValues(t, 250, h.Len())
}
