package ngramstorage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpLoadPairsRoundTrip(t *testing.T) {
	pairs := []Pair{
		{Words: []uint32{1, 2, 3}, Count: 5},
		{Words: []uint32{4}, Count: 1},
		{Words: []uint32{}, Count: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, DumpPairs(&buf, pairs))

	loaded, err := LoadPairs(&buf)
	require.NoError(t, err)
	require.Equal(t, pairs, loaded)
}

func TestLoadPairsTruncatedIsCorrupt(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DumpPairs(&buf, []Pair{{Words: []uint32{1, 2}, Count: 1}}))
	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-2])

	_, err := LoadPairs(truncated)
	require.Error(t, err)
}

func TestDumpPairsOversizedPairWritesNothingPastCount(t *testing.T) {
	pairs := []Pair{
		{Words: []uint32{1}, Count: 1},
		{Words: make([]uint32, 256), Count: 2},
	}

	var buf bytes.Buffer
	err := DumpPairs(&buf, pairs)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, 0, buf.Len())
}
