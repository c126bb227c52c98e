package compactarray

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func recordsFromKeys(keys []Key) []Record {
	records := make([]Record, len(keys))
	for i, k := range keys {
		v := uint32(2 * i)
		records[i] = Record{
			Key:   k,
			Value: Value{NgramCount: v, ContinuationsCount: v, UniqueContinuationsCount: v},
		}
	}
	return records
}

func collect(a *CompressedArray) []Record {
	var out []Record
	it := a.Begin()
	for it.RecordIndex() < a.Size() {
		out = append(out, it.Record())
		_ = it.Next()
	}
	return out
}

// TestSparseWordIndexBlocks mirrors a scenario where word_index grows
// every record, forcing a full (non-same-word) key encoding.
func TestSparseWordIndexBlocks(t *testing.T) {
	keys := make([]Key, 1000)
	for i := range keys {
		keys[i] = Key{WordIndex: uint32(2 * i), ContextIndex: uint32(2 * i)}
	}
	records := recordsFromKeys(keys)

	a, err := Build(records)
	require.NoError(t, err)
	require.EqualValues(t, 1000, a.Size())

	for i, k := range keys {
		it := a.At(uint32(i))
		require.Equal(t, k, it.Record().Key)
	}

	for i := range keys {
		missing := Key{WordIndex: uint32(2*i + 1), ContextIndex: 0}
		it := a.Find(missing)
		require.True(t, it.Equal(a.End()))
	}
}

// TestSingleWordBlocksUseSameWordMode mirrors a scenario where every
// record shares word_index 0, which should collapse every block into
// same-word mode.
func TestSingleWordBlocksUseSameWordMode(t *testing.T) {
	keys := make([]Key, 1000)
	for i := range keys {
		keys[i] = Key{WordIndex: 0, ContextIndex: uint32(2 * i)}
	}
	records := recordsFromKeys(keys)

	a, err := Build(records)
	require.NoError(t, err)

	for i, h := range a.headers {
		require.EqualValues(t, 0, h.key.WordIndex)
		it := &Iterator{array: a}
		it.switchToBlock(uint32(i))
		require.True(t, it.sameWord)
	}

	got := collect(a)
	require.Equal(t, records, got)
}

// TestCartesianGridRandomAccess mirrors a 2-D grid of keys and checks
// random access agrees with direct indexing at every position.
func TestCartesianGridRandomAccess(t *testing.T) {
	var keys []Key
	for i := 0; i < 100; i++ {
		for j := 0; j < 10; j++ {
			keys = append(keys, Key{WordIndex: uint32(i * 2), ContextIndex: uint32(j * 2)})
		}
	}
	records := recordsFromKeys(keys)

	a, err := Build(records)
	require.NoError(t, err)
	require.EqualValues(t, 1000, a.Size())

	for idx, want := range records {
		it := a.At(uint32(idx))
		require.Equal(t, want, it.Record())
	}
}

func TestFindReturnsMatchingRecord(t *testing.T) {
	keys := []Key{{0, 0}, {0, 5}, {3, 1}, {3, 9}, {7, 0}}
	records := recordsFromKeys(keys)

	a, err := Build(records)
	require.NoError(t, err)

	for i, k := range keys {
		it := a.Find(k)
		require.False(t, it.Equal(a.End()))
		require.Equal(t, records[i], it.Record())
	}

	it := a.Find(Key{WordIndex: 99, ContextIndex: 0})
	require.True(t, it.Equal(a.End()))
}

func TestIterationYieldsSortedRecords(t *testing.T) {
	keys := []Key{{0, 0}, {0, 1}, {1, 0}, {2, 4}, {2, 5}, {9, 0}}
	records := recordsFromKeys(keys)

	a, err := Build(records)
	require.NoError(t, err)
	require.Equal(t, records, collect(a))
}

func TestDumpLoadRoundTrip(t *testing.T) {
	var keys []Key
	for i := 0; i < 300; i++ {
		keys = append(keys, Key{WordIndex: uint32(i / 3), ContextIndex: uint32(i)})
	}
	records := recordsFromKeys(keys)

	a, err := Build(records)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, a.Dump(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	require.Equal(t, a.Size(), loaded.Size())
	require.Equal(t, collect(a), collect(loaded))

	for _, k := range keys {
		it := loaded.Find(k)
		require.False(t, it.Equal(loaded.End()))
	}
}

func TestLoadTruncatedStreamIsCorrupt(t *testing.T) {
	records := recordsFromKeys([]Key{{0, 0}, {0, 1}, {1, 0}})
	a, err := Build(records)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, a.Dump(&buf))
	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-1])

	_, err = Load(truncated)
	require.Error(t, err)
}
