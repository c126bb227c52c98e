package ngramstorage

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func samplePairs() []Pair {
	return []Pair{
		{Words: []uint32{1, 2, 3}, Count: 5},
		{Words: []uint32{1, 2, 3}, Count: 2},
		{Words: []uint32{1, 2, 4}, Count: 1},
		{Words: []uint32{1, 5, 6}, Count: 3},
		{Words: []uint32{7, 2, 3}, Count: 4},
		{Words: []uint32{1, 2}, Count: 10},
	}
}

func TestFromPairsEmptyNgramAggregates(t *testing.T) {
	pairs := samplePairs()
	s, err := FromPairs(pairs)
	require.NoError(t, err)

	var total uint32
	firstWords := map[uint32]bool{}
	for _, p := range pairs {
		total += p.Count
		firstWords[p.Words[0]] = true
	}

	require.Equal(t, total, s.GetNgramCount(nil))
	require.Equal(t, total, s.GetContinuationsCount(nil))
	require.Equal(t, uint32(len(firstWords)), s.GetUniqueContinuationsCount(nil))
}

func TestFromPairsNgramCountAggregatesDuplicates(t *testing.T) {
	s, err := FromPairs(samplePairs())
	require.NoError(t, err)

	// (1,2,3) appears twice with counts 5 and 2.
	require.EqualValues(t, 7, s.GetNgramCount([]uint32{1, 2, 3}))
	require.EqualValues(t, 1, s.GetNgramCount([]uint32{1, 2, 4}))
	require.EqualValues(t, 0, s.GetNgramCount([]uint32{9, 9, 9}))
}

func TestFromPairsPrefixCounts(t *testing.T) {
	s, err := FromPairs(samplePairs())
	require.NoError(t, err)

	// ngram_count sums every row starting with (1,2), including rows
	// longer than the prefix: (1,2,3)x2 [5+2], (1,2,4) [1], (1,2) [10].
	require.EqualValues(t, 18, s.GetNgramCount([]uint32{1, 2}))
	require.EqualValues(t, 8, s.GetContinuationsCount([]uint32{1, 2}))
	require.EqualValues(t, 2, s.GetUniqueContinuationsCount([]uint32{1, 2}))
}

func TestFromPairsAbsentPrefixReturnsZero(t *testing.T) {
	s, err := FromPairs(samplePairs())
	require.NoError(t, err)

	require.EqualValues(t, 0, s.GetNgramCount([]uint32{1, 2, 3, 4}))
	require.EqualValues(t, 0, s.GetNgramCount([]uint32{42}))
}

// bruteForceCount recomputes the three aggregates directly from the
// input: ngram_count sums every row whose word sequence starts with
// prefix (whatever its own length), continuations_count restricts that
// to rows strictly longer than prefix, and unique_continuations_count
// counts the distinct next word among those.
func bruteForceCount(pairs []Pair, prefix []uint32) (ngram, continuations, unique uint32) {
	seen := map[uint32]bool{}
	for _, p := range pairs {
		if len(p.Words) < len(prefix) {
			continue
		}
		match := true
		for i, w := range prefix {
			if p.Words[i] != w {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		ngram += p.Count
		if len(p.Words) > len(prefix) {
			continuations += p.Count
			next := p.Words[len(prefix)]
			if !seen[next] {
				seen[next] = true
				unique++
			}
		}
	}
	return
}

func TestRandomNgramsAgreeWithBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var pairs []Pair
	for i := 0; i < 2000; i++ {
		length := 1 + rng.Intn(3)
		words := make([]uint32, length)
		for j := range words {
			words[j] = uint32(rng.Intn(26))
		}
		pairs = append(pairs, Pair{Words: words, Count: uint32(1 + rng.Intn(10))})
	}

	s, err := FromPairs(pairs)
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		length := 1 + rng.Intn(3)
		prefix := make([]uint32, length)
		for j := range prefix {
			prefix[j] = uint32(rng.Intn(26))
		}

		wantNgram, wantContinuations, wantUnique := bruteForceCount(pairs, prefix)
		require.Equal(t, wantNgram, s.GetNgramCount(prefix), "prefix %v", prefix)
		require.Equal(t, wantContinuations, s.GetContinuationsCount(prefix), "prefix %v", prefix)
		require.Equal(t, wantUnique, s.GetUniqueContinuationsCount(prefix), "prefix %v", prefix)
	}
}

func TestIterAtLengthCoversDistinctNgrams(t *testing.T) {
	pairs := samplePairs()
	s, err := FromPairs(pairs)
	require.NoError(t, err)

	want := map[[3]uint32]bool{}
	for _, p := range pairs {
		if len(p.Words) == 3 {
			want[[3]uint32{p.Words[0], p.Words[1], p.Words[2]}] = true
		}
	}

	got := map[[3]uint32]bool{}
	it := s.IterAtLength(3)
	for it.Next() {
		ng := it.NGram()
		got[[3]uint32{ng[0], ng[1], ng[2]}] = true
	}
	require.Equal(t, want, got)
}

func TestDumpLoadRoundTrip(t *testing.T) {
	pairs := samplePairs()
	s, err := FromPairs(pairs)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Dump(&buf))

	loaded, err := Load(&buf, DefaultContextCacheCapacity)
	require.NoError(t, err)

	require.Equal(t, s.MaxNgramSize(), loaded.MaxNgramSize())
	for _, prefix := range [][]uint32{nil, {1}, {1, 2}, {1, 2, 3}, {7, 2, 3}} {
		require.Equal(t, s.GetNgramCount(prefix), loaded.GetNgramCount(prefix))
		require.Equal(t, s.GetContinuationsCount(prefix), loaded.GetContinuationsCount(prefix))
		require.Equal(t, s.GetUniqueContinuationsCount(prefix), loaded.GetUniqueContinuationsCount(prefix))
	}
}

func TestZeroCapacityCacheStillCorrect(t *testing.T) {
	pairs := samplePairs()
	s, err := FromPairsWithCacheCapacity(pairs, 0)
	require.NoError(t, err)

	require.EqualValues(t, 7, s.GetNgramCount([]uint32{1, 2, 3}))
	require.EqualValues(t, 8, s.GetContinuationsCount([]uint32{1, 2}))
}
