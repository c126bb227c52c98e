package ngramstorage

import (
	"encoding/binary"
	"time"

	"github.com/ngramstore/compactngram/compactarray"
	"github.com/ngramstore/compactngram/metrics"
)

func keyOf(word, ctx uint32) compactarray.Key {
	return compactarray.Key{WordIndex: word, ContextIndex: ctx}
}

// GetNgramCount returns the training-corpus count of n-grams whose
// first len(prefix) tokens equal prefix. An unobserved prefix returns
// 0; the empty prefix returns the precomputed aggregate.
func (s *NGramStorage) GetNgramCount(prefix []uint32) uint32 {
	defer observeQueryLatency("ngram_count")()
	metrics.QueriesByKind.WithLabelValues("ngram_count").Inc()
	v, ok := s.lookup(prefix)
	if !ok {
		return 0
	}
	return v.NgramCount
}

// GetContinuationsCount returns the total count of training n-grams
// that extend prefix by at least one more word.
func (s *NGramStorage) GetContinuationsCount(prefix []uint32) uint32 {
	defer observeQueryLatency("continuations_count")()
	metrics.QueriesByKind.WithLabelValues("continuations_count").Inc()
	v, ok := s.lookup(prefix)
	if !ok {
		return 0
	}
	return v.ContinuationsCount
}

// GetUniqueContinuationsCount returns the number of distinct next-word
// ids observed immediately after prefix in the training corpus.
func (s *NGramStorage) GetUniqueContinuationsCount(prefix []uint32) uint32 {
	defer observeQueryLatency("unique_continuations_count")()
	metrics.QueriesByKind.WithLabelValues("unique_continuations_count").Inc()
	v, ok := s.lookup(prefix)
	if !ok {
		return 0
	}
	return v.UniqueContinuationsCount
}

func observeQueryLatency(kind string) func() {
	start := time.Now()
	return func() {
		metrics.QueryLatencyHistogram.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}

type lookupValue struct {
	NgramCount               uint32
	ContinuationsCount       uint32
	UniqueContinuationsCount uint32
}

// lookup resolves prefix to its stored Value, returning false if
// prefix was never observed (or is longer than any built level).
func (s *NGramStorage) lookup(prefix []uint32) (lookupValue, bool) {
	if len(prefix) == 0 {
		return lookupValue{
			NgramCount:               s.emptyNgramCount,
			ContinuationsCount:       s.emptyNgramContinuationsCount,
			UniqueContinuationsCount: s.emptyNgramUniqueContinuationsCount,
		}, true
	}

	level := len(prefix) - 1
	if level >= len(s.arrays) {
		return lookupValue{}, false
	}

	ctx, err := s.getContextIndex(prefix[:level])
	if err != nil {
		return lookupValue{}, false
	}

	it := s.arrays[level].Find(keyOf(prefix[level], ctx))
	if it.Equal(s.arrays[level].End()) {
		return lookupValue{}, false
	}
	v := it.Record().Value
	return lookupValue{
		NgramCount:               v.NgramCount,
		ContinuationsCount:       v.ContinuationsCount,
		UniqueContinuationsCount: v.UniqueContinuationsCount,
	}, true
}

// getContextIndex resolves the context_index that a record at level
// len(prefix) would use for the given prefix, per §4.5: probe the LRU
// cache for the longest cached leading slice of prefix, then walk the
// remaining levels forward, caching each intermediate result.
func (s *NGramStorage) getContextIndex(prefix []uint32) (uint32, error) {
	if len(prefix) == 0 {
		return 0, nil
	}

	startLevel := 0
	var contextIndex uint32
	for length := len(prefix); length >= 1; length-- {
		if ctx, ok := s.cache.Get(cacheKey(prefix[:length])); ok {
			metrics.ContextCacheResult.WithLabelValues("hit").Inc()
			startLevel = length
			contextIndex = ctx
			break
		}
		metrics.ContextCacheResult.WithLabelValues("miss").Inc()
	}

	for i := startLevel; i < len(prefix); i++ {
		it := s.arrays[i].Find(keyOf(prefix[i], contextIndex))
		if it.Equal(s.arrays[i].End()) {
			return 0, ErrNotFound
		}
		contextIndex = it.RecordIndex()
		s.cache.Put(cacheKey(prefix[:i+1]), contextIndex)
	}
	return contextIndex, nil
}

func cacheKey(words []uint32) string {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return string(buf)
}
