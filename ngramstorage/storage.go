// Package ngramstorage is the outer harness over compactarray: it
// builds one CompressedArray per n-gram length from a flat list of
// (n-gram, count) training pairs, chains per-level context indices so
// that a length-k query walks exactly k maps, and caches resolved
// contexts across queries. The three empty-n-gram aggregates are
// precomputed at build time and returned directly, without touching
// any CompressedArray.
package ngramstorage

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"k8s.io/klog/v2"

	"github.com/ngramstore/compactngram/compactarray"
	"github.com/ngramstore/compactngram/internal/lru"
	"github.com/ngramstore/compactngram/metrics"
)

// DefaultContextCacheCapacity is the LRU cache size used by FromPairs
// and Load unless overridden.
const DefaultContextCacheCapacity = 128

// ErrNotFound is raised internally when a context lookup fails at some
// level while resolving a prefix. It never escapes the Get* query
// methods, which recover it locally and return 0.
var ErrNotFound = errors.New("ngramstorage: context not found")

// ErrInvalidInput mirrors compactarray.ErrInvalidInput for build-time
// assertions outside any single CompressedArray, such as an n-gram
// longer than 255 words.
var ErrInvalidInput = errors.New("ngramstorage: invalid input")

// Pair is one row of training data: an observed n-gram and the number
// of times it was observed.
type Pair struct {
	Words []uint32
	Count uint32
}

// NGramStorage is a read-optimized n-gram statistics store layered
// over one CompressedArray per n-gram length. It is built once from a
// Pair list and is immutable thereafter except for its LRU context
// cache, which query methods mutate opportunistically.
type NGramStorage struct {
	arrays []*compactarray.CompressedArray

	emptyNgramCount                    uint32
	emptyNgramContinuationsCount       uint32
	emptyNgramUniqueContinuationsCount uint32

	maxNgramSize uint8

	cache *lru.Cache[string, uint32]
}

// MaxNgramSize returns the longest n-gram length the storage was built
// with; one CompressedArray exists per length 1..MaxNgramSize.
func (s *NGramStorage) MaxNgramSize() uint8 {
	return s.maxNgramSize
}

// New returns an empty NGramStorage with the given context cache
// capacity. It holds no levels; Load populates one from a dump.
func New(cacheCapacity int) *NGramStorage {
	return &NGramStorage{cache: lru.New[string, uint32](cacheCapacity)}
}

// FromPairs builds a complete NGramStorage from raw training pairs
// using the default context cache capacity, following §4.4 of the
// level-by-level build algorithm: empty-n-gram aggregates first, then
// one CompressedArray per length, each level's context column derived
// from the positional indices assigned by the previous level.
func FromPairs(pairs []Pair) (*NGramStorage, error) {
	return FromPairsWithCacheCapacity(pairs, DefaultContextCacheCapacity)
}

// FromPairsWithCacheCapacity is FromPairs with an explicit context
// cache capacity; a capacity of 0 produces a storage whose cache never
// retains anything, which must still answer every query correctly
// (the cache is a pure optimization, never a correctness requirement).
func FromPairsWithCacheCapacity(pairs []Pair, cacheCapacity int) (*NGramStorage, error) {
	buildStart := time.Now()
	defer func() {
		metrics.BuildLatencyHistogram.Observe(time.Since(buildStart).Seconds())
	}()

	s := New(cacheCapacity)
	if len(pairs) == 0 {
		return s, nil
	}

	klog.Infof("ngramstorage: building from %d training pairs", len(pairs))

	sorted := append([]Pair(nil), pairs...)
	sort.Slice(sorted, func(i, j int) bool { return lessWords(sorted[i].Words, sorted[j].Words) })

	maxNgramSize := 0
	for _, p := range sorted {
		if len(p.Words) == 0 {
			return nil, fmt.Errorf("%w: empty n-gram in training pairs", ErrInvalidInput)
		}
		if len(p.Words) > maxNgramSize {
			maxNgramSize = len(p.Words)
		}
	}
	if maxNgramSize > 255 {
		return nil, fmt.Errorf("%w: n-gram length %d exceeds 255", ErrInvalidInput, maxNgramSize)
	}
	s.maxNgramSize = uint8(maxNgramSize)

	firstWords := make(map[uint32]struct{})
	for _, p := range sorted {
		s.emptyNgramCount += p.Count
		s.emptyNgramContinuationsCount += p.Count
		firstWords[p.Words[0]] = struct{}{}
	}
	s.emptyNgramUniqueContinuationsCount = uint32(len(firstWords))

	contexts := make([]uint32, len(sorted))
	for level := 0; level < maxNgramSize; level++ {
		records := buildLevelRecords(sorted, contexts, level)
		sort.Slice(records, func(i, j int) bool { return records[i].Key.Less(records[j].Key) })
		metrics.LevelRecordCount.WithLabelValues(strconv.Itoa(level)).Set(float64(len(records)))

		arr, err := compactarray.Build(records)
		if err != nil {
			return nil, fmt.Errorf("ngramstorage: build level %d: %w", level, err)
		}
		s.arrays = append(s.arrays, arr)
		klog.V(4).Infof("ngramstorage: level %d built with %d records", level, len(records))

		if level+1 < maxNgramSize {
			if err := resolveNextLevelContexts(arr, sorted, contexts, level); err != nil {
				return nil, fmt.Errorf("ngramstorage: resolve contexts after level %d: %w", level, err)
			}
		}
	}

	klog.Infof("ngramstorage: build complete, %d levels", len(s.arrays))
	return s, nil
}

// lessWords compares two word sequences lexicographically, treating a
// shorter sequence as smaller than a longer one that shares its full
// prefix.
func lessWords(a, b []uint32) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// buildLevelRecords groups consecutive rows of sorted that are defined
// at level and share (word_index_at_level, context), aggregating the
// three Value fields per §4.4 step 4. Rows are visited in sorted
// order, so rows belonging to the same group are always adjacent.
func buildLevelRecords(sorted []Pair, contexts []uint32, level int) []compactarray.Record {
	var records []compactarray.Record

	i := 0
	for i < len(sorted) {
		if level >= len(sorted[i].Words) {
			i++
			continue
		}
		wordIndex := sorted[i].Words[level]
		ctx := contexts[i]

		var value compactarray.Value
		var prevContinuationWord uint32
		havePrevContinuation := false

		j := i
		for j < len(sorted) && level < len(sorted[j].Words) &&
			sorted[j].Words[level] == wordIndex && contexts[j] == ctx {
			value.NgramCount += sorted[j].Count
			if level+1 < len(sorted[j].Words) {
				value.ContinuationsCount += sorted[j].Count
				contWord := sorted[j].Words[level+1]
				if !havePrevContinuation || contWord != prevContinuationWord {
					value.UniqueContinuationsCount++
					prevContinuationWord = contWord
					havePrevContinuation = true
				}
			}
			j++
		}

		records = append(records, compactarray.Record{
			Key:   compactarray.Key{WordIndex: wordIndex, ContextIndex: ctx},
			Value: value,
		})
		i = j
	}

	return records
}

// resolveNextLevelContexts sets contexts[j] to the positional index of
// this level's record for row j, for every row extending past level,
// reusing the previous lookup's result for consecutive rows sharing
// the same key.
func resolveNextLevelContexts(arr *compactarray.CompressedArray, sorted []Pair, contexts []uint32, level int) error {
	var prevKey compactarray.Key
	var prevIdx uint32
	havePrev := false

	for j := range sorted {
		if level >= len(sorted[j].Words) {
			continue
		}
		key := compactarray.Key{WordIndex: sorted[j].Words[level], ContextIndex: contexts[j]}
		if havePrev && key == prevKey {
			contexts[j] = prevIdx
			continue
		}

		it := arr.Find(key)
		if it.Equal(arr.End()) {
			return fmt.Errorf("%w: key %s at level %d", ErrNotFound, key, level)
		}
		idx := it.RecordIndex()
		contexts[j] = idx
		prevKey = key
		prevIdx = idx
		havePrev = true
	}
	return nil
}
