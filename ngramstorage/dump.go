package ngramstorage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ngramstore/compactngram/compactarray"
	"github.com/ngramstore/compactngram/internal/lru"
)

// ErrCorruptStream is returned by Load when the header or one of its
// levels is truncated or otherwise inconsistent.
var ErrCorruptStream = errors.New("ngramstorage: corrupt stream")

// Dump serializes the storage per §6: the three empty-n-gram
// aggregates, max_ngram_size, then one compactarray dump per level in
// order. All multi-byte integers are little-endian.
func (s *NGramStorage) Dump(w io.Writer) error {
	var u32buf [4]byte
	writeU32 := func(v uint32) error {
		binary.LittleEndian.PutUint32(u32buf[:], v)
		_, err := w.Write(u32buf[:])
		return err
	}

	if err := writeU32(s.emptyNgramCount); err != nil {
		return fmt.Errorf("ngramstorage: dump empty ngram count: %w", err)
	}
	if err := writeU32(s.emptyNgramContinuationsCount); err != nil {
		return fmt.Errorf("ngramstorage: dump empty ngram continuations count: %w", err)
	}
	if err := writeU32(s.emptyNgramUniqueContinuationsCount); err != nil {
		return fmt.Errorf("ngramstorage: dump empty ngram unique continuations count: %w", err)
	}
	if _, err := w.Write([]byte{s.maxNgramSize}); err != nil {
		return fmt.Errorf("ngramstorage: dump max ngram size: %w", err)
	}
	for i, arr := range s.arrays {
		if err := arr.Dump(w); err != nil {
			return fmt.Errorf("ngramstorage: dump level %d: %w", i, err)
		}
	}
	return nil
}

// Load reconstructs an NGramStorage previously written by Dump, using
// cacheCapacity for its context LRU cache.
func Load(r io.Reader, cacheCapacity int) (*NGramStorage, error) {
	var u32buf [4]byte
	readU32 := func() (uint32, error) {
		if _, err := io.ReadFull(r, u32buf[:]); err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint32(u32buf[:]), nil
	}

	emptyCount, err := readU32()
	if err != nil {
		return nil, fmt.Errorf("ngramstorage: load empty ngram count: %w", wrapCorrupt(err))
	}
	emptyContinuations, err := readU32()
	if err != nil {
		return nil, fmt.Errorf("ngramstorage: load empty ngram continuations count: %w", wrapCorrupt(err))
	}
	emptyUnique, err := readU32()
	if err != nil {
		return nil, fmt.Errorf("ngramstorage: load empty ngram unique continuations count: %w", wrapCorrupt(err))
	}

	var sizeBuf [1]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return nil, fmt.Errorf("ngramstorage: load max ngram size: %w", wrapCorrupt(err))
	}
	maxNgramSize := sizeBuf[0]

	arrays := make([]*compactarray.CompressedArray, maxNgramSize)
	for i := range arrays {
		arr, err := compactarray.Load(r)
		if err != nil {
			return nil, fmt.Errorf("ngramstorage: load level %d: %w", i, wrapCorrupt(err))
		}
		arrays[i] = arr
	}

	return &NGramStorage{
		arrays:                             arrays,
		emptyNgramCount:                    emptyCount,
		emptyNgramContinuationsCount:       emptyContinuations,
		emptyNgramUniqueContinuationsCount: emptyUnique,
		maxNgramSize:                       maxNgramSize,
		cache:                              lru.New[string, uint32](cacheCapacity),
	}, nil
}

func wrapCorrupt(err error) error {
	return fmt.Errorf("%w: %w", ErrCorruptStream, err)
}
