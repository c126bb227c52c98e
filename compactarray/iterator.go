package compactarray

import (
	"fmt"
	"sort"

	"github.com/ngramstore/compactngram/bitio"
)

// Iterator is a stateful cursor over a CompressedArray's records. It
// decodes the bitstream lazily: advancing it by one record reads only
// that record's delta-encoded key and value.
//
// An Iterator holds a non-owning reference to its CompressedArray and
// must not be used after the array it came from is discarded.
type Iterator struct {
	array       *CompressedArray
	blockIndex  uint32
	recordIndex uint32
	bitOffset   uint32
	sameWord    bool
	current     Record
}

// RecordIndex returns the position of the current record, or the
// total record count when the iterator is at End.
func (it *Iterator) RecordIndex() uint32 {
	return it.recordIndex
}

// Record returns the record the iterator currently points at. It must
// not be called on an iterator at End.
func (it *Iterator) Record() Record {
	return it.current
}

// Equal reports whether it and other point at the same record.
func (it *Iterator) Equal(other *Iterator) bool {
	return it.recordIndex == other.recordIndex
}

func (it *Iterator) reader() *bitio.Reader {
	r := bitio.NewReader(it.array.data, it.array.bitLen)
	r.Seek(it.bitOffset)
	return r
}

func (it *Iterator) readValue(r *bitio.Reader) error {
	idx, err := r.ReadNumber(it.array.radix.ngramCountIndexLogRadix)
	if err != nil {
		return err
	}
	ngramCount, err := it.array.values.ngramCount.WordChecked(idx)
	if err != nil {
		return fmt.Errorf("%w: ngram count: %w", ErrVocabMismatch, err)
	}
	it.current.Value.NgramCount = ngramCount

	idx, err = r.ReadNumber(it.array.radix.continuationsCountIndexLogRadix)
	if err != nil {
		return err
	}
	continuationsCount, err := it.array.values.continuationsCount.WordChecked(idx)
	if err != nil {
		return fmt.Errorf("%w: continuations count: %w", ErrVocabMismatch, err)
	}
	it.current.Value.ContinuationsCount = continuationsCount

	idx, err = r.ReadNumber(it.array.radix.uniqueContinuationsCountIndexLogRadix)
	if err != nil {
		return err
	}
	uniqueContinuationsCount, err := it.array.values.uniqueContinuationsCount.WordChecked(idx)
	if err != nil {
		return fmt.Errorf("%w: unique continuations count: %w", ErrVocabMismatch, err)
	}
	it.current.Value.UniqueContinuationsCount = uniqueContinuationsCount
	return nil
}

func (it *Iterator) readKey(r *bitio.Reader) error {
	var wordIndexDelta uint32
	if !it.sameWord {
		delta, err := r.ReadNumber(it.array.radix.wordIndexDiffLogRadix)
		if err != nil {
			return err
		}
		wordIndexDelta = delta
		it.current.Key.WordIndex += wordIndexDelta
	}
	if wordIndexDelta > 0 {
		ctx, err := r.ReadNumber(it.array.radix.contextIndexLogRadix)
		if err != nil {
			return err
		}
		it.current.Key.ContextIndex = ctx
	} else {
		diff, err := r.ReadNumber(it.array.radix.contextIndexDiffLogRadix)
		if err != nil {
			return err
		}
		it.current.Key.ContextIndex += diff
	}
	return nil
}

func (it *Iterator) readRecord(r *bitio.Reader) error {
	if err := it.readKey(r); err != nil {
		return err
	}
	if err := it.readValue(r); err != nil {
		return err
	}
	it.recordIndex++
	it.bitOffset = r.Pos()
	return nil
}

// Next advances the iterator by one record. Calling Next on an
// iterator already at End is a no-op.
func (it *Iterator) Next() error {
	a := it.array
	switch {
	case it.recordIndex == a.recordCount:
		return nil
	case it.recordIndex+1 == a.recordCount:
		it.switchToBlock(uint32(len(a.headers)))
		return nil
	case it.blockIndex+1 == uint32(len(a.headers)):
		return it.readRecord(it.reader())
	case it.recordIndex+1 == a.headers[it.blockIndex+1].firstRecordIndex:
		it.switchToBlock(it.blockIndex + 1)
		return nil
	default:
		return it.readRecord(it.reader())
	}
}

// Add returns a new iterator n records ahead of it.
func (it *Iterator) Add(n uint32) *Iterator {
	return it.array.At(it.recordIndex + n)
}

// Sub returns the distance in records between it and other.
func (it *Iterator) Sub(other *Iterator) int64 {
	return int64(it.recordIndex) - int64(other.recordIndex)
}

func (it *Iterator) switchToBlock(blockIndex uint32) {
	a := it.array
	if blockIndex >= uint32(len(a.headers)) {
		it.blockIndex = uint32(len(a.headers))
		it.recordIndex = a.recordCount
		it.bitOffset = a.bitLen
		return
	}
	it.blockIndex = blockIndex
	header := a.headers[blockIndex]
	it.recordIndex = header.firstRecordIndex
	it.current.Key = header.key

	r := bitio.NewReader(a.data, a.bitLen)
	r.Seek(header.bitOffset)
	if err := it.readValue(r); err != nil {
		// A CompressedArray built by Build or Load is well-formed; a
		// decode failure here means the array's byte slice was
		// tampered with after construction.
		panic(err)
	}
	sameWord, err := r.ReadBit()
	if err != nil {
		panic(err)
	}
	it.sameWord = sameWord
	it.bitOffset = r.Pos()
}

func (it *Iterator) switchToRecord(recordIndex uint32) {
	a := it.array
	if recordIndex > a.recordCount {
		recordIndex = a.recordCount
	}
	blockIndex := uint32(sort.Search(len(a.headers), func(i int) bool {
		return a.headers[i].firstRecordIndex > recordIndex
	}) - 1)

	it.switchToBlock(blockIndex)
	for it.blockIndex == blockIndex && it.recordIndex < recordIndex {
		_ = it.Next()
	}
}
