package compactarray

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ngramstore/compactngram/bitio"
)

// MaxBlockSize is the per-block budget in bits (not bytes): a block's
// encoded byte length, measured in bits, may not exceed this value.
const MaxBlockSize = 1024

// ErrInvalidInput is returned by Build when the input exceeds the
// addressable range of the format (2^32 or more records).
var ErrInvalidInput = errors.New("compactarray: input exceeds addressable range")

type blockHeader struct {
	key              Key
	firstRecordIndex uint32
	bitOffset        uint32
}

// CompressedArray is the compressed ordered map from Key to Value
// described in package doc. It is built once from a sorted, uniqued
// record slice and is immutable thereafter.
type CompressedArray struct {
	radix radixParams

	data   []byte
	bitLen uint32

	headers     []blockHeader
	values      *valueVocabularies
	recordCount uint32
}

// Build constructs a CompressedArray from a slice of records that the
// caller guarantees is sorted and unique by Key. Passing unsorted or
// duplicate keys is a caller error and produces an array whose
// invariants do not hold; Build does not re-validate this for
// performance reasons, matching the reference implementation it is
// modeled on.
func Build(sortedRecords []Record) (*CompressedArray, error) {
	if uint64(len(sortedRecords)) >= uint64(1)<<32 {
		return nil, fmt.Errorf("%w: %d records", ErrInvalidInput, len(sortedRecords))
	}

	values := buildValueVocabularies(sortedRecords)
	radix, err := tuneRadixParameters(sortedRecords, values)
	if err != nil {
		return nil, fmt.Errorf("compactarray: tune radix parameters: %w", err)
	}

	a := &CompressedArray{
		radix:       radix,
		values:      values,
		recordCount: uint32(len(sortedRecords)),
	}

	w := bitio.NewWriter()
	recordIndex := uint32(0)
	for recordIndex < a.recordCount {
		header := blockHeader{
			key:              sortedRecords[recordIndex].Key,
			firstRecordIndex: recordIndex,
			bitOffset:        w.Len(),
		}
		a.headers = append(a.headers, header)

		next, err := a.fillBlock(w, sortedRecords, recordIndex)
		if err != nil {
			return nil, fmt.Errorf("compactarray: fill block at record %d: %w", recordIndex, err)
		}
		if w.Len()-header.bitOffset > MaxBlockSize {
			return nil, fmt.Errorf("compactarray: block starting at record %d exceeds MaxBlockSize", recordIndex)
		}
		recordIndex = next
	}
	a.data, a.bitLen = w.Bytes()

	return a, nil
}

// Size returns the number of records in the array.
func (a *CompressedArray) Size() uint32 {
	return a.recordCount
}

// Begin returns an iterator positioned at the first record.
func (a *CompressedArray) Begin() *Iterator {
	it := &Iterator{array: a}
	it.switchToBlock(0)
	return it
}

// End returns an iterator positioned past the last record.
func (a *CompressedArray) End() *Iterator {
	it := &Iterator{array: a}
	it.switchToBlock(uint32(len(a.headers)))
	return it
}

// At returns an iterator positioned at the given record index. Indices
// at or beyond Size are clamped to End.
func (a *CompressedArray) At(recordIndex uint32) *Iterator {
	it := &Iterator{array: a}
	it.switchToRecord(recordIndex)
	return it
}

// Find returns an iterator pointing at the record with the given key,
// or End if no such record exists.
func (a *CompressedArray) Find(key Key) *Iterator {
	idx := sort.Search(len(a.headers), func(i int) bool {
		return key.Less(a.headers[i].key)
	})
	if idx == 0 {
		return a.End()
	}
	blockIndex := uint32(idx - 1)

	it := &Iterator{array: a}
	it.switchToBlock(blockIndex)
	for it.blockIndex == blockIndex && it.current.Key != key {
		if err := it.Next(); err != nil {
			return a.End()
		}
	}
	if it.blockIndex != blockIndex {
		return a.End()
	}
	return it
}
