package compactarray

import (
	"fmt"

	"github.com/ngramstore/compactngram/bitio"
)

// valueBits returns the encoded bit length of v without writing
// anything.
func (a *CompressedArray) valueBits(v Value) (uint, error) {
	ngramIdx, err := a.values.ngramCount.Index(v.NgramCount)
	if err != nil {
		return 0, fmt.Errorf("ngram count %d: %w", v.NgramCount, err)
	}
	continuationsIdx, err := a.values.continuationsCount.Index(v.ContinuationsCount)
	if err != nil {
		return 0, fmt.Errorf("continuations count %d: %w", v.ContinuationsCount, err)
	}
	uniqueIdx, err := a.values.uniqueContinuationsCount.Index(v.UniqueContinuationsCount)
	if err != nil {
		return 0, fmt.Errorf("unique continuations count %d: %w", v.UniqueContinuationsCount, err)
	}
	bits := bitio.NumberBits(ngramIdx, a.radix.ngramCountIndexLogRadix)
	bits += bitio.NumberBits(continuationsIdx, a.radix.continuationsCountIndexLogRadix)
	bits += bitio.NumberBits(uniqueIdx, a.radix.uniqueContinuationsCountIndexLogRadix)
	return bits, nil
}

// keyBits returns the encoded bit length of the delta between key and
// prev under the given same-word mode.
func (a *CompressedArray) keyBits(key, prev Key, sameWord bool) uint {
	var bits uint
	if !sameWord {
		bits += bitio.NumberBits(key.WordIndex-prev.WordIndex, a.radix.wordIndexDiffLogRadix)
	}
	if key.WordIndex == prev.WordIndex {
		bits += bitio.NumberBits(key.ContextIndex-prev.ContextIndex, a.radix.contextIndexDiffLogRadix)
	} else {
		bits += bitio.NumberBits(key.ContextIndex, a.radix.contextIndexLogRadix)
	}
	return bits
}

func (a *CompressedArray) recordBits(record, prev Record, sameWord bool) (uint, error) {
	vbits, err := a.valueBits(record.Value)
	if err != nil {
		return 0, err
	}
	return a.keyBits(record.Key, prev.Key, sameWord) + vbits, nil
}

func (a *CompressedArray) writeValue(w *bitio.Writer, v Value) error {
	idx, err := a.values.ngramCount.Index(v.NgramCount)
	if err != nil {
		return err
	}
	w.WriteNumber(idx, a.radix.ngramCountIndexLogRadix)
	idx, err = a.values.continuationsCount.Index(v.ContinuationsCount)
	if err != nil {
		return err
	}
	w.WriteNumber(idx, a.radix.continuationsCountIndexLogRadix)
	idx, err = a.values.uniqueContinuationsCount.Index(v.UniqueContinuationsCount)
	if err != nil {
		return err
	}
	w.WriteNumber(idx, a.radix.uniqueContinuationsCountIndexLogRadix)
	return nil
}

func (a *CompressedArray) writeKey(w *bitio.Writer, key, prev Key, sameWord bool) {
	if !sameWord {
		w.WriteNumber(key.WordIndex-prev.WordIndex, a.radix.wordIndexDiffLogRadix)
	}
	if key.WordIndex == prev.WordIndex {
		w.WriteNumber(key.ContextIndex-prev.ContextIndex, a.radix.contextIndexDiffLogRadix)
	} else {
		w.WriteNumber(key.ContextIndex, a.radix.contextIndexLogRadix)
	}
}

func (a *CompressedArray) writeRecord(w *bitio.Writer, record, prev Record, sameWord bool) error {
	a.writeKey(w, record.Key, prev.Key, sameWord)
	return a.writeValue(w, record.Value)
}

// fillBlock greedily extends a block starting at records[firstIndex],
// first assuming every record needs a full (non-same-word) key
// encoding, then switching to the cheaper same-word encoding if every
// record collected so far shares the first record's word index. It
// writes the block to w and returns the index of the first
// unconsumed record.
func (a *CompressedArray) fillBlock(w *bitio.Writer, records []Record, firstIndex uint32) (uint32, error) {
	first := records[firstIndex]

	firstValueBits, err := a.valueBits(first.Value)
	if err != nil {
		return 0, err
	}
	blockBits := firstValueBits + 1 // +1 for the same_word flag
	sameWordBits := blockBits

	lastIndex := firstIndex + 1
	sameWord := true
	for int(lastIndex) < len(records) {
		last := records[lastIndex]
		prev := records[lastIndex-1]

		generalBits, err := a.recordBits(last, prev, false)
		if err != nil {
			return 0, err
		}
		if blockBits+generalBits > MaxBlockSize {
			break
		}
		sameWordRecordBits, err := a.recordBits(last, prev, true)
		if err != nil {
			return 0, err
		}

		blockBits += generalBits
		sameWordBits += sameWordRecordBits
		sameWord = sameWord && prev.Key.WordIndex == last.Key.WordIndex
		lastIndex++
	}

	if sameWord {
		blockBits = sameWordBits
		for int(lastIndex) < len(records) {
			last := records[lastIndex]
			prev := records[lastIndex-1]
			sameWordRecordBits, err := a.recordBits(last, prev, true)
			if err != nil {
				return 0, err
			}
			if blockBits+sameWordRecordBits > MaxBlockSize || prev.Key.WordIndex != last.Key.WordIndex {
				break
			}
			blockBits += sameWordRecordBits
			lastIndex++
		}
	}

	if err := a.writeValue(w, first.Value); err != nil {
		return 0, err
	}
	w.WriteBit(sameWord)
	for i := firstIndex + 1; i < lastIndex; i++ {
		if err := a.writeRecord(w, records[i], records[i-1], sameWord); err != nil {
			return 0, err
		}
	}

	return lastIndex, nil
}
