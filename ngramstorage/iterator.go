package ngramstorage

import "github.com/ngramstore/compactngram/compactarray"

// LengthIterator walks every distinct n-gram of a fixed length k,
// reconstructing the full word sequence at each step by climbing the
// context_index chain down through levels k-2..0. It follows the
// bufio.Scanner shape: call Next until it returns false, reading
// NGram/Count in between.
type LengthIterator struct {
	storage *NGramStorage
	length  int
	cursors []*compactarray.Iterator
	started bool
}

// IterAtLength returns an iterator over every record in level k-1,
// each reconstructed into its full length-k n-gram. k must be in
// [1, MaxNgramSize()]; a k outside that range yields an iterator whose
// first Next call returns false.
func (s *NGramStorage) IterAtLength(k int) *LengthIterator {
	cursorCount := k
	if cursorCount < 0 {
		cursorCount = 0
	}
	return &LengthIterator{storage: s, length: k, cursors: make([]*compactarray.Iterator, cursorCount)}
}

// Next advances to the next n-gram and reports whether one exists.
func (it *LengthIterator) Next() bool {
	if it.length < 1 || it.length > len(it.storage.arrays) {
		return false
	}
	last := it.storage.arrays[it.length-1]

	if !it.started {
		it.started = true
		it.cursors[it.length-1] = last.Begin()
	} else {
		_ = it.cursors[it.length-1].Next()
	}
	if it.cursors[it.length-1].RecordIndex() >= last.Size() {
		return false
	}

	for i := it.length - 2; i >= 0; i-- {
		ctxIndex := it.cursors[i+1].Record().Key.ContextIndex
		it.cursors[i] = it.storage.arrays[i].At(ctxIndex)
	}
	return true
}

// NGram returns the full word sequence at the iterator's current
// position. It must not be called before a successful Next.
func (it *LengthIterator) NGram() []uint32 {
	ngram := make([]uint32, it.length)
	for i, cursor := range it.cursors {
		ngram[i] = cursor.Record().Key.WordIndex
	}
	return ngram
}

// Count returns the ngram_count of the n-gram at the iterator's
// current position.
func (it *LengthIterator) Count() uint32 {
	return it.cursors[it.length-1].Record().Value.NgramCount
}
