// Package vocab implements the primitive vocabulary: a sorted,
// deduplicated array of small values used to replace repeated count
// values by dense indices before bit-packing. Only uint32 primitives
// are needed by compactngram's Value fields; the generic string
// vocabulary described for word dictionaries (backed by a minimal
// perfect hash function) is an external collaborator and is not
// implemented here.
package vocab

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrNotFound is returned by Index when the value is absent from the
// vocabulary.
var ErrNotFound = errors.New("vocab: value not found")

// Vocabulary is a dense, sorted, deduplicated array of uint32 values.
type Vocabulary struct {
	words []uint32
}

// Build sorts and deduplicates values into a new Vocabulary. The input
// slice is copied; the caller's slice is left untouched.
func Build(values []uint32) *Vocabulary {
	words := append([]uint32(nil), values...)
	sort.Slice(words, func(i, j int) bool { return words[i] < words[j] })
	words = dedup(words)
	return &Vocabulary{words: words}
}

func dedup(sorted []uint32) []uint32 {
	if len(sorted) == 0 {
		return sorted
	}
	n := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[n-1] {
			sorted[n] = sorted[i]
			n++
		}
	}
	return sorted[:n]
}

// Index returns the position of value in the vocabulary via binary
// search.
func (v *Vocabulary) Index(value uint32) (uint32, error) {
	i := sort.Search(len(v.words), func(i int) bool { return v.words[i] >= value })
	if i == len(v.words) || v.words[i] != value {
		return 0, ErrNotFound
	}
	return uint32(i), nil
}

// Word returns the value stored at index.
func (v *Vocabulary) Word(index uint32) uint32 {
	return v.words[index]
}

// ErrIndexOutOfRange is returned by WordChecked when index is not a
// valid position in the vocabulary, as can happen when decoding a
// vocabulary index from an untrusted or corrupt stream.
var ErrIndexOutOfRange = errors.New("vocab: index out of range")

// WordChecked is the bounds-checked counterpart to Word, used wherever
// the index comes from a decoded bitstream rather than a value this
// package itself produced.
func (v *Vocabulary) WordChecked(index uint32) (uint32, error) {
	if index >= uint32(len(v.words)) {
		return 0, ErrIndexOutOfRange
	}
	return v.words[index], nil
}

// Len returns the number of distinct values.
func (v *Vocabulary) Len() int {
	return len(v.words)
}

// Dump writes the vocabulary as a u32 length followed by raw
// little-endian uint32 elements.
func (v *Vocabulary) Dump(w io.Writer) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(v.words)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("vocab: write length: %w", err)
	}
	buf := make([]byte, 4*len(v.words))
	for i, word := range v.words {
		binary.LittleEndian.PutUint32(buf[i*4:], word)
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("vocab: write elements: %w", err)
	}
	return nil
}

// Load reads a vocabulary previously written by Dump.
func Load(r io.Reader) (*Vocabulary, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("vocab: read length: %w", err)
	}
	size := binary.LittleEndian.Uint32(lenBuf[:])
	buf := make([]byte, 4*int(size))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("vocab: read elements: %w", err)
	}
	words := make([]uint32, size)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return &Vocabulary{words: words}, nil
}
