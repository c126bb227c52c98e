package ngramstorage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// LoadPairs reads the training input format described in §6: a u64
// pair count, then that many records of (u32 count, u8 length,
// length×u32 word ids). It is a peripheral convenience codec; any
// source of Pair values works equally well with FromPairs.
func LoadPairs(r io.Reader) ([]Pair, error) {
	var countBuf [8]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, fmt.Errorf("ngramstorage: read pair count: %w", wrapCorrupt(err))
	}
	n := binary.LittleEndian.Uint64(countBuf[:])

	pairs := make([]Pair, n)
	var u32buf [4]byte
	var lenBuf [1]byte
	for i := range pairs {
		if _, err := io.ReadFull(r, u32buf[:]); err != nil {
			return nil, fmt.Errorf("ngramstorage: read pair %d count: %w", i, wrapCorrupt(err))
		}
		count := binary.LittleEndian.Uint32(u32buf[:])

		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return nil, fmt.Errorf("ngramstorage: read pair %d length: %w", i, wrapCorrupt(err))
		}
		length := lenBuf[0]

		words := make([]uint32, length)
		for j := range words {
			if _, err := io.ReadFull(r, u32buf[:]); err != nil {
				return nil, fmt.Errorf("ngramstorage: read pair %d word %d: %w", i, j, wrapCorrupt(err))
			}
			words[j] = binary.LittleEndian.Uint32(u32buf[:])
		}

		pairs[i] = Pair{Words: words, Count: count}
	}
	return pairs, nil
}

// DumpPairs writes pairs in the format read by LoadPairs. Every pair is
// validated before anything is written, including the count prefix, so
// a rejected input leaves w untouched.
func DumpPairs(w io.Writer, pairs []Pair) error {
	for i, p := range pairs {
		if len(p.Words) > 255 {
			return fmt.Errorf("%w: pair %d has %d words", ErrInvalidInput, i, len(p.Words))
		}
	}

	var countBuf [8]byte
	binary.LittleEndian.PutUint64(countBuf[:], uint64(len(pairs)))
	if _, err := w.Write(countBuf[:]); err != nil {
		return fmt.Errorf("ngramstorage: write pair count: %w", err)
	}

	var u32buf [4]byte
	for i, p := range pairs {
		binary.LittleEndian.PutUint32(u32buf[:], p.Count)
		if _, err := w.Write(u32buf[:]); err != nil {
			return fmt.Errorf("ngramstorage: write pair %d count: %w", i, err)
		}
		if _, err := w.Write([]byte{byte(len(p.Words))}); err != nil {
			return fmt.Errorf("ngramstorage: write pair %d length: %w", i, err)
		}
		for j, word := range p.Words {
			binary.LittleEndian.PutUint32(u32buf[:], word)
			if _, err := w.Write(u32buf[:]); err != nil {
				return fmt.Errorf("ngramstorage: write pair %d word %d: %w", i, j, err)
			}
		}
	}
	return nil
}

// FromFile reads training pairs from the binary format at path and
// builds a complete NGramStorage with the default context cache
// capacity.
func FromFile(path string) (*NGramStorage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ngramstorage: open %s: %w", path, err)
	}
	defer f.Close()

	pairs, err := LoadPairs(f)
	if err != nil {
		return nil, fmt.Errorf("ngramstorage: load pairs from %s: %w", path, err)
	}
	return FromPairs(pairs)
}
