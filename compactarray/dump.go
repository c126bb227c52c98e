package compactarray

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrVocabMismatch is returned by Load when a decoded vocabulary index
// is out of bounds for its vocabulary.
var ErrVocabMismatch = errors.New("compactarray: vocabulary index out of bounds")

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// Dump serializes the array in this order, all integers little-endian
// u32: six log-radix parameters, record_count, the three value
// vocabularies, the block header table, then the packed bitstream
// prefixed by its bit length.
func (a *CompressedArray) Dump(w io.Writer) error {
	radices := []uint32{
		uint32(a.radix.wordIndexDiffLogRadix),
		uint32(a.radix.contextIndexDiffLogRadix),
		uint32(a.radix.contextIndexLogRadix),
		uint32(a.radix.ngramCountIndexLogRadix),
		uint32(a.radix.continuationsCountIndexLogRadix),
		uint32(a.radix.uniqueContinuationsCountIndexLogRadix),
	}
	for _, r := range radices {
		if err := writeUint32(w, r); err != nil {
			return fmt.Errorf("compactarray: dump radix parameters: %w", err)
		}
	}
	if err := writeUint32(w, a.recordCount); err != nil {
		return fmt.Errorf("compactarray: dump record count: %w", err)
	}
	if err := a.values.dump(w); err != nil {
		return fmt.Errorf("compactarray: dump value vocabularies: %w", err)
	}
	if err := writeUint32(w, uint32(len(a.headers))); err != nil {
		return fmt.Errorf("compactarray: dump block count: %w", err)
	}
	for i, h := range a.headers {
		if err := writeUint32(w, h.key.WordIndex); err != nil {
			return fmt.Errorf("compactarray: dump block %d header: %w", i, err)
		}
		if err := writeUint32(w, h.key.ContextIndex); err != nil {
			return fmt.Errorf("compactarray: dump block %d header: %w", i, err)
		}
		if err := writeUint32(w, h.bitOffset); err != nil {
			return fmt.Errorf("compactarray: dump block %d header: %w", i, err)
		}
		if err := writeUint32(w, h.firstRecordIndex); err != nil {
			return fmt.Errorf("compactarray: dump block %d header: %w", i, err)
		}
	}
	if err := writeUint32(w, a.bitLen); err != nil {
		return fmt.Errorf("compactarray: dump bitstream length: %w", err)
	}
	byteLen := (a.bitLen + 7) / 8
	if _, err := w.Write(a.data[:byteLen]); err != nil {
		return fmt.Errorf("compactarray: dump bitstream: %w", err)
	}
	return nil
}

// Load reconstructs a CompressedArray previously written by Dump. It
// validates that every stored Value decodes to a vocabulary index in
// range but does not otherwise re-verify the Key/Value invariants that
// Build guarantees; a dump produced by anything other than Dump is not
// a supported input.
func Load(r io.Reader) (*CompressedArray, error) {
	radixFields := make([]uint32, 6)
	for i := range radixFields {
		v, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("compactarray: load radix parameters: %w", ErrCorruptRead(err))
		}
		radixFields[i] = v
	}
	radix := radixParams{
		wordIndexDiffLogRadix:                 uint(radixFields[0]),
		contextIndexDiffLogRadix:              uint(radixFields[1]),
		contextIndexLogRadix:                  uint(radixFields[2]),
		ngramCountIndexLogRadix:               uint(radixFields[3]),
		continuationsCountIndexLogRadix:       uint(radixFields[4]),
		uniqueContinuationsCountIndexLogRadix: uint(radixFields[5]),
	}

	recordCount, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("compactarray: load record count: %w", ErrCorruptRead(err))
	}

	values, err := loadValueVocabularies(r)
	if err != nil {
		return nil, fmt.Errorf("compactarray: %w", ErrCorruptRead(err))
	}

	blockCount, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("compactarray: load block count: %w", ErrCorruptRead(err))
	}
	headers := make([]blockHeader, blockCount)
	for i := range headers {
		wordIndex, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("compactarray: load block %d header: %w", i, ErrCorruptRead(err))
		}
		contextIndex, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("compactarray: load block %d header: %w", i, ErrCorruptRead(err))
		}
		bitOffset, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("compactarray: load block %d header: %w", i, ErrCorruptRead(err))
		}
		firstRecordIndex, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("compactarray: load block %d header: %w", i, ErrCorruptRead(err))
		}
		headers[i] = blockHeader{
			key:              Key{WordIndex: wordIndex, ContextIndex: contextIndex},
			firstRecordIndex: firstRecordIndex,
			bitOffset:        bitOffset,
		}
	}

	bitLen, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("compactarray: load bitstream length: %w", ErrCorruptRead(err))
	}
	data := make([]byte, (bitLen+7)/8)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("compactarray: load bitstream: %w", ErrCorruptRead(err))
	}

	a := &CompressedArray{
		radix:       radix,
		data:        data,
		bitLen:      bitLen,
		headers:     headers,
		values:      values,
		recordCount: recordCount,
	}

	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// ErrCorruptRead normalizes any read error (including io.EOF and
// io.ErrUnexpectedEOF from a truncated stream) to ErrCorruptStream
// while keeping the original error visible via errors.Is/As chaining.
func ErrCorruptRead(err error) error {
	return fmt.Errorf("%w: %w", ErrCorruptStream, err)
}

// ErrCorruptStream is returned by Load when the block headers or
// bitstream are inconsistent with the declared record count.
var ErrCorruptStream = errors.New("compactarray: corrupt stream")

// validate decodes every record once to confirm the bitstream is
// well-formed and every encoded vocabulary index is in range,
// satisfying Load's CorruptStream/VocabMismatch contract. Decoding
// uses the same code path as normal iteration, which signals these
// failures by panicking (switchToBlock has no error return); validate
// is the one place that panic is expected and recovered.
func (a *CompressedArray) validate() (err error) {
	defer func() {
		if p := recover(); p != nil {
			if e, ok := p.(error); ok {
				err = fmt.Errorf("compactarray: validate records: %w", ErrCorruptRead(e))
				return
			}
			panic(p)
		}
	}()

	it := a.Begin()
	for it.recordIndex < a.recordCount {
		if nerr := it.Next(); nerr != nil {
			return fmt.Errorf("compactarray: validate records: %w", ErrCorruptRead(nerr))
		}
	}
	return nil
}
