package compactarray

import "github.com/ngramstore/compactngram/bitio"

// wordIndexDiffLogRadix is fixed rather than tuned: word-index deltas
// within a block are typically small, and dedicated tuning of this
// field was judged not worth the extra pass over the reference
// implementation this package is modeled on. Tuning it alongside the
// other five fields would be a strict improvement; see DESIGN.md.
const wordIndexDiffLogRadix = 2

// radixParams holds the six per-field log-radix parameters that
// together determine how a CompressedArray's bitstream is packed.
type radixParams struct {
	wordIndexDiffLogRadix                 uint
	contextIndexDiffLogRadix              uint
	contextIndexLogRadix                  uint
	ngramCountIndexLogRadix               uint
	continuationsCountIndexLogRadix       uint
	uniqueContinuationsCountIndexLogRadix uint
}

// tuneRadixParameters enumerates log-radix r in [1,8] for each of the
// five tunable fields and keeps the r that minimizes the total encoded
// bit length over every consecutive record pair, exactly mirroring the
// construction-time cost model used by fillBlock.
func tuneRadixParameters(records []Record, values *valueVocabularies) (radixParams, error) {
	const radixCount = 8

	var contextIndexDiffSize [radixCount]uint64
	var contextIndexSize [radixCount]uint64
	var ngramCountIndexSize [radixCount]uint64
	var continuationsCountIndexSize [radixCount]uint64
	var uniqueContinuationsCountIndexSize [radixCount]uint64

	for i := 1; i < len(records); i++ {
		record := records[i]
		prev := records[i-1]

		ngramIndex, err := values.ngramCount.Index(record.Value.NgramCount)
		if err != nil {
			return radixParams{}, err
		}
		continuationsIndex, err := values.continuationsCount.Index(record.Value.ContinuationsCount)
		if err != nil {
			return radixParams{}, err
		}
		uniqueIndex, err := values.uniqueContinuationsCount.Index(record.Value.UniqueContinuationsCount)
		if err != nil {
			return radixParams{}, err
		}

		for j := 0; j < radixCount; j++ {
			r := uint(j + 1)
			if prev.Key.WordIndex == record.Key.WordIndex {
				diff := record.Key.ContextIndex - prev.Key.ContextIndex
				contextIndexDiffSize[j] += uint64(bitio.NumberBits(diff, r))
			} else {
				contextIndexSize[j] += uint64(bitio.NumberBits(record.Key.ContextIndex, r))
			}
			ngramCountIndexSize[j] += uint64(bitio.NumberBits(ngramIndex, r))
			continuationsCountIndexSize[j] += uint64(bitio.NumberBits(continuationsIndex, r))
			uniqueContinuationsCountIndexSize[j] += uint64(bitio.NumberBits(uniqueIndex, r))
		}
	}

	params := radixParams{
		wordIndexDiffLogRadix:                 wordIndexDiffLogRadix,
		contextIndexDiffLogRadix:              1,
		contextIndexLogRadix:                  1,
		ngramCountIndexLogRadix:               1,
		continuationsCountIndexLogRadix:       1,
		uniqueContinuationsCountIndexLogRadix: 1,
	}
	for j := 0; j < radixCount; j++ {
		r := uint(j + 1)
		if contextIndexDiffSize[params.contextIndexDiffLogRadix-1] > contextIndexDiffSize[j] {
			params.contextIndexDiffLogRadix = r
		}
		if contextIndexSize[params.contextIndexLogRadix-1] > contextIndexSize[j] {
			params.contextIndexLogRadix = r
		}
		if ngramCountIndexSize[params.ngramCountIndexLogRadix-1] > ngramCountIndexSize[j] {
			params.ngramCountIndexLogRadix = r
		}
		if continuationsCountIndexSize[params.continuationsCountIndexLogRadix-1] > continuationsCountIndexSize[j] {
			params.continuationsCountIndexLogRadix = r
		}
		if uniqueContinuationsCountIndexSize[params.uniqueContinuationsCountIndexLogRadix-1] > uniqueContinuationsCountIndexSize[j] {
			params.uniqueContinuationsCountIndexLogRadix = r
		}
	}
	return params, nil
}
