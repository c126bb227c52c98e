package compactarray

import (
	"fmt"
	"io"

	"github.com/ngramstore/compactngram/vocab"
)

// valueVocabularies groups the three primitive vocabularies that
// replace Value fields with dense indices before bit-packing.
type valueVocabularies struct {
	ngramCount               *vocab.Vocabulary
	continuationsCount       *vocab.Vocabulary
	uniqueContinuationsCount *vocab.Vocabulary
}

func buildValueVocabularies(records []Record) *valueVocabularies {
	ngramCounts := make([]uint32, len(records))
	continuationsCounts := make([]uint32, len(records))
	uniqueCounts := make([]uint32, len(records))
	for i, r := range records {
		ngramCounts[i] = r.Value.NgramCount
		continuationsCounts[i] = r.Value.ContinuationsCount
		uniqueCounts[i] = r.Value.UniqueContinuationsCount
	}
	return &valueVocabularies{
		ngramCount:               vocab.Build(ngramCounts),
		continuationsCount:       vocab.Build(continuationsCounts),
		uniqueContinuationsCount: vocab.Build(uniqueCounts),
	}
}

func (v *valueVocabularies) dump(w io.Writer) error {
	if err := v.ngramCount.Dump(w); err != nil {
		return fmt.Errorf("dump ngram count vocabulary: %w", err)
	}
	if err := v.continuationsCount.Dump(w); err != nil {
		return fmt.Errorf("dump continuations count vocabulary: %w", err)
	}
	if err := v.uniqueContinuationsCount.Dump(w); err != nil {
		return fmt.Errorf("dump unique continuations count vocabulary: %w", err)
	}
	return nil
}

func loadValueVocabularies(r io.Reader) (*valueVocabularies, error) {
	ngramCount, err := vocab.Load(r)
	if err != nil {
		return nil, fmt.Errorf("load ngram count vocabulary: %w", err)
	}
	continuationsCount, err := vocab.Load(r)
	if err != nil {
		return nil, fmt.Errorf("load continuations count vocabulary: %w", err)
	}
	uniqueContinuationsCount, err := vocab.Load(r)
	if err != nil {
		return nil, fmt.Errorf("load unique continuations count vocabulary: %w", err)
	}
	return &valueVocabularies{
		ngramCount:               ngramCount,
		continuationsCount:       continuationsCount,
		uniqueContinuationsCount: uniqueContinuationsCount,
	}, nil
}
