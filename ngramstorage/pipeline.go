package ngramstorage

import (
	"fmt"
	"os"

	"github.com/ngramstore/compactngram/continuity"
)

// BuildFile reads training pairs from pairsPath, builds a complete
// NGramStorage, and writes its dump to outPath. Each stage is a named
// step so a failure midway (a missing input file, a write error on a
// full disk) is reported with the stage that caused it rather than a
// bare wrapped error.
func BuildFile(pairsPath, outPath string) error {
	var (
		pairsFile *os.File
		pairs     []Pair
		storage   *NGramStorage
		outFile   *os.File
	)

	err := continuity.New().
		Thenf("open pairs file", func() (err error) {
			pairsFile, err = os.Open(pairsPath)
			return err
		}).
		Thenf("read pairs", func() (err error) {
			pairs, err = LoadPairs(pairsFile)
			return err
		}).
		Thenf("close pairs file", func() error {
			return pairsFile.Close()
		}).
		Thenf("build storage", func() (err error) {
			storage, err = FromPairs(pairs)
			return err
		}).
		Thenf("create output file", func() (err error) {
			outFile, err = os.Create(outPath)
			return err
		}).
		Thenf("dump storage", func() error {
			return storage.Dump(outFile)
		}).
		Thenf("close output file", func() error {
			return outFile.Close()
		}).
		Err()
	if err != nil {
		return fmt.Errorf("ngramstorage: build %s from %s: %w", outPath, pairsPath, err)
	}
	return nil
}
