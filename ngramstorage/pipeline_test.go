package ngramstorage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	pairsPath := filepath.Join(dir, "pairs.bin")
	outPath := filepath.Join(dir, "storage.bin")

	pairs := samplePairs()
	f, err := os.Create(pairsPath)
	require.NoError(t, err)
	require.NoError(t, DumpPairs(f, pairs))
	require.NoError(t, f.Close())

	require.NoError(t, BuildFile(pairsPath, outPath))

	out, err := os.Open(outPath)
	require.NoError(t, err)
	defer out.Close()

	loaded, err := Load(out, DefaultContextCacheCapacity)
	require.NoError(t, err)
	require.EqualValues(t, 7, loaded.GetNgramCount([]uint32{1, 2, 3}))
}

func TestBuildFileMissingInputReportsStage(t *testing.T) {
	dir := t.TempDir()
	err := BuildFile(filepath.Join(dir, "does-not-exist.bin"), filepath.Join(dir, "out.bin"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "open pairs file")
}
