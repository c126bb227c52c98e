package bitio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadNumberRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 2, 3, 7, 8, 255, 256, 1000, 1 << 16, 1<<32 - 1}
	for _, logRadix := range []uint{1, 2, 3, 4, 8} {
		w := NewWriter()
		for _, v := range values {
			w.WriteNumber(v, logRadix)
		}
		data, bitLen := w.Bytes()

		r := NewReader(data, bitLen)
		for _, want := range values {
			got, err := r.ReadNumber(logRadix)
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
	}
}

func TestNumberBitsMatchesWrittenLength(t *testing.T) {
	for _, logRadix := range []uint{1, 2, 8} {
		for _, v := range []uint32{0, 1, 42, 1 << 20} {
			w := NewWriter()
			w.WriteNumber(v, logRadix)
			_, bitLen := w.Bytes()
			require.Equal(t, uint32(NumberBits(v, logRadix)), bitLen)
		}
	}
}

func TestZeroEncodesSingleBit(t *testing.T) {
	w := NewWriter()
	w.WriteNumber(0, 4)
	_, bitLen := w.Bytes()
	require.EqualValues(t, 1, bitLen)
}

func TestReadPastEndIsCorruptStream(t *testing.T) {
	w := NewWriter()
	w.WriteBit(true)
	data, bitLen := w.Bytes()

	r := NewReader(data, bitLen)
	_, err := r.ReadBit()
	require.NoError(t, err)
	_, err = r.ReadBit()
	require.ErrorIs(t, err, ErrCorruptStream)
}

func TestSeekRepositionsCursor(t *testing.T) {
	w := NewWriter()
	w.WriteNumber(5, 3)
	mid := w.Len()
	w.WriteNumber(9, 3)
	data, bitLen := w.Bytes()

	r := NewReader(data, bitLen)
	r.Seek(mid)
	got, err := r.ReadNumber(3)
	require.NoError(t, err)
	require.EqualValues(t, 9, got)
}
