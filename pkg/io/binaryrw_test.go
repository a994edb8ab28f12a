package io

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteVarUint(t *testing.T) {
	testCases := []struct {
		val  uint64
		size int
	}{
		{0, 1},
		{0xfc, 1},
		{0xfd, 3},
		{0xffff, 3},
		{0x10000, 5},
		{0xffffffff, 5},
		{0x100000000, 9},
	}
	for _, tc := range testCases {
		bw := NewBufBinWriter()
		bw.WriteVarUint(tc.val)
		require.NoError(t, bw.Err)
		require.Equal(t, tc.size, bw.Len())

		br := NewBinReaderFromBuf(bw.Bytes())
		require.Equal(t, tc.val, br.ReadVarUint())
		require.NoError(t, br.Err)
	}
}

func TestVarBytes(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteVarBytes([]byte{1, 2, 3})
	bw.WriteVarBytes(nil)
	bw.WriteBytes([]byte{42, 0xef, 0xbe, 0xad, 0xde})
	data := bw.Bytes()
	require.Equal(t, []byte{3, 1, 2, 3, 0, 42, 0xef, 0xbe, 0xad, 0xde}, data)

	br := NewBinReaderFromBuf(data)
	require.Equal(t, []byte{1, 2, 3}, br.ReadVarBytes())
	require.Equal(t, []byte{}, br.ReadVarBytes())
	require.Equal(t, byte(42), br.ReadB())
	require.Equal(t, uint32(0xdeadbeef), br.ReadU32LE())
	require.NoError(t, br.Err)

	br.ReadB()
	require.Error(t, br.Err)
}

func TestReadVarBytesTooBig(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteVarBytes(make([]byte, 10))
	br := NewBinReaderFromBuf(bw.Bytes())
	require.Nil(t, br.ReadVarBytes(5))
	require.Error(t, br.Err)
}

func TestBufBinWriterDrained(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteBytes([]byte{1})
	require.Equal(t, []byte{1}, bw.Bytes())
	bw.WriteBytes([]byte{2})
	require.ErrorIs(t, bw.Err, ErrDrained)
	require.Nil(t, bw.Bytes())

	bw.Reset()
	bw.WriteBytes([]byte{3})
	require.Equal(t, []byte{3}, bw.Bytes())
}
