// Package testserdes contains helpers for checking io.Serializable
// implementations in tests.
package testserdes

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/nspcc-dev/mptrie/pkg/io"
	"github.com/stretchr/testify/require"
)

// EncodeDecodeBinary serializes expected, decodes the result into actual and
// checks that both are equal and that encoding actual gives the same bytes.
func EncodeDecodeBinary(t *testing.T, expected, actual io.Serializable) {
	data, err := EncodeBinary(expected)
	require.NoError(t, err)
	require.NoError(t, DecodeBinary(data, actual))
	require.Equal(t, expected, actual)

	again, err := EncodeBinary(actual)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

// EncodeBinary serializes a to a byte slice.
func EncodeBinary(a io.Serializable) ([]byte, error) {
	w := io.NewBufBinWriter()
	a.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// DecodeBinary deserializes a from data. Trailing bytes are reported as an
// error.
func DecodeBinary(data []byte, a io.Serializable) error {
	buf := bytes.NewReader(data)
	r := io.NewBinReaderFromIO(buf)
	a.DecodeBinary(r)
	if r.Err != nil {
		return r.Err
	}
	if buf.Len() != 0 {
		return fmt.Errorf("%d trailing bytes", buf.Len())
	}
	return nil
}
