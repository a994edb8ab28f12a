package io

import (
	"encoding/binary"
	"io"
)

// BinWriter wraps an io.Writer and keeps the first error that occurred, so
// that a sequence of writes can be checked once at the end.
type BinWriter struct {
	w   io.Writer
	Err error
	uv  [9]byte
}

// NewBinWriterFromIO makes a BinWriter from io.Writer.
func NewBinWriterFromIO(iow io.Writer) *BinWriter {
	return &BinWriter{w: iow}
}

// WriteVarUint writes val using variable-length encoding: values below 0xfd
// take one byte, larger ones get a 0xfd/0xfe/0xff marker followed by a
// little-endian uint16/uint32/uint64.
func (w *BinWriter) WriteVarUint(val uint64) {
	w.WriteBytes(w.uv[:PutVarUint(w.uv[:], val)])
}

// PutVarUint puts val in the varint form into data which must be at least
// 9 bytes long and returns the number of bytes used.
func PutVarUint(data []byte, val uint64) int {
	_ = data[8]
	switch {
	case val < 0xfd:
		data[0] = byte(val)
		return 1
	case val <= 0xffff:
		data[0] = 0xfd
		binary.LittleEndian.PutUint16(data[1:], uint16(val))
		return 3
	case val <= 0xffffffff:
		data[0] = 0xfe
		binary.LittleEndian.PutUint32(data[1:], uint32(val))
		return 5
	default:
		data[0] = 0xff
		binary.LittleEndian.PutUint64(data[1:], val)
		return 9
	}
}

// WriteBytes writes b as is, without a length prefix.
func (w *BinWriter) WriteBytes(b []byte) {
	if w.Err != nil {
		return
	}
	_, w.Err = w.w.Write(b)
}

// WriteVarBytes writes b prefixed with its length.
func (w *BinWriter) WriteVarBytes(b []byte) {
	w.WriteVarUint(uint64(len(b)))
	w.WriteBytes(b)
}
