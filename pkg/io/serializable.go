package io

// Serializable is implemented by types with a binary form. Errors are
// reported through the Err field of BinReader/BinWriter, so implementations
// must be no-ops when it is already set.
type Serializable interface {
	DecodeBinary(*BinReader)
	EncodeBinary(*BinWriter)
}
