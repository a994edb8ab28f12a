package random

import (
	"math/rand"

	"github.com/google/uuid"
)

// Bytes returns a random byte slice of the specified length.
func Bytes(n int) []byte {
	b := make([]byte, n)
	fill(b)
	return b
}

// fill fills buffer with random bytes.
func fill(buf []byte) {
	// Rand reader returns no errors
	_, _ = rand.Read(buf)
}

// Keys returns n distinct random keys of the given length.
func Keys(n, size int) [][]byte {
	seen := make(map[string]struct{}, n)
	keys := make([][]byte, 0, n)
	for len(keys) < n {
		k := Bytes(size)
		if _, ok := seen[string(k)]; ok {
			continue
		}
		seen[string(k)] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// UUIDPairs returns n key-value pairs made of random v4 UUIDs.
func UUIDPairs(n int) ([][]byte, [][]byte) {
	keys := make([][]byte, n)
	values := make([][]byte, n)
	for i := 0; i < n; i++ {
		k, v := uuid.New(), uuid.New()
		keys[i] = k[:]
		values[i] = v[:]
	}
	return keys, values
}
