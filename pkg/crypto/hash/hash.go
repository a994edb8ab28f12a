/*
Package hash contains digest providers used to address trie nodes and to
commit to the trie contents.
*/
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Names of the supported digest algorithms.
const (
	Keccak256Name    = "keccak256"
	Sha256Name       = "sha256"
	DoubleSha256Name = "doublesha256"
	Blake2b256Name   = "blake2b256"
)

// Hasher is a deterministic collision-resistant digest function with fixed
// output width. Implementations are safe for concurrent use.
type Hasher interface {
	// Hash returns the digest of data.
	Hash(data []byte) Digest
	// Size returns the digest width in bytes.
	Size() int
	// Name returns the algorithm name.
	Name() string
}

// poolHasher reuses hash states between calls via sync.Pool.
type poolHasher struct {
	name   string
	size   int
	double bool
	pool   sync.Pool
}

func newPoolHasher(name string, size int, double bool, f func() hash.Hash) *poolHasher {
	return &poolHasher{
		name:   name,
		size:   size,
		double: double,
		pool: sync.Pool{
			New: func() any { return f() },
		},
	}
}

// Hash implements the Hasher interface.
func (p *poolHasher) Hash(data []byte) Digest {
	h := p.pool.Get().(hash.Hash)
	h.Reset()
	h.Write(data)
	res := h.Sum(make([]byte, 0, p.size))
	if p.double {
		h.Reset()
		h.Write(res)
		res = h.Sum(res[:0])
	}
	p.pool.Put(h)
	return res
}

// Size implements the Hasher interface.
func (p *poolHasher) Size() int { return p.size }

// Name implements the Hasher interface.
func (p *poolHasher) Name() string { return p.name }

var (
	keccak256    = newPoolHasher(Keccak256Name, 32, false, sha3.NewLegacyKeccak256)
	sha256Hasher = newPoolHasher(Sha256Name, sha256.Size, false, sha256.New)
	doubleSha256 = newPoolHasher(DoubleSha256Name, sha256.Size, true, sha256.New)
	blake2b256   = newPoolHasher(Blake2b256Name, blake2b.Size256, false, func() hash.Hash {
		h, _ := blake2b.New256(nil) // never fails without a key
		return h
	})
)

// Keccak256 returns legacy (pre-standard) Keccak-256 hasher, the one used by
// Ethereum-compatible tries.
func Keccak256() Hasher { return keccak256 }

// Sha256 returns SHA-256 hasher.
func Sha256() Hasher { return sha256Hasher }

// DoubleSha256 returns a hasher applying SHA-256 twice.
func DoubleSha256() Hasher { return doubleSha256 }

// Blake2b256 returns BLAKE2b-256 hasher.
func Blake2b256() Hasher { return blake2b256 }

// ByName returns a hasher by its name (case-insensitive). Empty name means
// the default one, Keccak256.
func ByName(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "", Keccak256Name:
		return Keccak256(), nil
	case Sha256Name:
		return Sha256(), nil
	case DoubleSha256Name:
		return DoubleSha256(), nil
	case Blake2b256Name:
		return Blake2b256(), nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm: %s", name)
	}
}

// Digest is a hasher output.
type Digest []byte

// String implements the fmt.Stringer interface, it returns hex representation
// of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d)
}

// Equals checks whether two digests are the same.
func (d Digest) Equals(other Digest) bool {
	return string(d) == string(other)
}

// DigestFromString decodes a hex string (with or without 0x prefix) into a
// Digest.
func DigestFromString(s string) (Digest, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid digest: %w", err)
	}
	return b, nil
}
