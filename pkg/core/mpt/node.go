// Package mpt implements a persistent Merkle Patricia Trie with hex-prefix
// RLP node encoding, content-addressed node storage and Merkle proofs.
package mpt

import (
	"github.com/nspcc-dev/mptrie/pkg/crypto/hash"
)

// NodeType represents node type.
type NodeType byte

// Node types definitions.
const (
	EmptyT NodeType = iota
	LeafT
	ExtensionT
	BranchT
	HashT
)

// String implements fmt.Stringer.
func (t NodeType) String() string {
	switch t {
	case EmptyT:
		return "empty"
	case LeafT:
		return "leaf"
	case ExtensionT:
		return "extension"
	case BranchT:
		return "branch"
	case HashT:
		return "hash"
	default:
		return "unknown"
	}
}

// Node represents common interface of all MPT nodes. Nodes are immutable,
// every trie modification creates new nodes along the affected path.
type Node interface {
	Type() NodeType
}

// emptyEncoding is the canonical encoding of EmptyNode (RLP empty string).
var emptyEncoding = []byte{0x80}

// EmptyRoot returns a digest of the empty trie for the given hasher.
func EmptyRoot(h hash.Hasher) hash.Digest {
	return h.Hash(emptyEncoding)
}

// nodeBytes returns canonical encoding of n. It can't be used for hash nodes
// since their contents are unknown until they're resolved.
func nodeBytes(n Node, h hash.Hasher) []byte {
	switch n := n.(type) {
	case EmptyNode:
		return emptyEncoding
	case *HashNode:
		panic("can't encode hash node")
	case baseNode:
		b := n.base()
		if b.bytes == nil {
			b.bytes = encodeNode(n, h)
		}
		return b.bytes
	default:
		panic("invalid MPT node type")
	}
}

// nodeHash returns a digest of n's canonical encoding.
func nodeHash(n Node, h hash.Hasher) hash.Digest {
	switch n := n.(type) {
	case EmptyNode:
		return EmptyRoot(h)
	case *HashNode:
		return n.digest
	case baseNode:
		b := n.base()
		if b.hash == nil {
			b.hash = h.Hash(nodeBytes(n, h))
		}
		return b.hash
	default:
		panic("invalid MPT node type")
	}
}

// concatNibbles returns a freshly allocated concatenation of paths. Node keys
// share backing arrays with each other, so they must never be appended to.
func concatNibbles(paths ...[]byte) []byte {
	var size int
	for i := range paths {
		size += len(paths[i])
	}
	res := make([]byte, 0, size)
	for i := range paths {
		res = append(res, paths[i]...)
	}
	return res
}
