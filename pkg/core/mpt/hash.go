package mpt

import (
	"github.com/nspcc-dev/mptrie/pkg/crypto/hash"
)

// HashNode represents MPT's hash node. It's a reference to the node stored
// by its digest which hasn't been loaded yet.
type HashNode struct {
	digest hash.Digest
}

var _ Node = (*HashNode)(nil)

// NewHashNode returns hash node with the specified digest.
func NewHashNode(d hash.Digest) *HashNode {
	return &HashNode{digest: d}
}

// Type implements Node interface.
func (h *HashNode) Type() NodeType { return HashT }

// Digest returns the digest of the referenced node.
func (h *HashNode) Digest() hash.Digest { return h.digest }
