package mpt

import (
	"github.com/nspcc-dev/mptrie/pkg/crypto/hash"
)

// BaseNode implements basic things every node needs like caching hash and
// serialized representation. It's a basic node building block intended to be
// included into all non-trivial node types.
type BaseNode struct {
	hash  hash.Digest
	bytes []byte

	isFlushed bool
}

// baseNode is implemented by nodes embedding BaseNode.
type baseNode interface {
	Node
	base() *BaseNode
}

func (b *BaseNode) base() *BaseNode { return b }

// setCache marks node as the one already present in the storage.
func (b *BaseNode) setCache(bs []byte, h hash.Digest) {
	b.bytes = bs
	b.hash = h
	b.isFlushed = true
}

// IsFlushed checks for node flush status.
func (b *BaseNode) IsFlushed() bool {
	return b.isFlushed
}

// SetFlushed sets 'flushed' flag to true for this node.
func (b *BaseNode) SetFlushed() {
	b.isFlushed = true
}
