package mpt

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/nspcc-dev/mptrie/pkg/crypto/hash"
)

// ErrMalformedEncoding is returned when node bytes can't be decoded into a
// canonical node.
var ErrMalformedEncoding = errors.New("malformed node encoding")

// Number of RLP list items in encoded nodes.
const (
	shortNodeItems = 2
	fullNodeItems  = childrenCount + 1
)

// encodeNode serializes leaf, extension or branch node. Children are
// referenced by digest unless their encoding is shorter than the digest.
func encodeNode(n Node, h hash.Hasher) []byte {
	w := rlp.NewEncoderBuffer(nil)
	l := w.List()
	switch n := n.(type) {
	case *LeafNode:
		w.WriteBytes(compactEncode(n.key, true))
		w.WriteBytes(n.value)
	case *ExtensionNode:
		w.WriteBytes(compactEncode(n.key, false))
		writeChildRef(w, n.next, h)
	case *BranchNode:
		for i := range n.Children {
			writeChildRef(w, n.Children[i], h)
		}
		w.WriteBytes(n.value)
	default:
		panic("invalid MPT node type")
	}
	w.ListEnd(l)
	res := w.ToBytes()
	_ = w.Flush()
	return res
}

func writeChildRef(w rlp.EncoderBuffer, child Node, h hash.Hasher) {
	switch c := child.(type) {
	case EmptyNode:
		w.WriteBytes(nil)
	case *HashNode:
		w.WriteBytes(c.digest)
	default:
		enc := nodeBytes(c, h)
		if len(enc) < h.Size() {
			_, _ = w.Write(enc)
		} else {
			w.WriteBytes(nodeHash(c, h))
		}
	}
}

// DecodeNode decodes a node from its canonical encoding, hashSize is the
// width of digest references. Decoded nodes are marked as flushed.
func DecodeNode(data []byte, hashSize int) (Node, error) {
	return decodeNode(bytes.Clone(data), hashSize)
}

func decodeNode(data []byte, hashSize int) (Node, error) {
	kind, content, rest, err := rlp.Split(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEncoding, err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedEncoding, len(rest))
	}
	if kind != rlp.List {
		if kind == rlp.String && len(content) == 0 {
			return EmptyNode{}, nil
		}
		return nil, fmt.Errorf("%w: unexpected string node", ErrMalformedEncoding)
	}
	count, err := rlp.CountValues(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEncoding, err)
	}
	var n baseNode
	switch count {
	case shortNodeItems:
		n, err = decodeShort(content, hashSize)
	case fullNodeItems:
		n, err = decodeFull(content, hashSize)
	default:
		return nil, fmt.Errorf("%w: invalid number of list elements: %d", ErrMalformedEncoding, count)
	}
	if err != nil {
		return nil, err
	}
	n.base().setCache(data, nil)
	return n, nil
}

func decodeShort(content []byte, hashSize int) (baseNode, error) {
	kbuf, rest, err := rlp.SplitString(content)
	if err != nil {
		return nil, fmt.Errorf("%w: node key: %w", ErrMalformedEncoding, err)
	}
	key, leaf, err := compactDecode(kbuf)
	if err != nil {
		return nil, err
	}
	if leaf {
		val, _, err := rlp.SplitString(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: leaf value: %w", ErrMalformedEncoding, err)
		}
		if len(val) == 0 {
			return nil, fmt.Errorf("%w: empty leaf value", ErrMalformedEncoding)
		}
		return NewLeafNode(key, val), nil
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: empty extension key", ErrMalformedEncoding)
	}
	next, _, err := decodeRef(rest, hashSize)
	if err != nil {
		return nil, err
	}
	if t := next.Type(); t != BranchT && t != HashT {
		return nil, fmt.Errorf("%w: extension points to %s node", ErrMalformedEncoding, t)
	}
	return NewExtensionNode(key, next), nil
}

func decodeFull(content []byte, hashSize int) (baseNode, error) {
	var (
		b     = NewBranchNode()
		count int
		err   error
	)
	for i := range b.Children {
		b.Children[i], content, err = decodeRef(content, hashSize)
		if err != nil {
			return nil, err
		}
		if b.Children[i].Type() != EmptyT {
			count++
		}
	}
	val, _, err := rlp.SplitString(content)
	if err != nil {
		return nil, fmt.Errorf("%w: branch value: %w", ErrMalformedEncoding, err)
	}
	if len(val) != 0 {
		b.value = val
	}
	if count == 0 || (count == 1 && b.value == nil) {
		return nil, fmt.Errorf("%w: branch with %d children", ErrMalformedEncoding, count)
	}
	return b, nil
}

// decodeRef decodes child reference from the beginning of buf and returns
// the rest of it.
func decodeRef(buf []byte, hashSize int) (Node, []byte, error) {
	kind, val, rest, err := rlp.Split(buf)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: child reference: %w", ErrMalformedEncoding, err)
	}
	switch {
	case kind == rlp.List:
		size := len(buf) - len(rest)
		if size >= hashSize {
			return nil, nil, fmt.Errorf("%w: oversized embedded node (%d bytes)", ErrMalformedEncoding, size)
		}
		n, err := decodeNode(buf[:size], hashSize)
		return n, rest, err
	case kind == rlp.String && len(val) == 0:
		return EmptyNode{}, rest, nil
	case kind == rlp.String && len(val) == hashSize:
		return NewHashNode(val), rest, nil
	default:
		return nil, nil, fmt.Errorf("%w: invalid child reference length %d", ErrMalformedEncoding, len(val))
	}
}
