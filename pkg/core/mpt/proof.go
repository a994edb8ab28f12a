package mpt

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/nspcc-dev/mptrie/pkg/crypto/hash"
	"github.com/nspcc-dev/mptrie/pkg/io"
)

// MaxProofLength is the maximum number of nodes in a decoded proof. Byte keys
// can't produce paths longer than twice the key length, so it's generous.
const MaxProofLength = 1024

var (
	// ErrInvalidProof is returned when proof nodes don't hash to the
	// expected digests, can't be decoded or are missing.
	ErrInvalidProof = errors.New("invalid proof")
	// ErrKeyMismatch is returned when proof is valid for some other key.
	ErrKeyMismatch = errors.New("proof doesn't match the key")
)

// ProofList is a list of node encodings forming a path from the root to the key.
type ProofList [][]byte

// EncodeBinary implements io.Serializable.
func (p ProofList) EncodeBinary(w *io.BinWriter) {
	w.WriteVarUint(uint64(len(p)))
	for i := range p {
		w.WriteVarBytes(p[i])
	}
}

// DecodeBinary implements io.Serializable.
func (p *ProofList) DecodeBinary(r *io.BinReader) {
	n := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if n > MaxProofLength {
		r.Err = fmt.Errorf("proof is too long: %d", n)
		return
	}
	res := make(ProofList, 0, n)
	for i := uint64(0); i < n; i++ {
		item := r.ReadVarBytes()
		if r.Err != nil {
			return
		}
		res = append(res, item)
	}
	*p = res
}

// GetProof returns the value stored by key (nil if there is none) and a proof
// of its presence or absence. Proof contains the root node encoding followed
// by encodings of all nodes referenced by digest on the path to the key.
func (t *Trie) GetProof(key []byte) ([]byte, ProofList, error) {
	root, err := t.resolve(t.root)
	if err != nil {
		return nil, nil, err
	}
	proof := ProofList{bytes.Clone(nodeBytes(root, t.hasher))}
	val, err := t.getProof(root, toNibbles(key), &proof)
	if err != nil {
		return nil, nil, err
	}
	return bytes.Clone(val), proof, nil
}

func (t *Trie) getProof(curr Node, path []byte, proof *ProofList) ([]byte, error) {
	switch n := curr.(type) {
	case EmptyNode:
		return nil, nil
	case *LeafNode:
		if bytes.Equal(path, n.key) {
			return n.value, nil
		}
		return nil, nil
	case *ExtensionNode:
		if bytes.HasPrefix(path, n.key) {
			return t.proveChild(n.next, path[len(n.key):], proof)
		}
		return nil, nil
	case *BranchNode:
		if len(path) == 0 {
			return n.value, nil
		}
		return t.proveChild(n.Children[path[0]], path[1:], proof)
	default:
		panic("invalid MPT node type")
	}
}

// proveChild appends child to the proof unless it's embedded into its parent
// and continues the traversal.
func (t *Trie) proveChild(child Node, path []byte, proof *ProofList) ([]byte, error) {
	child, err := t.resolve(child)
	if err != nil {
		return nil, err
	}
	if child.Type() != EmptyT {
		enc := nodeBytes(child, t.hasher)
		if len(enc) >= t.hasher.Size() {
			*proof = append(*proof, bytes.Clone(enc))
		}
	}
	return t.getProof(child, path, proof)
}

// VerifyProof checks proof against the root digest and returns the value
// stored by key, nil value with nil error means the proof shows its absence.
func VerifyProof(root hash.Digest, key []byte, proof ProofList, h hash.Hasher) ([]byte, error) {
	v := &proofVerifier{proof: proof, hasher: h}
	n, err := v.next(root, nil)
	if err != nil {
		return nil, err
	}
	val, err := v.traverse(n, toNibbles(key))
	if err != nil {
		return nil, err
	}
	if v.pos != len(proof) {
		return nil, fmt.Errorf("%w: %d proof nodes left after the key traversal", ErrKeyMismatch, len(proof)-v.pos)
	}
	return bytes.Clone(val), nil
}

type proofVerifier struct {
	proof  ProofList
	hasher hash.Hasher
	pos    int
}

// next decodes the next proof node checking it to match the expected digest.
// parent is used to tell a proof for another key from a broken one.
func (v *proofVerifier) next(expected hash.Digest, parent Node) (Node, error) {
	if v.pos >= len(v.proof) {
		return nil, fmt.Errorf("%w: node %s is missing", ErrInvalidProof, expected)
	}
	data := v.proof[v.pos]
	d := v.hasher.Hash(data)
	if !d.Equals(expected) {
		if isChildRef(parent, d) {
			return nil, fmt.Errorf("%w: node %d belongs to another path", ErrKeyMismatch, v.pos)
		}
		return nil, fmt.Errorf("%w: node %d digest mismatch", ErrInvalidProof, v.pos)
	}
	n, err := DecodeNode(data, v.hasher.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: node %d: %w", ErrInvalidProof, v.pos, err)
	}
	if parent != nil && n.Type() == EmptyT {
		return nil, fmt.Errorf("%w: node %d is empty", ErrInvalidProof, v.pos)
	}
	v.pos++
	return n, nil
}

func (v *proofVerifier) traverse(curr Node, path []byte) ([]byte, error) {
	switch n := curr.(type) {
	case EmptyNode:
		return nil, nil
	case *LeafNode:
		if bytes.Equal(path, n.key) {
			return n.value, nil
		}
		return nil, nil
	case *ExtensionNode:
		if bytes.HasPrefix(path, n.key) {
			return v.child(n, n.next, path[len(n.key):])
		}
		return nil, nil
	case *BranchNode:
		if len(path) == 0 {
			return n.value, nil
		}
		return v.child(n, n.Children[path[0]], path[1:])
	default:
		panic("invalid MPT node type")
	}
}

func (v *proofVerifier) child(parent Node, child Node, path []byte) ([]byte, error) {
	if h, ok := child.(*HashNode); ok {
		n, err := v.next(h.digest, parent)
		if err != nil {
			return nil, err
		}
		child = n
	}
	return v.traverse(child, path)
}

// isChildRef checks whether d is a digest reference of some parent's child.
func isChildRef(parent Node, d hash.Digest) bool {
	switch n := parent.(type) {
	case *BranchNode:
		for i := range n.Children {
			if h, ok := n.Children[i].(*HashNode); ok && h.digest.Equals(d) {
				return true
			}
		}
	case *ExtensionNode:
		if h, ok := n.next.(*HashNode); ok {
			return h.digest.Equals(d)
		}
	}
	return false
}
