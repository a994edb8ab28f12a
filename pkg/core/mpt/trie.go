package mpt

import (
	"bytes"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/nspcc-dev/mptrie/pkg/core/storage"
	"github.com/nspcc-dev/mptrie/pkg/crypto/hash"
	"go.uber.org/zap"
)

// DefaultNodeCacheSize is the number of decoded nodes kept in memory by default.
const DefaultNodeCacheSize = 4096

// ErrStore is returned when the underlying store fails to return or save a node.
var ErrStore = errors.New("store failure")

// Config contains trie parameters.
type Config struct {
	// Store keeps committed nodes, fresh MemoryStore is used if nil.
	Store storage.Store
	// Hasher is Keccak256 by default.
	Hasher hash.Hasher
	// NodeCacheSize is the number of decoded nodes to keep in memory,
	// DefaultNodeCacheSize is used if not positive.
	NodeCacheSize int
	// Log is a no-op logger by default.
	Log *zap.Logger
}

// Trie is an MPT trie storing all key-value pairs. It's not safe for
// concurrent use, separate instances can read the same store in parallel.
type Trie struct {
	store  storage.Store
	hasher hash.Hasher
	cache  *lru.Cache
	log    *zap.Logger

	root Node
}

// NewTrie returns new empty MPT trie.
func NewTrie(cfg Config) *Trie {
	if cfg.Store == nil {
		cfg.Store = storage.NewMemoryStore()
	}
	if cfg.Hasher == nil {
		cfg.Hasher = hash.Keccak256()
	}
	if cfg.NodeCacheSize <= 0 {
		cfg.NodeCacheSize = DefaultNodeCacheSize
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	// It only fails for non-positive sizes.
	cache, _ := lru.New(cfg.NodeCacheSize)
	return &Trie{
		store:  cfg.Store,
		hasher: cfg.Hasher,
		cache:  cache,
		log:    cfg.Log,
		root:   EmptyNode{},
	}
}

// NewTrieFromRoot returns MPT trie with the root previously returned by Commit.
// Nothing is read from the store until the trie is traversed.
func NewTrieFromRoot(root hash.Digest, cfg Config) (*Trie, error) {
	t := NewTrie(cfg)
	if len(root) != t.hasher.Size() {
		return nil, fmt.Errorf("invalid root digest length %d, expected %d", len(root), t.hasher.Size())
	}
	if !root.Equals(EmptyRoot(t.hasher)) {
		t.root = NewHashNode(bytes.Clone(root))
	}
	return t, nil
}

// Hash returns the current root digest, nothing is persisted.
func (t *Trie) Hash() hash.Digest {
	return bytes.Clone(nodeHash(t.root, t.hasher))
}

// Get returns value for the provided key in t. Nil value with nil error is
// returned if there is no such key.
func (t *Trie) Get(key []byte) ([]byte, error) {
	val, err := t.getWithPath(t.root, toNibbles(key))
	if err != nil {
		return nil, err
	}
	return bytes.Clone(val), nil
}

// getWithPath returns value the provided path in a subtrie rooting in curr.
func (t *Trie) getWithPath(curr Node, path []byte) ([]byte, error) {
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
			return t.getWithPath(n.next, path[len(n.key):])
		}
		return nil, nil
	case *BranchNode:
		if len(path) == 0 {
			return n.value, nil
		}
		return t.getWithPath(n.Children[path[0]], path[1:])
	case *HashNode:
		r, err := t.getFromStore(n.digest)
		if err != nil {
			return nil, err
		}
		return t.getWithPath(r, path)
	default:
		panic("invalid MPT node type")
	}
}

// Put puts key-value pair in t. Empty value is equivalent to Delete.
func (t *Trie) Put(key, value []byte) error {
	if len(value) == 0 {
		_, err := t.Delete(key)
		return err
	}
	r, err := t.putIntoNode(t.root, toNibbles(key), bytes.Clone(value))
	if err != nil {
		return err
	}
	t.root = r
	return nil
}

// putIntoNode puts val with provided path inside curr and returns an updated node.
// curr is returned if nothing has changed.
func (t *Trie) putIntoNode(curr Node, path []byte, val []byte) (Node, error) {
	switch n := curr.(type) {
	case EmptyNode:
		return NewLeafNode(path, val), nil
	case *LeafNode:
		return t.putIntoLeaf(n, path, val), nil
	case *ExtensionNode:
		return t.putIntoExtension(n, path, val)
	case *BranchNode:
		return t.putIntoBranch(n, path, val)
	case *HashNode:
		r, err := t.getFromStore(n.digest)
		if err != nil {
			return nil, err
		}
		nn, err := t.putIntoNode(r, path, val)
		if err != nil || nn == r {
			return curr, err
		}
		return nn, nil
	default:
		panic("invalid MPT node type")
	}
}

func (t *Trie) putIntoLeaf(curr *LeafNode, path []byte, val []byte) Node {
	if bytes.Equal(curr.key, path) {
		if bytes.Equal(curr.value, val) {
			return curr
		}
		return NewLeafNode(curr.key, val)
	}
	pref := lcp(curr.key, path)
	b := NewBranchNode()
	putNewLeaf(b, curr.key[pref:], curr.value)
	putNewLeaf(b, path[pref:], val)
	return wrapBranch(path[:pref], b)
}

func (t *Trie) putIntoExtension(curr *ExtensionNode, path []byte, val []byte) (Node, error) {
	pref := lcp(curr.key, path)
	if pref == len(curr.key) {
		r, err := t.putIntoNode(curr.next, path[pref:], val)
		if err != nil {
			return nil, err
		}
		if r == curr.next {
			return curr, nil
		}
		return NewExtensionNode(curr.key, r), nil
	}
	b := NewBranchNode()
	if pref+1 == len(curr.key) {
		b.Children[curr.key[pref]] = curr.next
	} else {
		b.Children[curr.key[pref]] = NewExtensionNode(curr.key[pref+1:], curr.next)
	}
	putNewLeaf(b, path[pref:], val)
	return wrapBranch(path[:pref], b), nil
}

func (t *Trie) putIntoBranch(curr *BranchNode, path []byte, val []byte) (Node, error) {
	if len(path) == 0 {
		if bytes.Equal(curr.value, val) {
			return curr, nil
		}
		b := curr.clone()
		b.value = val
		return b, nil
	}
	i := path[0]
	r, err := t.putIntoNode(curr.Children[i], path[1:], val)
	if err != nil {
		return nil, err
	}
	if r == curr.Children[i] {
		return curr, nil
	}
	b := curr.clone()
	b.Children[i] = r
	return b, nil
}

// putNewLeaf stores val in a freshly created branch b which doesn't have
// anything on the path yet.
func putNewLeaf(b *BranchNode, path []byte, val []byte) {
	if len(path) == 0 {
		b.value = val
		return
	}
	b.Children[path[0]] = NewLeafNode(path[1:], val)
}

// wrapBranch places b under the extension with the given key if it's not empty.
func wrapBranch(key []byte, b *BranchNode) Node {
	if len(key) == 0 {
		return b
	}
	return NewExtensionNode(key, b)
}

// Delete removes key from the trie. It returns false if there was no such key.
func (t *Trie) Delete(key []byte) (bool, error) {
	r, removed, err := t.deleteFromNode(t.root, toNibbles(key))
	if err != nil || !removed {
		return false, err
	}
	t.root = r
	return true, nil
}

// deleteFromNode removes value with the provided path from curr and returns
// an updated node along with the removal flag.
func (t *Trie) deleteFromNode(curr Node, path []byte) (Node, bool, error) {
	switch n := curr.(type) {
	case EmptyNode:
		return curr, false, nil
	case *LeafNode:
		if bytes.Equal(path, n.key) {
			return EmptyNode{}, true, nil
		}
		return curr, false, nil
	case *ExtensionNode:
		return t.deleteFromExtension(n, path)
	case *BranchNode:
		return t.deleteFromBranch(n, path)
	case *HashNode:
		r, err := t.getFromStore(n.digest)
		if err != nil {
			return nil, false, err
		}
		nn, removed, err := t.deleteFromNode(r, path)
		if err != nil || !removed {
			return curr, false, err
		}
		return nn, true, nil
	default:
		panic("invalid MPT node type")
	}
}

func (t *Trie) deleteFromExtension(n *ExtensionNode, path []byte) (Node, bool, error) {
	if !bytes.HasPrefix(path, n.key) {
		return n, false, nil
	}
	r, removed, err := t.deleteFromNode(n.next, path[len(n.key):])
	if err != nil || !removed {
		return n, false, err
	}
	switch nxt := r.(type) {
	case *ExtensionNode:
		return NewExtensionNode(concatNibbles(n.key, nxt.key), nxt.next), true, nil
	case *LeafNode:
		return NewLeafNode(concatNibbles(n.key, nxt.key), nxt.value), true, nil
	case *HashNode:
		// Can't happen, deletion never returns an unresolved changed node.
		panic("unexpected hash node")
	default:
		return NewExtensionNode(n.key, r), true, nil
	}
}

func (t *Trie) deleteFromBranch(b *BranchNode, path []byte) (Node, bool, error) {
	var nb *BranchNode
	if len(path) == 0 {
		if b.value == nil {
			return b, false, nil
		}
		nb = b.clone()
		nb.value = nil
	} else {
		i := path[0]
		r, removed, err := t.deleteFromNode(b.Children[i], path[1:])
		if err != nil || !removed {
			return b, false, err
		}
		nb = b.clone()
		nb.Children[i] = r
	}
	r, err := t.collapseBranch(nb)
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// collapseBranch restores canonical form of b after a removal: branches with
// a single child or value are replaced by leaf or extension nodes.
func (t *Trie) collapseBranch(b *BranchNode) (Node, error) {
	count, index := b.childCount()
	switch {
	case count == 0 && b.value == nil:
		return EmptyNode{}, nil
	case count == 0:
		return NewLeafNode([]byte{}, b.value), nil
	case count > 1 || b.value != nil:
		return b, nil
	}
	var (
		child = b.Children[index]
		err   error
	)
	if h, ok := child.(*HashNode); ok {
		child, err = t.getFromStore(h.digest)
		if err != nil {
			return nil, err
		}
	}
	prefix := []byte{byte(index)}
	switch c := child.(type) {
	case *LeafNode:
		return NewLeafNode(concatNibbles(prefix, c.key), c.value), nil
	case *ExtensionNode:
		return NewExtensionNode(concatNibbles(prefix, c.key), c.next), nil
	default:
		return NewExtensionNode(prefix, b.Children[index]), nil
	}
}

// Walk calls f for every key-value pair of t in ascending key order until f
// returns false.
func (t *Trie) Walk(f func(key, value []byte) bool) error {
	_, err := t.walk(t.root, nil, f)
	return err
}

func (t *Trie) walk(curr Node, prefix []byte, f func(key, value []byte) bool) (bool, error) {
	switch n := curr.(type) {
	case EmptyNode:
		return true, nil
	case *LeafNode:
		return f(fromNibbles(concatNibbles(prefix, n.key)), bytes.Clone(n.value)), nil
	case *ExtensionNode:
		return t.walk(n.next, concatNibbles(prefix, n.key), f)
	case *BranchNode:
		if n.value != nil && !f(fromNibbles(prefix), bytes.Clone(n.value)) {
			return false, nil
		}
		for i := range n.Children {
			ok, err := t.walk(n.Children[i], concatNibbles(prefix, []byte{byte(i)}), f)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case *HashNode:
		r, err := t.getFromStore(n.digest)
		if err != nil {
			return false, err
		}
		return t.walk(r, prefix, f)
	default:
		panic("invalid MPT node type")
	}
}

// resolve returns curr loading it from the store if it's a hash node.
func (t *Trie) resolve(curr Node) (Node, error) {
	if h, ok := curr.(*HashNode); ok {
		return t.getFromStore(h.digest)
	}
	return curr, nil
}

// getFromStore returns decoded node from the store.
func (t *Trie) getFromStore(h hash.Digest) (Node, error) {
	if n, ok := t.cache.Get(string(h)); ok {
		return n.(Node), nil
	}
	data, err := t.store.Get(h)
	if err != nil {
		return nil, fmt.Errorf("%w: node %s: %w", ErrStore, h, err)
	}
	n, err := DecodeNode(data, t.hasher.Size())
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", h, err)
	}
	bn, ok := n.(baseNode)
	if !ok {
		return nil, fmt.Errorf("%w: node %s is empty", ErrMalformedEncoding, h)
	}
	bn.base().hash = bytes.Clone(h)
	nodeLoads.Inc()
	t.cache.Add(string(h), n)
	return n, nil
}
