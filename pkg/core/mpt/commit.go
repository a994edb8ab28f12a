package mpt

import (
	"bytes"
	"fmt"

	"github.com/nspcc-dev/mptrie/pkg/crypto/hash"
	"go.uber.org/zap"
)

// Commit saves all dirty nodes of t to the store and returns the root digest
// which can be used to open this version of the trie later. Nodes embedded
// into their parents are not saved separately, the root is always saved.
// If the store fails, the nodes saved so far stay flushed and the next Commit
// continues from there.
func (t *Trie) Commit() (hash.Digest, error) {
	var count int
	if err := t.flush(t.root, true, &count); err != nil {
		return nil, err
	}
	if _, ok := t.root.(baseNode); ok {
		// Small root could have been flushed as a part of its former parent.
		enc := nodeBytes(t.root, t.hasher)
		if len(enc) < t.hasher.Size() {
			if err := t.putNode(nodeHash(t.root, t.hasher), enc); err != nil {
				return nil, err
			}
		}
	}
	root := t.Hash()
	commits.Inc()
	committedNodes.Add(float64(count))
	t.log.Debug("trie committed",
		zap.Stringer("root", root),
		zap.Int("nodes", count))
	return root, nil
}

// flush saves curr and all of its dirty descendants to the store.
func (t *Trie) flush(curr Node, isRoot bool, count *int) error {
	bn, ok := curr.(baseNode)
	if !ok || bn.base().IsFlushed() {
		return nil
	}
	switch n := curr.(type) {
	case *BranchNode:
		for i := range n.Children {
			if err := t.flush(n.Children[i], false, count); err != nil {
				return err
			}
		}
	case *ExtensionNode:
		if err := t.flush(n.next, false, count); err != nil {
			return err
		}
	}
	enc := nodeBytes(curr, t.hasher)
	if isRoot || len(enc) >= t.hasher.Size() {
		if err := t.putNode(nodeHash(curr, t.hasher), enc); err != nil {
			return err
		}
		*count++
	}
	bn.base().SetFlushed()
	return nil
}

func (t *Trie) putNode(h hash.Digest, enc []byte) error {
	if err := t.store.Put(bytes.Clone(h), enc); err != nil {
		return fmt.Errorf("%w: failed to put node %s: %w", ErrStore, h, err)
	}
	return nil
}
