package mpt

// EmptyNode represents an empty trie or an empty branch slot.
type EmptyNode struct{}

var _ Node = EmptyNode{}

// Type implements Node interface.
func (EmptyNode) Type() NodeType { return EmptyT }
