package mpt

// LeafNode represents MPT's leaf node, it terminates the path to a value.
type LeafNode struct {
	BaseNode
	key   []byte
	value []byte
}

var _ Node = (*LeafNode)(nil)

// NewLeafNode returns leaf node with the specified nibble key remainder and value.
func NewLeafNode(key, value []byte) *LeafNode {
	return &LeafNode{key: key, value: value}
}

// Type implements Node interface.
func (n *LeafNode) Type() NodeType { return LeafT }

// Key returns the nibble path remainder of n.
func (n *LeafNode) Key() []byte { return n.key }

// Value returns the value stored in n.
func (n *LeafNode) Value() []byte { return n.value }
