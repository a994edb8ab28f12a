package mpt

// ExtensionNode represents MPT's extension node. It compresses a shared
// nibble path leading to a branch.
type ExtensionNode struct {
	BaseNode
	key  []byte
	next Node
}

var _ Node = (*ExtensionNode)(nil)

// NewExtensionNode returns extension node with the specified nibble key and next node.
func NewExtensionNode(key []byte, next Node) *ExtensionNode {
	return &ExtensionNode{
		key:  key,
		next: next,
	}
}

// Type implements Node interface.
func (e *ExtensionNode) Type() NodeType { return ExtensionT }

// Key returns the shared nibble path of e.
func (e *ExtensionNode) Key() []byte { return e.key }

// Next returns the node e points to.
func (e *ExtensionNode) Next() Node { return e.next }
