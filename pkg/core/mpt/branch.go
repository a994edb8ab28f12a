package mpt

const (
	// childrenCount represents a number of children of a branch node.
	childrenCount = 16
)

// BranchNode represents MPT's branch node.
type BranchNode struct {
	BaseNode
	Children [childrenCount]Node
	value    []byte
}

var _ Node = (*BranchNode)(nil)

// NewBranchNode returns new branch node with all children empty.
func NewBranchNode() *BranchNode {
	b := new(BranchNode)
	for i := 0; i < childrenCount; i++ {
		b.Children[i] = EmptyNode{}
	}
	return b
}

// Type implements Node interface.
func (b *BranchNode) Type() NodeType { return BranchT }

// Value returns the value terminating at b, nil if there is none.
func (b *BranchNode) Value() []byte { return b.value }

// clone returns a dirty copy of b sharing its children.
func (b *BranchNode) clone() *BranchNode {
	return &BranchNode{
		Children: b.Children,
		value:    b.value,
	}
}

// childCount returns the number of non-empty children and the index of the
// last of them.
func (b *BranchNode) childCount() (int, int) {
	var count, index int
	for i := range b.Children {
		if b.Children[i].Type() != EmptyT {
			count++
			index = i
		}
	}
	return count, index
}
