// Package trie implements a pre-order node iterator and seek primitive over
// a hash-addressed nibble trie. It does not mutate tries; building one is
// the job of package triebuild. The node variants, child references, and
// the traversal engine below are independent of any particular wire
// encoding — that is supplied by a Layout (see layout.go) and a NodeStore
// (see resolver.go).
package trie

import "github.com/jaiminpan/triewalk/nibble"

// Node is the decoded form of a single trie node. The concrete variants are
// EmptyNode, *LeafNode, *ExtensionNode, *BranchNode and *NibbledBranchNode.
type Node interface {
	isNode()
}

// EmptyNode is the decoded form of the canonical empty-trie encoding.
type EmptyNode struct{}

func (EmptyNode) isNode() {}

// LeafNode carries the remainder of a key and its stored value.
type LeafNode struct {
	Partial nibble.Path
	Value   []byte
}

func (*LeafNode) isNode() {}

// ExtensionNode shares a partial key prefix above a single child. Only
// present under a Layout with UseExtension set; a Layout without it encodes
// every branch fan-out as a NibbledBranchNode instead.
type ExtensionNode struct {
	Partial nibble.Path
	Child   ChildRef
}

func (*ExtensionNode) isNode() {}

// BranchNode is a 16-way fan-out with no embedded partial key, paired with
// an Extension above it to carry any shared prefix. Used when
// Layout.UseExtension is true.
type BranchNode struct {
	Children [16]ChildRef
	Value    []byte // nil when the branch itself stores no value
}

func (*BranchNode) isNode() {}

// NibbledBranchNode is a 16-way fan-out with its own partial key prefix,
// collapsing what an Extension+Branch pair would otherwise need. Used when
// Layout.UseExtension is false.
type NibbledBranchNode struct {
	Partial  nibble.Path
	Children [16]ChildRef
	Value    []byte
}

func (*NibbledBranchNode) isNode() {}
