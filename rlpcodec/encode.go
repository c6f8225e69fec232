package rlpcodec

import "github.com/jaiminpan/triewalk/trie"

// EncodeExtensionLayout encodes n using the Extension/Branch split wire
// shape (ExtensionLayout's codec can decode the result).
func EncodeExtensionLayout(n trie.Node) []byte {
	switch t := n.(type) {
	case trie.EmptyNode:
		return append([]byte(nil), emptyEncoding...)
	case *trie.LeafNode:
		return EncodeList(
			EncodeString(encodeCompactKey(t.Partial.Slice(), true)),
			EncodeString(t.Value),
		)
	case *trie.ExtensionNode:
		return EncodeList(
			EncodeString(encodeCompactKey(t.Partial.Slice(), false)),
			encodeRef(t.Child),
		)
	case *trie.BranchNode:
		items := make([][]byte, 0, 17)
		for i := 0; i < 16; i++ {
			items = append(items, encodeRef(t.Children[i]))
		}
		items = append(items, EncodeString(t.Value))
		return EncodeList(items...)
	default:
		panic("rlpcodec: node variant not valid under ExtensionLayout")
	}
}

// EncodeNibbledBranchLayout encodes n using the single-node-carries-its-own-
// prefix wire shape (NibbledBranchLayout's codec can decode the result).
func EncodeNibbledBranchLayout(n trie.Node) []byte {
	switch t := n.(type) {
	case trie.EmptyNode:
		return append([]byte(nil), emptyEncoding...)
	case *trie.LeafNode:
		return EncodeList(
			EncodeString(encodeCompactKey(t.Partial.Slice(), true)),
			EncodeString(t.Value),
		)
	case *trie.NibbledBranchNode:
		items := make([][]byte, 0, 18)
		items = append(items, EncodeString(encodeCompactKey(t.Partial.Slice(), false)))
		for i := 0; i < 16; i++ {
			items = append(items, encodeRef(t.Children[i]))
		}
		items = append(items, EncodeString(t.Value))
		return EncodeList(items...)
	default:
		panic("rlpcodec: node variant not valid under NibbledBranchLayout")
	}
}
