// Package rlpcodec implements trie.Codec for the two node shapes trie.Layout
// distinguishes via UseExtension: a classic RLP "hex-prefix" encoding with a
// separate Extension node above a bare Branch (ExtensionLayout), and a
// single NibbledBranch node that carries its own partial key alongside its
// fan-out (NibbledBranchLayout). Both share the same RLP item framing and
// hex-prefix key encoding; they differ only in how many list items a
// fan-out node carries and in whether a 2-item node is ever anything but a
// leaf.
package rlpcodec

import (
	"errors"
	"fmt"

	"github.com/jaiminpan/triewalk/hashing"
	"github.com/jaiminpan/triewalk/trie"
)

// emptyEncoding is the RLP encoding of an empty string, the canonical
// encoding for trie.EmptyNode and for a fresh trie's root.
var emptyEncoding = []byte{0x80}

const maxInlineSize = hashing.HashLength - 1

// ExtensionLayout is a trie.Layout whose codec splits shared prefixes above
// a fan-out into their own Extension node, leaving Branch nodes with no
// partial key of their own.
var ExtensionLayout = trie.Layout{
	UseExtension: true,
	Hasher:       hashing.Keccak256{},
	Codec:        extensionCodec{},
}

// NibbledBranchLayout is a trie.Layout whose codec folds any shared prefix
// directly into the fan-out node, never producing a standalone Extension.
var NibbledBranchLayout = trie.Layout{
	UseExtension: false,
	Hasher:       hashing.Keccak256{},
	Codec:        nibbledBranchCodec{},
}

type extensionCodec struct{}

func (extensionCodec) MaxInlineSize() int { return maxInlineSize }

func (extensionCodec) Decode(encoded []byte) (trie.Node, error) {
	if isEmptyEncoding(encoded) {
		return trie.EmptyNode{}, nil
	}
	content, _, err := SplitList(encoded)
	if err != nil {
		return nil, err
	}
	n, err := CountValues(content)
	if err != nil {
		return nil, err
	}
	switch n {
	case 2:
		return decodeShort(content)
	case 17:
		return decodeFullBranch(content)
	default:
		return nil, fmt.Errorf("rlpcodec: node has %d items, want 2 or 17", n)
	}
}

func decodeShort(content []byte) (trie.Node, error) {
	keyBytes, rest, err := SplitString(content)
	if err != nil {
		return nil, err
	}
	partial, hasTerm, err := decodeCompactKey(keyBytes)
	if err != nil {
		return nil, err
	}
	if hasTerm {
		val, _, err := SplitString(rest)
		if err != nil {
			return nil, err
		}
		return &trie.LeafNode{Partial: partial, Value: append([]byte(nil), val...)}, nil
	}
	ref, _, err := decodeRef(rest, maxInlineSize, hashing.HashLength)
	if err != nil {
		return nil, err
	}
	return &trie.ExtensionNode{Partial: partial, Child: ref}, nil
}

func decodeFullBranch(content []byte) (trie.Node, error) {
	var children [16]trie.ChildRef
	rest := content
	var err error
	for i := 0; i < 16; i++ {
		children[i], rest, err = decodeRef(rest, maxInlineSize, hashing.HashLength)
		if err != nil {
			return nil, err
		}
	}
	val, _, err := SplitString(rest)
	if err != nil {
		return nil, err
	}
	return &trie.BranchNode{Children: children, Value: nonEmpty(val)}, nil
}

type nibbledBranchCodec struct{}

func (nibbledBranchCodec) MaxInlineSize() int { return maxInlineSize }

func (nibbledBranchCodec) Decode(encoded []byte) (trie.Node, error) {
	if isEmptyEncoding(encoded) {
		return trie.EmptyNode{}, nil
	}
	content, _, err := SplitList(encoded)
	if err != nil {
		return nil, err
	}
	n, err := CountValues(content)
	if err != nil {
		return nil, err
	}
	switch n {
	case 2:
		return decodeLeafOnly(content)
	case 18:
		return decodeNibbledBranch(content)
	default:
		return nil, fmt.Errorf("rlpcodec: node has %d items, want 2 or 18", n)
	}
}

func decodeLeafOnly(content []byte) (trie.Node, error) {
	keyBytes, rest, err := SplitString(content)
	if err != nil {
		return nil, err
	}
	partial, hasTerm, err := decodeCompactKey(keyBytes)
	if err != nil {
		return nil, err
	}
	if !hasTerm {
		return nil, errors.New("rlpcodec: 2-item node without a terminator under a layout with no extensions")
	}
	val, _, err := SplitString(rest)
	if err != nil {
		return nil, err
	}
	return &trie.LeafNode{Partial: partial, Value: append([]byte(nil), val...)}, nil
}

func decodeNibbledBranch(content []byte) (trie.Node, error) {
	keyBytes, rest, err := SplitString(content)
	if err != nil {
		return nil, err
	}
	partial, _, err := decodeCompactKey(keyBytes)
	if err != nil {
		return nil, err
	}
	var children [16]trie.ChildRef
	for i := 0; i < 16; i++ {
		children[i], rest, err = decodeRef(rest, maxInlineSize, hashing.HashLength)
		if err != nil {
			return nil, err
		}
	}
	val, _, err := SplitString(rest)
	if err != nil {
		return nil, err
	}
	return &trie.NibbledBranchNode{Partial: partial, Children: children, Value: nonEmpty(val)}, nil
}

func isEmptyEncoding(encoded []byte) bool {
	return len(encoded) == 1 && encoded[0] == emptyEncoding[0]
}

func nonEmpty(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte(nil), b...)
}
