package trie

// Hasher computes the address used to key a hashed child or a trie root.
// Implemented by package hashing for Keccak-256.
type Hasher interface {
	Hash(data []byte) []byte
}

// Codec decodes a node's wire encoding into one of the Node variants, and
// reports the largest encoded child size that layout will still embed
// inline rather than address by hash. Implemented by package rlpcodec, once
// per USE_EXTENSION choice (ExtensionLayout / NibbledBranchLayout).
type Codec interface {
	Decode(encoded []byte) (Node, error)
	MaxInlineSize() int
}

// Layout pairs the hasher and codec that govern one trie's wire format with
// the USE_EXTENSION flag that decides whether branch fan-out is represented
// as a bare BranchNode (with a separate ExtensionNode above it for any
// shared prefix) or as a single NibbledBranchNode carrying its own partial
// key. The iterator engine never reads this flag: how many path nibbles an
// Exiting step drops is decided by the Node variant in the frame, and the
// codec only ever produces the variants appropriate to its own layout.
type Layout struct {
	UseExtension bool
	Hasher       Hasher
	Codec        Codec
}
