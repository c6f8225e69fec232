// Package hashing supplies the trie.Hasher used to address trie nodes.
package hashing

import "golang.org/x/crypto/sha3"

// HashLength is the size in bytes of a Keccak256 digest.
const HashLength = 32

// Keccak256 is a trie.Hasher backed by golang.org/x/crypto/sha3's
// Keccak-256, the hash Ethereum-family tries use to address nodes.
type Keccak256 struct{}

// Hash returns the Keccak-256 digest of data.
func (Keccak256) Hash(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// EmptyNodeHash is the digest of the single-byte RLP encoding of an empty
// string (0x80), the canonical encoding this module's codecs use for
// EmptyNode. A fresh trie's root hash, before anything is inserted, is
// always this value.
var EmptyNodeHash = Keccak256{}.Hash([]byte{0x80})
