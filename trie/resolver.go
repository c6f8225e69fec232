package trie

import "github.com/jaiminpan/triewalk/nibble"

// NodeStore is the backing key-value lookup a TrieView resolves hashed
// children against. prefix is the byte-aligned nibble path leading to the
// child, packed via nibble.Slice.AsPrefix, plus the trailing-half-nibble
// flag; a plain hash-keyed store is free to ignore both and key on hash
// alone, a prefix-keyed store (see kvstore.PrefixedNodeStore) folds them into
// the key to support node sharing under different parents.
type NodeStore interface {
	Get(prefix []byte, oddLen bool, hash []byte) ([]byte, bool)
}

// ResolveChild implements the get_raw_or_lookup contract: inline references
// pass through untouched, hashed references are looked up in store keyed by
// the accumulated path prefix, and an absent reference is a caller error
// since the iterator never resolves one.
func ResolveChild(store NodeStore, ref ChildRef, prefix nibble.Slice) ([]byte, error) {
	switch ref.Kind {
	case RefInline:
		return ref.Inline, nil
	case RefHash:
		packed, oddLen := prefix.AsPrefix()
		data, ok := store.Get(packed, oddLen, ref.Hash)
		if !ok {
			return nil, &IncompleteDatabaseError{Hash: ref.Hash}
		}
		return data, nil
	default:
		return nil, &InvalidIteratorStateError{Detail: "resolve called on an absent child reference"}
	}
}

// TrieView is everything the iterator engine consumes from a concrete
// trie: the root's own encoding, and resolution of any child reference
// encountered during descent.
type TrieView interface {
	RootData() ([]byte, error)
	GetRawOrLookup(ref ChildRef, prefix nibble.Slice) ([]byte, error)
}

// BasicTrieView is a TrieView backed directly by a NodeStore and a root
// reference. A trie's root is always addressed the same way its other
// hashed nodes are — including the empty trie, whose canonical empty
// encoding is expected to already be present in store under RootRef.Hash —
// so RootData is just ResolveChild with an empty prefix.
type BasicTrieView struct {
	Store   NodeStore
	RootRef ChildRef
}

func (v *BasicTrieView) RootData() ([]byte, error) {
	return ResolveChild(v.Store, v.RootRef, nibble.Slice{})
}

func (v *BasicTrieView) GetRawOrLookup(ref ChildRef, prefix nibble.Slice) ([]byte, error) {
	return ResolveChild(v.Store, ref, prefix)
}
