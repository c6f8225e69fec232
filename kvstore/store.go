// Package kvstore supplies trie.NodeStore implementations over
// accdb.KeyValueStore: a plain hash-keyed store, and a prefix-keyed variant
// that folds the accumulated nibble path into the key the way the original
// trie-db crate's PrefixedKey does.
package kvstore

import "github.com/jaiminpan/triewalk/accdb"

// HashNodeStore keys every node purely by its hash, ignoring the prefix the
// iterator threads through resolution.
type HashNodeStore struct {
	db accdb.KeyValueStore
}

// NewHashNodeStore wraps db as a hash-keyed trie.NodeStore.
func NewHashNodeStore(db accdb.KeyValueStore) *HashNodeStore {
	return &HashNodeStore{db: db}
}

// Get implements trie.NodeStore.
func (s *HashNodeStore) Get(prefix []byte, oddLen bool, hash []byte) ([]byte, bool) {
	v, err := s.db.Get(hash)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Put stores the encoding of the node addressed by hash. prefix and oddLen
// are accepted only so HashNodeStore satisfies the same Putter shape as
// PrefixedNodeStore; a hash-keyed store ignores both.
func (s *HashNodeStore) Put(prefix []byte, oddLen bool, hash, encoded []byte) error {
	return s.db.Put(hash, encoded)
}

// PrefixedNodeStore keys every node by (prefix, oddLen, hash), so the same
// subtree reachable under two different parents is stored twice rather than
// shared — the shape the original trie-db crate calls PrefixedKey.
type PrefixedNodeStore struct {
	db accdb.KeyValueStore
}

// NewPrefixedNodeStore wraps db as a prefix-keyed trie.NodeStore.
func NewPrefixedNodeStore(db accdb.KeyValueStore) *PrefixedNodeStore {
	return &PrefixedNodeStore{db: db}
}

// Get implements trie.NodeStore.
func (s *PrefixedNodeStore) Get(prefix []byte, oddLen bool, hash []byte) ([]byte, bool) {
	v, err := s.db.Get(prefixedKey(prefix, oddLen, hash))
	if err != nil {
		return nil, false
	}
	return v, true
}

// Put stores the encoding of the node addressed by (prefix, oddLen, hash).
func (s *PrefixedNodeStore) Put(prefix []byte, oddLen bool, hash, encoded []byte) error {
	return s.db.Put(prefixedKey(prefix, oddLen, hash), encoded)
}

func prefixedKey(prefix []byte, oddLen bool, hash []byte) []byte {
	flag := byte(0)
	if oddLen {
		flag = 1
	}
	key := make([]byte, 0, len(prefix)+1+len(hash))
	key = append(key, prefix...)
	key = append(key, flag)
	key = append(key, hash...)
	return key
}
