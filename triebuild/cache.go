package triebuild

import "github.com/jaiminpan/triewalk/accdb"

// NodeCache buffers nodes written during a Build in memory and only
// flushes them to a persistent accdb.KeyValueStore when Commit is called,
// mirroring the teacher's dirty-node-cache-then-flush TrieDB. It implements
// both Putter (so committer can write through it) and trie.NodeStore (so a
// trie can be read back before Commit), the same dual reader/writer role
// TrieDB played.
type NodeCache struct {
	diskdb  accdb.KeyValueStore
	dirties map[string][]byte
	order   []string
}

// NewNodeCache wraps diskdb with a write-back buffer.
func NewNodeCache(diskdb accdb.KeyValueStore) *NodeCache {
	return &NodeCache{diskdb: diskdb, dirties: make(map[string][]byte)}
}

// Put implements Putter. prefix and oddLen are accepted only to match the
// shared Putter/NodeStore shape; this cache keys purely by hash.
func (c *NodeCache) Put(prefix []byte, oddLen bool, hash, encoded []byte) error {
	key := string(hash)
	if _, ok := c.dirties[key]; !ok {
		c.order = append(c.order, key)
	}
	c.dirties[key] = append([]byte(nil), encoded...)
	return nil
}

// Get implements trie.NodeStore, checking the dirty buffer before falling
// back to the persistent store.
func (c *NodeCache) Get(prefix []byte, oddLen bool, hash []byte) ([]byte, bool) {
	if v, ok := c.dirties[string(hash)]; ok {
		return v, true
	}
	v, err := c.diskdb.Get(hash)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Commit flushes every buffered node to the persistent store, batching
// writes at accdb.IdealBatchSize, then clears the buffer.
func (c *NodeCache) Commit() error {
	batch := c.diskdb.NewBatch()
	for _, key := range c.order {
		if err := batch.Put([]byte(key), c.dirties[key]); err != nil {
			return err
		}
		if batch.ValueSize() >= accdb.IdealBatchSize {
			if err := batch.Write(); err != nil {
				return err
			}
			batch.Reset()
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	c.dirties = make(map[string][]byte)
	c.order = nil
	return nil
}
