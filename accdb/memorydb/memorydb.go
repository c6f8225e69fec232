// Package memorydb is an in-memory accdb.KeyValueStore, used by triebuild's
// own tests and as the default backing store for the triewalk CLI.
package memorydb

import (
	"errors"
	"sync"

	"github.com/jaiminpan/triewalk/accdb"
)

var errMemDBClosed = errors.New("memorydb: closed")

// MemDB is an ephemeral key-value store. Apart from basic data storage
// functionality it also supports batch writes.
type MemDB struct {
	db   map[string][]byte
	lock sync.RWMutex
}

// New returns a wrapped map with all the required database interface
// methods implemented.
func New() *MemDB {
	return &MemDB{
		db: make(map[string][]byte),
	}
}

func (m *MemDB) Has(key []byte) (bool, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.db == nil {
		return false, errMemDBClosed
	}
	_, ok := m.db[string(key)]
	return ok, nil
}

func (m *MemDB) Get(key []byte) ([]byte, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.db == nil {
		return nil, errMemDBClosed
	}
	if v, ok := m.db[string(key)]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, errors.New("memorydb: key not found")
}

func (m *MemDB) Put(key []byte, value []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.db == nil {
		return errMemDBClosed
	}
	m.db[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *MemDB) Delete(key []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.db == nil {
		return errMemDBClosed
	}
	delete(m.db, string(key))
	return nil
}

func (m *MemDB) NewBatch() accdb.Batch {
	return &batch{db: m}
}

// Len reports the number of keys currently stored.
func (m *MemDB) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.db)
}

type keyValue struct {
	key    []byte
	value  []byte
	delete bool
}

type batch struct {
	db     *MemDB
	writes []keyValue
	size   int
}

func (b *batch) Put(key, value []byte) error {
	b.writes = append(b.writes, keyValue{append([]byte(nil), key...), append([]byte(nil), value...), false})
	b.size += len(key) + len(value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.writes = append(b.writes, keyValue{append([]byte(nil), key...), nil, true})
	b.size += len(key)
	return nil
}

func (b *batch) ValueSize() int { return b.size }

func (b *batch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()
	for _, kv := range b.writes {
		if kv.delete {
			delete(b.db.db, string(kv.key))
			continue
		}
		b.db.db[string(kv.key)] = kv.value
	}
	return nil
}

func (b *batch) Replay(w accdb.KeyValueWriter) error {
	for _, kv := range b.writes {
		if kv.delete {
			if err := w.Delete(kv.key); err != nil {
				return err
			}
			continue
		}
		if err := w.Put(kv.key, kv.value); err != nil {
			return err
		}
	}
	return nil
}

func (b *batch) Reset() {
	b.writes = b.writes[:0]
	b.size = 0
}
