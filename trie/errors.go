package trie

import "fmt"

// DecodeError reports that the bytes fetched for a node (identified by
// their hash where known) could not be parsed by the active Codec.
type DecodeError struct {
	Hash []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("trie: cannot decode node %x: %v", e.Hash, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IncompleteDatabaseError reports that a hash-addressed child could not be
// found in the backing NodeStore.
type IncompleteDatabaseError struct {
	Hash []byte
}

func (e *IncompleteDatabaseError) Error() string {
	return fmt.Sprintf("trie: missing node %x", e.Hash)
}

// InvalidIteratorStateError reports that the traversal engine reached a
// state its transition table does not define, e.g. an At or AtChild cursor
// on a node with no children, or resolving a reference that was never
// present.
type InvalidIteratorStateError struct {
	Detail string
}

func (e *InvalidIteratorStateError) Error() string {
	return fmt.Sprintf("trie: invalid iterator state: %s", e.Detail)
}
