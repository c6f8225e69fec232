package rlpcodec

import (
	"fmt"

	"github.com/jaiminpan/triewalk/trie"
)

// decodeRef reads one child-reference slot from b (the remaining encoded
// items of a branch's children list) and returns the matching trie.ChildRef
// plus the bytes left after it. A List-kind item no larger than maxInline
// is embedded directly (trie.InlineRef); a String-kind item of exactly hash
// length is a hashed reference (trie.HashRef); a zero-length string is an
// absent slot (trie.NoRef); anything else is malformed.
func decodeRef(b []byte, maxInline, hashLen int) (trie.ChildRef, []byte, error) {
	kind, content, rest, err := Split(b)
	if err != nil {
		return trie.ChildRef{}, nil, err
	}
	switch kind {
	case List:
		encoded := b[:len(b)-len(rest)]
		if len(encoded) > maxInline {
			return trie.ChildRef{}, nil, fmt.Errorf("rlpcodec: inline child too large (%d bytes)", len(encoded))
		}
		return trie.InlineRef(append([]byte(nil), encoded...)), rest, nil
	case String, Byte:
		switch {
		case len(content) == 0:
			return trie.NoRef(), rest, nil
		case len(content) == hashLen:
			return trie.HashRef(append([]byte(nil), content...)), rest, nil
		default:
			return trie.ChildRef{}, nil, fmt.Errorf("rlpcodec: invalid child reference length %d", len(content))
		}
	default:
		return trie.ChildRef{}, nil, fmt.Errorf("rlpcodec: invalid child reference kind")
	}
}

// encodeRef is decodeRef's inverse, used by the builder.
func encodeRef(ref trie.ChildRef) []byte {
	switch ref.Kind {
	case trie.RefInline:
		return ref.Inline
	case trie.RefHash:
		return EncodeString(ref.Hash)
	default:
		return EncodeString(nil)
	}
}
