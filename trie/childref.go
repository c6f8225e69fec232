package trie

// RefKind classifies a ChildRef.
type RefKind int

const (
	// RefNone marks an absent child (an empty branch slot).
	RefNone RefKind = iota
	// RefInline marks a child small enough to embed directly in its
	// parent's encoding, requiring no store lookup to resolve.
	RefInline
	// RefHash marks a child addressed by hash, requiring a store lookup
	// keyed by (prefix, hash) to resolve.
	RefHash
)

// ChildRef is a reference to a child node as it appears inside a decoded
// parent: absent, inlined, or addressed by hash. Which case applies is
// decided by the codec at decode time against its inline-size threshold.
type ChildRef struct {
	Kind   RefKind
	Inline []byte
	Hash   []byte
}

// NoRef returns the absent child reference.
func NoRef() ChildRef { return ChildRef{Kind: RefNone} }

// InlineRef wraps an embedded child encoding.
func InlineRef(encoded []byte) ChildRef { return ChildRef{Kind: RefInline, Inline: encoded} }

// HashRef wraps a child hash.
func HashRef(hash []byte) ChildRef { return ChildRef{Kind: RefHash, Hash: hash} }

// Present reports whether the reference points at an actual child.
func (r ChildRef) Present() bool { return r.Kind != RefNone }
