// Package triebuild is a simplified, non-incremental trie builder: given a
// full set of key/value pairs it constructs one finished trie and writes its
// hashed nodes into a store, returning the root reference an iterator can be
// pointed at. It deliberately does not support mutating an existing trie in
// place — that incremental-update machinery (dirty tracking, node sets,
// rollback) is the production concern this rebuild leaves out; see
// DESIGN.md.
//
// Internally it uses the same recursive split/merge shape the teacher's
// mutable trie insert used (shortNode holding either a leaf value or a
// further subtree, fullNode as 16-way fan-out plus its own value slot), then
// collapses that shape into whichever of trie's two wire layouts the caller
// asked for when committing.
package triebuild

import (
	"github.com/jaiminpan/triewalk/nibble"
	"github.com/jaiminpan/triewalk/rlpcodec"
	"github.com/jaiminpan/triewalk/trie"
)

// buildNode is the builder's own in-progress node representation; it is
// converted to a trie.Node only at commit time, once a node's final shape
// (and thus which wire layout it belongs to) is known.
type buildNode interface{ isBuildNode() }

type valueNode []byte

func (valueNode) isBuildNode() {}

// shortNode holds a partial key above either a value (a leaf) or a further
// subtree (an extension, collapsed away when committing to NibbledBranch
// layout).
type shortNode struct {
	Key nibble.Path
	Val buildNode
}

func (*shortNode) isBuildNode() {}

// fullNode is a 16-way fan-out plus the value, if any, terminating exactly
// at this node.
type fullNode struct {
	Children [16]buildNode
	Val      buildNode
}

func (*fullNode) isBuildNode() {}

func (f *fullNode) clone() *fullNode {
	cp := &fullNode{Val: f.Val}
	cp.Children = f.Children
	return cp
}

func wrap(key nibble.Slice, val buildNode) buildNode {
	if key.IsEmpty() {
		return val
	}
	return &shortNode{Key: pathOf(key), Val: val}
}

func wrapPath(key nibble.Path, val buildNode) buildNode {
	if key.IsEmpty() {
		return val
	}
	return &shortNode{Key: key, Val: val}
}

func pathOf(s nibble.Slice) nibble.Path {
	var p nibble.Path
	for i := 0; i < s.Len(); i++ {
		p.Push(s.At(i))
	}
	return p
}

func headPath(s nibble.Slice, k int) nibble.Path {
	var p nibble.Path
	for i := 0; i < k; i++ {
		p.Push(s.At(i))
	}
	return p
}

func matchLen(a, b nibble.Slice) int {
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}
	i := 0
	for i < n && a.At(i) == b.At(i) {
		i++
	}
	return i
}

// insert returns the tree that results from inserting value at key into n.
func insert(n buildNode, key nibble.Slice, value valueNode) buildNode {
	switch t := n.(type) {
	case nil:
		return wrap(key, value)

	case valueNode:
		if key.IsEmpty() {
			return value
		}
		branch := &fullNode{Val: t}
		branch.Children[key.At(0)] = wrap(key.Mid(1), value)
		return branch

	case *shortNode:
		match := matchLen(t.Key.Slice(), key)
		if match == t.Key.Len() {
			return wrapPath(t.Key, insert(t.Val, key.Mid(match), value))
		}
		branch := &fullNode{}
		branch.Children[t.Key.At(match)] = wrap(t.Key.Mid(match+1), t.Val)
		if match == key.Len() {
			branch.Val = value
		} else {
			branch.Children[key.At(match)] = wrap(key.Mid(match+1), value)
		}
		return wrapPath(headPath(t.Key.Slice(), match), branch)

	case *fullNode:
		if key.IsEmpty() {
			cp := t.clone()
			cp.Val = value
			return cp
		}
		cp := t.clone()
		i := key.At(0)
		cp.Children[i] = insert(t.Children[i], key.Mid(1), value)
		return cp

	default:
		panic("triebuild: unknown node type")
	}
}

// Entry is one key/value pair to insert.
type Entry struct {
	Key   []byte
	Value []byte
}

// Putter is the write side a committed trie's hashed nodes are stored
// through. kvstore.HashNodeStore and kvstore.PrefixedNodeStore both
// implement it.
type Putter interface {
	Put(prefix []byte, oddLen bool, hash, encoded []byte) error
}

// Build inserts every entry into a fresh trie and commits it to store under
// layout, returning a reference to the root suitable for
// trie.BasicTrieView.RootRef. Entries with a duplicate key keep the last
// occurrence's value, matching map-assignment semantics.
func Build(entries []Entry, layout trie.Layout, store Putter) (trie.ChildRef, error) {
	var root buildNode
	for _, e := range entries {
		root = insert(root, nibble.FromBytes(e.Key).Slice(), valueNode(e.Value))
	}
	if root == nil {
		return rootRefForEmpty(layout, store)
	}
	c := &committer{layout: layout, store: store}
	ref, err := c.commit(root, nibble.Path{})
	if err != nil {
		return trie.ChildRef{}, err
	}
	if ref.Kind == trie.RefInline {
		// A whole trie small enough to stay inline still needs a root
		// address the iterator can resolve through the store.
		return storeAsRoot(layout, store, ref.Inline)
	}
	return ref, nil
}

func rootRefForEmpty(layout trie.Layout, store Putter) (trie.ChildRef, error) {
	return storeAsRoot(layout, store, []byte{0x80})
}

func storeAsRoot(layout trie.Layout, store Putter, encoded []byte) (trie.ChildRef, error) {
	hash := layout.Hasher.Hash(encoded)
	if err := store.Put(nil, false, hash, encoded); err != nil {
		return trie.ChildRef{}, err
	}
	return trie.HashRef(hash), nil
}

// committer walks a buildNode tree bottom-up, encoding each node under
// layout and, for anything too large to inline, hashing it and writing it
// to store keyed by the path leading to it.
type committer struct {
	layout trie.Layout
	store  Putter
}

func (c *committer) commit(n buildNode, path nibble.Path) (trie.ChildRef, error) {
	switch t := n.(type) {
	case *shortNode:
		return c.commitShort(t, path)
	case *fullNode:
		return c.commitFull(t, path)
	case valueNode:
		// A key that ends exactly at this branch slot, with no nibbles
		// left over: wrap() only emits a shortNode when the remaining key
		// is non-empty, so this is a leaf with an empty partial.
		encoded := c.encodeLeaf(nibble.Path{}, t)
		return c.finish(encoded, path)
	default:
		panic("triebuild: cannot commit a nil node")
	}
}

func (c *committer) commitShort(n *shortNode, path nibble.Path) (trie.ChildRef, error) {
	if v, ok := n.Val.(valueNode); ok {
		encoded := c.encodeLeaf(n.Key, v)
		return c.finish(encoded, path)
	}

	if !c.layout.UseExtension {
		// Leaves aside, every non-leaf shortNode is an extension over a
		// fullNode; under NibbledBranchLayout that pair collapses into one
		// NibbledBranchNode carrying the extension's partial key. path is
		// the path to this node itself (excluding its own partial);
		// commitFullWithPrefix appends n.Key before descending into
		// children, since that partial is only consumed once inside them.
		fn := n.Val.(*fullNode)
		return c.commitFullWithPrefix(fn, n.Key, path)
	}

	childPath := path.Clone()
	childPath.Append(n.Key.Slice())
	childRef, err := c.commit(n.Val, childPath)
	if err != nil {
		return trie.ChildRef{}, err
	}
	encoded := rlpcodec.EncodeExtensionLayout(&trie.ExtensionNode{Partial: n.Key, Child: childRef})
	return c.finish(encoded, path)
}

func (c *committer) commitFull(n *fullNode, path nibble.Path) (trie.ChildRef, error) {
	return c.commitFullWithPrefix(n, nibble.Path{}, path)
}

// commitFullWithPrefix commits n as a branch carrying partial as its own
// key prefix (non-empty only under NibbledBranchLayout, where an extension
// above a fan-out is folded into the fan-out node itself).
func (c *committer) commitFullWithPrefix(n *fullNode, partial nibble.Path, path nibble.Path) (trie.ChildRef, error) {
	var children [16]trie.ChildRef
	for i := 0; i < 16; i++ {
		if n.Children[i] == nil {
			children[i] = trie.NoRef()
			continue
		}
		childPath := path.Clone()
		if !partial.IsEmpty() {
			childPath.Append(partial.Slice())
		}
		childPath.Push(byte(i))
		ref, err := c.commit(n.Children[i], childPath)
		if err != nil {
			return trie.ChildRef{}, err
		}
		children[i] = ref
	}
	var value []byte
	if v, ok := n.Val.(valueNode); ok {
		value = []byte(v)
	}

	var encoded []byte
	if c.layout.UseExtension {
		encoded = rlpcodec.EncodeExtensionLayout(&trie.BranchNode{Children: children, Value: value})
	} else {
		encoded = rlpcodec.EncodeNibbledBranchLayout(&trie.NibbledBranchNode{Partial: partial, Children: children, Value: value})
	}
	return c.finish(encoded, path)
}

func (c *committer) encodeLeaf(key nibble.Path, value valueNode) []byte {
	leaf := &trie.LeafNode{Partial: key, Value: []byte(value)}
	if c.layout.UseExtension {
		return rlpcodec.EncodeExtensionLayout(leaf)
	}
	return rlpcodec.EncodeNibbledBranchLayout(leaf)
}

// finish decides, per the codec's inline-size threshold, whether encoded
// stays embedded in its parent or gets hashed and written to store.
func (c *committer) finish(encoded []byte, path nibble.Path) (trie.ChildRef, error) {
	if len(encoded) <= c.layout.Codec.MaxInlineSize() {
		return trie.InlineRef(encoded), nil
	}
	hash := c.layout.Hasher.Hash(encoded)
	packed, oddLen := path.AsPrefix()
	if err := c.store.Put(packed, oddLen, hash, encoded); err != nil {
		return trie.ChildRef{}, err
	}
	return trie.HashRef(hash), nil
}
