package trie

import "github.com/jaiminpan/triewalk/nibble"

// Iterator is a cancellable pre-order walk over a trie's nodes, plus a Seek
// primitive that repositions it at the first node at or after a target key
// by walking down from the root. It holds an explicit stack of frames
// (trail) instead of recursing, so Next can pause between any two nodes and
// Seek can replace the whole stack in one pass.
type Iterator struct {
	view   TrieView
	layout Layout
	trail  []*crumb
	path   nibble.Path
}

// New constructs an iterator positioned just before the root: the first
// call to Next yields the root node itself.
func New(view TrieView, layout Layout) (*Iterator, error) {
	it := &Iterator{view: view, layout: layout}
	root, err := view.RootData()
	if err != nil {
		return nil, err
	}
	node, err := it.decode(root)
	if err != nil {
		return nil, err
	}
	it.descendInto(node)
	return it, nil
}

func (it *Iterator) decode(encoded []byte) (Node, error) {
	n, err := it.layout.Codec.Decode(encoded)
	if err != nil {
		return nil, &DecodeError{Hash: it.layout.Hasher.Hash(encoded), Err: err}
	}
	return n, nil
}

func (it *Iterator) descendInto(n Node) {
	it.trail = append(it.trail, &crumb{node: n, status: statusEntering})
}

func childrenOf(n Node) *[16]ChildRef {
	switch t := n.(type) {
	case *BranchNode:
		return &t.Children
	case *NibbledBranchNode:
		return &t.Children
	default:
		return nil
	}
}

// Next advances the walk and returns the next node in pre-order along with
// the full nibble path leading to it. ok is false once the walk is
// exhausted; a non-nil error means resolving or decoding a node failed and
// the iterator's internal state is thereafter undefined — callers must stop
// calling Next, not retry it.
func (it *Iterator) Next() (path nibble.Path, node Node, ok bool, err error) {
	for {
		if len(it.trail) == 0 {
			return nibble.Path{}, nil, false, nil
		}
		top := it.trail[len(it.trail)-1]

		switch top.status {
		case statusEntering:
			top.increment()
			return it.path.Clone(), top.node, true, nil

		case statusExiting:
			switch n := top.node.(type) {
			case EmptyNode, *LeafNode:
				// no path nibbles were consumed entering this node
			case *ExtensionNode:
				it.path.DropLasts(n.Partial.Len())
			case *BranchNode:
				it.path.Pop()
			case *NibbledBranchNode:
				it.path.DropLasts(n.Partial.Len() + 1)
			}
			it.trail = it.trail[:len(it.trail)-1]
			if len(it.trail) == 0 {
				return nibble.Path{}, nil, false, nil
			}
			it.trail[len(it.trail)-1].increment()

		case statusAt:
			switch n := top.node.(type) {
			case *ExtensionNode:
				it.path.Append(n.Partial.Slice())
				data, rerr := it.view.GetRawOrLookup(n.Child, it.path.Slice())
				if rerr != nil {
					return nibble.Path{}, nil, false, rerr
				}
				child, derr := it.decode(data)
				if derr != nil {
					return nibble.Path{}, nil, false, derr
				}
				it.descendInto(child)
			case *BranchNode:
				it.path.Push(0)
				top.increment()
			case *NibbledBranchNode:
				it.path.Append(n.Partial.Slice())
				it.path.Push(0)
				top.increment()
			default:
				return nibble.Path{}, nil, false, &InvalidIteratorStateError{Detail: "At status on a node with no children"}
			}

		case statusAtChild:
			children := childrenOf(top.node)
			if children == nil {
				return nibble.Path{}, nil, false, &InvalidIteratorStateError{Detail: "AtChild status on a node with no children"}
			}
			ref := children[top.childIdx]
			if !ref.Present() {
				top.increment()
				continue
			}
			it.path.Pop()
			it.path.Push(byte(top.childIdx))
			data, rerr := it.view.GetRawOrLookup(ref, it.path.Slice())
			if rerr != nil {
				return nibble.Path{}, nil, false, rerr
			}
			child, derr := it.decode(data)
			if derr != nil {
				return nibble.Path{}, nil, false, derr
			}
			it.descendInto(child)
		}
	}
}

// Seek discards the current traversal position and repositions the
// iterator so that the next call to Next yields the first node at or after
// key in pre-order. It never touches the backing store beyond what
// resolving the path down to key requires.
func (it *Iterator) Seek(key []byte) error {
	it.trail = it.trail[:0]
	it.path = nibble.Path{}
	root, err := it.view.RootData()
	if err != nil {
		return err
	}
	return it.seek(root, nibble.FromBytes(key).Slice())
}

func (it *Iterator) seek(nodeData []byte, partial nibble.Slice) error {
	for {
		node, err := it.decode(nodeData)
		if err != nil {
			return err
		}
		it.descendInto(node)
		top := it.trail[len(it.trail)-1]

		switch n := node.(type) {
		case EmptyNode:
			if !partial.IsEmpty() {
				top.status = statusExiting
			}
			return nil

		case *LeafNode:
			if n.Partial.Slice().Compare(partial) < 0 {
				top.status = statusExiting
			}
			return nil

		case *ExtensionNode:
			partialKey := n.Partial.Slice()
			if !partial.StartsWith(partialKey) {
				if partialKey.Compare(partial) < 0 {
					top.status = statusExiting
					it.path.Append(partialKey)
				}
				return nil
			}
			it.path.Append(partialKey)
			top.status = statusAt
			rest := partial.Mid(partialKey.Len())
			data, rerr := it.view.GetRawOrLookup(n.Child, it.path.Slice())
			if rerr != nil {
				return rerr
			}
			nodeData, partial = data, rest
			continue

		case *BranchNode:
			if partial.IsEmpty() {
				return nil
			}
			i := partial.At(0)
			top.status = statusAtChild
			top.childIdx = int(i)
			it.path.Push(i)
			child := n.Children[i]
			if !child.Present() {
				return nil
			}
			rest := partial.Mid(1)
			data, rerr := it.view.GetRawOrLookup(child, it.path.Slice())
			if rerr != nil {
				return rerr
			}
			nodeData, partial = data, rest
			continue

		case *NibbledBranchNode:
			partialKey := n.Partial.Slice()
			if !partial.StartsWith(partialKey) {
				if partialKey.Compare(partial) < 0 {
					// The sentinel nibble 15 stands for "past the last
					// real child slot" so the following Exiting step
					// drops exactly Partial.Len()+1 nibbles, the same
					// count it would for a genuine AtChild(15) pop.
					top.status = statusExiting
					it.path.Append(partialKey)
					it.path.Push(15)
				}
				return nil
			}
			rest := partial.Mid(partialKey.Len())
			if rest.IsEmpty() {
				return nil
			}
			i := rest.At(0)
			top.status = statusAtChild
			top.childIdx = int(i)
			it.path.Append(partialKey)
			it.path.Push(i)
			child := n.Children[i]
			if !child.Present() {
				return nil
			}
			rest = rest.Mid(1)
			data, rerr := it.view.GetRawOrLookup(child, it.path.Slice())
			if rerr != nil {
				return rerr
			}
			nodeData, partial = data, rest
			continue
		}
	}
}
