package trie_test

import (
	"math/rand"
	"testing"

	"github.com/jaiminpan/triewalk/accdb/memorydb"
	"github.com/jaiminpan/triewalk/kvstore"
	"github.com/jaiminpan/triewalk/nibble"
	"github.com/jaiminpan/triewalk/rlpcodec"
	"github.com/jaiminpan/triewalk/trie"
	"github.com/jaiminpan/triewalk/triebuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type yield struct {
	path nibble.Path
	node trie.Node
}

func buildView(t *testing.T, entries []triebuild.Entry, layout trie.Layout) trie.TrieView {
	t.Helper()
	store := kvstore.NewHashNodeStore(memorydb.New())
	root, err := triebuild.Build(entries, layout, store)
	require.NoError(t, err)
	return &trie.BasicTrieView{Store: store, RootRef: root}
}

func collectAll(t *testing.T, view trie.TrieView, layout trie.Layout) []yield {
	t.Helper()
	it, err := trie.New(view, layout)
	require.NoError(t, err)
	var out []yield
	for {
		path, node, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		out = append(out, yield{path: path, node: node})
	}
	return out
}

func nibblesToBytes(n []byte) []byte {
	out := make([]byte, len(n)/2)
	for i := range out {
		out[i] = n[2*i]<<4 | n[2*i+1]
	}
	return out
}

// fullKeyOf reports the byte key and stored value for any yield that
// terminates a key, reconstructing the key as path plus whatever partial
// the node itself still carries.
func fullKeyOf(y yield) (key, value []byte, ok bool) {
	switch n := y.node.(type) {
	case *trie.LeafNode:
		full := y.path.Clone()
		full.Append(n.Partial.Slice())
		return nibblesToBytes(full.Raw()), n.Value, true
	case *trie.BranchNode:
		if n.Value == nil {
			return nil, nil, false
		}
		return nibblesToBytes(y.path.Raw()), n.Value, true
	case *trie.NibbledBranchNode:
		if n.Value == nil {
			return nil, nil, false
		}
		full := y.path.Clone()
		full.Append(n.Partial.Slice())
		return nibblesToBytes(full.Raw()), n.Value, true
	default:
		return nil, nil, false
	}
}

// fullPathOf returns the path a yield's node covers: the path leading to it
// plus, for a Leaf or NibbledBranch, the partial key the node itself
// consumes. Seek positions the iterator on the first node whose full path
// is at or after the target.
func fullPathOf(y yield) nibble.Path {
	full := y.path.Clone()
	switch n := y.node.(type) {
	case *trie.LeafNode:
		full.Append(n.Partial.Slice())
	case *trie.NibbledBranchNode:
		full.Append(n.Partial.Slice())
	}
	return full
}

// scenarioEntries lays out {01: "aaaa", 0123: "bbbb", 02: "cccc"}, chosen so
// the nibble path 01 is both a leaf and a strict prefix of 0123, forcing an
// Extension/Branch (or folded NibbledBranch) split above it, while 02
// diverges from 01 after a single shared nibble.
func scenarioEntries() []triebuild.Entry {
	return []triebuild.Entry{
		{Key: []byte{0x01}, Value: []byte("aaaa")},
		{Key: []byte{0x01, 0x23}, Value: []byte("bbbb")},
		{Key: []byte{0x02}, Value: []byte("cccc")},
	}
}

func TestTraversalOrderExtensionLayout(t *testing.T) {
	view := buildView(t, scenarioEntries(), rlpcodec.ExtensionLayout)
	yields := collectAll(t, view, rlpcodec.ExtensionLayout)
	require.Len(t, yields, 5)

	assert.Equal(t, "", yields[0].path.String())
	ext, ok := yields[0].node.(*trie.ExtensionNode)
	require.True(t, ok)
	assert.Equal(t, "0", ext.Partial.String())

	assert.Equal(t, "0", yields[1].path.String())
	_, ok = yields[1].node.(*trie.BranchNode)
	require.True(t, ok)

	assert.Equal(t, "01", yields[2].path.String())
	_, ok = yields[2].node.(*trie.BranchNode)
	require.True(t, ok)

	assert.Equal(t, "012", yields[3].path.String())
	leaf, ok := yields[3].node.(*trie.LeafNode)
	require.True(t, ok)
	assert.Equal(t, "3", leaf.Partial.String())

	assert.Equal(t, "02", yields[4].path.String())
	leaf, ok = yields[4].node.(*trie.LeafNode)
	require.True(t, ok)
	assert.Equal(t, "", leaf.Partial.String())
}

func TestTraversalOrderNibbledBranchLayout(t *testing.T) {
	view := buildView(t, scenarioEntries(), rlpcodec.NibbledBranchLayout)
	yields := collectAll(t, view, rlpcodec.NibbledBranchLayout)
	require.Len(t, yields, 4)

	assert.Equal(t, "", yields[0].path.String())
	nb, ok := yields[0].node.(*trie.NibbledBranchNode)
	require.True(t, ok)
	assert.Equal(t, "0", nb.Partial.String())

	assert.Equal(t, "01", yields[1].path.String())
	nb, ok = yields[1].node.(*trie.NibbledBranchNode)
	require.True(t, ok)
	assert.Equal(t, "", nb.Partial.String())

	assert.Equal(t, "012", yields[2].path.String())
	leaf, ok := yields[2].node.(*trie.LeafNode)
	require.True(t, ok)
	assert.Equal(t, "3", leaf.Partial.String())

	assert.Equal(t, "02", yields[3].path.String())
	leaf, ok = yields[3].node.(*trie.LeafNode)
	require.True(t, ok)
	assert.Equal(t, "", leaf.Partial.String())
}

func TestEmptyTrieYieldsOnlyEmptyNode(t *testing.T) {
	view := buildView(t, nil, rlpcodec.ExtensionLayout)
	yields := collectAll(t, view, rlpcodec.ExtensionLayout)
	require.Len(t, yields, 1)
	assert.Equal(t, "", yields[0].path.String())
	assert.Equal(t, trie.EmptyNode{}, yields[0].node)
}

func firstYieldAfterSeek(t *testing.T, view trie.TrieView, layout trie.Layout, key []byte) (yield, bool) {
	t.Helper()
	it, err := trie.New(view, layout)
	require.NoError(t, err)
	require.NoError(t, it.Seek(key))
	path, node, ok, err := it.Next()
	require.NoError(t, err)
	if !ok {
		return yield{}, false
	}
	return yield{path: path, node: node}, true
}

func TestSeekExtensionLayout(t *testing.T) {
	view := buildView(t, scenarioEntries(), rlpcodec.ExtensionLayout)

	y, ok := firstYieldAfterSeek(t, view, rlpcodec.ExtensionLayout, []byte{0x00})
	require.True(t, ok)
	assert.Equal(t, "01", y.path.String())

	_, ok = firstYieldAfterSeek(t, view, rlpcodec.ExtensionLayout, []byte{0x03})
	assert.False(t, ok)

	y, ok = firstYieldAfterSeek(t, view, rlpcodec.ExtensionLayout, []byte{0x02})
	require.True(t, ok)
	assert.Equal(t, "02", y.path.String())
}

func TestSeekNibbledBranchLayout(t *testing.T) {
	view := buildView(t, scenarioEntries(), rlpcodec.NibbledBranchLayout)

	y, ok := firstYieldAfterSeek(t, view, rlpcodec.NibbledBranchLayout, []byte{0x00})
	require.True(t, ok)
	assert.Equal(t, "01", y.path.String())

	y, ok = firstYieldAfterSeek(t, view, rlpcodec.NibbledBranchLayout, []byte{0x02})
	require.True(t, ok)
	assert.Equal(t, "02", y.path.String())

	_, ok = firstYieldAfterSeek(t, view, rlpcodec.NibbledBranchLayout, []byte{0x03})
	assert.False(t, ok)
}

func TestSeekOnEmptyTrie(t *testing.T) {
	view := buildView(t, nil, rlpcodec.ExtensionLayout)

	y, ok := firstYieldAfterSeek(t, view, rlpcodec.ExtensionLayout, nil)
	require.True(t, ok)
	assert.Equal(t, trie.EmptyNode{}, y.node)

	_, ok = firstYieldAfterSeek(t, view, rlpcodec.ExtensionLayout, []byte{0x00})
	assert.False(t, ok)
}

// randomEntries generates a deduplicated, deterministic set of key/value
// pairs for the property tests below.
func randomEntries(seed int64, n int) []triebuild.Entry {
	r := rand.New(rand.NewSource(seed))
	seen := map[string]bool{}
	var entries []triebuild.Entry
	for len(entries) < n {
		length := 1 + r.Intn(4)
		key := make([]byte, length)
		for i := range key {
			key[i] = byte(r.Intn(256))
		}
		if seen[string(key)] {
			continue
		}
		seen[string(key)] = true
		entries = append(entries, triebuild.Entry{Key: key, Value: []byte{byte(len(entries))}})
	}
	return entries
}

func countReachableNodes(t *testing.T, view trie.TrieView, layout trie.Layout, ref trie.ChildRef, prefix nibble.Path) int {
	t.Helper()
	data, err := view.GetRawOrLookup(ref, prefix.Slice())
	require.NoError(t, err)
	node, err := layout.Codec.Decode(data)
	require.NoError(t, err)
	return 1 + countChildren(t, view, layout, node, prefix)
}

func countChildren(t *testing.T, view trie.TrieView, layout trie.Layout, node trie.Node, prefix nibble.Path) int {
	t.Helper()
	switch n := node.(type) {
	case *trie.ExtensionNode:
		childPrefix := prefix.Clone()
		childPrefix.Append(n.Partial.Slice())
		return countReachableNodes(t, view, layout, n.Child, childPrefix)
	case *trie.BranchNode:
		total := 0
		for i, c := range n.Children {
			if !c.Present() {
				continue
			}
			childPrefix := prefix.Clone()
			childPrefix.Push(byte(i))
			total += countReachableNodes(t, view, layout, c, childPrefix)
		}
		return total
	case *trie.NibbledBranchNode:
		withPartial := prefix.Clone()
		withPartial.Append(n.Partial.Slice())
		total := 0
		for i, c := range n.Children {
			if !c.Present() {
				continue
			}
			childPrefix := withPartial.Clone()
			childPrefix.Push(byte(i))
			total += countReachableNodes(t, view, layout, c, childPrefix)
		}
		return total
	default:
		return 0
	}
}

func TestOrderingIsMonotonicAcrossRandomEntries(t *testing.T) {
	for _, layout := range []trie.Layout{rlpcodec.ExtensionLayout, rlpcodec.NibbledBranchLayout} {
		view := buildView(t, randomEntries(1, 40), layout)
		yields := collectAll(t, view, layout)
		for i := 1; i < len(yields); i++ {
			prev, cur := yields[i-1].path.Slice(), yields[i].path.Slice()
			ordered := cur.StartsWith(prev) || cur.Compare(prev) > 0
			assert.True(t, ordered, "yield %d (%x) does not follow yield %d (%x) in pre-order", i, cur.Raw(), i-1, prev.Raw())
		}
	}
}

func TestCoverageVisitsEveryReachableNodeOnce(t *testing.T) {
	for _, layout := range []trie.Layout{rlpcodec.ExtensionLayout, rlpcodec.NibbledBranchLayout} {
		store := kvstore.NewHashNodeStore(memorydb.New())
		root, err := triebuild.Build(randomEntries(2, 30), layout, store)
		require.NoError(t, err)
		view := &trie.BasicTrieView{Store: store, RootRef: root}

		want := countReachableNodes(t, view, layout, root, nibble.Path{})

		yields := collectAll(t, view, layout)
		seen := map[string]bool{}
		for _, y := range yields {
			key := y.path.String()
			assert.False(t, seen[key], "path %s yielded more than once", key)
			seen[key] = true
		}
		assert.Equal(t, want, len(yields))
	}
}

func TestSeekMonotonicityAcrossRandomEntries(t *testing.T) {
	for _, layout := range []trie.Layout{rlpcodec.ExtensionLayout, rlpcodec.NibbledBranchLayout} {
		entries := randomEntries(3, 25)
		view := buildView(t, entries, layout)
		full := collectAll(t, view, layout)

		for _, e := range entries {
			target := nibble.FromBytes(e.Key).Slice()
			it, err := trie.New(view, layout)
			require.NoError(t, err)
			require.NoError(t, it.Seek(e.Key))

			var after []yield
			for {
				path, node, ok, err := it.Next()
				require.NoError(t, err)
				if !ok {
					break
				}
				after = append(after, yield{path: path, node: node})
			}

			var want []yield
			for _, y := range full {
				if fullPathOf(y).Slice().Compare(target) >= 0 {
					want = append(want, y)
				}
			}
			require.Equal(t, len(want), len(after))
			for i := range want {
				assert.Equal(t, want[i].path.String(), after[i].path.String())
			}
			if len(after) > 0 {
				assert.True(t, fullPathOf(after[0]).Slice().Compare(target) >= 0)
			}
		}
	}
}

func TestSeekEmptyIsIdempotentWithFreshIterator(t *testing.T) {
	for _, layout := range []trie.Layout{rlpcodec.ExtensionLayout, rlpcodec.NibbledBranchLayout} {
		view := buildView(t, randomEntries(4, 20), layout)

		fresh := collectAll(t, view, layout)

		it, err := trie.New(view, layout)
		require.NoError(t, err)
		require.NoError(t, it.Seek(nil))
		var afterSeek []yield
		for {
			path, node, ok, err := it.Next()
			require.NoError(t, err)
			if !ok {
				break
			}
			afterSeek = append(afterSeek, yield{path: path, node: node})
		}

		require.Equal(t, len(fresh), len(afterSeek))
		for i := range fresh {
			assert.Equal(t, fresh[i].path.String(), afterSeek[i].path.String())
		}
	}
}

func TestPathConsistencyAgainstStoredValues(t *testing.T) {
	for _, layout := range []trie.Layout{rlpcodec.ExtensionLayout, rlpcodec.NibbledBranchLayout} {
		entries := randomEntries(5, 30)
		want := map[string][]byte{}
		for _, e := range entries {
			want[string(e.Key)] = e.Value
		}

		view := buildView(t, entries, layout)
		yields := collectAll(t, view, layout)

		got := map[string][]byte{}
		for _, y := range yields {
			key, value, ok := fullKeyOf(y)
			if !ok {
				continue
			}
			got[string(key)] = value
		}
		assert.Equal(t, want, got)
	}
}
