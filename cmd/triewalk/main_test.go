package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaiminpan/triewalk/rlpcodec"
)

func TestParseLayout(t *testing.T) {
	ext, err := parseLayout("extension")
	require.NoError(t, err)
	assert.Equal(t, rlpcodec.ExtensionLayout, ext)

	nb, err := parseLayout("nibbled")
	require.NoError(t, err)
	assert.Equal(t, rlpcodec.NibbledBranchLayout, nb)

	_, err = parseLayout("bogus")
	assert.Error(t, err)
}

func TestLoadEntriesFromInline(t *testing.T) {
	entries, err := loadEntries("", []string{"alpha=1", "beta=2"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []byte("alpha"), entries[0].Key)
	assert.Equal(t, []byte("1"), entries[0].Value)
	assert.Equal(t, []byte("beta"), entries[1].Key)
	assert.Equal(t, []byte("2"), entries[1].Value)
}

func TestLoadEntriesRejectsMalformedPair(t *testing.T) {
	_, err := loadEntries("", []string{"noequalsign"})
	assert.Error(t, err)
}
