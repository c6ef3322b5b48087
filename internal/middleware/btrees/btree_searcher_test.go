package btrees

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-hfs/internal/parsers/catalog"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

func mustKey(t *testing.T, parentID types.CatalogNodeID, name string) *catalog.Key {
	t.Helper()
	s, err := catalog.EncodeHFSPlusString(name)
	require.NoError(t, err)
	key, err := catalog.NewHFSPlusKey(types.DialectHFSX, types.KeyCompareBinary, parentID, s)
	require.NoError(t, err)
	return key
}

func TestFindLeaf(t *testing.T) {
	tests := []struct {
		name     string
		parentID types.CatalogNodeID
		nodeName string
		want     uint32
	}{
		{name: "first key", parentID: 1, nodeName: "a", want: 1},
		{name: "between separators", parentID: 1, nodeName: "zz", want: 1},
		{name: "before every key", parentID: 0, nodeName: "", want: 1},
		{name: "equal to separator", parentID: 2, nodeName: "m", want: 2},
		{name: "after every key", parentID: 9, nodeName: "q", want: 2},
	}

	nav := newTestNavigator(t, buildCatalogTree())
	searcher := NewSearcher(nav)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaf, err := searcher.FindLeaf(mustKey(t, tt.parentID, tt.nodeName))
			require.NoError(t, err)
			assert.Equal(t, tt.want, leaf)
		})
	}
}

func TestSeek(t *testing.T) {
	nav := newTestNavigator(t, buildCatalogTree())

	var leaves []uint32
	err := NewSearcher(nav).Seek(context.Background(), mustKey(t, 1, "b"), func(v NodeVisit) (bool, error) {
		leaves = append(leaves, v.Number)
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, leaves)

	leaves = nil
	err = NewSearcher(nav).Seek(context.Background(), mustKey(t, 3, ""), func(v NodeVisit) (bool, error) {
		leaves = append(leaves, v.Number)
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, leaves)
}

func TestFindLeafBadNodeKind(t *testing.T) {
	source := buildCatalogTree()
	source[3] = source[0]
	nav := newTestNavigator(t, source)

	_, err := NewSearcher(nav).FindLeaf(mustKey(t, 1, "a"))
	assert.ErrorIs(t, err, types.ErrInvalidNodeKind)
}
