package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	btreemw "github.com/deploymenttheory/go-hfs/internal/middleware/btrees"
	"github.com/deploymenttheory/go-hfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-hfs/internal/parsers/catalog"
	"github.com/deploymenttheory/go-hfs/internal/testutil"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

func TestBTreeFileNodes(t *testing.T) {
	_, v, _ := openFixture(t)
	tree := v.Catalog().Tree()

	assert.Equal(t, catalogNodeSize, tree.NodeSize())
	assert.Equal(t, uint32(3), tree.Header().RootNode())
	assert.Equal(t, int64(4*catalogNodeSize), tree.Fork().Size())

	_, descriptor, err := tree.GetNode(3)
	require.NoError(t, err)
	assert.Equal(t, types.NodeKindIndex, descriptor.Kind())

	_, descriptor, err = tree.GetNode(1)
	require.NoError(t, err)
	assert.Equal(t, types.NodeKindLeaf, descriptor.Kind())
	assert.Equal(t, uint32(2), descriptor.ForwardLink())

	_, err = tree.ReadNode(4)
	assert.ErrorIs(t, err, types.ErrRecordOutOfBounds)
}

func TestBTreeFileTraversal(t *testing.T) {
	_, v, _ := openFixture(t)
	tree := v.Catalog().Tree()

	collect := func(walk func(context.Context, btreemw.NodeVisitor) error) []uint32 {
		var nodes []uint32
		err := walk(context.Background(), func(visit btreemw.NodeVisit) (bool, error) {
			nodes = append(nodes, visit.Number)
			return true, nil
		})
		require.NoError(t, err)
		return nodes
	}

	assert.Equal(t, []uint32{3, 1, 2}, collect(tree.Walk))
	assert.Equal(t, []uint32{1, 2}, collect(tree.Leaves))
}

func TestBTreeFileFindLeaf(t *testing.T) {
	_, v, _ := openFixture(t)
	c := v.Catalog()

	tests := []struct {
		parentID types.CatalogNodeID
		name     string
		want     uint32
	}{
		{parentID: 1, name: "Test Volume", want: 1},
		{parentID: 2, name: "zzz", want: 1},
		{parentID: 16, name: "", want: 2},
		{parentID: 18, name: "", want: 2},
		// smaller than every index key
		{parentID: 0, name: "", want: 1},
	}

	for _, tt := range tests {
		name, err := catalog.EncodeHFSPlusString(tt.name)
		require.NoError(t, err)
		key, err := c.NewKey(tt.parentID, name)
		require.NoError(t, err)
		got, err := c.Tree().FindLeaf(key)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "key (%d, %q)", tt.parentID, tt.name)
	}
}

func TestBTreeFileStatistics(t *testing.T) {
	_, v, _ := openFixture(t)

	assert.Equal(t, BTreeStatistics{
		Depth:        2,
		RootNode:     3,
		LeafRecords:  8,
		NodeSize:     catalogNodeSize,
		TotalNodes:   4,
		MaxKeyLength: 516,
	}, v.Catalog().Tree().Statistics())
}

func TestOpenBTreeFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		node    []byte
		size    uint64
		wantErr error
	}{
		{
			name:    "fork too small",
			node:    make([]byte, 512),
			size:    100,
			wantErr: types.ErrInsufficientData,
		},
		{
			name: "node size not a power of two",
			node: testutil.BuildHeaderNode(testutil.HeaderRecordOptions{
				NodeSize:   1000,
				TotalNodes: 1,
			}, 1),
			size:    1024,
			wantErr: types.ErrRecordOutOfBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.NewImageBuilder(fixtureBlockSize, 16)
			e := b.Allocate(tt.node)
			reader, err := NewVolumeReader(bytes.NewReader(b.Build(testutil.VolumeHeaderOptions{})))
			require.NoError(t, err)

			fork := NewForkReader(reader, []types.ExtentDescriptor{{StartBlock: e.StartBlock, BlockCount: 2}}, tt.size)
			_, err = OpenBTreeFile[*catalog.Key](fork, types.DialectHFSPlus, func(header *btrees.HeaderRecord) btrees.KeyDecoder[*catalog.Key] {
				return catalog.KeyDecoder(types.DialectHFSPlus, catalog.CompareTypeFor(types.DialectHFSPlus, header))
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
