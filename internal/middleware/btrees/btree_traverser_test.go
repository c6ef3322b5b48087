package btrees

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-hfs/internal/testutil"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

func TestPreOrder(t *testing.T) {
	nav := newTestNavigator(t, buildCatalogTree())

	var order []uint32
	var depths []int
	err := NewTraverser(nav).PreOrder(context.Background(), func(v NodeVisit) (bool, error) {
		order = append(order, v.Number)
		depths = append(depths, v.Depth)
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{3, 1, 2}, order)
	assert.Equal(t, []int{0, 1, 1}, depths)
}

func TestPreOrderSkipChildren(t *testing.T) {
	nav := newTestNavigator(t, buildCatalogTree())

	var order []uint32
	err := NewTraverser(nav).PreOrder(context.Background(), func(v NodeVisit) (bool, error) {
		order = append(order, v.Number)
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{3}, order)
}

func TestPreOrderErrors(t *testing.T) {
	t.Run("visitor error stops the walk", func(t *testing.T) {
		nav := newTestNavigator(t, buildCatalogTree())
		sentinel := errors.New("stop")
		err := NewTraverser(nav).PreOrder(context.Background(), func(NodeVisit) (bool, error) {
			return true, sentinel
		})
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("cancelled context", func(t *testing.T) {
		nav := newTestNavigator(t, buildCatalogTree())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewTraverser(nav).PreOrder(ctx, func(NodeVisit) (bool, error) { return true, nil })
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("index node pointing at itself", func(t *testing.T) {
		source := buildCatalogTree()
		source[3] = testutil.BuildNode(testNodeSize, types.NodeKindIndex, 2, 0, 0,
			indexRecord(1, "a", 1), indexRecord(2, "m", 3))
		nav := newTestNavigator(t, source)
		err := NewTraverser(nav).PreOrder(context.Background(), func(NodeVisit) (bool, error) { return true, nil })
		assert.ErrorIs(t, err, types.ErrRecordOutOfBounds)
	})
}

func TestLeafChain(t *testing.T) {
	t.Run("visits leaves in order", func(t *testing.T) {
		nav := newTestNavigator(t, buildCatalogTree())
		var leaves []uint32
		var records []uint16
		err := NewTraverser(nav).LeafChain(context.Background(), func(v NodeVisit) (bool, error) {
			leaves = append(leaves, v.Number)
			records = append(records, v.Descriptor.NumRecords())
			return true, nil
		})
		require.NoError(t, err)
		assert.Equal(t, []uint32{1, 2}, leaves)
		assert.Equal(t, []uint16{2, 1}, records)
	})

	t.Run("loop in forward links", func(t *testing.T) {
		source := buildCatalogTree()
		source[2] = testutil.BuildNode(testNodeSize, types.NodeKindLeaf, 1, 1, 1,
			testutil.HFSPlusCatalogKey(2, "m"))
		nav := newTestNavigator(t, source)
		err := NewTraverser(nav).LeafChain(context.Background(), func(NodeVisit) (bool, error) { return true, nil })
		assert.ErrorIs(t, err, types.ErrRecordOutOfBounds)
	})

	t.Run("index node in chain", func(t *testing.T) {
		source := buildCatalogTree()
		source[1] = testutil.BuildNode(testNodeSize, types.NodeKindLeaf, 1, 3, 0,
			testutil.HFSPlusCatalogKey(1, "a"))
		nav := newTestNavigator(t, source)
		err := NewTraverser(nav).LeafChain(context.Background(), func(NodeVisit) (bool, error) { return true, nil })
		assert.ErrorIs(t, err, types.ErrInvalidNodeKind)
	})
}
