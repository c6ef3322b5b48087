package services

import (
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-hfs/internal/parsers/extents"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// ExtentsOverflow looks up the extents that do not fit in catalog records and volume headers
type ExtentsOverflow struct {
	tree      *BTreeFile[*extents.Key]
	dialect   types.Dialect
	blockSize uint32
}

// OpenExtentsOverflow opens the extents overflow file of volume. The file never overflows
// into itself, so its basic extents describe it completely.
func OpenExtentsOverflow(volume *VolumeReader) (*ExtentsOverflow, error) {
	fork, ok := volume.Header().SystemFork(types.SystemFileExtents)
	if !ok {
		return nil, fmt.Errorf("volume header has no extents overflow file: %w", types.ErrNotFound)
	}

	dialect := volume.Dialect()
	reader := NewForkReader(volume, extents.UsedExtents(fork.BasicExtents()), fork.LogicalSize())
	tree, err := OpenBTreeFile[*extents.Key](reader, dialect, func(*btrees.HeaderRecord) btrees.KeyDecoder[*extents.Key] {
		return extents.KeyDecoder(dialect)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open extents overflow file: %w", err)
	}

	return &ExtentsOverflow{tree: tree, dialect: dialect, blockSize: volume.BlockSize()}, nil
}

// Tree returns the underlying B-tree
func (eo *ExtentsOverflow) Tree() *BTreeFile[*extents.Key] {
	return eo.tree
}

// Record returns the overflow record for the extents of a fork starting at startBlock
func (eo *ExtentsOverflow) Record(fileID types.CatalogNodeID, forkType types.ForkType, startBlock uint32) (*extents.LeafRecord, error) {
	key := extents.NewKey(eo.dialect, fileID, forkType, startBlock)
	leaf, err := eo.tree.FindLeaf(key)
	if err != nil {
		return nil, fmt.Errorf("no extents record for file %d %s fork at block %d: %w", fileID, forkType, startBlock, err)
	}

	data, err := eo.tree.ReadNode(leaf)
	if err != nil {
		return nil, err
	}
	node, err := extents.DecodeLeafNode(data, 0, eo.tree.NodeSize(), eo.dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to decode extents leaf node %d: %w", leaf, err)
	}

	for _, rec := range node.Records() {
		if rec.Key().Compare(key) == 0 {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("no extents record for file %d %s fork at block %d: %w", fileID, forkType, startBlock, types.ErrNotFound)
}

// AllExtentDescriptors returns every extent of a fork: the used basic extents followed by the
// overflow records, until the extents cover the logical size of the fork
func (eo *ExtentsOverflow) AllExtentDescriptors(fileID types.CatalogNodeID, forkType types.ForkType, fork *extents.ForkData) ([]types.ExtentDescriptor, error) {
	if fork == nil {
		return nil, fmt.Errorf("fork of file %d cannot be nil", fileID)
	}

	blockSize := uint64(eo.blockSize)
	total := fork.BasicExtentsBlockCount()
	result := extents.UsedExtents(fork.BasicExtents())
	if total*blockSize >= fork.LogicalSize() {
		return result, nil
	}

	for total*blockSize < fork.LogicalSize() {
		rec, err := eo.Record(fileID, forkType, uint32(total))
		if err != nil {
			return nil, fmt.Errorf("failed to find extents of file %d after block %d: %w", fileID, total, err)
		}
		used := extents.UsedExtents(rec.Extents())
		blocks := extents.BlockCount(used)
		if blocks == 0 {
			return nil, fmt.Errorf("extents record of file %d at block %d is empty: %w", fileID, total, types.ErrRecordOutOfBounds)
		}
		result = append(result, used...)
		total += blocks
	}
	return result, nil
}

// AllDataExtentDescriptors returns every extent of a data fork
func (eo *ExtentsOverflow) AllDataExtentDescriptors(fileID types.CatalogNodeID, fork *extents.ForkData) ([]types.ExtentDescriptor, error) {
	return eo.AllExtentDescriptors(fileID, types.ForkTypeData, fork)
}
