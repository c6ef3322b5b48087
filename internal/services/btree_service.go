package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	btreemw "github.com/deploymenttheory/go-hfs/internal/middleware/btrees"
	"github.com/deploymenttheory/go-hfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// BTreeFile is a B-tree stored in a fork of the volume. It serves nodes by number and provides
// navigation, search and traversal over them.
type BTreeFile[K interfaces.OrderedKey] struct {
	fork      *ForkReader
	nodeSize  int
	navigator *btreemw.Navigator[K]
	searcher  *btreemw.Searcher[K]
	traverser *btreemw.Traverser[K]
}

// OpenBTreeFile reads the header node of the tree held in fork
func OpenBTreeFile[K interfaces.OrderedKey](fork *ForkReader, dialect types.Dialect, keys btreemw.KeyDecoderFactory[K]) (*BTreeFile[K], error) {
	if fork.Size() < types.MinNodeSize {
		return nil, fmt.Errorf("fork of %d bytes cannot hold a header node: %w", fork.Size(), types.ErrInsufficientData)
	}

	// The node size is in the header record, which starts right after the descriptor of node 0
	first := make([]byte, types.MinNodeSize)
	if _, err := fork.ReadAt(first, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read header node: %w", err)
	}
	header, err := btrees.DecodeHeaderRecord(first, types.NodeDescriptorSize, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to decode header record: %w", err)
	}
	nodeSize := int(header.NodeSize())
	if nodeSize < types.MinNodeSize || nodeSize > types.MaxNodeSize || nodeSize&(nodeSize-1) != 0 {
		return nil, types.NewDecodeError("header record", types.NodeDescriptorSize, types.ErrRecordOutOfBounds,
			"node size %d", nodeSize)
	}

	bt := &BTreeFile[K]{fork: fork, nodeSize: nodeSize}
	bt.navigator, err = btreemw.NewNavigator[K](bt, dialect, keys)
	if err != nil {
		return nil, err
	}
	bt.searcher = btreemw.NewSearcher(bt.navigator)
	bt.traverser = btreemw.NewTraverser(bt.navigator)
	return bt, nil
}

// NodeSize returns the size of every node in bytes
func (bt *BTreeFile[K]) NodeSize() int {
	return bt.nodeSize
}

// ReadNode returns the raw bytes of node n
func (bt *BTreeFile[K]) ReadNode(n uint32) ([]byte, error) {
	off := int64(n) * int64(bt.nodeSize)
	if off+int64(bt.nodeSize) > bt.fork.Size() {
		return nil, fmt.Errorf("node %d lies beyond the %d byte tree file: %w", n, bt.fork.Size(), types.ErrRecordOutOfBounds)
	}
	data := make([]byte, bt.nodeSize)
	if _, err := bt.fork.ReadAt(data, off); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read node %d: %w", n, err)
	}
	return data, nil
}

// GetNode returns node n with its decoded descriptor
func (bt *BTreeFile[K]) GetNode(n uint32) ([]byte, interfaces.NodeDescriptorReader, error) {
	return bt.navigator.ReadNode(n)
}

// Header returns the tree's header record
func (bt *BTreeFile[K]) Header() *btrees.HeaderRecord {
	return bt.navigator.Header()
}

// HeaderNode returns node 0
func (bt *BTreeFile[K]) HeaderNode() *btrees.HeaderNode {
	return bt.navigator.HeaderNode()
}

// Fork returns the fork holding the tree
func (bt *BTreeFile[K]) Fork() *ForkReader {
	return bt.fork
}

// FindLeaf returns the leaf node that would hold key
func (bt *BTreeFile[K]) FindLeaf(key K) (uint32, error) {
	return bt.searcher.FindLeaf(key)
}

// Seek visits leaf nodes in key order starting at the leaf that would hold key
func (bt *BTreeFile[K]) Seek(ctx context.Context, key K, visit btreemw.NodeVisitor) error {
	return bt.searcher.Seek(ctx, key, visit)
}

// Walk visits every node reachable from the root depth-first, parents before children
func (bt *BTreeFile[K]) Walk(ctx context.Context, visit btreemw.NodeVisitor) error {
	return bt.traverser.PreOrder(ctx, visit)
}

// Leaves visits the leaf nodes in key order
func (bt *BTreeFile[K]) Leaves(ctx context.Context, visit btreemw.NodeVisitor) error {
	return bt.traverser.LeafChain(ctx, visit)
}

// Statistics summarizes the shape of the tree
func (bt *BTreeFile[K]) Statistics() BTreeStatistics {
	header := bt.Header()
	return BTreeStatistics{
		Depth:        header.TreeDepth(),
		RootNode:     header.RootNode(),
		LeafRecords:  header.LeafRecords(),
		NodeSize:     header.NodeSize(),
		TotalNodes:   header.TotalNodes(),
		FreeNodes:    header.FreeNodes(),
		MaxKeyLength: header.MaxKeyLength(),
	}
}
