package services

import (
	"context"
	"fmt"

	btreemw "github.com/deploymenttheory/go-hfs/internal/middleware/btrees"
	"github.com/deploymenttheory/go-hfs/internal/parsers/attributes"
	"github.com/deploymenttheory/go-hfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// AttributesFile reads extended attributes from the attributes B-tree of an HFS+ or HFSX volume
type AttributesFile struct {
	tree *BTreeFile[*attributes.Key]
}

// AttributeVisitFunc is called for every leaf record reached by a walk. node is the leaf the
// record was decoded from.
type AttributeVisitFunc func(node uint32, rec attributes.LeafRecord) error

// OpenAttributesFile opens the attributes file of volume. Volumes without one return
// types.ErrNotFound.
func OpenAttributesFile(volume *VolumeReader, overflow *ExtentsOverflow) (*AttributesFile, error) {
	if !volume.Dialect().IsHFSPlusFamily() {
		return nil, fmt.Errorf("%s volumes have no attributes file: %w", volume.Dialect(), types.ErrNotFound)
	}
	fork, ok := volume.Header().SystemFork(types.SystemFileAttributes)
	if !ok || fork.LogicalSize() == 0 {
		return nil, fmt.Errorf("volume has no attributes file: %w", types.ErrNotFound)
	}
	exts, err := overflow.AllDataExtentDescriptors(types.CNIDAttributesFile, fork)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve attributes file extents: %w", err)
	}

	tree, err := OpenBTreeFile[*attributes.Key](NewForkReader(volume, exts, fork.LogicalSize()), volume.Dialect(),
		func(*btrees.HeaderRecord) btrees.KeyDecoder[*attributes.Key] {
			return attributes.KeyDecoder
		})
	if err != nil {
		return nil, fmt.Errorf("failed to open attributes file: %w", err)
	}
	return &AttributesFile{tree: tree}, nil
}

// Tree returns the underlying B-tree
func (af *AttributesFile) Tree() *BTreeFile[*attributes.Key] {
	return af.tree
}

func (af *AttributesFile) leafNode(n uint32, data []byte) (*attributes.LeafNode, error) {
	node, err := attributes.DecodeLeafNode(data, 0, af.tree.NodeSize())
	if err != nil {
		return nil, fmt.Errorf("failed to decode attributes leaf node %d: %w", n, err)
	}
	return node, nil
}

// Get returns the first record of attribute name on fileID
func (af *AttributesFile) Get(fileID types.CatalogNodeID, name string) (attributes.LeafRecord, error) {
	key, err := attributes.NewKey(fileID, name, 0)
	if err != nil {
		return nil, err
	}
	leaf, err := af.tree.FindLeaf(key)
	if err != nil {
		return nil, fmt.Errorf("attribute %q of CNID %d: %w", name, fileID, err)
	}
	data, err := af.tree.ReadNode(leaf)
	if err != nil {
		return nil, err
	}
	node, err := af.leafNode(leaf, data)
	if err != nil {
		return nil, err
	}
	for _, rec := range node.Records() {
		if rec.Key().Compare(key) == 0 {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("attribute %q of CNID %d: %w", name, fileID, types.ErrNotFound)
}

// List returns every attribute record of fileID in key order
func (af *AttributesFile) List(ctx context.Context, fileID types.CatalogNodeID) ([]attributes.LeafRecord, error) {
	start, err := attributes.NewKey(fileID, "", 0)
	if err != nil {
		return nil, err
	}

	var records []attributes.LeafRecord
	err = af.tree.Seek(ctx, start, func(visit btreemw.NodeVisit) (bool, error) {
		node, err := af.leafNode(visit.Number, visit.Data)
		if err != nil {
			return false, err
		}
		for _, rec := range node.Records() {
			switch id := rec.Key().FileID(); {
			case id < fileID:
				continue
			case id > fileID:
				return false, nil
			}
			records = append(records, rec)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Walk visits every leaf record of the tree, walking it depth-first from the root. Nodes that
// are neither index nor leaf nodes are passed to unexpected, when set, and otherwise skipped.
func (af *AttributesFile) Walk(ctx context.Context, fn AttributeVisitFunc, unexpected func(node uint32, kind types.NodeKind)) error {
	return af.tree.Walk(ctx, func(visit btreemw.NodeVisit) (bool, error) {
		switch kind := visit.Descriptor.Kind(); kind {
		case types.NodeKindIndex:
			return true, nil
		case types.NodeKindLeaf:
			node, err := af.leafNode(visit.Number, visit.Data)
			if err != nil {
				return false, err
			}
			for _, rec := range node.Records() {
				if err := fn(visit.Number, rec); err != nil {
					return false, err
				}
			}
			return true, nil
		default:
			if unexpected != nil {
				unexpected(visit.Number, kind)
			}
			return false, nil
		}
	})
}
