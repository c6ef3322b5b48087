package services

import (
	"context"
	"fmt"
	"strings"

	btreemw "github.com/deploymenttheory/go-hfs/internal/middleware/btrees"
	"github.com/deploymenttheory/go-hfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-hfs/internal/parsers/catalog"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// maxPathDepth bounds parent chains so a corrupt catalog cannot loop forever
const maxPathDepth = 4096

// CatalogFile resolves records, threads and paths in the catalog B-tree
type CatalogFile struct {
	tree    *BTreeFile[*catalog.Key]
	dialect types.Dialect
	strings *catalog.StringDecoder
}

// OpenCatalogFile opens the catalog file of volume, following overflow extents
func OpenCatalogFile(volume *VolumeReader, overflow *ExtentsOverflow, decoder *catalog.StringDecoder) (*CatalogFile, error) {
	fork, ok := volume.Header().SystemFork(types.SystemFileCatalog)
	if !ok {
		return nil, fmt.Errorf("volume header has no catalog file: %w", types.ErrNotFound)
	}
	exts, err := overflow.AllDataExtentDescriptors(types.CNIDCatalogFile, fork)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog file extents: %w", err)
	}

	dialect := volume.Dialect()
	tree, err := OpenBTreeFile[*catalog.Key](NewForkReader(volume, exts, fork.LogicalSize()), dialect,
		func(header *btrees.HeaderRecord) btrees.KeyDecoder[*catalog.Key] {
			return catalog.KeyDecoder(dialect, catalog.CompareTypeFor(dialect, header))
		})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}

	if decoder == nil {
		decoder = catalog.DefaultStringDecoder
	}
	return &CatalogFile{tree: tree, dialect: dialect, strings: decoder}, nil
}

// Tree returns the underlying B-tree
func (c *CatalogFile) Tree() *BTreeFile[*catalog.Key] {
	return c.tree
}

// CompareType returns the name ordering of the catalog
func (c *CatalogFile) CompareType() types.KeyCompareType {
	return catalog.CompareTypeFor(c.dialect, c.tree.Header())
}

// NewKey builds a search key in the catalog's dialect and ordering
func (c *CatalogFile) NewKey(parentID types.CatalogNodeID, name catalog.CatalogString) (*catalog.Key, error) {
	if c.dialect == types.DialectHFS {
		return catalog.NewHFSKey(parentID, name.Bytes())
	}
	return catalog.NewHFSPlusKey(c.dialect, c.CompareType(), parentID, name)
}

// LeafNode decodes leaf node n
func (c *CatalogFile) LeafNode(n uint32) (*catalog.LeafNode, error) {
	data, err := c.tree.ReadNode(n)
	if err != nil {
		return nil, err
	}
	node, err := catalog.DecodeLeafNode(data, 0, c.tree.NodeSize(), c.dialect, c.tree.Header())
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog leaf node %d: %w", n, err)
	}
	return node, nil
}

// GetRecord returns the record keyed by parentID and name
func (c *CatalogFile) GetRecord(parentID types.CatalogNodeID, name catalog.CatalogString) (catalog.LeafRecord, error) {
	key, err := c.NewKey(parentID, name)
	if err != nil {
		return nil, err
	}
	leaf, err := c.tree.FindLeaf(key)
	if err != nil {
		return nil, fmt.Errorf("catalog record %s: %w", key, err)
	}
	node, err := c.LeafNode(leaf)
	if err != nil {
		return nil, err
	}
	for _, rec := range node.Records() {
		if rec.Key().Compare(key) == 0 {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("catalog record %s: %w", key, types.ErrNotFound)
}

// Lookup returns the record named name in folder parentID
func (c *CatalogFile) Lookup(parentID types.CatalogNodeID, name string) (catalog.LeafRecord, error) {
	if c.dialect != types.DialectHFS {
		// POSIX names show the on-disk '/' as ':'
		name = strings.ReplaceAll(name, ":", "/")
	}
	encoded, err := c.strings.Encode(name, c.dialect)
	if err != nil {
		return nil, err
	}
	return c.GetRecord(parentID, encoded)
}

// ThreadRecord returns the thread record of cnid
func (c *CatalogFile) ThreadRecord(cnid types.CatalogNodeID) (catalog.LeafRecord, error) {
	rec, err := c.GetRecord(cnid, catalog.CatalogString{})
	if err != nil {
		return nil, fmt.Errorf("no thread for CNID %d: %w", cnid, err)
	}
	if _, ok := threadOf(rec); !ok {
		return nil, fmt.Errorf("record (%d, \"\") is a %s record: %w", cnid, rec.RecordType(), types.ErrInvalidRecordType)
	}
	return rec, nil
}

// Record returns the file or folder record of cnid
func (c *CatalogFile) Record(cnid types.CatalogNodeID) (catalog.LeafRecord, error) {
	threadRec, err := c.ThreadRecord(cnid)
	if err != nil {
		return nil, err
	}
	thread, _ := threadOf(threadRec)
	return c.GetRecord(thread.ParentID(), thread.NodeName())
}

// GetPathTo returns the records from the root folder down to the record of cnid
func (c *CatalogFile) GetPathTo(cnid types.CatalogNodeID) ([]catalog.LeafRecord, error) {
	target, err := c.Record(cnid)
	if err != nil {
		return nil, err
	}

	path := []catalog.LeafRecord{target}
	parentID := target.Key().ParentID()
	for depth := 0; parentID != types.CNIDRootParent; depth++ {
		if depth >= maxPathDepth {
			return nil, fmt.Errorf("path to CNID %d exceeds %d components: %w", cnid, maxPathDepth, types.ErrRecordOutOfBounds)
		}
		rec, err := c.ThreadRecord(parentID)
		if err != nil {
			return nil, err
		}
		folderThread, ok := rec.(*catalog.FolderThreadRecord)
		if !ok {
			return nil, fmt.Errorf("parent %d of CNID %d has a %s: %w", parentID, cnid, rec.RecordType(), types.ErrInvalidRecordType)
		}
		parent, err := c.GetRecord(folderThread.Thread.ParentID(), folderThread.Thread.NodeName())
		if err != nil {
			return nil, err
		}
		path = append(path, parent)
		parentID = folderThread.Thread.ParentID()
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// PathString joins the names of a GetPathTo result, leaving out the root folder's name
func (c *CatalogFile) PathString(records []catalog.LeafRecord) (string, error) {
	if len(records) <= 1 {
		return "/", nil
	}
	var b strings.Builder
	for _, rec := range records[1:] {
		name, err := c.Name(rec)
		if err != nil {
			return "", err
		}
		b.WriteByte('/')
		b.WriteString(name)
	}
	return b.String(), nil
}

// Path returns the absolute path of cnid
func (c *CatalogFile) Path(cnid types.CatalogNodeID) (string, error) {
	records, err := c.GetPathTo(cnid)
	if err != nil {
		return "", err
	}
	return c.PathString(records)
}

// Name decodes the node name of rec for display in a path
func (c *CatalogFile) Name(rec catalog.LeafRecord) (string, error) {
	name, err := c.strings.Decode(rec.Key().NodeName())
	if err != nil {
		return "", err
	}
	if c.dialect != types.DialectHFS {
		name = strings.ReplaceAll(name, "/", ":")
	}
	return name, nil
}

// ResolvePath returns the record at an absolute path such as /Users/me
func (c *CatalogFile) ResolvePath(path string) (catalog.LeafRecord, error) {
	current, err := c.Record(types.CNIDRootFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to read root folder: %w", err)
	}

	for _, component := range strings.Split(path, "/") {
		if component == "" || component == "." {
			continue
		}
		folder, ok := current.(*catalog.FolderRecord)
		if !ok {
			return nil, fmt.Errorf("%q: %s is not a folder: %w", path, current.Key(), types.ErrNotFound)
		}
		current, err = c.Lookup(folder.Folder.FolderID(), component)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", path, err)
		}
	}
	return current, nil
}

// ListFolder returns the file and folder records whose parent is folderID, in catalog order
func (c *CatalogFile) ListFolder(ctx context.Context, folderID types.CatalogNodeID) ([]catalog.LeafRecord, error) {
	start, err := c.NewKey(folderID, catalog.CatalogString{})
	if err != nil {
		return nil, err
	}

	var children []catalog.LeafRecord
	err = c.tree.Seek(ctx, start, func(visit btreemw.NodeVisit) (bool, error) {
		node, err := catalog.DecodeLeafNode(visit.Data, 0, c.tree.NodeSize(), c.dialect, c.tree.Header())
		if err != nil {
			return false, fmt.Errorf("failed to decode catalog leaf node %d: %w", visit.Number, err)
		}
		for _, rec := range node.Records() {
			switch parent := rec.Key().ParentID(); {
			case parent < folderID:
				continue
			case parent > folderID:
				return false, nil
			}
			switch rec.(type) {
			case *catalog.FolderRecord, *catalog.FileRecord:
				children = append(children, rec)
			}
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return children, nil
}

// CatalogWalkFunc is called for every file and folder reached by Walk
type CatalogWalkFunc func(path string, rec catalog.LeafRecord) error

// Walk visits the folder hierarchy below the root folder, parents before children
func (c *CatalogFile) Walk(ctx context.Context, fn CatalogWalkFunc) error {
	type entry struct {
		id    types.CatalogNodeID
		path  string
		depth int
	}
	stack := []entry{{id: types.CNIDRootFolder, path: ""}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.depth >= maxPathDepth {
			return fmt.Errorf("folder %d is nested deeper than %d: %w", cur.id, maxPathDepth, types.ErrRecordOutOfBounds)
		}

		children, err := c.ListFolder(ctx, cur.id)
		if err != nil {
			return err
		}
		var folders []entry
		for _, rec := range children {
			name, err := c.Name(rec)
			if err != nil {
				return err
			}
			path := cur.path + "/" + name
			if err := fn(path, rec); err != nil {
				return err
			}
			if folder, ok := rec.(*catalog.FolderRecord); ok {
				folders = append(folders, entry{id: folder.Folder.FolderID(), path: path, depth: cur.depth + 1})
			}
		}
		for i := len(folders) - 1; i >= 0; i-- {
			stack = append(stack, folders[i])
		}
	}
	return nil
}

func threadOf(rec catalog.LeafRecord) (*catalog.Thread, bool) {
	switch r := rec.(type) {
	case *catalog.FolderThreadRecord:
		return r.Thread, true
	case *catalog.FileThreadRecord:
		return r.Thread, true
	default:
		return nil, false
	}
}
