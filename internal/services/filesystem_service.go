package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/deploymenttheory/go-hfs/internal/parsers/attributes"
	"github.com/deploymenttheory/go-hfs/internal/parsers/catalog"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// errStopWalk ends a walk early without reporting an error
var errStopWalk = errors.New("stop walk")

// FileSystemServiceImpl answers path and file questions from the catalog of a volume
type FileSystemServiceImpl struct {
	volume *Volume
}

// NewFileSystemService creates a file system view of volume
func NewFileSystemService(volume *Volume) *FileSystemServiceImpl {
	return &FileSystemServiceImpl{volume: volume}
}

// GetNodeByPath returns the file or folder at an absolute path
func (fs *FileSystemServiceImpl) GetNodeByPath(p string) (*FileNode, error) {
	rec, err := fs.volume.catalog.ResolvePath(p)
	if err != nil {
		return nil, err
	}
	return fs.recordToFileNode(cleanPath(p), rec)
}

// IsPathAccessible reports whether path resolves to a catalog record
func (fs *FileSystemServiceImpl) IsPathAccessible(p string) (bool, error) {
	_, err := fs.volume.catalog.ResolvePath(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, types.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// GetFileMetadata returns the file or folder with the given CNID
func (fs *FileSystemServiceImpl) GetFileMetadata(cnid types.CatalogNodeID) (*FileNode, error) {
	records, err := fs.volume.catalog.GetPathTo(cnid)
	if err != nil {
		return nil, err
	}
	p, err := fs.volume.catalog.PathString(records)
	if err != nil {
		return nil, err
	}
	return fs.recordToFileNode(p, records[len(records)-1])
}

// GetParentDirectory returns the folder containing cnid
func (fs *FileSystemServiceImpl) GetParentDirectory(cnid types.CatalogNodeID) (*FileNode, error) {
	if cnid == types.CNIDRootFolder {
		return nil, fmt.Errorf("the root folder has no parent: %w", types.ErrNotFound)
	}
	thread, err := fs.volume.catalog.ThreadRecord(cnid)
	if err != nil {
		return nil, err
	}
	t, _ := threadOf(thread)
	return fs.GetFileMetadata(t.ParentID())
}

// ListDirectoryContents returns the children of folder cnid in catalog order
func (fs *FileSystemServiceImpl) ListDirectoryContents(ctx context.Context, cnid types.CatalogNodeID) ([]*FileNode, error) {
	dir, err := fs.GetFileMetadata(cnid)
	if err != nil {
		return nil, err
	}
	if !dir.IsDirectory {
		return nil, fmt.Errorf("CNID %d is not a folder: %w", cnid, types.ErrInvalidRecordType)
	}

	children, err := fs.volume.catalog.ListFolder(ctx, cnid)
	if err != nil {
		return nil, err
	}
	nodes := make([]*FileNode, 0, len(children))
	for _, rec := range children {
		name, err := fs.volume.catalog.Name(rec)
		if err != nil {
			return nil, err
		}
		node, err := fs.recordToFileNode(path.Join(dir.Path, name), rec)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Walk visits every file and folder below the root folder, parents before children
func (fs *FileSystemServiceImpl) Walk(ctx context.Context, fn func(*FileNode) error) error {
	return fs.volume.catalog.Walk(ctx, func(p string, rec catalog.LeafRecord) error {
		node, err := fs.recordToFileNode(p, rec)
		if err != nil {
			return err
		}
		return fn(node)
	})
}

// FindFiles returns the files and folders matching filter, in walk order
func (fs *FileSystemServiceImpl) FindFiles(ctx context.Context, filter SearchFilter) ([]*FileNode, error) {
	var results []*FileNode
	err := fs.Walk(ctx, func(node *FileNode) error {
		if filter.MaxResults > 0 && len(results) >= filter.MaxResults {
			return errStopWalk
		}
		if matchesFilter(node, filter) {
			results = append(results, node)
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopWalk) {
		return nil, fmt.Errorf("failed to search for files: %w", err)
	}
	return results, nil
}

// GetFileExtents maps the fork of a file to volume offsets
func (fs *FileSystemServiceImpl) GetFileExtents(cnid types.CatalogNodeID, forkType types.ForkType) ([]ExtentMapping, error) {
	exts, err := fs.forkExtents(cnid, forkType)
	if err != nil {
		return nil, err
	}
	header := fs.volume.Header()
	blockSize := uint64(header.BlockSize())

	mappings := make([]ExtentMapping, 0, len(exts))
	var logical uint64
	for _, e := range exts {
		length := uint64(e.BlockCount) * blockSize
		mappings = append(mappings, ExtentMapping{
			Fork:           forkType,
			LogicalOffset:  logical,
			StartBlock:     e.StartBlock,
			BlockCount:     e.BlockCount,
			PhysicalOffset: header.BlockOffset(e.StartBlock),
			Length:         length,
		})
		logical += length
	}
	return mappings, nil
}

// OpenFork returns a reader over the data or resource fork of a file
func (fs *FileSystemServiceImpl) OpenFork(cnid types.CatalogNodeID, forkType types.ForkType) (*ForkReader, error) {
	file, err := fs.fileRecord(cnid)
	if err != nil {
		return nil, err
	}
	fork := file.File.Fork(forkType)
	if fork == nil {
		return nil, fmt.Errorf("file %d has no %s fork: %w", cnid, forkType, types.ErrNotFound)
	}
	exts, err := fs.volume.overflow.AllExtentDescriptors(cnid, forkType, fork)
	if err != nil {
		return nil, err
	}
	return NewForkReader(fs.volume.reader, exts, fork.LogicalSize()), nil
}

// ReadFile returns the contents of a file. Files flagged as compressed are not decoded; their
// decmpfs header is inspected and types.ErrUnsupported returned.
func (fs *FileSystemServiceImpl) ReadFile(cnid types.CatalogNodeID) ([]byte, error) {
	file, err := fs.fileRecord(cnid)
	if err != nil {
		return nil, err
	}
	if perms, ok := file.File.Permissions(); ok && perms.OwnerFlags&types.OwnerFlagCompressed != 0 {
		header, err := fs.volume.Compression().Header(cnid)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("file %d is decmpfs compressed (%s, %d bytes): %w",
			cnid, header.CompressionTypeName(), header.UncompressedSize(), types.ErrUnsupported)
	}

	fork, err := fs.OpenFork(cnid, types.ForkTypeData)
	if err != nil {
		return nil, err
	}
	return fork.ReadAll()
}

// CreateFileReader returns a sequential reader over the data fork of a file
func (fs *FileSystemServiceImpl) CreateFileReader(cnid types.CatalogNodeID) (io.Reader, error) {
	fork, err := fs.OpenFork(cnid, types.ForkTypeData)
	if err != nil {
		return nil, err
	}
	return io.NewSectionReader(fork, 0, fork.Size()), nil
}

// GetExtendedAttributes returns the inline attributes of cnid by name. Attributes stored in
// forks are listed with a nil value.
func (fs *FileSystemServiceImpl) GetExtendedAttributes(ctx context.Context, cnid types.CatalogNodeID) (map[string][]byte, error) {
	attrs, ok := fs.volume.Attributes()
	if !ok {
		return map[string][]byte{}, nil
	}
	records, err := attrs.List(ctx, cnid)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]byte, len(records))
	for _, rec := range records {
		name := rec.Key().Name().String()
		switch r := rec.(type) {
		case *attributes.InlineDataRecord:
			result[name] = r.Data()
		case *attributes.ForkDataRecord:
			result[name] = nil
		}
	}
	return result, nil
}

func (fs *FileSystemServiceImpl) fileRecord(cnid types.CatalogNodeID) (*catalog.FileRecord, error) {
	rec, err := fs.volume.catalog.Record(cnid)
	if err != nil {
		return nil, err
	}
	file, ok := rec.(*catalog.FileRecord)
	if !ok {
		return nil, fmt.Errorf("CNID %d is a %s: %w", cnid, rec.RecordType(), types.ErrInvalidRecordType)
	}
	return file, nil
}

func (fs *FileSystemServiceImpl) forkExtents(cnid types.CatalogNodeID, forkType types.ForkType) ([]types.ExtentDescriptor, error) {
	file, err := fs.fileRecord(cnid)
	if err != nil {
		return nil, err
	}
	fork := file.File.Fork(forkType)
	if fork == nil {
		return nil, fmt.Errorf("file %d has no %s fork: %w", cnid, forkType, types.ErrNotFound)
	}
	return fs.volume.overflow.AllExtentDescriptors(cnid, forkType, fork)
}

func (fs *FileSystemServiceImpl) recordToFileNode(p string, rec catalog.LeafRecord) (*FileNode, error) {
	name := ""
	if p != "/" {
		var err error
		if name, err = fs.volume.catalog.Name(rec); err != nil {
			return nil, err
		}
	}
	node := &FileNode{
		ParentID: rec.Key().ParentID(),
		Path:     p,
		Name:     name,
	}

	var (
		attrs catalog.Attributes
		perms types.HFSPlusBSDInfo
		ok    bool
	)
	switch r := rec.(type) {
	case *catalog.FolderRecord:
		node.CNID = r.Folder.FolderID()
		node.IsDirectory = true
		node.Valence = r.Folder.Valence()
		attrs = r.Folder.Attributes()
		perms, ok = r.Folder.Permissions()
	case *catalog.FileRecord:
		file := r.File
		node.CNID = file.FileID()
		node.Size = file.DataFork().LogicalSize()
		if rsrc := file.ResourceFork(); rsrc != nil {
			node.ResourceSize = rsrc.LogicalSize()
		}
		info := file.FinderInfo()
		node.FileType = info.FileType.String()
		node.Creator = info.FileCreator.String()
		node.IsSymlink = file.IsSymbolicLink()
		node.IsHardLink = file.IsHardFileLink()
		if perms, ok := file.Permissions(); ok {
			node.IsCompressed = perms.OwnerFlags&types.OwnerFlagCompressed != 0
		}
		attrs = file.Attributes()
		perms, ok = file.Permissions()
	default:
		return nil, fmt.Errorf("%s record %s is not a file or folder: %w", rec.RecordType(), rec.Key(), types.ErrInvalidRecordType)
	}

	node.CreatedTime = attrs.CreateTime()
	node.ModifiedTime = attrs.ContentModTime()
	node.BackupTime = attrs.BackupTime()
	if attrs.HasAccessDate() {
		node.AccessedTime = attrs.AccessTime()
		node.AttributeModTime = attrs.AttributeModTime()
	}
	node.IsLocked = attrs.IsLocked()
	if ok {
		node.Mode = perms.FileMode
		node.UID = perms.OwnerID
		node.GID = perms.GroupID
	}
	return node, nil
}

func cleanPath(p string) string {
	return path.Clean("/" + strings.TrimPrefix(p, "/"))
}

func matchesFilter(node *FileNode, filter SearchFilter) bool {
	if filter.FilesOnly && node.IsDirectory {
		return false
	}
	if filter.FoldersOnly && !node.IsDirectory {
		return false
	}
	if filter.NamePattern != "" {
		if ok, err := path.Match(filter.NamePattern, node.Name); err != nil || !ok {
			return false
		}
	}
	if filter.NameRegex != nil && !filter.NameRegex.MatchString(node.Name) {
		return false
	}
	if filter.Extension != "" && !strings.EqualFold(path.Ext(node.Name), "."+strings.TrimPrefix(filter.Extension, ".")) {
		return false
	}
	if filter.MinSize > 0 && node.Size < filter.MinSize {
		return false
	}
	if filter.MaxSize > 0 && node.Size > filter.MaxSize {
		return false
	}
	if !filter.ModifiedAfter.IsZero() && !node.ModifiedTime.After(filter.ModifiedAfter) {
		return false
	}
	if !filter.ModifiedBefore.IsZero() && !node.ModifiedTime.Before(filter.ModifiedBefore) {
		return false
	}
	return true
}
