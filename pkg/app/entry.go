package app

import (
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/docker/go-units"

	"github.com/deploymenttheory/go-hfs/internal/services"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// FileEntry is a catalog entry as shown by the listing commands
type FileEntry struct {
	Path        string              `json:"path" yaml:"path"`
	Name        string              `json:"name" yaml:"name"`
	CNID        types.CatalogNodeID `json:"cnid" yaml:"cnid"`
	Type        string              `json:"type" yaml:"type"`
	Size        uint64              `json:"size" yaml:"size"`
	Modified    time.Time           `json:"modified" yaml:"modified"`
	Created     time.Time           `json:"created" yaml:"created"`
	Permissions string              `json:"permissions" yaml:"permissions"`
	Extension   string              `json:"extension,omitempty" yaml:"extension,omitempty"`
	FileType    string              `json:"file_type,omitempty" yaml:"file_type,omitempty"`
	Creator     string              `json:"creator,omitempty" yaml:"creator,omitempty"`
	Compressed  bool                `json:"compressed" yaml:"compressed"`
	Locked      bool                `json:"locked" yaml:"locked"`
}

// NewFileEntry converts a catalog node
func NewFileEntry(node *services.FileNode) FileEntry {
	entry := FileEntry{
		Path:        node.Path,
		Name:        node.Name,
		CNID:        node.CNID,
		Type:        entryType(node),
		Size:        node.Size,
		Modified:    node.ModifiedTime,
		Created:     node.CreatedTime,
		Permissions: formatMode(node),
		FileType:    fourCC(node.FileType),
		Creator:     fourCC(node.Creator),
		Compressed:  node.IsCompressed,
		Locked:      node.IsLocked,
	}
	if !node.IsDirectory {
		entry.Extension = strings.TrimPrefix(path.Ext(node.Name), ".")
	}
	return entry
}

// FormatSize returns a human-readable size string
func (e *FileEntry) FormatSize() string {
	if e.Type == "folder" {
		return "-"
	}
	return units.BytesSize(float64(e.Size))
}

func entryType(node *services.FileNode) string {
	switch {
	case node.IsDirectory:
		return "folder"
	case node.IsSymlink:
		return "symlink"
	case node.IsHardLink:
		return "hardlink"
	default:
		return "file"
	}
}

// fourCC drops unset Finder type and creator codes
func fourCC(code string) string {
	if code == "...." {
		return ""
	}
	return strings.TrimSpace(code)
}

func formatMode(node *services.FileNode) string {
	mode := fs.FileMode(node.Mode & 0o777)
	switch {
	case node.IsDirectory:
		mode |= fs.ModeDir
	case node.IsSymlink:
		mode |= fs.ModeSymlink
	}
	return mode.String()
}
