package services

import (
	"context"
	"io"

	datastreams "github.com/deploymenttheory/go-hfs/internal/parsers/data_streams"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// FileSystemService provides high-level filesystem operations
type FileSystemService interface {
	GetNodeByPath(path string) (*FileNode, error)
	ListDirectoryContents(ctx context.Context, cnid types.CatalogNodeID) ([]*FileNode, error)
	GetFileExtents(cnid types.CatalogNodeID, forkType types.ForkType) ([]ExtentMapping, error)
	FindFiles(ctx context.Context, filter SearchFilter) ([]*FileNode, error)
	GetFileMetadata(cnid types.CatalogNodeID) (*FileNode, error)
	GetParentDirectory(cnid types.CatalogNodeID) (*FileNode, error)
	IsPathAccessible(path string) (bool, error)
	ReadFile(cnid types.CatalogNodeID) ([]byte, error)
	CreateFileReader(cnid types.CatalogNodeID) (io.Reader, error)
}

// VolumeService provides volume-level operations
type VolumeService interface {
	Name() (string, error)
	GetSpaceUsageStats() *SpaceStats
	SystemFiles() ([]SystemFileReport, error)
	GenerateVolumeReport() (*VolumeReport, error)
}

// DecmpfsService finds decmpfs compressed files and inspects their headers
type DecmpfsService interface {
	ScanDecmpfs(ctx context.Context, withPaths bool) (*DecmpfsScanResult, error)
	Header(cnid types.CatalogNodeID) (*datastreams.DecmpfsHeaderReader, error)
}

// MetadataDumpService writes metadata-only images of a volume
type MetadataDumpService interface {
	MetadataSectors() (*MetadataLayout, error)
	Dump(ctx context.Context, w io.Writer) (int64, error)
}

var (
	_ FileSystemService   = (*FileSystemServiceImpl)(nil)
	_ VolumeService       = (*Volume)(nil)
	_ DecmpfsService      = (*CompressionService)(nil)
	_ MetadataDumpService = (*MetadataDumper)(nil)
)
