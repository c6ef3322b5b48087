package services

import (
	"regexp"
	"time"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// FileNode represents a file or folder in the catalog
type FileNode struct {
	CNID             types.CatalogNodeID `json:"cnid" yaml:"cnid"`
	ParentID         types.CatalogNodeID `json:"parent_id" yaml:"parent_id"`
	Path             string              `json:"path" yaml:"path"`
	Name             string              `json:"name" yaml:"name"`
	IsDirectory      bool                `json:"is_directory" yaml:"is_directory"`
	Size             uint64              `json:"size" yaml:"size"`
	ResourceSize     uint64              `json:"resource_size,omitempty" yaml:"resource_size,omitempty"`
	Valence          uint32              `json:"valence,omitempty" yaml:"valence,omitempty"`
	CreatedTime      time.Time           `json:"created" yaml:"created"`
	ModifiedTime     time.Time           `json:"modified" yaml:"modified"`
	AttributeModTime time.Time           `json:"attribute_modified,omitempty" yaml:"attribute_modified,omitempty"`
	AccessedTime     time.Time           `json:"accessed,omitempty" yaml:"accessed,omitempty"`
	BackupTime       time.Time           `json:"backup,omitempty" yaml:"backup,omitempty"`
	Mode             uint16              `json:"mode,omitempty" yaml:"mode,omitempty"`
	UID              uint32              `json:"uid,omitempty" yaml:"uid,omitempty"`
	GID              uint32              `json:"gid,omitempty" yaml:"gid,omitempty"`
	FileType         string              `json:"file_type,omitempty" yaml:"file_type,omitempty"`
	Creator          string              `json:"creator,omitempty" yaml:"creator,omitempty"`
	IsSymlink        bool                `json:"is_symlink,omitempty" yaml:"is_symlink,omitempty"`
	IsHardLink       bool                `json:"is_hard_link,omitempty" yaml:"is_hard_link,omitempty"`
	IsLocked         bool                `json:"is_locked,omitempty" yaml:"is_locked,omitempty"`
	IsCompressed     bool                `json:"is_compressed,omitempty" yaml:"is_compressed,omitempty"`
}

// ExtentMapping describes where a run of fork bytes lives on the volume
type ExtentMapping struct {
	Fork           types.ForkType `json:"fork" yaml:"fork"`
	LogicalOffset  uint64         `json:"logical_offset" yaml:"logical_offset"`
	StartBlock     uint32         `json:"start_block" yaml:"start_block"`
	BlockCount     uint32         `json:"block_count" yaml:"block_count"`
	PhysicalOffset int64          `json:"physical_offset" yaml:"physical_offset"`
	Length         uint64         `json:"length" yaml:"length"`
}

// SpaceStats contains allocation block usage
type SpaceStats struct {
	BlockSize       uint32  `json:"block_size" yaml:"block_size"`
	TotalBlocks     uint32  `json:"total_blocks" yaml:"total_blocks"`
	FreeBlocks      uint32  `json:"free_blocks" yaml:"free_blocks"`
	TotalCapacity   uint64  `json:"total_capacity" yaml:"total_capacity"`
	UsedSpace       uint64  `json:"used_space" yaml:"used_space"`
	FreeSpace       uint64  `json:"free_space" yaml:"free_space"`
	UsagePercentage float64 `json:"usage_percentage" yaml:"usage_percentage"`
}

// BTreeStatistics summarizes a B-tree header record
type BTreeStatistics struct {
	Depth        uint16 `json:"depth" yaml:"depth"`
	RootNode     uint32 `json:"root_node" yaml:"root_node"`
	LeafRecords  uint32 `json:"leaf_records" yaml:"leaf_records"`
	NodeSize     uint16 `json:"node_size" yaml:"node_size"`
	TotalNodes   uint32 `json:"total_nodes" yaml:"total_nodes"`
	FreeNodes    uint32 `json:"free_nodes" yaml:"free_nodes"`
	MaxKeyLength uint16 `json:"max_key_length" yaml:"max_key_length"`
}

// SystemFileReport describes the fork of one special file
type SystemFileReport struct {
	Name        string                   `json:"name" yaml:"name"`
	CNID        types.CatalogNodeID      `json:"cnid" yaml:"cnid"`
	LogicalSize uint64                   `json:"logical_size" yaml:"logical_size"`
	TotalBlocks uint64                   `json:"total_blocks" yaml:"total_blocks"`
	Extents     []types.ExtentDescriptor `json:"extents" yaml:"extents"`
}

// JournalReport describes the journal info block
type JournalReport struct {
	InfoBlock     uint32 `json:"info_block" yaml:"info_block"`
	Flags         uint32 `json:"flags" yaml:"flags"`
	InFileSystem  bool   `json:"in_file_system" yaml:"in_file_system"`
	OnOtherDevice bool   `json:"on_other_device" yaml:"on_other_device"`
	NeedsInit     bool   `json:"needs_init" yaml:"needs_init"`
	Offset        uint64 `json:"offset" yaml:"offset"`
	Size          uint64 `json:"size" yaml:"size"`
}

// VolumeReport is the decoded volume header together with the state of its special files
type VolumeReport struct {
	Dialect            string              `json:"dialect" yaml:"dialect"`
	Signature          string              `json:"signature" yaml:"signature"`
	Name               string              `json:"name" yaml:"name"`
	CreateDate         time.Time           `json:"create_date" yaml:"create_date"`
	ModifyDate         time.Time           `json:"modify_date" yaml:"modify_date"`
	BackupDate         time.Time           `json:"backup_date" yaml:"backup_date"`
	CheckedDate        *time.Time          `json:"checked_date,omitempty" yaml:"checked_date,omitempty"`
	FileCount          uint32              `json:"file_count" yaml:"file_count"`
	FolderCount        uint32              `json:"folder_count" yaml:"folder_count"`
	NextCatalogID      types.CatalogNodeID `json:"next_catalog_id" yaml:"next_catalog_id"`
	Attributes         uint32              `json:"attributes" yaml:"attributes"`
	LastMountedVersion string              `json:"last_mounted_version,omitempty" yaml:"last_mounted_version,omitempty"`
	AllocationStart    int64               `json:"allocation_start" yaml:"allocation_start"`
	FileSystemEnd      int64               `json:"file_system_end" yaml:"file_system_end"`
	Space              SpaceStats          `json:"space" yaml:"space"`
	SystemFiles        []SystemFileReport  `json:"system_files" yaml:"system_files"`
	Catalog            BTreeStatistics     `json:"catalog" yaml:"catalog"`
	ExtentsOverflow    BTreeStatistics     `json:"extents_overflow" yaml:"extents_overflow"`
	AttributesTree     *BTreeStatistics    `json:"attributes_tree,omitempty" yaml:"attributes_tree,omitempty"`
	Journal            *JournalReport      `json:"journal,omitempty" yaml:"journal,omitempty"`
}

// DecmpfsEntry is one compressed file found by a decmpfs scan
type DecmpfsEntry struct {
	CNID             types.CatalogNodeID `json:"cnid" yaml:"cnid"`
	CompressionType  uint32              `json:"type" yaml:"type"`
	CompressionName  string              `json:"type_name" yaml:"type_name"`
	UncompressedSize uint64              `json:"size" yaml:"size"`
	Path             string              `json:"path,omitempty" yaml:"path,omitempty"`
}

// ScanWarning is a decmpfs attribute that was skipped
type ScanWarning struct {
	CNID   types.CatalogNodeID `json:"cnid" yaml:"cnid"`
	Reason string              `json:"reason" yaml:"reason"`
}

// DecmpfsScanResult collects the outcome of a decmpfs scan
type DecmpfsScanResult struct {
	Entries  []DecmpfsEntry `json:"entries" yaml:"entries"`
	Warnings []ScanWarning  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// SearchFilter selects catalog entries. Zero fields match everything.
type SearchFilter struct {
	NamePattern    string
	NameRegex      *regexp.Regexp
	Extension      string
	MinSize        uint64
	MaxSize        uint64
	ModifiedAfter  time.Time
	ModifiedBefore time.Time
	FilesOnly      bool
	FoldersOnly    bool
	MaxResults     int
}
