package dsstore

import (
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// Request represents a .DS_Store inspection request. When Image.Path is set, File is a path
// inside that volume; otherwise it names a file on the host.
type Request struct {
	File  string
	Image app.ImageTarget

	// ExpandPlists renders embedded property lists as XML
	ExpandPlists bool
}

// Response describes the allocator, the record tree and every record of the file
type Response struct {
	Source    string        `json:"source" yaml:"source"`
	Size      int           `json:"size" yaml:"size"`
	Allocator AllocatorInfo `json:"allocator" yaml:"allocator"`
	Tree      TreeInfo      `json:"tree" yaml:"tree"`
	Nodes     []NodeInfo    `json:"nodes" yaml:"nodes"`
	Records   []RecordInfo  `json:"records" yaml:"records"`
}

// AllocatorInfo summarizes the buddy allocator's root block
type AllocatorInfo struct {
	RootBlockOffset uint32     `json:"root_block_offset" yaml:"root_block_offset"`
	RootBlockSize   uint32     `json:"root_block_size" yaml:"root_block_size"`
	BlockCount      int        `json:"block_count" yaml:"block_count"`
	TOC             []TOCEntry `json:"toc" yaml:"toc"`
}

// TOCEntry names a block of the allocator
type TOCEntry struct {
	Name    string `json:"name" yaml:"name"`
	BlockID uint32 `json:"block_id" yaml:"block_id"`
}

// TreeInfo is the DSDB tree header
type TreeInfo struct {
	HeaderBlock uint32 `json:"header_block" yaml:"header_block"`
	RootNode    uint32 `json:"root_node" yaml:"root_node"`
	Levels      uint32 `json:"levels" yaml:"levels"`
	Records     uint32 `json:"records" yaml:"records"`
	Nodes       uint32 `json:"nodes" yaml:"nodes"`
	PageSize    uint32 `json:"page_size" yaml:"page_size"`
}

// NodeInfo is one node of the record tree in walk order
type NodeInfo struct {
	BlockID  uint32   `json:"block_id" yaml:"block_id"`
	Depth    int      `json:"depth" yaml:"depth"`
	Leaf     bool     `json:"leaf" yaml:"leaf"`
	Records  int      `json:"records" yaml:"records"`
	Children []uint32 `json:"children,omitempty" yaml:"children,omitempty"`
}

// RecordInfo is a decoded record. Detail interprets known blob layouts.
type RecordInfo struct {
	Filename   string `json:"filename" yaml:"filename"`
	StructID   string `json:"struct_id" yaml:"struct_id"`
	StructType string `json:"struct_type" yaml:"struct_type"`
	Value      string `json:"value" yaml:"value"`
	Detail     string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Plist      string `json:"plist,omitempty" yaml:"plist,omitempty"`
}
