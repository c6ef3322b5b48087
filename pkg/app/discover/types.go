package discover

import (
	"time"

	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// Request represents a file discovery request
type Request struct {
	Target app.ImageTarget

	// Search criteria
	NamePattern    string
	NameRegex      string
	Extensions     []string
	CaseSensitive  bool
	MinSize        string
	MaxSize        string
	ModifiedAfter  string
	ModifiedBefore string
	ContentSearch  string
	IncludeFolders bool
	MaxResults     int
}

// Response represents discovery results
type Response struct {
	Files       []app.FileEntry `json:"files" yaml:"files"`
	TotalFound  int             `json:"total_found" yaml:"total_found"`
	SearchTime  time.Duration   `json:"search_time" yaml:"search_time"`
	VolumeInfo  VolumeInfo      `json:"volume_info" yaml:"volume_info"`
	Truncated   bool            `json:"truncated" yaml:"truncated"`
	SearchQuery SearchQuery     `json:"search_query" yaml:"search_query"`
}

// VolumeInfo represents information about the searched volume
type VolumeInfo struct {
	Name          string `json:"name" yaml:"name"`
	Dialect       string `json:"dialect" yaml:"dialect"`
	CaseSensitive bool   `json:"case_sensitive" yaml:"case_sensitive"`
	Journaled     bool   `json:"journaled" yaml:"journaled"`
	Partition     int    `json:"partition" yaml:"partition"`
}

// SearchQuery represents the executed search parameters
type SearchQuery struct {
	NamePattern    string   `json:"name_pattern,omitempty" yaml:"name_pattern,omitempty"`
	NameRegex      string   `json:"name_regex,omitempty" yaml:"name_regex,omitempty"`
	Extensions     []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	CaseSensitive  bool     `json:"case_sensitive" yaml:"case_sensitive"`
	MinSize        string   `json:"min_size,omitempty" yaml:"min_size,omitempty"`
	MaxSize        string   `json:"max_size,omitempty" yaml:"max_size,omitempty"`
	ModifiedAfter  string   `json:"modified_after,omitempty" yaml:"modified_after,omitempty"`
	ModifiedBefore string   `json:"modified_before,omitempty" yaml:"modified_before,omitempty"`
	ContentSearch  string   `json:"content_search,omitempty" yaml:"content_search,omitempty"`
	IncludeFolders bool     `json:"include_folders" yaml:"include_folders"`
	MaxResults     int      `json:"max_results" yaml:"max_results"`
}

// SizeClass represents file size categories for display
type SizeClass string

const (
	SizeClassTiny   SizeClass = "tiny"   // < 1KB
	SizeClassSmall  SizeClass = "small"  // < 1MB
	SizeClassMedium SizeClass = "medium" // < 100MB
	SizeClassLarge  SizeClass = "large"  // < 1GB
	SizeClassHuge   SizeClass = "huge"   // >= 1GB
)

// GetSizeClass returns the size class of a file size
func GetSizeClass(size uint64) SizeClass {
	switch {
	case size < 1024:
		return SizeClassTiny
	case size < 1024*1024:
		return SizeClassSmall
	case size < 100*1024*1024:
		return SizeClassMedium
	case size < 1024*1024*1024:
		return SizeClassLarge
	default:
		return SizeClassHuge
	}
}
