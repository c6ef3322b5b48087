package list

import (
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// Request represents a directory listing request
type Request struct {
	Target app.ImageTarget

	// Path of the folder (or file) to list, "/" when empty
	Path      string
	Recursive bool
	// ShowHidden includes names starting with a dot
	ShowHidden bool
}

// Response represents a directory listing
type Response struct {
	Path       string          `json:"path" yaml:"path"`
	VolumeName string          `json:"volume_name" yaml:"volume_name"`
	Entries    []app.FileEntry `json:"entries" yaml:"entries"`
	TotalFiles int             `json:"total_files" yaml:"total_files"`
	TotalDirs  int             `json:"total_dirs" yaml:"total_dirs"`
	TotalSize  uint64          `json:"total_size" yaml:"total_size"`
}
