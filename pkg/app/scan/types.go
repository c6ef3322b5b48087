package scan

import (
	"github.com/deploymenttheory/go-hfs/internal/services"
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// Request represents a decmpfs scan request
type Request struct {
	Target app.ImageTarget

	// WithPaths resolves the catalog path of every compressed file
	WithPaths bool
}

// Response lists the compressed files of a volume
type Response struct {
	VolumeName string                  `json:"volume_name" yaml:"volume_name"`
	Entries    []services.DecmpfsEntry `json:"entries" yaml:"entries"`
	Warnings   []services.ScanWarning  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	// ByType counts entries per compression scheme name
	ByType map[string]int `json:"by_type" yaml:"by_type"`
	// TotalUncompressed is the sum of the uncompressed sizes
	TotalUncompressed uint64 `json:"total_uncompressed" yaml:"total_uncompressed"`
}
