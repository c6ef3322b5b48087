package dump

import (
	"time"

	"github.com/deploymenttheory/go-hfs/internal/services"
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// Request represents a metadata dump request
type Request struct {
	Target     app.ImageTarget
	OutputPath string

	// Force overwrites an existing output file
	Force bool
	// NoProgress disables the progress bar
	NoProgress bool
}

// Response summarizes a finished dump
type Response struct {
	Source          string                 `json:"source" yaml:"source"`
	OutputPath      string                 `json:"output_path" yaml:"output_path"`
	SectorCount     uint64                 `json:"sector_count" yaml:"sector_count"`
	MetadataSectors uint64                 `json:"metadata_sectors" yaml:"metadata_sectors"`
	BytesWritten    int64                  `json:"bytes_written" yaml:"bytes_written"`
	Ranges          []services.SectorRange `json:"ranges" yaml:"ranges"`
	Duration        time.Duration          `json:"duration" yaml:"duration"`
}

// MetadataBytes returns the number of bytes copied from the volume
func (r *Response) MetadataBytes() uint64 {
	return r.MetadataSectors * 512
}
