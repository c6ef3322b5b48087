package info

import (
	"github.com/deploymenttheory/go-hfs/internal/device"
	"github.com/deploymenttheory/go-hfs/internal/services"
	"github.com/deploymenttheory/go-hfs/internal/types"
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// Request represents a volume information request
type Request struct {
	Target app.ImageTarget

	// IncludeSystemFiles lists the extents of the special files
	IncludeSystemFiles bool
}

// Response describes the image and the volume found in it
type Response struct {
	Image      ImageInfo              `json:"image" yaml:"image"`
	Partitions []device.Partition     `json:"partitions,omitempty" yaml:"partitions,omitempty"`
	Volume     *services.VolumeReport `json:"volume" yaml:"volume"`
}

// ImageInfo describes how the volume was located
type ImageInfo struct {
	Path            string                `json:"path" yaml:"path"`
	Format          string                `json:"format" yaml:"format"`
	Size            int64                 `json:"size" yaml:"size"`
	Scheme          types.PartitionScheme `json:"scheme" yaml:"scheme"`
	Partition       *int                  `json:"partition,omitempty" yaml:"partition,omitempty"`
	VolumeOffset    int64                 `json:"volume_offset" yaml:"volume_offset"`
	VolumeSize      int64                 `json:"volume_size" yaml:"volume_size"`
	Wrapped         bool                  `json:"wrapped" yaml:"wrapped"`
	DetectionMethod string                `json:"detection_method" yaml:"detection_method"`
}
