package info

import (
	"fmt"

	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// Handle processes a volume information request
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log(fmt.Sprintf("Reading volume information from: %s", req.Target.String()))
	ctx.Progress("Opening image...", 10)

	vol, err := app.OpenVolume(ctx, req.Target)
	if err != nil {
		return nil, err
	}
	defer vol.Close()

	ctx.Progress("Decoding volume header...", 50)
	report, err := vol.GenerateVolumeReport()
	if err != nil {
		return nil, app.WrapError("failed to build volume report", err)
	}
	if !req.IncludeSystemFiles {
		report.SystemFiles = nil
	}

	dev := vol.Device
	response := &Response{
		Image: ImageInfo{
			Path:            dev.Image().Path(),
			Format:          dev.Image().Format(),
			Size:            dev.Image().Size(),
			Scheme:          dev.Scheme(),
			VolumeOffset:    dev.VolumeOffset(),
			VolumeSize:      dev.Size(),
			Wrapped:         dev.Location().Wrapped,
			DetectionMethod: dev.Stats().DetectionMethod,
		},
		Partitions: dev.Partitions(),
		Volume:     report,
	}
	if p, ok := dev.Partition(); ok {
		index := p.Index
		response.Image.Partition = &index
	}

	ctx.Progress("Complete", 100)
	ctx.Log(fmt.Sprintf("Found %s volume %q", report.Dialect, report.Name))
	return response, nil
}
