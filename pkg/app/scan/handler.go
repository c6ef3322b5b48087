package scan

import (
	"fmt"

	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// Handle lists every file of the volume carrying a com.apple.decmpfs attribute
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log(fmt.Sprintf("Scanning %s for compressed files", req.Target.String()))
	ctx.Progress("Opening image...", 10)

	vol, err := app.OpenVolume(ctx, req.Target)
	if err != nil {
		return nil, err
	}
	defer vol.Close()

	ctx.Progress("Walking attributes tree...", 30)
	result, err := vol.Compression().ScanDecmpfs(ctx, req.WithPaths)
	if err != nil {
		return nil, app.WrapError("decmpfs scan failed", err)
	}

	response := &Response{
		Entries:  result.Entries,
		Warnings: result.Warnings,
		ByType:   make(map[string]int),
	}
	if name, err := vol.Name(); err == nil {
		response.VolumeName = name
	}
	for _, e := range result.Entries {
		response.ByType[e.CompressionName]++
		response.TotalUncompressed += e.UncompressedSize
	}

	ctx.Progress("Complete", 100)
	ctx.Log(fmt.Sprintf("Found %d compressed files, %d warnings", len(response.Entries), len(response.Warnings)))
	return response, nil
}
