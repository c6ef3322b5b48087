package dump

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// Handle writes a copy of the volume holding only its metadata sectors to req.OutputPath
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log(fmt.Sprintf("Dumping metadata of %s to %s", req.Target.String(), req.OutputPath))
	ctx.Progress("Opening image...", 5)

	vol, err := app.OpenVolume(ctx, req.Target)
	if err != nil {
		return nil, err
	}
	defer vol.Close()

	ctx.Progress("Locating metadata...", 20)
	dumper := vol.MetadataDumper()
	layout, err := dumper.MetadataSectors()
	if err != nil {
		return nil, app.WrapError("failed to locate metadata", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !req.Force {
		flags |= os.O_EXCL
	}
	out, err := os.OpenFile(req.OutputPath, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("%s already exists", req.OutputPath), err)
		}
		return nil, app.NewError(app.ErrCodeDevice, "failed to create output file", err)
	}

	ctx.Progress("Writing sectors...", 30)
	var w io.Writer = out
	logger := logrus.StandardLogger()
	if ctx.Logger != nil {
		logger = ctx.Logger.Logger
	}
	if !req.NoProgress && !ctx.Quiet && showProgress(logger) {
		bar, err := newProgressBar(int64(layout.SectorCount) * 512)
		if err == nil {
			bar.Start()
			defer bar.Finish()
			w = bar.NewProxyWriter(out)
		} else {
			ctx.Debug(fmt.Sprintf("Progress bar unavailable: %v", err))
		}
	}

	written, err := dumper.DumpLayout(ctx, layout, w)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(req.OutputPath); rerr != nil {
			ctx.WithFields(logrus.Fields{"path": req.OutputPath}).Warn(fmt.Sprintf("Cannot remove partial dump: %v", rerr))
		}
		return nil, app.WrapError("metadata dump failed", err)
	}

	response := &Response{
		Source:          req.Target.String(),
		OutputPath:      req.OutputPath,
		SectorCount:     layout.SectorCount,
		MetadataSectors: layout.Sectors.Count(),
		BytesWritten:    written,
		Ranges:          layout.Sectors.Clip(layout.SectorCount),
		Duration:        time.Since(startTime),
	}

	ctx.Progress("Complete", 100)
	ctx.Log(fmt.Sprintf("Wrote %d sectors (%d metadata) in %v", response.SectorCount, response.MetadataSectors, response.Duration))
	return response, nil
}
