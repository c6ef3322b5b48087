package discover

import (
	"fmt"
	"regexp"
	"time"

	"github.com/docker/go-units"

	"github.com/deploymenttheory/go-hfs/pkg/app"
)

const dateLayout = "2006-01-02"

// Validate validates a discovery request
func (r *Request) Validate() error {
	if err := r.Target.Validate(); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid image target", err)
	}

	// Validate regex pattern if provided
	if r.NameRegex != "" {
		if _, err := regexp.Compile(r.NameRegex); err != nil {
			return app.NewError(app.ErrCodeInvalidInput, "invalid regex pattern", err)
		}
	}

	// Validate size formats
	var minSize, maxSize int64
	if r.MinSize != "" {
		size, err := ParseSize(r.MinSize)
		if err != nil {
			return app.NewError(app.ErrCodeInvalidInput, "invalid min-size format", err)
		}
		minSize = size
	}
	if r.MaxSize != "" {
		size, err := ParseSize(r.MaxSize)
		if err != nil {
			return app.NewError(app.ErrCodeInvalidInput, "invalid max-size format", err)
		}
		maxSize = size
	}
	if maxSize > 0 && minSize > maxSize {
		return app.NewError(app.ErrCodeInvalidInput, "min-size is larger than max-size", nil)
	}

	// Validate date formats
	if r.ModifiedAfter != "" {
		if _, err := time.Parse(dateLayout, r.ModifiedAfter); err != nil {
			return app.NewError(app.ErrCodeInvalidInput, "invalid date format for modified-after, use YYYY-MM-DD", err)
		}
	}
	if r.ModifiedBefore != "" {
		if _, err := time.Parse(dateLayout, r.ModifiedBefore); err != nil {
			return app.NewError(app.ErrCodeInvalidInput, "invalid date format for modified-before, use YYYY-MM-DD", err)
		}
	}

	// Validate max results
	if r.MaxResults < 1 || r.MaxResults > 10000 {
		return app.NewError(app.ErrCodeInvalidInput, "max results must be between 1 and 10000", nil)
	}

	// Check for conflicting search criteria
	if r.NamePattern != "" && r.NameRegex != "" {
		return app.NewError(app.ErrCodeInvalidInput, "cannot specify both name pattern and regex", nil)
	}

	return nil
}

// ParseSize converts size strings like "10MB" or "1.5g" to bytes. Units are binary.
func ParseSize(size string) (int64, error) {
	bytes, err := units.RAMInBytes(size)
	if err != nil {
		return 0, err
	}
	if bytes < 0 {
		return 0, fmt.Errorf("negative size: %s", size)
	}
	return bytes, nil
}
