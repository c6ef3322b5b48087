package dump

import (
	"path/filepath"

	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// Validate validates a dump request
func (r *Request) Validate() error {
	if err := r.Target.Validate(); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid image target", err)
	}
	if r.OutputPath == "" {
		return app.NewError(app.ErrCodeInvalidInput, "output path is required", nil)
	}
	if filepath.Clean(r.OutputPath) == filepath.Clean(r.Target.Path) {
		return app.NewError(app.ErrCodeInvalidInput, "output path must differ from the image path", nil)
	}
	return nil
}
