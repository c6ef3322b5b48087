package dsstore

import (
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// Validate validates a .DS_Store request
func (r *Request) Validate() error {
	if r.File == "" {
		return app.NewError(app.ErrCodeInvalidInput, ".DS_Store path is required", nil)
	}
	if r.Image.Path != "" {
		if err := r.Image.Validate(); err != nil {
			return app.NewError(app.ErrCodeInvalidInput, "invalid image target", err)
		}
	}
	return nil
}
