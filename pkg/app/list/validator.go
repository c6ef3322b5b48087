package list

import (
	"strings"

	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// Validate validates a listing request
func (r *Request) Validate() error {
	if err := r.Target.Validate(); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid image target", err)
	}
	if strings.ContainsRune(r.Path, 0) {
		return app.NewError(app.ErrCodeInvalidInput, "path contains a NUL character", nil)
	}
	return nil
}
