package scan

import (
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// Validate validates a scan request
func (r *Request) Validate() error {
	if err := r.Target.Validate(); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid image target", err)
	}
	return nil
}
