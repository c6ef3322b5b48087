package info

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-hfs/internal/device"
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request Request
		wantErr bool
	}{
		{
			name:    "valid request",
			request: Request{Target: app.ImageTarget{Path: "disk.img", Partition: device.AutoPartition}},
		},
		{
			name:    "explicit partition",
			request: Request{Target: app.ImageTarget{Path: "disk.img", Partition: 2}},
		},
		{
			name:    "missing path",
			request: Request{Target: app.ImageTarget{Partition: device.AutoPartition}},
			wantErr: true,
		},
		{
			name:    "negative partition",
			request: Request{Target: app.ImageTarget{Path: "disk.img", Partition: -2}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var ce *app.CommonError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, app.ErrCodeInvalidInput, ce.Code)
		})
	}
}
