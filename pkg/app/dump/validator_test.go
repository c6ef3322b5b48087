package dump

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
			request: Request{Target: app.ImageTarget{Path: "disk.img", Partition: device.AutoPartition}, OutputPath: "meta.img"},
		},
		{
			name:    "missing image path",
			request: Request{Target: app.ImageTarget{Partition: device.AutoPartition}, OutputPath: "meta.img"},
			wantErr: true,
		},
		{
			name:    "missing output path",
			request: Request{Target: app.ImageTarget{Path: "disk.img", Partition: device.AutoPartition}},
			wantErr: true,
		},
		{
			name:    "output overwrites image",
			request: Request{Target: app.ImageTarget{Path: "./images/disk.img", Partition: 0}, OutputPath: "images/disk.img"},
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
			var appErr *app.CommonError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, app.ErrCodeInvalidInput, appErr.Code)
		})
	}
}
