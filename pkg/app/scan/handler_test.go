package scan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-hfs/internal/device"
	"github.com/deploymenttheory/go-hfs/internal/services"
	"github.com/deploymenttheory/go-hfs/internal/testutil"
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

func newContext() *app.Context {
	ctx := app.NewContext()
	ctx.Quiet = true
	return ctx
}

func TestHandle(t *testing.T) {
	target := app.ImageTarget{Path: testutil.WriteSampleImage(t), Partition: device.AutoPartition}

	tests := []struct {
		name      string
		withPaths bool
		wantPath  string
	}{
		{name: "without paths"},
		{name: "with paths", withPaths: true, wantPath: "/readme.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Handle(newContext(), &Request{Target: target, WithPaths: tt.withPaths})
			require.NoError(t, err)

			want := []services.DecmpfsEntry{{
				CNID:             19,
				CompressionType:  3,
				CompressionName:  "zlib (inline)",
				UncompressedSize: uint64(len(testutil.SampleReadme)),
				Path:             tt.wantPath,
			}}
			if diff := cmp.Diff(want, resp.Entries); diff != "" {
				t.Errorf("Handle() entries mismatch (-want +got):\n%s", diff)
			}
			assert.Empty(t, resp.Warnings)
			assert.Equal(t, testutil.SampleName, resp.VolumeName)
			assert.Equal(t, map[string]int{"zlib (inline)": 1}, resp.ByType)
			assert.Equal(t, uint64(len(testutil.SampleReadme)), resp.TotalUncompressed)
		})
	}
}

func TestHandleErrors(t *testing.T) {
	_, err := Handle(newContext(), &Request{Target: app.ImageTarget{Partition: device.AutoPartition}})
	var appErr *app.CommonError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, app.ErrCodeInvalidInput, appErr.Code)

	_, err = Handle(newContext(), &Request{
		Target: app.ImageTarget{Path: testutil.WriteImage(t, make([]byte, 8192)), Partition: device.AutoPartition},
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, app.ErrCodeCorruptedData, appErr.Code)
}
