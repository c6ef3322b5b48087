package dump

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-hfs/internal/device"
	"github.com/deploymenttheory/go-hfs/internal/testutil"
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

func newContext() *app.Context {
	ctx := app.NewContext()
	ctx.Quiet = true
	return ctx
}

func TestHandle(t *testing.T) {
	imagePath := testutil.WriteSampleImage(t)
	outPath := filepath.Join(t.TempDir(), "meta.img")

	resp, err := Handle(newContext(), &Request{
		Target:     app.ImageTarget{Path: imagePath, Partition: device.AutoPartition},
		OutputPath: outPath,
		NoProgress: true,
	})
	require.NoError(t, err)

	image, err := os.ReadFile(imagePath)
	require.NoError(t, err)
	dumped, err := os.ReadFile(outPath)
	require.NoError(t, err)

	assert.Equal(t, int64(len(dumped)), resp.BytesWritten)
	assert.Equal(t, resp.SectorCount*512, uint64(len(dumped)))
	assert.Len(t, dumped, len(image))
	assert.NotEmpty(t, resp.Ranges)
	assert.Less(t, resp.MetadataSectors, resp.SectorCount)

	var marked uint64
	for _, r := range resp.Ranges {
		marked += r.Len()
	}
	assert.Equal(t, resp.MetadataSectors, marked)

	// Volume header survives, file contents do not
	assert.Equal(t, image[1024:1536], dumped[1024:1536])
	assert.True(t, bytes.Contains(image, []byte("meeting notes")))
	assert.False(t, bytes.Contains(dumped, []byte("meeting notes")))

	for _, r := range resp.Ranges {
		start, end := r.Start*512, r.End*512
		assert.Equal(t, image[start:end], dumped[start:end], "range %d-%d", r.Start, r.End)
	}
}

func TestHandleExistingOutput(t *testing.T) {
	imagePath := testutil.WriteSampleImage(t)
	outPath := filepath.Join(t.TempDir(), "meta.img")
	require.NoError(t, os.WriteFile(outPath, []byte("keep"), 0o644))

	req := &Request{
		Target:     app.ImageTarget{Path: imagePath, Partition: device.AutoPartition},
		OutputPath: outPath,
		NoProgress: true,
	}

	_, err := Handle(newContext(), req)
	var appErr *app.CommonError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, app.ErrCodeInvalidInput, appErr.Code)

	kept, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(kept))

	req.Force = true
	resp, err := Handle(newContext(), req)
	require.NoError(t, err)
	info, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.Equal(t, resp.BytesWritten, info.Size())
}

func TestHandleCorruptImage(t *testing.T) {
	imagePath := testutil.WriteImage(t, make([]byte, 64*1024))
	outPath := filepath.Join(t.TempDir(), "meta.img")

	_, err := Handle(newContext(), &Request{
		Target:     app.ImageTarget{Path: imagePath, Partition: device.AutoPartition},
		OutputPath: outPath,
		NoProgress: true,
	})
	var appErr *app.CommonError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, app.ErrCodeCorruptedData, appErr.Code)
	assert.NoFileExists(t, outPath)
}
