package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-hfs/internal/testutil"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

func TestOpenVolume(t *testing.T) {
	_, v, _ := openFixture(t)

	assert.Equal(t, types.DialectHFSPlus, v.Dialect())
	assert.Equal(t, uint32(fixtureBlockSize), v.Reader().BlockSize())
	_, ok := v.Attributes()
	assert.True(t, ok)

	name, err := v.Name()
	require.NoError(t, err)
	assert.Equal(t, "Test Volume", name)
}

func TestOpenVolumeErrors(t *testing.T) {
	tests := []struct {
		name    string
		image   func() []byte
		wantErr error
	}{
		{
			name:    "too small",
			image:   func() []byte { return make([]byte, 1024) },
			wantErr: types.ErrInsufficientData,
		},
		{
			name:    "no signature",
			image:   func() []byte { return make([]byte, 4096) },
			wantErr: types.ErrInvalidSignature,
		},
		{
			name: "uneven block size",
			image: func() []byte {
				img := make([]byte, 4096)
				copy(img[types.VolumeHeaderOffset:], testutil.HFSPlusVolumeHeader(testutil.VolumeHeaderOptions{
					BlockSize:   700,
					TotalBlocks: 5,
				}))
				return img
			},
			wantErr: types.ErrInvalidBlockSize,
		},
		{
			name: "catalog outside the volume",
			image: func() []byte {
				b := testutil.NewImageBuilder(512, 16)
				b.SetSystemFile(types.SystemFileCatalog, 4096, []types.ExtentDescriptor{{StartBlock: 100, BlockCount: 8}})
				b.SystemFile(types.SystemFileExtents, extentsTree(types.ExtentDescriptor{})...)
				return b.Build(testutil.VolumeHeaderOptions{})
			},
			wantErr: types.ErrInsufficientData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OpenVolume(bytes.NewReader(tt.image()), nil, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerateVolumeReport(t *testing.T) {
	f, v, _ := openFixture(t)

	report, err := v.GenerateVolumeReport()
	require.NoError(t, err)

	assert.Equal(t, "HFS+", report.Dialect)
	assert.Equal(t, "H+", report.Signature)
	assert.Equal(t, "Test Volume", report.Name)
	assert.Equal(t, types.MacTimeToTime(fixtureDate), report.CreateDate)
	assert.Equal(t, uint32(2), report.FileCount)
	assert.Equal(t, uint32(1), report.FolderCount)
	assert.Equal(t, types.CatalogNodeID(19), report.NextCatalogID)
	assert.Equal(t, "10.0", report.LastMountedVersion)
	assert.Equal(t, int64(fixtureTotalBlocks*fixtureBlockSize), report.FileSystemEnd)

	assert.Equal(t, uint32(3), report.Catalog.RootNode)
	assert.Equal(t, uint16(catalogNodeSize), report.Catalog.NodeSize)
	assert.Equal(t, uint32(8), report.Catalog.LeafRecords)
	assert.Equal(t, uint16(1), report.ExtentsOverflow.Depth)
	require.NotNil(t, report.AttributesTree)
	assert.Equal(t, uint32(5), report.AttributesTree.LeafRecords)

	require.NotNil(t, report.Journal)
	assert.Equal(t, f.jibBlock, report.Journal.InfoBlock)
	assert.True(t, report.Journal.InFileSystem)
	assert.Equal(t, uint64(f.journalStart)*fixtureBlockSize, report.Journal.Offset)
	assert.Equal(t, uint64(2*fixtureBlockSize), report.Journal.Size)

	byName := make(map[string]SystemFileReport)
	for _, sf := range report.SystemFiles {
		byName[sf.Name] = sf
	}
	require.Len(t, byName, len(types.AllSystemFiles))
	catalogReport := byName[types.SystemFileCatalog.String()]
	assert.Equal(t, types.CNIDCatalogFile, catalogReport.CNID)
	assert.Equal(t, uint64(4*catalogNodeSize), catalogReport.LogicalSize)
	assert.Equal(t, []types.ExtentDescriptor{{StartBlock: f.catalogStart, BlockCount: 8}}, catalogReport.Extents)
	assert.Empty(t, byName[types.SystemFileStartup.String()].Extents)
}

func TestGetSpaceUsageStats(t *testing.T) {
	_, v, _ := openFixture(t)

	stats := v.GetSpaceUsageStats()
	assert.Equal(t, uint32(fixtureTotalBlocks), stats.TotalBlocks)
	assert.Equal(t, uint64(fixtureTotalBlocks*fixtureBlockSize), stats.TotalCapacity)
	assert.Equal(t, stats.TotalCapacity, stats.UsedSpace+stats.FreeSpace)
	assert.InDelta(t, float64(stats.UsedSpace)/float64(stats.TotalCapacity)*100, stats.UsagePercentage, 0.001)
}

func TestVolumeJournalNotJournaled(t *testing.T) {
	b := testutil.NewImageBuilder(fixtureBlockSize, 64)
	b.SystemFile(types.SystemFileExtents, extentsTree(types.ExtentDescriptor{})...)
	b.SystemFile(types.SystemFileCatalog, catalogTree(nil)...)
	v, err := OpenVolume(bytes.NewReader(b.Build(testutil.VolumeHeaderOptions{})), nil, nil)
	require.NoError(t, err)

	_, ok := v.Attributes()
	assert.False(t, ok)
	_, err = v.Journal()
	assert.ErrorIs(t, err, types.ErrNotFound)

	report, err := v.GenerateVolumeReport()
	require.NoError(t, err)
	assert.Nil(t, report.Journal)
	assert.Nil(t, report.AttributesTree)
}
