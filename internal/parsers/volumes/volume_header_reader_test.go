package volumes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/parsers/catalog"
	"github.com/deploymenttheory/go-hfs/internal/testutil"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

var _ interfaces.VolumeHeaderReader = (*VolumeHeader)(nil)

func TestFileSystemEnd(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		dialect types.Dialect
		want    int64
	}{
		{
			name:    "HFS+ blocks cover the volume",
			data:    testutil.HFSPlusVolumeHeader(testutil.VolumeHeaderOptions{TotalBlocks: 1000, BlockSize: 4096}),
			dialect: types.DialectHFSPlus,
			want:    4096000,
		},
		{
			name: "HFSX",
			data: testutil.HFSPlusVolumeHeader(testutil.VolumeHeaderOptions{
				Signature: types.SignatureHFSX, TotalBlocks: 10, BlockSize: 512,
			}),
			dialect: types.DialectHFSX,
			want:    5120,
		},
		{
			name: "HFS adds block start and two trailing sectors",
			data: testutil.MasterDirectoryBlock(testutil.MDBOptions{
				AllocationBlockStart: 3, TotalBlocks: 1000, BlockSize: 1024,
			}),
			dialect: types.DialectHFS,
			want:    1026560,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vh, err := DecodeVolumeHeader(tt.data, tt.dialect)
			require.NoError(t, err)
			assert.Equal(t, tt.want, vh.FileSystemEnd())
			assert.Equal(t, tt.dialect, vh.Dialect())
			assert.Equal(t, tt.data, vh.Bytes())
		})
	}
}

func TestDecodeMasterDirectoryBlock(t *testing.T) {
	data := testutil.MasterDirectoryBlock(testutil.MDBOptions{
		AllocationBlockStart: 16,
		TotalBlocks:          2000,
		BlockSize:            512,
		FreeBlocks:           100,
		NextCatalogID:        77,
		Name:                 "Macintosh HD",
		CreateDate:           types.MacEpochOffset,
		FileCount:            40,
		FolderCount:          5,
		ExtentsFileSize:      1024,
		ExtentsFile:          []types.ExtentDescriptor{{StartBlock: 0, BlockCount: 2}},
		CatalogFileSize:      4096,
		CatalogFile:          []types.ExtentDescriptor{{StartBlock: 2, BlockCount: 6}, {StartBlock: 30, BlockCount: 2}},
	})

	vh, err := DecodeAnyVolumeHeader(data)
	require.NoError(t, err)
	assert.Equal(t, types.DialectHFS, vh.Dialect())
	assert.Equal(t, uint32(512), vh.BlockSize())
	assert.Equal(t, uint32(2000), vh.TotalBlocks())
	assert.Equal(t, uint32(100), vh.FreeBlocks())
	assert.Equal(t, int64(16*512), vh.AllocationBlockStart())
	assert.Equal(t, int64(16*512+5*512), vh.BlockOffset(5))
	assert.Equal(t, types.CatalogNodeID(77), vh.NextCatalogID())
	assert.Equal(t, uint32(40), vh.FileCount())
	assert.Equal(t, uint32(5), vh.FolderCount())
	assert.Equal(t, int64(0), vh.CreateDate().Unix())
	assert.False(t, vh.IsJournaled())
	assert.Zero(t, vh.JournalInfoBlock())

	_, ok := vh.CheckedDate()
	assert.False(t, ok)

	name, ok := vh.VolumeName()
	require.True(t, ok)
	decoded, err := name.Decode(catalog.DefaultStringDecoder)
	require.NoError(t, err)
	assert.Equal(t, "Macintosh HD", decoded)

	catalogFork, ok := vh.SystemFork(types.SystemFileCatalog)
	require.True(t, ok)
	assert.Equal(t, uint64(4096), catalogFork.LogicalSize())
	assert.Equal(t, uint32(8), catalogFork.TotalBlocks())

	extentsFork, ok := vh.SystemFork(types.SystemFileExtents)
	require.True(t, ok)
	assert.Equal(t, uint32(2), extentsFork.TotalBlocks())

	for _, f := range []types.SystemFile{types.SystemFileAllocation, types.SystemFileAttributes, types.SystemFileStartup} {
		_, ok := vh.SystemFork(f)
		assert.False(t, ok, f.String())
	}

	_, _, ok = vh.EmbeddedVolume()
	assert.False(t, ok)
}

func TestEmbeddedVolume(t *testing.T) {
	data := testutil.MasterDirectoryBlock(testutil.MDBOptions{
		AllocationBlockStart: 10,
		TotalBlocks:          500,
		BlockSize:            4096,
		EmbedSignature:       types.SignatureHFSPlus,
		EmbedExtent:          types.ExtentDescriptor{StartBlock: 2, BlockCount: 490},
	})
	vh, err := DecodeVolumeHeader(data, types.DialectHFS)
	require.NoError(t, err)

	offset, length, ok := vh.EmbeddedVolume()
	require.True(t, ok)
	assert.Equal(t, int64(10*512+2*4096), offset)
	assert.Equal(t, int64(490*4096), length)
}

func TestDecodeHFSPlusVolumeHeader(t *testing.T) {
	catalogFork := testutil.HFSPlusForkData(8192, 4096, []types.ExtentDescriptor{{StartBlock: 100, BlockCount: 2}})
	data := testutil.HFSPlusVolumeHeader(testutil.VolumeHeaderOptions{
		Attributes:       1 << types.VolumeJournaledBit,
		JournalInfoBlock: 9,
		BlockSize:        4096,
		TotalBlocks:      1000,
		FreeBlocks:       900,
		NextCatalogID:    120,
		FileCount:        12,
		FolderCount:      4,
		CatalogFile:      catalogFork,
	})

	vh, err := DecodeAnyVolumeHeader(data)
	require.NoError(t, err)
	assert.Equal(t, types.DialectHFSPlus, vh.Dialect())
	assert.True(t, vh.IsJournaled())
	assert.Equal(t, uint32(9), vh.JournalInfoBlock())
	assert.Equal(t, types.CatalogNodeID(120), vh.NextCatalogID())
	assert.Equal(t, "10.0", vh.LastMountedVersion().String())
	assert.Zero(t, vh.AllocationBlockStart())

	_, ok := vh.VolumeName()
	assert.False(t, ok)

	for _, f := range types.AllSystemFiles {
		fork, ok := vh.SystemFork(f)
		require.True(t, ok, f.String())
		if f == types.SystemFileCatalog {
			assert.Equal(t, catalogFork, fork.Bytes())
		}
	}
}

func TestDecodeVolumeHeaderErrors(t *testing.T) {
	plus := testutil.HFSPlusVolumeHeader(testutil.VolumeHeaderOptions{BlockSize: 4096, TotalBlocks: 1})

	t.Run("dialect mismatch", func(t *testing.T) {
		_, err := DecodeVolumeHeader(plus, types.DialectHFSX)
		assert.ErrorIs(t, err, types.ErrInvalidSignature)
	})

	t.Run("MDB signature", func(t *testing.T) {
		_, err := DecodeVolumeHeader(plus, types.DialectHFS)
		assert.ErrorIs(t, err, types.ErrInvalidSignature)
	})

	t.Run("unknown signature", func(t *testing.T) {
		_, err := DecodeAnyVolumeHeader([]byte("XX rest"))
		assert.ErrorIs(t, err, types.ErrInvalidSignature)
	})

	t.Run("short", func(t *testing.T) {
		_, err := DecodeVolumeHeader(plus[:100], types.DialectHFSPlus)
		assert.ErrorIs(t, err, types.ErrInsufficientData)
	})
}

func TestDecodeJournalInfoBlock(t *testing.T) {
	jib, err := DecodeJournalInfoBlock(testutil.JournalInfoBlock(types.JournalInFSMask, 0x1234, 8<<20))
	require.NoError(t, err)
	assert.True(t, jib.InFileSystem())
	assert.False(t, jib.OnOtherDevice())
	assert.False(t, jib.NeedsInit())
	assert.Equal(t, uint64(0x1234), jib.Offset())
	assert.Equal(t, uint64(8<<20), jib.Size())

	first, end := jib.SectorRange(512)
	assert.Equal(t, uint64(9), first)
	assert.Equal(t, uint64((0x1234+8<<20+511)/512), end)

	_, err = DecodeJournalInfoBlock(make([]byte, 50))
	assert.ErrorIs(t, err, types.ErrInsufficientData)
}
