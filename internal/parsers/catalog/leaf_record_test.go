package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-hfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-hfs/internal/testutil"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

func TestDecodeLeafNodeHFSPlus(t *testing.T) {
	records := [][]byte{
		testutil.Concat(
			testutil.HFSPlusCatalogKey(2, "Documents"),
			testutil.HFSPlusFolderRecord(16, 1, 3600000000),
		),
		testutil.Concat(
			testutil.HFSPlusCatalogKey(16, "readme.txt"),
			testutil.HFSPlusFileRecord(testutil.HFSPlusFileRecordOptions{
				FileID:      17,
				CreateDate:  3600000000,
				FileMode:    types.ModeRegular | 0644,
				DataSize:    5000,
				DataExtents: []types.ExtentDescriptor{{StartBlock: 120, BlockCount: 2}},
			}),
		),
		testutil.Concat(
			testutil.HFSPlusCatalogKey(17, ""),
			testutil.HFSPlusThreadRecord(types.CatalogFileThreadRecord, 16, "readme.txt"),
		),
	}
	node := testutil.BuildNode(4096, types.NodeKindLeaf, 1, 0, 0, records...)

	leaf, err := DecodeLeafNode(node, 0, 4096, types.DialectHFSPlus, nil)
	require.NoError(t, err)
	require.Equal(t, 3, leaf.NumRecords())

	folder, ok := leaf.Record(0).(*FolderRecord)
	require.True(t, ok, "record 0 is %T", leaf.Record(0))
	assert.Equal(t, "Documents", decodeName(t, folder.Key().NodeName()))
	assert.Equal(t, types.CatalogNodeID(2), folder.Key().ParentID())
	assert.Equal(t, types.CatalogNodeID(16), folder.Folder.FolderID())
	assert.Equal(t, uint32(1), folder.Folder.Valence())

	file, ok := leaf.Record(1).(*FileRecord)
	require.True(t, ok, "record 1 is %T", leaf.Record(1))
	assert.Equal(t, "readme.txt", decodeName(t, file.Key().NodeName()))
	assert.Equal(t, types.CatalogNodeID(16), file.Key().ParentID())
	assert.Equal(t, types.CatalogNodeID(17), file.File.FileID())
	assert.Equal(t, uint64(5000), file.File.DataFork().LogicalSize())
	assert.Equal(t, uint64(2), file.File.DataFork().BasicExtentsBlockCount())
	assert.False(t, file.File.IsHardFileLink())

	thread, ok := leaf.Record(2).(*FileThreadRecord)
	require.True(t, ok, "record 2 is %T", leaf.Record(2))
	assert.Equal(t, types.CatalogNodeID(17), thread.Key().ParentID())
	assert.Equal(t, types.CatalogNodeID(16), thread.Thread.ParentID())
	assert.Equal(t, "readme.txt", decodeName(t, thread.Thread.NodeName()))

	for i, r := range leaf.Records() {
		assert.Equal(t, records[i], r.Bytes(), "record %d round trip", i)
		assert.Equal(t, len(records[i]), r.Size())
	}
}

func TestDecodeLeafRecordHFS(t *testing.T) {
	tests := []struct {
		name     string
		record   []byte
		wantType types.CatalogRecordType
		check    func(t *testing.T, r LeafRecord)
	}{
		{
			name: "folder with padded key",
			record: testutil.Concat(
				testutil.Pad(testutil.HFSCatalogKey(1, []byte("Disk"))),
				testutil.HFSFolderRecord(2, 4, 3000000000),
			),
			wantType: types.CatalogFolderRecord,
			check: func(t *testing.T, r LeafRecord) {
				f := r.(*FolderRecord).Folder
				assert.Equal(t, types.CatalogNodeID(2), f.FolderID())
				assert.Equal(t, uint32(4), f.Valence())
				_, ok := f.Permissions()
				assert.False(t, ok)
			},
		},
		{
			name: "file with MacRoman name",
			record: testutil.Concat(
				testutil.Pad(testutil.HFSCatalogKey(2, []byte{'C', 'a', 'f', 0x8E})),
				testutil.HFSFileRecord(20, 700, types.ExtentDescriptor{StartBlock: 9, BlockCount: 1}),
			),
			wantType: types.CatalogFileRecord,
			check: func(t *testing.T, r LeafRecord) {
				assert.Equal(t, "Café", decodeName(t, r.Key().NodeName()))
				f := r.(*FileRecord).File
				assert.Equal(t, types.CatalogNodeID(20), f.FileID())
				assert.Equal(t, uint64(700), f.DataFork().LogicalSize())
				assert.Equal(t, uint64(1024), f.DataFork().PhysicalSize())
				assert.Equal(t, types.NewFourCC("TEXT"), f.FinderInfo().FileType)
				assert.False(t, f.IsSymbolicLink())
			},
		},
		{
			name: "folder thread",
			record: testutil.Concat(
				testutil.Pad(testutil.HFSCatalogKey(2, nil)),
				testutil.HFSThreadRecord(types.CatalogFolderThreadRecord, 1, []byte("Disk")),
			),
			wantType: types.CatalogFolderThreadRecord,
			check: func(t *testing.T, r LeafRecord) {
				th := r.(*FolderThreadRecord).Thread
				assert.Equal(t, types.CatalogNodeID(1), th.ParentID())
				assert.Equal(t, "Disk", decodeName(t, th.NodeName()))
			},
		},
		{
			name: "file thread",
			record: testutil.Concat(
				testutil.Pad(testutil.HFSCatalogKey(20, nil)),
				testutil.HFSThreadRecord(types.CatalogFileThreadRecord, 2, []byte("Notes")),
			),
			wantType: types.CatalogFileThreadRecord,
			check: func(t *testing.T, r LeafRecord) {
				assert.Equal(t, types.CatalogNodeID(2), r.(*FileThreadRecord).Thread.ParentID())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := DecodeLeafRecord(tt.record, 0, len(tt.record), types.DialectHFS, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, rec.RecordType())
			assert.Equal(t, tt.record, rec.Bytes())
			assert.Equal(t, len(tt.record), rec.Size())
			tt.check(t, rec)
		})
	}
}

func TestDecodeLeafRecordInvalidType(t *testing.T) {
	tests := []struct {
		name    string
		dialect types.Dialect
		record  []byte
	}{
		{
			name:    "HFS+ tag 5",
			dialect: types.DialectHFSPlus,
			record:  testutil.Concat(testutil.HFSPlusCatalogKey(2, "x"), []byte{0x00, 0x05}, make([]byte, 20)),
		},
		{
			name:    "HFS tag 0",
			dialect: types.DialectHFS,
			record:  testutil.Concat(testutil.Pad(testutil.HFSCatalogKey(2, []byte("x"))), make([]byte, 20)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLeafRecord(tt.record, 0, len(tt.record), tt.dialect, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrInvalidRecordType)
		})
	}
}

func TestDecodeLeafRecordTruncated(t *testing.T) {
	record := testutil.Concat(testutil.HFSPlusCatalogKey(2, "Documents"), testutil.HFSPlusFolderRecord(16, 0, 0))
	_, err := DecodeLeafRecord(record, 0, len(record)-10, types.DialectHFSPlus, nil)
	assert.ErrorIs(t, err, types.ErrInsufficientData)
}

func TestFileLinks(t *testing.T) {
	tests := []struct {
		name        string
		opts        testutil.HFSPlusFileRecordOptions
		wantFile    bool
		wantDir     bool
		wantSymlink bool
		wantInode   uint32
	}{
		{
			name:      "file hard link",
			opts:      testutil.HFSPlusFileRecordOptions{FileID: 30, FileType: "hlnk", Creator: "hfs+", Special: 412},
			wantFile:  true,
			wantInode: 412,
		},
		{
			name:      "directory hard link",
			opts:      testutil.HFSPlusFileRecordOptions{FileID: 31, FileType: "fdrp", Creator: "MACS", Special: 77},
			wantDir:   true,
			wantInode: 77,
		},
		{
			name:        "symlink by mode",
			opts:        testutil.HFSPlusFileRecordOptions{FileID: 32, FileMode: types.ModeSymlink | 0755},
			wantSymlink: true,
		},
		{
			name:        "symlink by Finder codes",
			opts:        testutil.HFSPlusFileRecordOptions{FileID: 33, FileType: "slnk", Creator: "rhap"},
			wantSymlink: true,
		},
		{
			name: "regular file",
			opts: testutil.HFSPlusFileRecordOptions{FileID: 34, FileMode: types.ModeRegular | 0644, FileType: "TEXT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := DecodeHFSPlusFile(testutil.HFSPlusFileRecord(tt.opts), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFile, f.IsHardFileLink())
			assert.Equal(t, tt.wantDir, f.IsHardDirectoryLink())
			assert.Equal(t, tt.wantSymlink, f.IsSymbolicLink())
			if tt.wantInode != 0 {
				assert.Equal(t, tt.wantInode, f.HardLinkInode())
			}
		})
	}
}

func TestAttributesDates(t *testing.T) {
	hfsFolder, err := DecodeHFSFolder(testutil.HFSFolderRecord(2, 0, 3000000000), 0)
	require.NoError(t, err)
	a := hfsFolder.Attributes()
	assert.True(t, a.HasCreateDate())
	assert.True(t, a.HasContentModDate())
	assert.False(t, a.HasAttributeModDate())
	assert.False(t, a.HasAccessDate())
	assert.True(t, a.HasBackupDate())
	assert.Equal(t, a.ContentModDate(), a.AccessDate())

	plusFolder, err := DecodeHFSPlusFolder(testutil.HFSPlusFolderRecord(16, 0, 3600000000), 0)
	require.NoError(t, err)
	b := plusFolder.Attributes()
	assert.True(t, b.HasAttributeModDate())
	assert.True(t, b.HasAccessDate())
	assert.Equal(t, types.CatalogFolderRecord, b.RecordType())
	assert.Equal(t, 2018, b.CreateTime().Year())

	perms, ok := plusFolder.Permissions()
	require.True(t, ok)
	assert.Equal(t, "drwxr-xr-x", types.PermissionString(perms.FileMode))
}

func TestDecodeIndexNodeHFS(t *testing.T) {
	indexKey := func(parentID uint32, name string) []byte {
		k := make([]byte, types.HFSCatalogIndexKeyLength+1)
		copy(k, testutil.HFSCatalogKey(parentID, []byte(name)))
		k[0] = types.HFSCatalogIndexKeyLength
		return k
	}
	records := [][]byte{
		testutil.IndexRecord(indexKey(1, "Disk"), 3),
		testutil.IndexRecord(indexKey(2, "System"), 4),
	}
	node := testutil.BuildNode(512, types.NodeKindIndex, 2, 0, 0, records...)

	index, err := DecodeIndexNode(node, 0, 512, types.DialectHFS, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint32{3, 4}, index.ChildNodes())
	assert.Equal(t, "System", decodeName(t, index.Record(1).Key().NodeName()))
	assert.Negative(t, index.Record(0).Key().Compare(index.Record(1).Key()))
	for i, r := range index.Records() {
		assert.Equal(t, records[i], r.Bytes())
	}
}

func TestDecodeLeafNodeUsesHeaderCompareType(t *testing.T) {
	opts := testutil.HeaderRecordOptions{NodeSize: 512, KeyCompareType: uint8(types.KeyCompareBinary)}
	header, err := btrees.DecodeHeaderRecord(testutil.BuildHeaderRecord(opts), 0, types.DialectHFSX)
	require.NoError(t, err)

	record := testutil.Concat(testutil.HFSPlusCatalogKey(2, "A"), testutil.HFSPlusFolderRecord(20, 0, 0))
	node := testutil.BuildNode(512, types.NodeKindLeaf, 1, 0, 0, record)

	leaf, err := DecodeLeafNode(node, 0, 512, types.DialectHFSX, header)
	require.NoError(t, err)
	assert.Equal(t, types.KeyCompareBinary, leaf.Record(0).Key().CompareType())

	leaf, err = DecodeLeafNode(node, 0, 512, types.DialectHFSX, nil)
	require.NoError(t, err)
	assert.Equal(t, types.KeyCompareCaseFolding, leaf.Record(0).Key().CompareType())
}

func decodeName(t *testing.T, s CatalogString) string {
	t.Helper()
	name, err := s.Decode(DefaultStringDecoder)
	require.NoError(t, err)
	return name
}
