package services

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-hfs/internal/testutil"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

const (
	fixtureBlockSize   = 512
	fixtureTotalBlocks = 160
	fixtureDate        = 0xD0000000
	fixtureBigSize     = 9*fixtureBlockSize - 100
	catalogNodeSize    = 1024
	attributesNodeSize = 1024
	extentsNodeSize    = 512
)

var quarantine = []byte("0081;5f3c;Safari")

// fixture is a small journaled HFS+ volume:
//
//	/                 CNID 2, named "Test Volume"
//	/docs             CNID 16
//	/docs/big.bin     CNID 18, nine one-block extents, the last one in the overflow file
//	/hello.txt        CNID 17, compressed into its decmpfs attribute
type fixture struct {
	image      []byte
	bigData    []byte
	bigExtents []types.ExtentDescriptor
	// first block of each special file, and the journal
	extentsStart    uint32
	catalogStart    uint32
	attributesStart uint32
	allocationStart uint32
	jibBlock        uint32
	journalStart    uint32
}

func bigFileData() []byte {
	data := make([]byte, fixtureBigSize)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func buildFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{bigData: bigFileData()}
	b := testutil.NewImageBuilder(fixtureBlockSize, fixtureTotalBlocks)

	f.bigExtents = b.AllocateFragmented(f.bigData)
	require.Len(t, f.bigExtents, 9)

	f.extentsStart = b.SystemFile(types.SystemFileExtents, extentsTree(f.bigExtents[8])...).StartBlock
	f.catalogStart = b.SystemFile(types.SystemFileCatalog, catalogTree(f.bigExtents[:8])...).StartBlock
	f.attributesStart = b.SystemFile(types.SystemFileAttributes, attributesTree()...).StartBlock
	f.allocationStart = b.SystemFile(types.SystemFileAllocation, make([]byte, fixtureTotalBlocks/8)).StartBlock

	f.jibBlock = b.NextBlock()
	f.journalStart = f.jibBlock + 1
	b.Allocate(testutil.JournalInfoBlock(types.JournalInFSMask, uint64(f.journalStart)*fixtureBlockSize, 2*fixtureBlockSize))
	b.Allocate(bytes.Repeat([]byte{0x4A}, 2*fixtureBlockSize))

	f.image = b.Build(testutil.VolumeHeaderOptions{
		Attributes:       1 << types.VolumeJournaledBit,
		JournalInfoBlock: f.jibBlock,
		CreateDate:       fixtureDate,
		FileCount:        2,
		FolderCount:      1,
		NextCatalogID:    19,
	})
	return f
}

func (f *fixture) source() *bytes.Reader {
	return bytes.NewReader(f.image)
}

func extentsTree(overflow types.ExtentDescriptor) [][]byte {
	return [][]byte{
		testutil.BuildHeaderNode(testutil.HeaderRecordOptions{
			Depth:        1,
			Root:         1,
			LeafRecords:  1,
			FirstLeaf:    1,
			LastLeaf:     1,
			NodeSize:     extentsNodeSize,
			MaxKeyLength: types.HFSPlusExtentKeyLength,
			TotalNodes:   2,
			Attributes:   types.BTBigKeysMask,
		}, 2),
		testutil.BuildNode(extentsNodeSize, types.NodeKindLeaf, 1, 0, 0,
			testutil.Concat(testutil.HFSPlusExtentKey(18, types.ForkTypeData, 8), testutil.HFSPlusExtentRecord(overflow))),
	}
}

func catalogRecord(parentID uint32, name string, body []byte) []byte {
	return testutil.Concat(testutil.HFSPlusCatalogKey(parentID, name), body)
}

func catalogTree(bigExtents []types.ExtentDescriptor) [][]byte {
	return [][]byte{
		testutil.BuildHeaderNode(testutil.HeaderRecordOptions{
			Depth:        2,
			Root:         3,
			LeafRecords:  8,
			FirstLeaf:    1,
			LastLeaf:     2,
			NodeSize:     catalogNodeSize,
			MaxKeyLength: 516,
			TotalNodes:   4,
			Attributes:   types.BTBigKeysMask | types.BTVariableIndexKeysMask,
		}, 4),
		testutil.BuildNode(catalogNodeSize, types.NodeKindLeaf, 1, 2, 0,
			catalogRecord(1, "Test Volume", testutil.HFSPlusFolderRecord(2, 2, fixtureDate)),
			catalogRecord(2, "", testutil.HFSPlusThreadRecord(types.CatalogFolderThreadRecord, 1, "Test Volume")),
			catalogRecord(2, "docs", testutil.HFSPlusFolderRecord(16, 1, fixtureDate)),
			catalogRecord(2, "hello.txt", testutil.HFSPlusFileRecord(testutil.HFSPlusFileRecordOptions{
				FileID:     17,
				CreateDate: fixtureDate,
				ModifyDate: fixtureDate + 60,
				OwnerFlags: types.OwnerFlagCompressed,
				FileMode:   types.ModeRegular | 0644,
				FileType:   "TEXT",
				Creator:    "ttxt",
			})),
		),
		testutil.BuildNode(catalogNodeSize, types.NodeKindLeaf, 1, 0, 1,
			catalogRecord(16, "", testutil.HFSPlusThreadRecord(types.CatalogFolderThreadRecord, 2, "docs")),
			catalogRecord(16, "big.bin", testutil.HFSPlusFileRecord(testutil.HFSPlusFileRecordOptions{
				FileID:      18,
				CreateDate:  fixtureDate,
				ModifyDate:  fixtureDate + 3600,
				FileMode:    types.ModeRegular | 0600,
				DataSize:    fixtureBigSize,
				DataExtents: bigExtents,
			})),
			catalogRecord(17, "", testutil.HFSPlusThreadRecord(types.CatalogFileThreadRecord, 2, "hello.txt")),
			catalogRecord(18, "", testutil.HFSPlusThreadRecord(types.CatalogFileThreadRecord, 16, "big.bin")),
		),
		testutil.BuildNode(catalogNodeSize, types.NodeKindIndex, 2, 0, 0,
			testutil.IndexRecord(testutil.HFSPlusCatalogKey(1, "Test Volume"), 1),
			testutil.IndexRecord(testutil.HFSPlusCatalogKey(16, ""), 2),
		),
	}
}

func attributeRecord(fileID uint32, name string, startBlock uint32, body []byte) []byte {
	return testutil.Pad(testutil.Concat(testutil.AttributeKey(fileID, name, startBlock), body))
}

func helloDecmpfs() []byte {
	return testutil.Concat(testutil.DecmpfsHeader(types.DecmpfsMagic, uint32(types.DecmpfsZlibInline), 11),
		[]byte{0xFF}, []byte("hello world"))
}

func attributesTree() [][]byte {
	return [][]byte{
		testutil.BuildHeaderNode(testutil.HeaderRecordOptions{
			Depth:        1,
			Root:         1,
			LeafRecords:  5,
			FirstLeaf:    1,
			LastLeaf:     1,
			NodeSize:     attributesNodeSize,
			MaxKeyLength: 266,
			TotalNodes:   2,
			Attributes:   types.BTBigKeysMask | types.BTVariableIndexKeysMask,
		}, 2),
		testutil.BuildNode(attributesNodeSize, types.NodeKindLeaf, 1, 0, 0,
			attributeRecord(16, types.DecmpfsAttributeName, 0, testutil.ForkAttribute(0)),
			attributeRecord(17, types.DecmpfsAttributeName, 0, testutil.InlineAttribute(helloDecmpfs())),
			attributeRecord(17, types.DecmpfsAttributeName, 4, testutil.ExtentsAttribute()),
			attributeRecord(17, "com.apple.quarantine", 0, testutil.InlineAttribute(quarantine)),
			attributeRecord(18, types.DecmpfsAttributeName, 0, testutil.InlineAttribute(testutil.DecmpfsHeader(0x12345678, 3, 100))),
		),
	}
}

func openFixture(t *testing.T) (*fixture, *Volume, *test.Hook) {
	t.Helper()
	f := buildFixture(t)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	v, err := OpenVolume(f.source(), nil, logrus.NewEntry(logger))
	require.NoError(t, err)
	return f, v, hook
}
