package testutil

import (
	"encoding/binary"
	"strings"

	"howett.net/plist"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// Sample volume geometry and contents
const (
	SampleBlockSize   = 512
	SampleTotalBlocks = 256
	SampleName        = "Sample"
	SampleDate        = 0xD5000000
	SampleReadme      = "hello from a compressed file\n"
)

// SampleNotes is the content of /Documents/notes.txt
var SampleNotes = strings.Repeat("meeting notes\n", 100)

// SampleVolume builds a small journaled HFS+ volume:
//
//	/                        CNID 2
//	/Documents               CNID 16
//	/Documents/.DS_Store     CNID 18, see SampleDSStore
//	/Documents/notes.txt     CNID 17
//	/readme.md               CNID 19, decmpfs compressed inline
func SampleVolume() []byte {
	const nodeSize = 4096
	b := NewImageBuilder(SampleBlockSize, SampleTotalBlocks)

	notes := b.Allocate([]byte(SampleNotes))
	store := SampleDSStore()
	dsStore := b.Allocate(store)

	b.SystemFile(types.SystemFileExtents,
		BuildHeaderNode(HeaderRecordOptions{
			Depth: 1, Root: 1, LeafRecords: 1, FirstLeaf: 1, LastLeaf: 1,
			NodeSize: 512, MaxKeyLength: types.HFSPlusExtentKeyLength, TotalNodes: 2,
			Attributes: types.BTBigKeysMask,
		}, 2),
		BuildNode(512, types.NodeKindLeaf, 1, 0, 0,
			Concat(HFSPlusExtentKey(uint32(types.CNIDBadBlocksFile), types.ForkTypeData, 0), HFSPlusExtentRecord())),
	)

	record := func(parentID uint32, name string, body []byte) []byte {
		return Concat(HFSPlusCatalogKey(parentID, name), body)
	}
	file := func(id uint32, modify uint32, data []byte, e types.ExtentDescriptor) []byte {
		return HFSPlusFileRecord(HFSPlusFileRecordOptions{
			FileID:      id,
			CreateDate:  SampleDate,
			ModifyDate:  modify,
			FileMode:    types.ModeRegular | 0644,
			DataSize:    uint64(len(data)),
			DataExtents: []types.ExtentDescriptor{e},
		})
	}
	b.SystemFile(types.SystemFileCatalog,
		BuildHeaderNode(HeaderRecordOptions{
			Depth: 1, Root: 1, LeafRecords: 10, FirstLeaf: 1, LastLeaf: 1,
			NodeSize: nodeSize, MaxKeyLength: 516, TotalNodes: 2,
			KeyCompareType: uint8(types.KeyCompareCaseFolding),
			Attributes:     types.BTBigKeysMask | types.BTVariableIndexKeysMask,
		}, 2),
		BuildNode(nodeSize, types.NodeKindLeaf, 1, 0, 0,
			record(1, SampleName, HFSPlusFolderRecord(2, 2, SampleDate)),
			record(2, "", HFSPlusThreadRecord(types.CatalogFolderThreadRecord, 1, SampleName)),
			record(2, "Documents", HFSPlusFolderRecord(16, 2, SampleDate)),
			record(2, "readme.md", HFSPlusFileRecord(HFSPlusFileRecordOptions{
				FileID:     19,
				CreateDate: SampleDate,
				ModifyDate: SampleDate + 7200,
				OwnerFlags: types.OwnerFlagCompressed,
				FileMode:   types.ModeRegular | 0644,
			})),
			record(16, "", HFSPlusThreadRecord(types.CatalogFolderThreadRecord, 2, "Documents")),
			record(16, ".DS_Store", file(18, SampleDate, store, dsStore)),
			record(16, "notes.txt", file(17, SampleDate+86400, []byte(SampleNotes), notes)),
			record(17, "", HFSPlusThreadRecord(types.CatalogFileThreadRecord, 16, "notes.txt")),
			record(18, "", HFSPlusThreadRecord(types.CatalogFileThreadRecord, 16, ".DS_Store")),
			record(19, "", HFSPlusThreadRecord(types.CatalogFileThreadRecord, 2, "readme.md")),
		),
	)

	readme := Concat(DecmpfsHeader(types.DecmpfsMagic, uint32(types.DecmpfsZlibInline), uint64(len(SampleReadme))),
		[]byte{0xFF}, []byte(SampleReadme))
	b.SystemFile(types.SystemFileAttributes,
		BuildHeaderNode(HeaderRecordOptions{
			Depth: 1, Root: 1, LeafRecords: 1, FirstLeaf: 1, LastLeaf: 1,
			NodeSize: nodeSize, MaxKeyLength: 266, TotalNodes: 2,
			Attributes: types.BTBigKeysMask | types.BTVariableIndexKeysMask,
		}, 2),
		BuildNode(nodeSize, types.NodeKindLeaf, 1, 0, 0,
			Pad(Concat(AttributeKey(19, types.DecmpfsAttributeName, 0), InlineAttribute(readme))),
		),
	)
	b.SystemFile(types.SystemFileAllocation, make([]byte, SampleTotalBlocks/8))

	jib := b.NextBlock()
	b.Allocate(JournalInfoBlock(types.JournalInFSMask, uint64(jib+1)*SampleBlockSize, 4*SampleBlockSize))
	b.Allocate(make([]byte, 4*SampleBlockSize))

	return b.Build(VolumeHeaderOptions{
		Attributes:       1 << types.VolumeJournaledBit,
		JournalInfoBlock: jib,
		CreateDate:       SampleDate,
		FileCount:        3,
		FolderCount:      1,
		NextCatalogID:    20,
	})
}

// SampleDSStore builds the .DS_Store of /Documents: a single leaf holding a binary
// property list, an icon location and a comment
func SampleDSStore() []byte {
	be := binary.BigEndian

	iloc := make([]byte, 16)
	be.PutUint32(iloc[0:4], 120)
	be.PutUint32(iloc[4:8], 48)
	for i := 8; i < 16; i++ {
		iloc[i] = 0xFF
	}
	bwsp, err := plist.Marshal(map[string]any{"ShowSidebar": true, "WindowBounds": "{{10, 20}, {640, 480}}"}, plist.BinaryFormat)
	if err != nil {
		panic(err)
	}
	comment := UTF16BE("quarterly")

	blob := func(b []byte) []byte { return append(be.AppendUint32(nil, uint32(len(b))), b...) }
	return BuildDSStore(DSStoreNodeBlock(0), 0, DSStoreNode{
		Records: [][]byte{
			DSStoreRecord(".", "bwsp", "blob", blob(bwsp)),
			DSStoreRecord(".", "vSrn", "long", be.AppendUint32(nil, 1)),
			DSStoreRecord("notes.txt", "Iloc", "blob", blob(iloc)),
			DSStoreRecord("notes.txt", "cmmt", "ustr", append(be.AppendUint32(nil, uint32(len(comment)/2)), comment...)),
		},
	})
}
