package types

// .DS_Store files
// A Finder metadata store built on a buddy allocator. One of its blocks, named "DSDB" in the
// table of contents, holds the header of a B-tree of (filename, struct ID) records.

// DS_Store header magic numbers
const (
	DSStoreMagic1 uint32 = 0x00000001
	DSStoreMagic2 uint32 = 0x42756431 // "Bud1"
)

// DSStoreHeaderSize covers both magic numbers, the root block offset and size, the offset
// copy and 16 unknown bytes.
const DSStoreHeaderSize = 36

// DSStoreAllocatorOffset is added to every offset in the file; the first 4 bytes are
// outside the allocator's address space.
const DSStoreAllocatorOffset = 4

// DSStoreRootTOCName is the table of contents entry for the record B-tree.
const DSStoreRootTOCName = "DSDB"

// DSStoreTreeHeaderSize is the size of the DSDB block: root node, levels, records, nodes, page size.
const DSStoreTreeHeaderSize = 20

// DS_Store record value types
var (
	DSStoreTypeLong = NewFourCC("long")
	DSStoreTypeShor = NewFourCC("shor")
	DSStoreTypeBool = NewFourCC("bool")
	DSStoreTypeBlob = NewFourCC("blob")
	DSStoreTypeType = NewFourCC("type")
	DSStoreTypeUstr = NewFourCC("ustr")
	DSStoreTypeComp = NewFourCC("comp")
	DSStoreTypeDutc = NewFourCC("dutc")
)
