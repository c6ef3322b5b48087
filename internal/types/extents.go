package types

// Extents Overflow File (TN1150 "Extents Overflow File")

// ForkType selects the data or resource fork in an extent key.
type ForkType uint8

const (
	ForkTypeData     ForkType = 0x00
	ForkTypeResource ForkType = 0xFF
)

// String returns the name of the fork type
func (f ForkType) String() string {
	switch f {
	case ForkTypeData:
		return "data"
	case ForkTypeResource:
		return "resource"
	default:
		return "unknown"
	}
}

// Extent structure sizes
const (
	// HFSExtentKeyLength is the keyLen value of an HFS extent key.
	HFSExtentKeyLength = 7

	// HFSExtentKeySize is the full HFS extent key size including the length byte.
	HFSExtentKeySize = 8

	// HFSPlusExtentKeyLength is the keyLength value of an HFS+ extent key.
	HFSPlusExtentKeyLength = 10

	// HFSPlusExtentKeySize is the full HFS+ extent key size including the length field.
	HFSPlusExtentKeySize = 12

	HFSExtentDescriptorSize     = 4
	HFSPlusExtentDescriptorSize = 8

	// HFSExtentRecordCount is the number of descriptors in an HFS extent record.
	HFSExtentRecordCount = 3

	// HFSPlusExtentRecordCount is the number of descriptors in an HFS+ extent record.
	HFSPlusExtentRecordCount = 8

	HFSExtentRecordSize     = HFSExtentRecordCount * HFSExtentDescriptorSize
	HFSPlusExtentRecordSize = HFSPlusExtentRecordCount * HFSPlusExtentDescriptorSize

	// HFSPlusForkDataSize is logicalSize, clumpSize, totalBlocks and the extent record.
	HFSPlusForkDataSize = 16 + HFSPlusExtentRecordSize
)

// ExtentDescriptor is one contiguous run of allocation blocks.
// HFS stores both fields as 16-bit values.
type ExtentDescriptor struct {
	StartBlock uint32
	BlockCount uint32
}

// HFSPlusForkData describes a fork of an HFS+ file or system file.
type HFSPlusForkData struct {
	LogicalSize uint64
	ClumpSize   uint32
	TotalBlocks uint32
	Extents     [HFSPlusExtentRecordCount]ExtentDescriptor
}
