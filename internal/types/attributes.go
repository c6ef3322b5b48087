package types

// Attributes File (TN1150 "Attributes File")

// AttributeRecordType is the 32-bit tag at the start of an attributes leaf record.
type AttributeRecordType uint32

const (
	// AttributeInlineData holds the attribute value directly in the record.
	AttributeInlineData AttributeRecordType = 0x10

	// AttributeForkData describes the value with a fork data structure.
	AttributeForkData AttributeRecordType = 0x20

	// AttributeExtents holds overflow extents for a fork data attribute.
	AttributeExtents AttributeRecordType = 0x30
)

// String returns the name of the attribute record type
func (t AttributeRecordType) String() string {
	switch t {
	case AttributeInlineData:
		return "inline-data"
	case AttributeForkData:
		return "fork-data"
	case AttributeExtents:
		return "extents"
	default:
		return "unknown"
	}
}

// Attributes key and record sizes
const (
	// AttributeKeyMinLength covers pad, fileID, startBlock and attrNameLen.
	AttributeKeyMinLength = 12

	// AttributeMaxNameLength is the maximum number of UTF-16 code units in an attribute name.
	AttributeMaxNameLength = 127

	// AttributeInlineHeaderSize covers recordType, two reserved words and attrSize.
	AttributeInlineHeaderSize = 16

	AttributeForkDataRecordSize = 8 + HFSPlusForkDataSize
	AttributeExtentsRecordSize  = 8 + HFSPlusExtentRecordSize
)

// DecmpfsAttributeName is the extended attribute holding the decmpfs header.
const DecmpfsAttributeName = "com.apple.decmpfs"
