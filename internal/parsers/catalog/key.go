package catalog

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// Key is a catalog file key: parent folder ID and node name.
// The encoding keeps every byte read from disk, including the padding of fixed-size HFS index keys.
type Key struct {
	dialect     types.Dialect
	compareType types.KeyCompareType
	parentID    types.CatalogNodeID
	name        CatalogString
	raw         []byte
}

// DefaultCompareType returns the key ordering used when no tree header is available.
// HFSX volumes fold case unless their catalog header says otherwise.
func DefaultCompareType(dialect types.Dialect) types.KeyCompareType {
	if dialect == types.DialectHFS {
		return types.KeyCompareBytes
	}
	return types.KeyCompareCaseFolding
}

// CompareTypeFor returns the catalog key ordering of a tree, or the dialect default when header is nil
func CompareTypeFor(dialect types.Dialect, header *btrees.HeaderRecord) types.KeyCompareType {
	if header == nil {
		return DefaultCompareType(dialect)
	}
	return header.KeyCompareType()
}

// NewHFSKey builds a classic HFS key from MacRoman name bytes
func NewHFSKey(parentID types.CatalogNodeID, name []byte) (*Key, error) {
	if len(name) > types.HFSMaxNameLength {
		return nil, fmt.Errorf("HFS name of %d bytes exceeds %d", len(name), types.HFSMaxNameLength)
	}
	raw := make([]byte, 7, 7+len(name))
	raw[0] = byte(types.HFSCatalogKeyMinLength + len(name))
	binary.BigEndian.PutUint32(raw[2:6], uint32(parentID))
	raw[6] = byte(len(name))
	raw = append(raw, name...)
	return &Key{
		dialect:     types.DialectHFS,
		compareType: types.KeyCompareBytes,
		parentID:    parentID,
		name:        NewHFSString(name),
		raw:         raw,
	}, nil
}

// NewHFSPlusKey builds an HFS+ or HFSX key for name
func NewHFSPlusKey(dialect types.Dialect, compareType types.KeyCompareType, parentID types.CatalogNodeID, name CatalogString) (*Key, error) {
	if name.Len() > types.HFSPlusMaxNameLength {
		return nil, fmt.Errorf("name of %d code units exceeds %d", name.Len(), types.HFSPlusMaxNameLength)
	}
	nameBytes := name.Bytes()
	raw := make([]byte, 8, 8+len(nameBytes))
	binary.BigEndian.PutUint16(raw[0:2], uint16(types.HFSPlusCatalogKeyMinLength+len(nameBytes)))
	binary.BigEndian.PutUint32(raw[2:6], uint32(parentID))
	binary.BigEndian.PutUint16(raw[6:8], uint16(name.Len()))
	raw = append(raw, nameBytes...)
	return &Key{
		dialect:     dialect,
		compareType: compareType,
		parentID:    parentID,
		name:        NewHFSPlusString(nameBytes),
		raw:         raw,
	}, nil
}

// DecodeKey decodes the catalog key at offset. compareType selects the ordering of HFS+ keys;
// HFS keys always compare bytes.
func DecodeKey(data []byte, offset int, dialect types.Dialect, compareType types.KeyCompareType) (*Key, error) {
	if dialect == types.DialectHFS {
		return decodeHFSKey(data, offset)
	}
	return decodeHFSPlusKey(data, offset, dialect, compareType)
}

// KeyDecoder returns a btrees.KeyDecoder for catalog keys
func KeyDecoder(dialect types.Dialect, compareType types.KeyCompareType) btrees.KeyDecoder[*Key] {
	return func(data []byte, offset int) (*Key, error) {
		return DecodeKey(data, offset, dialect, compareType)
	}
}

func decodeHFSKey(data []byte, offset int) (*Key, error) {
	if offset < 0 || offset >= len(data) {
		return nil, types.NewDecodeError("HFS catalog key", offset, types.ErrInsufficientData, "no key length byte")
	}
	keyLen := int(data[offset])
	if keyLen < types.HFSCatalogKeyMinLength {
		return nil, types.NewDecodeError("HFS catalog key", offset, types.ErrRecordOutOfBounds,
			"key length %d below minimum %d", keyLen, types.HFSCatalogKeyMinLength)
	}
	if offset+1+keyLen > len(data) {
		return nil, types.NewDecodeError("HFS catalog key", offset, types.ErrRecordOutOfBounds,
			"key length %d exceeds record", keyLen)
	}

	raw := bytes.Clone(data[offset : offset+1+keyLen])
	nameLen := int(raw[6])
	if nameLen > types.HFSMaxNameLength || 7+nameLen > len(raw) {
		return nil, types.NewDecodeError("HFS catalog key", offset, types.ErrRecordOutOfBounds,
			"name length %d does not fit key length %d", nameLen, keyLen)
	}

	return &Key{
		dialect:     types.DialectHFS,
		compareType: types.KeyCompareBytes,
		parentID:    types.CatalogNodeID(binary.BigEndian.Uint32(raw[2:6])),
		name:        NewHFSString(raw[7 : 7+nameLen]),
		raw:         raw,
	}, nil
}

func decodeHFSPlusKey(data []byte, offset int, dialect types.Dialect, compareType types.KeyCompareType) (*Key, error) {
	if offset < 0 || len(data)-offset < 2+types.HFSPlusCatalogKeyMinLength {
		return nil, types.NewDecodeError("HFS+ catalog key", offset, types.ErrInsufficientData,
			"need at least %d bytes", 2+types.HFSPlusCatalogKeyMinLength)
	}
	keyLength := int(binary.BigEndian.Uint16(data[offset : offset+2]))
	if keyLength < types.HFSPlusCatalogKeyMinLength || offset+2+keyLength > len(data) {
		return nil, types.NewDecodeError("HFS+ catalog key", offset, types.ErrRecordOutOfBounds,
			"key length %d does not fit record", keyLength)
	}

	raw := bytes.Clone(data[offset : offset+2+keyLength])
	nameLen := int(binary.BigEndian.Uint16(raw[6:8]))
	if nameLen > types.HFSPlusMaxNameLength || 8+2*nameLen > len(raw) {
		return nil, types.NewDecodeError("HFS+ catalog key", offset, types.ErrRecordOutOfBounds,
			"name length %d does not fit key length %d", nameLen, keyLength)
	}

	return &Key{
		dialect:     dialect,
		compareType: compareType,
		parentID:    types.CatalogNodeID(binary.BigEndian.Uint32(raw[2:6])),
		name:        NewHFSPlusString(raw[8 : 8+2*nameLen]),
		raw:         raw,
	}, nil
}

// Dialect returns the dialect the key was encoded in
func (k *Key) Dialect() types.Dialect { return k.dialect }

// CompareType returns the ordering the key uses in Compare
func (k *Key) CompareType() types.KeyCompareType { return k.compareType }

// ParentID returns the CNID of the parent folder
func (k *Key) ParentID() types.CatalogNodeID { return k.parentID }

// NodeName returns the undecoded node name
func (k *Key) NodeName() CatalogString { return k.name }

// Bytes returns the on-disk encoding of the key, including its length field
func (k *Key) Bytes() []byte { return bytes.Clone(k.raw) }

// OccupiedSize returns the number of bytes the key takes up in a record
func (k *Key) OccupiedSize() int { return len(k.raw) }

// Compare orders keys by parent ID, then by name using the receiver's compare type.
// Non-catalog keys are compared by their encodings.
func (k *Key) Compare(other interfaces.BTreeKey) int {
	o, ok := other.(*Key)
	if !ok {
		return btrees.CompareKeyBytes(k, other)
	}
	if c := cmp.Compare(k.parentID, o.parentID); c != 0 {
		return c
	}
	return CompareNames(k.compareType, k.name, o.name)
}

// CompareNames orders two node names under compareType
func CompareNames(compareType types.KeyCompareType, a, b CatalogString) int {
	switch compareType {
	case types.KeyCompareCaseFolding:
		return FastUnicodeCompare(a.Units(), b.Units())
	case types.KeyCompareBinary:
		return BinaryUnicodeCompare(a.Units(), b.Units())
	default:
		return bytes.Compare(a.raw, b.raw)
	}
}

// String renders the key as parentID:name
func (k *Key) String() string {
	return fmt.Sprintf("%d:%s", k.parentID, k.name)
}
