package attributes

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-hfs/internal/parsers/catalog"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// Key is an attributes file key (HFSPlusAttrKey)
type Key struct {
	pad        uint16
	fileID     types.CatalogNodeID
	startBlock uint32
	name       catalog.CatalogString
	raw        []byte
}

// NewKey builds a search key for attribute name of fileID
func NewKey(fileID types.CatalogNodeID, name string, startBlock uint32) (*Key, error) {
	s, err := catalog.EncodeHFSPlusString(name)
	if err != nil {
		return nil, err
	}
	if s.Len() > types.AttributeMaxNameLength {
		return nil, fmt.Errorf("attribute name of %d code units exceeds %d", s.Len(), types.AttributeMaxNameLength)
	}
	nameBytes := s.Bytes()
	raw := make([]byte, 14, 14+len(nameBytes))
	binary.BigEndian.PutUint16(raw[0:2], uint16(types.AttributeKeyMinLength+len(nameBytes)))
	binary.BigEndian.PutUint32(raw[4:8], uint32(fileID))
	binary.BigEndian.PutUint32(raw[8:12], startBlock)
	binary.BigEndian.PutUint16(raw[12:14], uint16(s.Len()))
	return &Key{
		fileID:     fileID,
		startBlock: startBlock,
		name:       s,
		raw:        append(raw, nameBytes...),
	}, nil
}

// DecodeKey decodes the attributes key at offset
func DecodeKey(data []byte, offset int) (*Key, error) {
	if offset < 0 || len(data)-offset < 2+types.AttributeKeyMinLength {
		return nil, types.NewDecodeError("attribute key", offset, types.ErrInsufficientData,
			"need at least %d bytes", 2+types.AttributeKeyMinLength)
	}
	keyLength := int(binary.BigEndian.Uint16(data[offset : offset+2]))
	if keyLength < types.AttributeKeyMinLength || offset+2+keyLength > len(data) {
		return nil, types.NewDecodeError("attribute key", offset, types.ErrRecordOutOfBounds,
			"key length %d does not fit record", keyLength)
	}

	raw := bytes.Clone(data[offset : offset+2+keyLength])
	nameLen := int(binary.BigEndian.Uint16(raw[12:14]))
	if nameLen > types.AttributeMaxNameLength || 14+2*nameLen > len(raw) {
		return nil, types.NewDecodeError("attribute key", offset, types.ErrRecordOutOfBounds,
			"name length %d does not fit key length %d", nameLen, keyLength)
	}

	return &Key{
		pad:        binary.BigEndian.Uint16(raw[2:4]),
		fileID:     types.CatalogNodeID(binary.BigEndian.Uint32(raw[4:8])),
		startBlock: binary.BigEndian.Uint32(raw[8:12]),
		name:       catalog.NewHFSPlusString(raw[14 : 14+2*nameLen]),
		raw:        raw,
	}, nil
}

// KeyDecoder is a btrees.KeyDecoder for attributes keys
func KeyDecoder(data []byte, offset int) (*Key, error) {
	return DecodeKey(data, offset)
}

// FileID returns the CNID of the file or folder owning the attribute
func (k *Key) FileID() types.CatalogNodeID { return k.fileID }

// StartBlock returns the first allocation block of the attribute fork covered by an extents record
func (k *Key) StartBlock() uint32 { return k.startBlock }

// Name returns the undecoded attribute name
func (k *Key) Name() catalog.CatalogString { return k.name }

// Bytes returns the on-disk encoding of the key
func (k *Key) Bytes() []byte { return bytes.Clone(k.raw) }

// OccupiedSize returns the size of the key including its length field
func (k *Key) OccupiedSize() int { return len(k.raw) }

// Compare orders attribute keys by file ID, name (binary) and start block
func (k *Key) Compare(other interfaces.BTreeKey) int {
	o, ok := other.(*Key)
	if !ok {
		return btrees.CompareKeyBytes(k, other)
	}
	if c := cmp.Compare(k.fileID, o.fileID); c != 0 {
		return c
	}
	if c := catalog.BinaryUnicodeCompare(k.name.Units(), o.name.Units()); c != 0 {
		return c
	}
	return cmp.Compare(k.startBlock, o.startBlock)
}
