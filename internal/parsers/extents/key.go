package extents

import (
	"cmp"
	"encoding/binary"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// Key is an extents overflow file key: the fork it belongs to and the first
// allocation block of the fork covered by the record.
type Key struct {
	dialect    types.Dialect
	keyLength  uint16
	forkType   types.ForkType
	pad        uint8
	fileID     types.CatalogNodeID
	startBlock uint32
}

// NewKey builds a search key
func NewKey(dialect types.Dialect, fileID types.CatalogNodeID, forkType types.ForkType, startBlock uint32) *Key {
	k := &Key{
		dialect:    dialect,
		forkType:   forkType,
		fileID:     fileID,
		startBlock: startBlock,
	}
	if dialect == types.DialectHFS {
		k.keyLength = types.HFSExtentKeyLength
	} else {
		k.keyLength = types.HFSPlusExtentKeyLength
	}
	return k
}

// DecodeKey decodes an extent key of the given dialect at offset
func DecodeKey(data []byte, offset int, dialect types.Dialect) (*Key, error) {
	if dialect == types.DialectHFS {
		return decodeHFSKey(data, offset)
	}
	return decodeHFSPlusKey(data, offset, dialect)
}

// KeyDecoder returns a btrees.KeyDecoder for extent keys of the given dialect
func KeyDecoder(dialect types.Dialect) btrees.KeyDecoder[*Key] {
	return func(data []byte, offset int) (*Key, error) {
		return DecodeKey(data, offset, dialect)
	}
}

func decodeHFSKey(data []byte, offset int) (*Key, error) {
	if offset < 0 || len(data)-offset < types.HFSExtentKeySize {
		return nil, types.NewDecodeError("HFS extent key", offset, types.ErrInsufficientData,
			"need %d bytes, have %d", types.HFSExtentKeySize, len(data)-offset)
	}
	b := data[offset:]
	if b[0] != types.HFSExtentKeyLength {
		return nil, types.NewDecodeError("HFS extent key", offset, types.ErrRecordOutOfBounds,
			"key length %d, expected %d", b[0], types.HFSExtentKeyLength)
	}
	return &Key{
		dialect:    types.DialectHFS,
		keyLength:  uint16(b[0]),
		forkType:   types.ForkType(b[1]),
		fileID:     types.CatalogNodeID(binary.BigEndian.Uint32(b[2:6])),
		startBlock: uint32(binary.BigEndian.Uint16(b[6:8])),
	}, nil
}

func decodeHFSPlusKey(data []byte, offset int, dialect types.Dialect) (*Key, error) {
	if offset < 0 || len(data)-offset < types.HFSPlusExtentKeySize {
		return nil, types.NewDecodeError("HFS+ extent key", offset, types.ErrInsufficientData,
			"need %d bytes, have %d", types.HFSPlusExtentKeySize, len(data)-offset)
	}
	b := data[offset:]
	keyLength := binary.BigEndian.Uint16(b[0:2])
	if keyLength != types.HFSPlusExtentKeyLength {
		return nil, types.NewDecodeError("HFS+ extent key", offset, types.ErrRecordOutOfBounds,
			"key length %d, expected %d", keyLength, types.HFSPlusExtentKeyLength)
	}
	return &Key{
		dialect:    dialect,
		keyLength:  keyLength,
		forkType:   types.ForkType(b[2]),
		pad:        b[3],
		fileID:     types.CatalogNodeID(binary.BigEndian.Uint32(b[4:8])),
		startBlock: binary.BigEndian.Uint32(b[8:12]),
	}, nil
}

// Bytes returns the on-disk encoding of the key
func (k *Key) Bytes() []byte {
	if k.dialect == types.DialectHFS {
		b := make([]byte, types.HFSExtentKeySize)
		b[0] = byte(k.keyLength)
		b[1] = byte(k.forkType)
		binary.BigEndian.PutUint32(b[2:6], uint32(k.fileID))
		binary.BigEndian.PutUint16(b[6:8], uint16(k.startBlock))
		return b
	}
	b := make([]byte, types.HFSPlusExtentKeySize)
	binary.BigEndian.PutUint16(b[0:2], k.keyLength)
	b[2] = byte(k.forkType)
	b[3] = k.pad
	binary.BigEndian.PutUint32(b[4:8], uint32(k.fileID))
	binary.BigEndian.PutUint32(b[8:12], k.startBlock)
	return b
}

// OccupiedSize returns the size of the key including its length field
func (k *Key) OccupiedSize() int {
	if k.dialect == types.DialectHFS {
		return types.HFSExtentKeySize
	}
	return types.HFSPlusExtentKeySize
}

// Dialect returns the dialect the key was encoded in
func (k *Key) Dialect() types.Dialect { return k.dialect }

// ForkType returns the fork the extents belong to
func (k *Key) ForkType() types.ForkType { return k.forkType }

// FileID returns the CNID of the file owning the fork
func (k *Key) FileID() types.CatalogNodeID { return k.fileID }

// StartBlock returns the offset, in allocation blocks, of the first extent of the record within the fork
func (k *Key) StartBlock() uint32 { return k.startBlock }

// Compare orders extent keys by file ID, fork type and start block.
// Keys of any other type are compared by their encodings.
func (k *Key) Compare(other interfaces.BTreeKey) int {
	o, ok := other.(*Key)
	if !ok {
		return btrees.CompareKeyBytes(k, other)
	}
	if c := cmp.Compare(k.fileID, o.fileID); c != 0 {
		return c
	}
	if c := cmp.Compare(k.forkType, o.forkType); c != 0 {
		return c
	}
	return cmp.Compare(k.startBlock, o.startBlock)
}
