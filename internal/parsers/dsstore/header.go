// Package dsstore decodes Finder .DS_Store files: the buddy allocator header, its root block
// and the DSDB record tree.
package dsstore

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// Header is the fixed header at the start of a .DS_Store file
type Header struct {
	Magic1           uint32
	Magic2           uint32
	RootBlockOffset  uint32
	RootBlockSize    uint32
	RootBlockOffset2 uint32
	Unknown          [16]byte
}

// DecodeHeader decodes and validates the file header
func DecodeHeader(data []byte) (*Header, error) {
	if len(data) < types.DSStoreHeaderSize {
		return nil, types.NewDecodeError("DS_Store header", 0, types.ErrInsufficientData,
			"need %d bytes, have %d", types.DSStoreHeaderSize, len(data))
	}
	h := &Header{
		Magic1:           binary.BigEndian.Uint32(data[0:4]),
		Magic2:           binary.BigEndian.Uint32(data[4:8]),
		RootBlockOffset:  binary.BigEndian.Uint32(data[8:12]),
		RootBlockSize:    binary.BigEndian.Uint32(data[12:16]),
		RootBlockOffset2: binary.BigEndian.Uint32(data[16:20]),
	}
	copy(h.Unknown[:], data[20:36])

	if h.Magic1 != types.DSStoreMagic1 || h.Magic2 != types.DSStoreMagic2 {
		return nil, types.NewDecodeError("DS_Store header", 0, types.ErrInvalidMagic,
			"0x%08x 0x%08x", h.Magic1, h.Magic2)
	}
	if h.RootBlockOffset != h.RootBlockOffset2 {
		return nil, types.NewDecodeError("DS_Store header", 8, types.ErrInvalidMagic,
			"root block offsets differ: %d != %d", h.RootBlockOffset, h.RootBlockOffset2)
	}
	return h, nil
}

// BlockAddress is a buddy allocator block locator: a 32-byte aligned offset with the
// log2 of the block size in the low five bits
type BlockAddress uint32

// Offset returns the allocator offset of the block
func (a BlockAddress) Offset() uint32 { return uint32(a) &^ 0x1F }

// Size returns the block size in bytes
func (a BlockAddress) Size() uint32 { return 1 << (uint32(a) & 0x1F) }

// FileOffset returns the offset of the block from the start of the file
func (a BlockAddress) FileOffset() int { return types.DSStoreAllocatorOffset + int(a.Offset()) }
