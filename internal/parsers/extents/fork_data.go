package extents

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// ForkData is the logical size and first extents of a fork.
// HFS records carry three 16-bit descriptors, HFS+ records eight 32-bit descriptors; extents
// beyond these live in the extents overflow file.
type ForkData struct {
	dialect types.Dialect

	// HFS+ fork data structure; for HFS only LogicalSize and the extents are meaningful.
	fork types.HFSPlusForkData

	physicalSize uint64
	extentCount  int
}

// NewHFSForkData builds a fork from the separate size and extent fields of an HFS file record or MDB
func NewHFSForkData(logicalSize, physicalSize uint32, rec [types.HFSExtentRecordCount]types.ExtentDescriptor) *ForkData {
	fd := &ForkData{
		dialect:      types.DialectHFS,
		physicalSize: uint64(physicalSize),
		extentCount:  types.HFSExtentRecordCount,
	}
	fd.fork.LogicalSize = uint64(logicalSize)
	copy(fd.fork.Extents[:], rec[:])
	fd.fork.TotalBlocks = uint32(BlockCount(rec[:]))
	return fd
}

// NewHFSPlusForkData wraps an already decoded HFS+ fork data structure
func NewHFSPlusForkData(fork types.HFSPlusForkData) *ForkData {
	return &ForkData{
		dialect:     types.DialectHFSPlus,
		fork:        fork,
		extentCount: types.HFSPlusExtentRecordCount,
	}
}

// DecodeHFSPlusForkData decodes the 80-byte HFS+ fork data structure at offset
func DecodeHFSPlusForkData(data []byte, offset int) (*ForkData, error) {
	if offset < 0 || len(data)-offset < types.HFSPlusForkDataSize {
		return nil, types.NewDecodeError("fork data", offset, types.ErrInsufficientData,
			"need %d bytes, have %d", types.HFSPlusForkDataSize, len(data)-offset)
	}

	rec, err := DecodeHFSPlusExtentRecord(data, offset+16)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fork extents: %w", err)
	}

	return NewHFSPlusForkData(types.HFSPlusForkData{
		LogicalSize: binary.BigEndian.Uint64(data[offset : offset+8]),
		ClumpSize:   binary.BigEndian.Uint32(data[offset+8 : offset+12]),
		TotalBlocks: binary.BigEndian.Uint32(data[offset+12 : offset+16]),
		Extents:     rec,
	}), nil
}

// Bytes returns the 80-byte HFS+ encoding of the fork.
// HFS forks have no single on-disk encoding and are encoded in the HFS+ layout.
func (fd *ForkData) Bytes() []byte {
	b := make([]byte, 16, types.HFSPlusForkDataSize)
	binary.BigEndian.PutUint64(b[0:8], fd.fork.LogicalSize)
	binary.BigEndian.PutUint32(b[8:12], fd.fork.ClumpSize)
	binary.BigEndian.PutUint32(b[12:16], fd.fork.TotalBlocks)
	return EncodeHFSPlusExtentRecord(b, fd.fork.Extents)
}

// Dialect returns the dialect of the record the fork came from
func (fd *ForkData) Dialect() types.Dialect {
	return fd.dialect
}

// LogicalSize returns the size of the fork in bytes
func (fd *ForkData) LogicalSize() uint64 {
	return fd.fork.LogicalSize
}

// PhysicalSize returns the allocated size recorded by HFS file records, or zero
func (fd *ForkData) PhysicalSize() uint64 {
	return fd.physicalSize
}

// ClumpSize returns the fork's clump size (HFS+ only)
func (fd *ForkData) ClumpSize() uint32 {
	return fd.fork.ClumpSize
}

// TotalBlocks returns the number of allocation blocks allocated to the fork.
// For HFS forks this only counts the basic extents.
func (fd *ForkData) TotalBlocks() uint32 {
	return fd.fork.TotalBlocks
}

// BasicExtents returns the extent descriptors stored in the fork itself
func (fd *ForkData) BasicExtents() []types.ExtentDescriptor {
	out := make([]types.ExtentDescriptor, fd.extentCount)
	copy(out, fd.fork.Extents[:fd.extentCount])
	return out
}

// BasicExtentsBlockCount returns the number of blocks covered by the basic extents
func (fd *ForkData) BasicExtentsBlockCount() uint64 {
	return BlockCount(fd.fork.Extents[:fd.extentCount])
}

// Raw returns the fork in the HFS+ layout
func (fd *ForkData) Raw() types.HFSPlusForkData {
	return fd.fork
}
