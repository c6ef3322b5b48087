package volumes

import (
	"bytes"
	"encoding/binary"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// JournalInfoBlockReader gives access to the block locating the journal of an HFS+ volume
type JournalInfoBlockReader struct {
	block types.JournalInfoBlock
}

// DecodeJournalInfoBlock decodes the journal info block at the start of data
func DecodeJournalInfoBlock(data []byte) (*JournalInfoBlockReader, error) {
	if len(data) < types.JournalInfoBlockSize {
		return nil, types.NewDecodeError("journal info block", 0, types.ErrInsufficientData,
			"need %d bytes, have %d", types.JournalInfoBlockSize, len(data))
	}
	r := &JournalInfoBlockReader{}
	r.block.Flags = binary.BigEndian.Uint32(data[0:4])
	copy(r.block.DeviceSignature[:], data[4:36])
	r.block.Offset = binary.BigEndian.Uint64(data[36:44])
	r.block.Size = binary.BigEndian.Uint64(data[44:52])
	copy(r.block.Reserved[:], data[52:180])
	return r, nil
}

func (r *JournalInfoBlockReader) Flags() uint32 { return r.block.Flags }

// InFileSystem reports whether the journal lives on this volume
func (r *JournalInfoBlockReader) InFileSystem() bool {
	return r.block.Flags&types.JournalInFSMask != 0
}

// OnOtherDevice reports whether the journal lives on another device
func (r *JournalInfoBlockReader) OnOtherDevice() bool {
	return r.block.Flags&types.JournalOnOtherDeviceMask != 0
}

// NeedsInit reports whether the journal must be initialized before use
func (r *JournalInfoBlockReader) NeedsInit() bool {
	return r.block.Flags&types.JournalNeedInitMask != 0
}

// DeviceSignature returns the signature of the device holding an external journal
func (r *JournalInfoBlockReader) DeviceSignature() []byte {
	return bytes.Clone(r.block.DeviceSignature[:])
}

// Offset returns the byte offset of the journal from the start of the volume.
// It is not aligned to allocation blocks or sectors.
func (r *JournalInfoBlockReader) Offset() uint64 { return r.block.Offset }

// Size returns the journal size in bytes
func (r *JournalInfoBlockReader) Size() uint64 { return r.block.Size }

// SectorRange returns the sectors of the given size covering the journal, end exclusive
func (r *JournalInfoBlockReader) SectorRange(sectorSize uint64) (first, end uint64) {
	first = r.block.Offset / sectorSize
	end = (r.block.Offset + r.block.Size + sectorSize - 1) / sectorSize
	return first, end
}

// Raw returns a copy of the decoded structure
func (r *JournalInfoBlockReader) Raw() types.JournalInfoBlock { return r.block }
