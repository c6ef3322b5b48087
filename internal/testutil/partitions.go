package testutil

import (
	"encoding/binary"
	"hash/crc32"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

const sector = 512

// HFSPlusVolume returns an HFS+ volume of totalBlocks 4 KiB blocks with only its header filled in
func HFSPlusVolume(totalBlocks uint32) []byte {
	vol := make([]byte, int(totalBlocks)*4096)
	copy(vol[types.VolumeHeaderOffset:], HFSPlusVolumeHeader(VolumeHeaderOptions{
		BlockSize:   4096,
		TotalBlocks: totalBlocks,
	}))
	return vol
}

// HFSWrapper returns a classic HFS wrapper embedding vol at allocation block 2 of 4 KiB blocks
func HFSWrapper(vol []byte) []byte {
	const (
		blockSize  = 4096
		alBlSt     = 8
		embedStart = 2
	)
	embedBlocks := (len(vol) + blockSize - 1) / blockSize
	out := make([]byte, alBlSt*sector+(embedStart+embedBlocks+1)*blockSize)
	copy(out[types.VolumeHeaderOffset:], MasterDirectoryBlock(MDBOptions{
		AllocationBlockStart: alBlSt,
		TotalBlocks:          uint16(embedStart + embedBlocks + 1),
		BlockSize:            blockSize,
		Name:                 "Wrapper",
		EmbedSignature:       types.SignatureHFSPlus,
		EmbedExtent:          types.ExtentDescriptor{StartBlock: embedStart, BlockCount: uint32(embedBlocks)},
	}))
	copy(out[alBlSt*sector+embedStart*blockSize:], vol)
	return out
}

// APMDisk lays out an Apple Partition Map disk whose second entry holds vol at block 64
func APMDisk(vol []byte, partType string) []byte {
	const start = 64
	volBlocks := (len(vol) + sector - 1) / sector
	out := make([]byte, (start+volBlocks)*sector)

	be := binary.BigEndian
	be.PutUint16(out[0:2], types.APMDriverDescriptorSignature)
	be.PutUint16(out[2:4], sector)
	be.PutUint32(out[4:8], uint32(start+volBlocks))

	entry := func(i int, name, typ string, first, count uint32) {
		b := out[(i+1)*sector:]
		be.PutUint16(b[0:2], types.APMEntrySignature)
		be.PutUint32(b[4:8], 2)
		be.PutUint32(b[8:12], first)
		be.PutUint32(b[12:16], count)
		copy(b[types.APMNameOffset:types.APMNameOffset+types.APMStringSize], name)
		copy(b[types.APMTypeOffset:types.APMTypeOffset+types.APMStringSize], typ)
	}
	entry(0, "Apple", types.APMTypeMapName, 1, start-1)
	entry(1, "disk image", partType, start, uint32(volBlocks))
	copy(out[start*sector:], vol)
	return out
}

// MBRDisk lays out an MBR disk whose first entry holds vol at LBA 64
func MBRDisk(vol []byte, partType byte) []byte {
	const start = 64
	volSectors := (len(vol) + sector - 1) / sector
	out := make([]byte, (start+volSectors)*sector)
	putMBREntry(out, 0, partType, start, uint32(volSectors))
	copy(out[start*sector:], vol)
	return out
}

func putMBREntry(disk []byte, i int, partType byte, start, count uint32) {
	e := disk[0x1BE+16*i:]
	e[4] = partType
	binary.LittleEndian.PutUint32(e[8:12], start)
	binary.LittleEndian.PutUint32(e[12:16], count)
	disk[510] = 0x55
	disk[511] = 0xAA
}

// GPTDisk lays out a GPT disk with primary and backup tables whose only partition holds vol at LBA 40
func GPTDisk(vol []byte, typeGUID, name string) []byte {
	const (
		start       = 40
		entries     = 128
		entrySize   = 128
		arrayLBAs   = entries * entrySize / sector
		firstUsable = 2 + arrayLBAs
	)
	volSectors := (len(vol) + sector - 1) / sector
	total := start + volSectors + 1 + arrayLBAs
	out := make([]byte, total*sector)
	putMBREntry(out, 0, 0xEE, 1, uint32(total-1))

	array := make([]byte, entries*entrySize)
	copy(array[0:16], mixedEndianGUID(uuid.MustParse(typeGUID)))
	copy(array[16:32], mixedEndianGUID(uuid.MustParse("6A3C5E2B-9D1F-4C7E-8B21-0F5A6D3E4C11")))
	binary.LittleEndian.PutUint64(array[32:40], start)
	binary.LittleEndian.PutUint64(array[40:48], uint64(start+volSectors-1))
	for i, u := range utf16.Encode([]rune(name)) {
		binary.LittleEndian.PutUint16(array[56+2*i:], u)
	}
	arrayCRC := crc32.ChecksumIEEE(array)

	lastLBA := uint64(total - 1)
	backupArray := lastLBA - arrayLBAs
	lastUsable := backupArray - 1

	header := func(current, backup, arrayStart uint64) []byte {
		h := make([]byte, sector)
		le := binary.LittleEndian
		copy(h[0:8], "EFI PART")
		le.PutUint32(h[8:12], 0x00010000)
		le.PutUint32(h[12:16], 92)
		le.PutUint64(h[24:32], current)
		le.PutUint64(h[32:40], backup)
		le.PutUint64(h[40:48], firstUsable)
		le.PutUint64(h[48:56], lastUsable)
		copy(h[56:72], mixedEndianGUID(uuid.MustParse("0B1C2D3E-4F50-4617-8293-A4B5C6D7E8F9")))
		le.PutUint64(h[72:80], arrayStart)
		le.PutUint32(h[80:84], entries)
		le.PutUint32(h[84:88], entrySize)
		le.PutUint32(h[88:92], arrayCRC)
		le.PutUint32(h[16:20], crc32.ChecksumIEEE(h[:92]))
		return h
	}

	copy(out[1*sector:], header(1, lastLBA, 2))
	copy(out[2*sector:], array)
	copy(out[start*sector:], vol)
	copy(out[backupArray*sector:], array)
	copy(out[lastLBA*sector:], header(lastLBA, 1, backupArray))
	return out
}

// mixedEndianGUID encodes u the way GPT stores GUIDs: the first three fields little-endian
func mixedEndianGUID(u uuid.UUID) []byte {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint32(b[0:4], binary.BigEndian.Uint32(u[0:4]))
	binary.LittleEndian.PutUint16(b[4:6], binary.BigEndian.Uint16(u[4:6]))
	binary.LittleEndian.PutUint16(b[6:8], binary.BigEndian.Uint16(u[6:8]))
	copy(b[8:], u[8:])
	return b
}
