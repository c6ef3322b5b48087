package testutil

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/zlib"
	"howett.net/plist"
)

// UDIF chunk types used by BuildUDIF
const (
	udifZero       uint32 = 0x00000000
	udifRaw        uint32 = 0x00000001
	udifZlib       uint32 = 0x80000005
	udifComment    uint32 = 0x7FFFFFFE
	udifTerminator uint32 = 0xFFFFFFFF
)

// BuildUDIF wraps disk in a single-partition UDIF image. disk is split into chunks of
// chunkSectors sectors: all-zero chunks become zero-fill entries, the others alternate
// between raw and zlib compressed data.
func BuildUDIF(disk []byte, chunkSectors int) []byte {
	be := binary.BigEndian
	sectors := uint64(len(disk) / 512)

	var fork bytes.Buffer
	var entries [][]byte
	entry := func(kind uint32, sector, count, offset, length uint64) {
		e := be.AppendUint32(nil, kind)
		e = be.AppendUint32(e, 0)
		e = be.AppendUint64(e, sector)
		e = be.AppendUint64(e, count)
		e = be.AppendUint64(e, offset)
		e = be.AppendUint64(e, length)
		entries = append(entries, e)
	}

	entry(udifComment, 0, 0, 0, 0)
	for i, sector := 0, uint64(0); sector < sectors; i, sector = i+1, sector+uint64(chunkSectors) {
		count := min(uint64(chunkSectors), sectors-sector)
		data := disk[sector*512 : (sector+count)*512]
		offset := uint64(fork.Len())
		switch {
		case bytes.Count(data, []byte{0}) == len(data):
			entry(udifZero, sector, count, offset, 0)
		case i%2 == 0:
			fork.Write(data)
			entry(udifRaw, sector, count, offset, uint64(len(data)))
		default:
			zw := zlib.NewWriter(&fork)
			zw.Write(data)
			zw.Close()
			entry(udifZlib, sector, count, offset, uint64(fork.Len())-offset)
		}
	}
	entry(udifTerminator, sectors, 0, uint64(fork.Len()), 0)

	mish := make([]byte, 204)
	be.PutUint32(mish[0:4], 0x6D697368)
	be.PutUint32(mish[4:8], 1)
	be.PutUint64(mish[16:24], sectors)
	be.PutUint32(mish[200:204], uint32(len(entries)))
	for _, e := range entries {
		mish = append(mish, e...)
	}

	xml, err := plist.MarshalIndent(map[string]any{
		"resource-fork": map[string]any{
			"blkx": []any{map[string]any{
				"Attributes": "0x0050",
				"CFName":     "disk image (Apple_HFS : 1)",
				"Data":       mish,
				"ID":         "0",
				"Name":       "disk image (Apple_HFS : 1)",
			}},
		},
	}, plist.XMLFormat, "\t")
	if err != nil {
		panic(err)
	}

	dataLength := uint64(fork.Len())
	image := append(fork.Bytes(), xml...)

	trailer := make([]byte, 512)
	be.PutUint32(trailer[0:4], 0x6B6F6C79)
	be.PutUint32(trailer[4:8], 4)
	be.PutUint32(trailer[8:12], 512)
	be.PutUint32(trailer[12:16], 1)
	be.PutUint64(trailer[32:40], dataLength)
	be.PutUint32(trailer[56:60], 1)
	be.PutUint32(trailer[60:64], 1)
	be.PutUint64(trailer[216:224], dataLength)
	be.PutUint64(trailer[224:232], uint64(len(xml)))
	be.PutUint32(trailer[488:492], 1)
	be.PutUint64(trailer[492:500], sectors)
	return append(image, trailer...)
}
