// Package dmg reads Apple UDIF disk images (.dmg). The virtual disk is described by "mish"
// block tables stored in the XML property list that the "koly" trailer points to.
package dmg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"howett.net/plist"
)

// Signatures
const (
	TrailerSignature    uint32 = 0x6B6F6C79 // 'koly'
	BlockTableSignature uint32 = 0x6D697368 // 'mish'
)

const (
	// TrailerSize is the size of the koly trailer at the end of the file
	TrailerSize = 512

	// SectorSize is the unit of every sector number in the block tables
	SectorSize = 512

	blockTableHeaderSize = 204
	chunkEntrySize       = 40
)

// Chunk types of a block table
const (
	ChunkZeroFill   uint32 = 0x00000000
	ChunkRaw        uint32 = 0x00000001
	ChunkIgnore     uint32 = 0x00000002
	ChunkADC        uint32 = 0x80000004
	ChunkZlib       uint32 = 0x80000005
	ChunkBzip2      uint32 = 0x80000006
	ChunkLZFSE      uint32 = 0x80000007
	ChunkLZMA       uint32 = 0x80000008
	ChunkComment    uint32 = 0x7FFFFFFE
	ChunkTerminator uint32 = 0xFFFFFFFF
)

var (
	// ErrNotUDIF reports a file without a koly trailer
	ErrNotUDIF = errors.New("not a UDIF image")

	// ErrUnsupportedChunk reports a chunk compressed with a scheme this package cannot decode
	ErrUnsupportedChunk = errors.New("unsupported chunk type")
)

// Trailer is the koly block at the end of a UDIF image
type Trailer struct {
	Version        uint32
	HeaderSize     uint32
	Flags          uint32
	DataForkOffset uint64
	DataForkLength uint64
	ResourceOffset uint64
	ResourceLength uint64
	SegmentNumber  uint32
	SegmentCount   uint32
	XMLOffset      uint64
	XMLLength      uint64
	ImageVariant   uint32
	SectorCount    uint64
}

// DecodeTrailer decodes a koly trailer
func DecodeTrailer(data []byte) (*Trailer, error) {
	if len(data) < TrailerSize {
		return nil, fmt.Errorf("trailer needs %d bytes, have %d", TrailerSize, len(data))
	}
	be := binary.BigEndian
	if sig := be.Uint32(data[0:4]); sig != TrailerSignature {
		return nil, fmt.Errorf("signature 0x%08X: %w", sig, ErrNotUDIF)
	}
	return &Trailer{
		Version:        be.Uint32(data[4:8]),
		HeaderSize:     be.Uint32(data[8:12]),
		Flags:          be.Uint32(data[12:16]),
		DataForkOffset: be.Uint64(data[24:32]),
		DataForkLength: be.Uint64(data[32:40]),
		ResourceOffset: be.Uint64(data[40:48]),
		ResourceLength: be.Uint64(data[48:56]),
		SegmentNumber:  be.Uint32(data[56:60]),
		SegmentCount:   be.Uint32(data[60:64]),
		XMLOffset:      be.Uint64(data[216:224]),
		XMLLength:      be.Uint64(data[224:232]),
		ImageVariant:   be.Uint32(data[488:492]),
		SectorCount:    be.Uint64(data[492:500]),
	}, nil
}

// Chunk is one run of sectors of the virtual disk. Sectors are absolute and
// DataOffset is relative to the start of the file.
type Chunk struct {
	Type        uint32
	Sector      uint64
	SectorCount uint64
	DataOffset  uint64
	DataLength  uint64
}

// End returns the first sector after the chunk
func (c Chunk) End() uint64 { return c.Sector + c.SectorCount }

// BlockTable is a decoded mish block: the chunks of one partition of the image
type BlockTable struct {
	Name        string
	Sector      uint64
	SectorCount uint64
	Chunks      []Chunk
}

// DecodeBlockTable decodes a mish block. dataFork is the data fork offset from the trailer.
func DecodeBlockTable(data []byte, name string, dataFork uint64) (*BlockTable, error) {
	if len(data) < blockTableHeaderSize {
		return nil, fmt.Errorf("block table %q: need %d bytes, have %d", name, blockTableHeaderSize, len(data))
	}
	be := binary.BigEndian
	if sig := be.Uint32(data[0:4]); sig != BlockTableSignature {
		return nil, fmt.Errorf("block table %q: invalid signature 0x%08X", name, sig)
	}
	bt := &BlockTable{
		Name:        name,
		Sector:      be.Uint64(data[8:16]),
		SectorCount: be.Uint64(data[16:24]),
	}
	base := dataFork + be.Uint64(data[24:32])
	count := int(be.Uint32(data[200:204]))
	if len(data) < blockTableHeaderSize+count*chunkEntrySize {
		return nil, fmt.Errorf("block table %q: %d chunks overrun %d bytes", name, count, len(data))
	}

	for i := 0; i < count; i++ {
		e := data[blockTableHeaderSize+i*chunkEntrySize:]
		c := Chunk{
			Type:        be.Uint32(e[0:4]),
			Sector:      bt.Sector + be.Uint64(e[8:16]),
			SectorCount: be.Uint64(e[16:24]),
			DataOffset:  base + be.Uint64(e[24:32]),
			DataLength:  be.Uint64(e[32:40]),
		}
		switch c.Type {
		case ChunkTerminator:
			return bt, nil
		case ChunkComment:
			continue
		}
		if c.SectorCount == 0 {
			continue
		}
		bt.Chunks = append(bt.Chunks, c)
	}
	return bt, nil
}

type resourcePlist struct {
	ResourceFork struct {
		Blkx []struct {
			Name string `plist:"Name"`
			Data []byte `plist:"Data"`
		} `plist:"blkx"`
	} `plist:"resource-fork"`
}

// readTrailer reads the koly trailer of a file of the given size
func readTrailer(r io.ReaderAt, size int64) (*Trailer, error) {
	if size < TrailerSize {
		return nil, fmt.Errorf("%d byte file: %w", size, ErrNotUDIF)
	}
	buf := make([]byte, TrailerSize)
	if _, err := r.ReadAt(buf, size-TrailerSize); err != nil {
		return nil, fmt.Errorf("failed to read trailer: %w", err)
	}
	return DecodeTrailer(buf)
}

// readBlockTables decodes the blkx entries of the property list
func readBlockTables(r io.ReaderAt, t *Trailer) ([]*BlockTable, error) {
	if t.XMLLength == 0 {
		return nil, errors.New("image has no property list")
	}
	xml := make([]byte, t.XMLLength)
	if _, err := r.ReadAt(xml, int64(t.XMLOffset)); err != nil {
		return nil, fmt.Errorf("failed to read property list: %w", err)
	}
	var pl resourcePlist
	if _, err := plist.Unmarshal(xml, &pl); err != nil {
		return nil, fmt.Errorf("failed to decode property list: %w", err)
	}

	tables := make([]*BlockTable, 0, len(pl.ResourceFork.Blkx))
	for _, entry := range pl.ResourceFork.Blkx {
		bt, err := DecodeBlockTable(entry.Data, entry.Name, t.DataForkOffset)
		if err != nil {
			return nil, err
		}
		tables = append(tables, bt)
	}
	return tables, nil
}
