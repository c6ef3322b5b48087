package device

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/diskfs/go-diskfs/partition"
	"github.com/diskfs/go-diskfs/partition/gpt"
	"github.com/diskfs/go-diskfs/partition/mbr"
	"github.com/google/uuid"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

var hfsPlusPartitionType = uuid.MustParse(types.GPTHFSPlusPartitionType)

// Partition is an entry of a partition map
type Partition struct {
	Index  int                   `json:"index" yaml:"index"`
	Scheme types.PartitionScheme `json:"scheme" yaml:"scheme"`
	Name   string                `json:"name,omitempty" yaml:"name,omitempty"`
	Type   string                `json:"type" yaml:"type"`
	Offset int64                 `json:"offset" yaml:"offset"`
	Size   int64                 `json:"size" yaml:"size"`
	HFS    bool                  `json:"hfs" yaml:"hfs"`
}

// ListPartitions reads the partition map of src. An Apple Partition Map is tried first,
// then GPT and MBR. An unpartitioned source yields SchemeNone and no partitions.
func ListPartitions(src interfaces.ByteSource, sectorSize int) ([]Partition, types.PartitionScheme, error) {
	parts, err := readAPM(src)
	if err != nil {
		return nil, types.SchemeNone, err
	}
	if parts != nil {
		return parts, types.SchemeAPM, nil
	}

	table, err := partition.Read(newDiskfsFile(src), sectorSize, sectorSize)
	if err != nil {
		return nil, types.SchemeNone, nil
	}
	switch t := table.(type) {
	case *gpt.Table:
		return gptPartitions(t, sectorSize), types.SchemeGPT, nil
	case *mbr.Table:
		return mbrPartitions(t, sectorSize), types.SchemeMBR, nil
	default:
		return nil, types.SchemeNone, fmt.Errorf("unsupported partition table %s", table.Type())
	}
}

// FirstHFS returns the first partition holding an HFS-family volume
func FirstHFS(parts []Partition) (Partition, bool) {
	for _, p := range parts {
		if p.HFS {
			return p, true
		}
	}
	return Partition{}, false
}

// readAPM returns nil without error when src has no Apple Partition Map
func readAPM(src interfaces.ByteSource) ([]Partition, error) {
	ddm := make([]byte, types.APMDefaultBlockSize)
	if _, err := src.ReadAt(ddm, 0); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read driver descriptor: %w", err)
	}
	if binary.BigEndian.Uint16(ddm[0:2]) != types.APMDriverDescriptorSignature {
		return nil, nil
	}
	blockSize := int64(binary.BigEndian.Uint16(ddm[2:4]))
	if blockSize == 0 {
		blockSize = types.APMDefaultBlockSize
	}

	var parts []Partition
	entry := make([]byte, types.APMEntrySize)
	count := types.APMMaxEntries
	for i := 0; i < count; i++ {
		off := blockSize * int64(i+1)
		if off+int64(len(entry)) > src.Size() {
			break
		}
		if _, err := src.ReadAt(entry, off); err != nil {
			return nil, fmt.Errorf("failed to read partition map entry %d: %w", i, err)
		}
		if binary.BigEndian.Uint16(entry[0:2]) != types.APMEntrySignature {
			break
		}
		if i == 0 {
			count = min(int(binary.BigEndian.Uint32(entry[4:8])), types.APMMaxEntries)
		}
		partType := cString(entry[types.APMTypeOffset : types.APMTypeOffset+types.APMStringSize])
		parts = append(parts, Partition{
			Index:  i,
			Scheme: types.SchemeAPM,
			Name:   cString(entry[types.APMNameOffset : types.APMNameOffset+types.APMStringSize]),
			Type:   partType,
			Offset: int64(binary.BigEndian.Uint32(entry[8:12])) * blockSize,
			Size:   int64(binary.BigEndian.Uint32(entry[12:16])) * blockSize,
			HFS:    partType == types.APMTypeHFS || partType == types.APMTypeHFSX,
		})
	}
	if parts == nil {
		return []Partition{}, nil
	}
	return parts, nil
}

func gptPartitions(t *gpt.Table, sectorSize int) []Partition {
	var parts []Partition
	for i, p := range t.Partitions {
		typeID, err := uuid.Parse(string(p.Type))
		if err != nil || typeID == uuid.Nil {
			continue
		}
		parts = append(parts, Partition{
			Index:  i,
			Scheme: types.SchemeGPT,
			Name:   p.Name,
			Type:   typeID.String(),
			Offset: int64(p.Start) * int64(sectorSize),
			Size:   int64(p.End-p.Start+1) * int64(sectorSize),
			HFS:    typeID == hfsPlusPartitionType,
		})
	}
	return parts
}

func mbrPartitions(t *mbr.Table, sectorSize int) []Partition {
	var parts []Partition
	for i, p := range t.Partitions {
		if p.Type == mbr.Empty || p.Size == 0 {
			continue
		}
		parts = append(parts, Partition{
			Index:  i,
			Scheme: types.SchemeMBR,
			Type:   fmt.Sprintf("0x%02X", byte(p.Type)),
			Offset: int64(p.Start) * int64(sectorSize),
			Size:   int64(p.Size) * int64(sectorSize),
			HFS:    byte(p.Type) == types.MBRHFSPartitionType,
		})
	}
	return parts
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// diskfsFile presents a byte source as the read-only file go-diskfs parses partition tables from
type diskfsFile struct {
	*io.SectionReader
}

func newDiskfsFile(src interfaces.ByteSource) *diskfsFile {
	return &diskfsFile{SectionReader: io.NewSectionReader(src, 0, src.Size())}
}

func (f *diskfsFile) Stat() (fs.FileInfo, error) { return diskfsFileInfo{size: f.Size()}, nil }

func (f *diskfsFile) Close() error { return nil }

type diskfsFileInfo struct {
	size int64
}

func (i diskfsFileInfo) Name() string       { return "image" }
func (i diskfsFileInfo) Size() int64        { return i.size }
func (i diskfsFileInfo) Mode() fs.FileMode  { return 0o444 }
func (i diskfsFileInfo) ModTime() time.Time { return time.Time{} }
func (i diskfsFileInfo) IsDir() bool        { return false }
func (i diskfsFileInfo) Sys() any           { return nil }
