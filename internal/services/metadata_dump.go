package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-hfs/internal/parsers/volumes"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// dumpChunkSectors is the number of sectors copied per write
const dumpChunkSectors = 2048

// MetadataLayout is the set of sectors holding file system metadata
type MetadataLayout struct {
	// SectorCount is the number of sectors in the dump
	SectorCount uint64
	// Sectors marks the metadata sectors. It may extend past SectorCount.
	Sectors *SectorMap
}

// MetadataDumper copies a volume's metadata into an image of the same size with every other
// sector zeroed
type MetadataDumper struct {
	volume   *VolumeReader
	overflow *ExtentsOverflow
	log      *logrus.Entry
}

// NewMetadataDumper creates a dumper for volume
func NewMetadataDumper(volume *VolumeReader, overflow *ExtentsOverflow, log *logrus.Entry) *MetadataDumper {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &MetadataDumper{volume: volume, overflow: overflow, log: log}
}

// MetadataSectors determines which sectors hold metadata: everything before the allocation
// area, the boot blocks and volume header, the last allocation block and trailing sectors,
// every extent of the special files and, on journaled HFS+ volumes, the journal.
func (d *MetadataDumper) MetadataSectors() (*MetadataLayout, error) {
	header := d.volume.Header()
	blockSize := uint64(header.BlockSize())
	if blockSize == 0 || blockSize%types.SectorSize != 0 {
		return nil, fmt.Errorf("uneven block size %d: %w", blockSize, types.ErrInvalidBlockSize)
	}
	perBlock := blockSize / types.SectorSize
	allocStart := uint64(header.AllocationBlockStart()) / types.SectorSize
	sectors := NewSectorMap()

	sectors.Mark(0, allocStart)
	if allocStart < 3 {
		sectors.Mark(allocStart, 3)
	}

	// The last allocation block holds the alternate volume header
	if total := uint64(header.TotalBlocks()); total > 0 {
		last := allocStart + (total-1)*perBlock
		sectors.Mark(last, last+perBlock)
	}

	sectorCount := (uint64(header.FileSystemEnd())-1)/types.SectorSize + 1
	sectors.MarkSector(sectorCount - 1)

	// Up to one allocation block of slack may follow before the volume really ends
	for i := uint64(0); i+1 < perBlock; i++ {
		if int64(sectorCount*types.SectorSize) >= d.volume.Size() {
			break
		}
		sectors.MarkSector(sectorCount)
		sectorCount++
	}

	for _, file := range types.AllSystemFiles {
		fork, ok := header.SystemFork(file)
		if !ok {
			continue
		}
		exts, err := d.overflow.AllDataExtentDescriptors(file.CNID(), fork)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve extents of the %s file: %w", file, err)
		}
		for _, e := range exts {
			start := allocStart + uint64(e.StartBlock)*perBlock
			sectors.Mark(start, start+uint64(e.BlockCount)*perBlock)
		}
		d.log.WithFields(logrus.Fields{"file": file.String(), "extents": len(exts)}).Debug("Marked special file")
	}

	if header.Dialect().IsHFSPlusFamily() && header.IsJournaled() {
		jibSector := allocStart + uint64(header.JournalInfoBlock())*perBlock
		sectors.MarkSector(jibSector)

		jib, err := d.readJournalInfoBlock(header)
		if err != nil {
			return nil, err
		}
		first, end := jib.SectorRange(types.SectorSize)
		sectors.Mark(first, end)
		d.log.WithFields(logrus.Fields{"offset": jib.Offset(), "size": jib.Size()}).Debug("Marked journal")
	}

	return &MetadataLayout{SectorCount: sectorCount, Sectors: sectors}, nil
}

func (d *MetadataDumper) readJournalInfoBlock(header *volumes.VolumeHeader) (*volumes.JournalInfoBlockReader, error) {
	buf := make([]byte, types.JournalInfoBlockSize)
	if _, err := d.volume.ReadAt(buf, header.BlockOffset(header.JournalInfoBlock())); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read journal info block: %w", err)
	}
	jib, err := volumes.DecodeJournalInfoBlock(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode journal info block: %w", err)
	}
	return jib, nil
}

// Dump writes SectorCount sectors to w: metadata sectors are copied, all others are zero.
// A sector the volume only partially covers is padded with zeroes. It returns the number of
// bytes written.
func (d *MetadataDumper) Dump(ctx context.Context, w io.Writer) (int64, error) {
	layout, err := d.MetadataSectors()
	if err != nil {
		return 0, err
	}
	return d.DumpLayout(ctx, layout, w)
}

// DumpLayout writes the sectors of layout to w
func (d *MetadataDumper) DumpLayout(ctx context.Context, layout *MetadataLayout, w io.Writer) (int64, error) {
	ranges := layout.Sectors.Clip(layout.SectorCount)
	buf := make([]byte, dumpChunkSectors*types.SectorSize)
	var written int64

	emit := func(start, end uint64, copyData bool) error {
		for start < end {
			if err := ctx.Err(); err != nil {
				return err
			}
			n := end - start
			if n > dumpChunkSectors {
				n = dumpChunkSectors
			}
			chunk := buf[:n*types.SectorSize]
			clear(chunk)
			if copyData {
				if _, err := d.volume.ReadAt(chunk, int64(start*types.SectorSize)); err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("failed to read sector %d: %w", start, err)
				}
			}
			m, err := w.Write(chunk)
			written += int64(m)
			if err != nil {
				return fmt.Errorf("failed to write sector %d: %w", start, err)
			}
			start += n
		}
		return nil
	}

	next := uint64(0)
	for _, r := range ranges {
		if err := emit(next, r.Start, false); err != nil {
			return written, err
		}
		if err := emit(r.Start, r.End, true); err != nil {
			return written, err
		}
		next = r.End
	}
	if err := emit(next, layout.SectorCount, false); err != nil {
		return written, err
	}

	d.log.WithFields(logrus.Fields{
		"sectors":  layout.SectorCount,
		"metadata": layout.Sectors.Count(),
		"bytes":    written,
	}).Info("Metadata dump complete")
	return written, nil
}
