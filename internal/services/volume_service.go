package services

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/parsers/catalog"
	"github.com/deploymenttheory/go-hfs/internal/parsers/volumes"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// Volume is an opened HFS, HFS+ or HFSX volume with its special files
type Volume struct {
	reader     *VolumeReader
	overflow   *ExtentsOverflow
	catalog    *CatalogFile
	attributes *AttributesFile
	strings    *catalog.StringDecoder
	log        *logrus.Entry
}

// OpenVolume decodes the volume header of source and opens the extents overflow, catalog and,
// when present, attributes files. decoder and log may be nil.
func OpenVolume(source interfaces.ByteSource, decoder *catalog.StringDecoder, log *logrus.Entry) (*Volume, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if decoder == nil {
		decoder = catalog.DefaultStringDecoder
	}

	reader, err := NewVolumeReader(source)
	if err != nil {
		return nil, err
	}
	log = log.WithField("dialect", reader.Dialect().String())

	overflow, err := OpenExtentsOverflow(reader)
	if err != nil {
		return nil, err
	}
	cat, err := OpenCatalogFile(reader, overflow, decoder)
	if err != nil {
		return nil, err
	}

	v := &Volume{reader: reader, overflow: overflow, catalog: cat, strings: decoder, log: log}
	if reader.Dialect().IsHFSPlusFamily() {
		v.attributes, err = OpenAttributesFile(reader, overflow)
		switch {
		case errors.Is(err, types.ErrNotFound):
			log.Debug("Volume has no attributes file")
		case err != nil:
			return nil, err
		}
	}

	log.WithFields(logrus.Fields{
		"block_size":   reader.BlockSize(),
		"total_blocks": reader.Header().TotalBlocks(),
	}).Debug("Opened volume")
	return v, nil
}

// Reader returns the block level reader of the volume
func (v *Volume) Reader() *VolumeReader { return v.reader }

// Header returns the decoded volume header
func (v *Volume) Header() *volumes.VolumeHeader { return v.reader.Header() }

// Dialect returns the volume format
func (v *Volume) Dialect() types.Dialect { return v.reader.Dialect() }

// ExtentsOverflow returns the extents overflow file
func (v *Volume) ExtentsOverflow() *ExtentsOverflow { return v.overflow }

// Catalog returns the catalog file
func (v *Volume) Catalog() *CatalogFile { return v.catalog }

// Attributes returns the attributes file, or false when the volume has none
func (v *Volume) Attributes() (*AttributesFile, bool) {
	return v.attributes, v.attributes != nil
}

// Logger returns the volume's log entry
func (v *Volume) Logger() *logrus.Entry { return v.log }

// FileSystem returns a path and file oriented view of the catalog
func (v *Volume) FileSystem() *FileSystemServiceImpl {
	return NewFileSystemService(v)
}

// Compression returns a service for decmpfs compressed files
func (v *Volume) Compression() *CompressionService {
	return NewCompressionService(v.attributes, v.catalog, v.log)
}

// MetadataDumper returns a dumper for the volume's metadata sectors
func (v *Volume) MetadataDumper() *MetadataDumper {
	return NewMetadataDumper(v.reader, v.overflow, v.log)
}

// Name returns the volume name. HFS keeps it in the master directory block, HFS+ only in the
// key of the root folder record.
func (v *Volume) Name() (string, error) {
	if raw, ok := v.Header().VolumeName(); ok {
		return v.strings.Decode(raw)
	}
	root, err := v.catalog.Record(types.CNIDRootFolder)
	if err != nil {
		return "", fmt.Errorf("failed to read root folder: %w", err)
	}
	return v.strings.Decode(root.Key().NodeName())
}

// Journal returns the journal info block of a journaled HFS+ volume
func (v *Volume) Journal() (*volumes.JournalInfoBlockReader, error) {
	header := v.Header()
	if !header.Dialect().IsHFSPlusFamily() || !header.IsJournaled() {
		return nil, fmt.Errorf("volume is not journaled: %w", types.ErrNotFound)
	}
	buf := make([]byte, types.JournalInfoBlockSize)
	if _, err := v.reader.ReadAt(buf, header.BlockOffset(header.JournalInfoBlock())); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read journal info block: %w", err)
	}
	return volumes.DecodeJournalInfoBlock(buf)
}

// GetSpaceUsageStats returns allocation block usage
func (v *Volume) GetSpaceUsageStats() *SpaceStats {
	header := v.Header()
	blockSize := uint64(header.BlockSize())
	total := uint64(header.TotalBlocks())
	free := uint64(header.FreeBlocks())
	stats := &SpaceStats{
		BlockSize:     header.BlockSize(),
		TotalBlocks:   header.TotalBlocks(),
		FreeBlocks:    header.FreeBlocks(),
		TotalCapacity: total * blockSize,
		FreeSpace:     free * blockSize,
	}
	if free <= total {
		stats.UsedSpace = (total - free) * blockSize
	}
	if total > 0 {
		stats.UsagePercentage = float64(stats.UsedSpace) / float64(stats.TotalCapacity) * 100
	}
	return stats
}

// SystemFiles describes the forks of the special files named in the volume header
func (v *Volume) SystemFiles() ([]SystemFileReport, error) {
	header := v.Header()
	var reports []SystemFileReport
	for _, file := range types.AllSystemFiles {
		fork, ok := header.SystemFork(file)
		if !ok {
			continue
		}
		exts, err := v.overflow.AllDataExtentDescriptors(file.CNID(), fork)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve extents of the %s file: %w", file, err)
		}
		reports = append(reports, SystemFileReport{
			Name:        file.String(),
			CNID:        file.CNID(),
			LogicalSize: fork.LogicalSize(),
			TotalBlocks: uint64(fork.TotalBlocks()),
			Extents:     exts,
		})
	}
	return reports, nil
}

// GenerateVolumeReport collects the volume header fields and the state of the special files
func (v *Volume) GenerateVolumeReport() (*VolumeReport, error) {
	header := v.Header()
	name, err := v.Name()
	if err != nil {
		return nil, err
	}
	systemFiles, err := v.SystemFiles()
	if err != nil {
		return nil, err
	}

	report := &VolumeReport{
		Dialect:         header.Dialect().String(),
		Signature:       fmt.Sprintf("%c%c", byte(header.Signature()>>8), byte(header.Signature())),
		Name:            name,
		CreateDate:      header.CreateDate(),
		ModifyDate:      header.ModifyDate(),
		BackupDate:      header.BackupDate(),
		FileCount:       header.FileCount(),
		FolderCount:     header.FolderCount(),
		NextCatalogID:   header.NextCatalogID(),
		Attributes:      header.Attributes(),
		AllocationStart: header.AllocationBlockStart(),
		FileSystemEnd:   header.FileSystemEnd(),
		Space:           *v.GetSpaceUsageStats(),
		SystemFiles:     systemFiles,
		Catalog:         v.catalog.Tree().Statistics(),
		ExtentsOverflow: v.overflow.Tree().Statistics(),
	}
	if checked, ok := header.CheckedDate(); ok {
		report.CheckedDate = &checked
	}
	if header.Dialect().IsHFSPlusFamily() {
		report.LastMountedVersion = header.LastMountedVersion().String()
	}
	if v.attributes != nil {
		stats := v.attributes.Tree().Statistics()
		report.AttributesTree = &stats
	}

	jib, err := v.Journal()
	switch {
	case errors.Is(err, types.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		report.Journal = &JournalReport{
			InfoBlock:     header.JournalInfoBlock(),
			Flags:         jib.Flags(),
			InFileSystem:  jib.InFileSystem(),
			OnOtherDevice: jib.OnOtherDevice(),
			NeedsInit:     jib.NeedsInit(),
			Offset:        jib.Offset(),
			Size:          jib.Size(),
		}
	}
	return report, nil
}
