package catalog

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/parsers/extents"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// File is a catalog file record in either dialect. Exactly one of hfs and plus is set.
type File struct {
	hfs  *types.HFSCatalogFile
	plus *types.HFSPlusCatalogFile
}

// DecodeHFSFile decodes a CdrFilRec at offset
func DecodeHFSFile(data []byte, offset int) (*File, error) {
	if offset < 0 || len(data)-offset < types.HFSFileRecordSize {
		return nil, types.NewDecodeError("HFS file record", offset, types.ErrInsufficientData,
			"need %d bytes, have %d", types.HFSFileRecordSize, len(data)-offset)
	}
	b := data[offset : offset+types.HFSFileRecordSize]

	dataExtents, err := extents.DecodeHFSExtentRecord(b, 74)
	if err != nil {
		return nil, err
	}
	rsrcExtents, err := extents.DecodeHFSExtentRecord(b, 86)
	if err != nil {
		return nil, err
	}

	f := &types.HFSCatalogFile{
		RecordType:           b[0],
		Reserved2:            b[1],
		Flags:                b[2],
		FileType:             b[3],
		UserInfo:             decodeFileInfo(b[4:20]),
		FileID:               types.CatalogNodeID(binary.BigEndian.Uint32(b[20:24])),
		DataStartBlock:       binary.BigEndian.Uint16(b[24:26]),
		DataLogicalSize:      binary.BigEndian.Uint32(b[26:30]),
		DataPhysicalSize:     binary.BigEndian.Uint32(b[30:34]),
		ResourceStartBlock:   binary.BigEndian.Uint16(b[34:36]),
		ResourceLogicalSize:  binary.BigEndian.Uint32(b[36:40]),
		ResourcePhysicalSize: binary.BigEndian.Uint32(b[40:44]),
		CreateDate:           binary.BigEndian.Uint32(b[44:48]),
		ModifyDate:           binary.BigEndian.Uint32(b[48:52]),
		BackupDate:           binary.BigEndian.Uint32(b[52:56]),
		ClumpSize:            binary.BigEndian.Uint16(b[72:74]),
		DataExtents:          dataExtents,
		ResourceExtents:      rsrcExtents,
		Reserved:             binary.BigEndian.Uint32(b[98:102]),
	}
	copy(f.FinderInfo[:], b[56:72])
	return &File{hfs: f}, nil
}

// DecodeHFSPlusFile decodes an HFSPlusCatalogFile at offset
func DecodeHFSPlusFile(data []byte, offset int) (*File, error) {
	if offset < 0 || len(data)-offset < types.HFSPlusFileRecordSize {
		return nil, types.NewDecodeError("HFS+ file record", offset, types.ErrInsufficientData,
			"need %d bytes, have %d", types.HFSPlusFileRecordSize, len(data)-offset)
	}
	b := data[offset : offset+types.HFSPlusFileRecordSize]

	dataFork, err := extents.DecodeHFSPlusForkData(b, 88)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data fork: %w", err)
	}
	rsrcFork, err := extents.DecodeHFSPlusForkData(b, 168)
	if err != nil {
		return nil, fmt.Errorf("failed to decode resource fork: %w", err)
	}

	f := &types.HFSPlusCatalogFile{
		RecordType:       binary.BigEndian.Uint16(b[0:2]),
		Flags:            binary.BigEndian.Uint16(b[2:4]),
		Reserved1:        binary.BigEndian.Uint32(b[4:8]),
		FileID:           types.CatalogNodeID(binary.BigEndian.Uint32(b[8:12])),
		CreateDate:       binary.BigEndian.Uint32(b[12:16]),
		ContentModDate:   binary.BigEndian.Uint32(b[16:20]),
		AttributeModDate: binary.BigEndian.Uint32(b[20:24]),
		AccessDate:       binary.BigEndian.Uint32(b[24:28]),
		BackupDate:       binary.BigEndian.Uint32(b[28:32]),
		Permissions:      decodeBSDInfo(b[32:48]),
		UserInfo:         decodeFileInfo(b[48:64]),
		TextEncoding:     binary.BigEndian.Uint32(b[80:84]),
		Reserved2:        binary.BigEndian.Uint32(b[84:88]),
		DataFork:         dataFork.Raw(),
		ResourceFork:     rsrcFork.Raw(),
	}
	copy(f.FinderInfo[:], b[64:80])
	return &File{plus: f}, nil
}

// Dialect returns DialectHFS or DialectHFSPlus
func (f *File) Dialect() types.Dialect {
	if f.hfs != nil {
		return types.DialectHFS
	}
	return types.DialectHFSPlus
}

// FileID returns the CNID of the file
func (f *File) FileID() types.CatalogNodeID {
	if f.hfs != nil {
		return f.hfs.FileID
	}
	return f.plus.FileID
}

// DataFork returns the data fork
func (f *File) DataFork() *extents.ForkData {
	if f.hfs != nil {
		return extents.NewHFSForkData(f.hfs.DataLogicalSize, f.hfs.DataPhysicalSize, f.hfs.DataExtents)
	}
	return extents.NewHFSPlusForkData(f.plus.DataFork)
}

// ResourceFork returns the resource fork
func (f *File) ResourceFork() *extents.ForkData {
	if f.hfs != nil {
		return extents.NewHFSForkData(f.hfs.ResourceLogicalSize, f.hfs.ResourcePhysicalSize, f.hfs.ResourceExtents)
	}
	return extents.NewHFSPlusForkData(f.plus.ResourceFork)
}

// Fork returns the data or resource fork
func (f *File) Fork(forkType types.ForkType) *extents.ForkData {
	if forkType == types.ForkTypeResource {
		return f.ResourceFork()
	}
	return f.DataFork()
}

// Attributes returns the shared record attributes
func (f *File) Attributes() Attributes {
	if f.hfs != nil {
		return Attributes{
			dialect:          types.DialectHFS,
			recordType:       types.CatalogRecordType(f.hfs.RecordType),
			flags:            uint16(f.hfs.Flags),
			createDate:       f.hfs.CreateDate,
			contentModDate:   f.hfs.ModifyDate,
			attributeModDate: f.hfs.ModifyDate,
			accessDate:       f.hfs.ModifyDate,
			backupDate:       f.hfs.BackupDate,
		}
	}
	return Attributes{
		dialect:          types.DialectHFSPlus,
		recordType:       types.CatalogRecordType(f.plus.RecordType),
		flags:            f.plus.Flags,
		createDate:       f.plus.CreateDate,
		contentModDate:   f.plus.ContentModDate,
		attributeModDate: f.plus.AttributeModDate,
		accessDate:       f.plus.AccessDate,
		backupDate:       f.plus.BackupDate,
	}
}

// Permissions returns the BSD ownership and mode; ok is false for classic HFS
func (f *File) Permissions() (p types.HFSPlusBSDInfo, ok bool) {
	if f.plus == nil {
		return p, false
	}
	return f.plus.Permissions, true
}

// FinderInfo returns the file's Finder information
func (f *File) FinderInfo() types.FileInfo {
	if f.hfs != nil {
		return f.hfs.UserInfo
	}
	return f.plus.UserInfo
}

// IsHardFileLink reports whether the file is a hard link to an indirect node ('hlnk'/'hfs+')
func (f *File) IsHardFileLink() bool {
	if f.plus == nil {
		return false
	}
	return f.plus.UserInfo.FileType == types.HardLinkFileType && f.plus.UserInfo.FileCreator == types.HFSPlusCreator
}

// IsHardDirectoryLink reports whether the file is a directory hard link ('fdrp'/'MACS')
func (f *File) IsHardDirectoryLink() bool {
	if f.plus == nil {
		return false
	}
	return f.plus.UserInfo.FileType == types.DirLinkFileType && f.plus.UserInfo.FileCreator == types.MacsCreator
}

// IsSymbolicLink reports whether the file is a symbolic link, by mode or by its Finder codes
func (f *File) IsSymbolicLink() bool {
	if f.plus == nil {
		return false
	}
	if f.plus.Permissions.FileMode&types.ModeTypeMask == types.ModeSymlink {
		return true
	}
	return f.plus.UserInfo.FileType == types.SymLinkFileType && f.plus.UserInfo.FileCreator == types.SymLinkCreator
}

// HardLinkInode returns the indirect node number a hard link points to
func (f *File) HardLinkInode() uint32 {
	if f.plus == nil {
		return 0
	}
	return f.plus.Permissions.Special
}

// HFS returns the classic HFS record, or nil
func (f *File) HFS() *types.HFSCatalogFile { return f.hfs }

// HFSPlus returns the HFS+ record, or nil
func (f *File) HFSPlus() *types.HFSPlusCatalogFile { return f.plus }

// Size returns the encoded size of the record
func (f *File) Size() int {
	if f.hfs != nil {
		return types.HFSFileRecordSize
	}
	return types.HFSPlusFileRecordSize
}

// Bytes returns the on-disk encoding of the record
func (f *File) Bytes() []byte {
	if f.hfs != nil {
		h := f.hfs
		b := make([]byte, 74, types.HFSFileRecordSize)
		b[0] = h.RecordType
		b[1] = h.Reserved2
		b[2] = h.Flags
		b[3] = h.FileType
		encodeFileInfo(b[4:20], h.UserInfo)
		binary.BigEndian.PutUint32(b[20:24], uint32(h.FileID))
		binary.BigEndian.PutUint16(b[24:26], h.DataStartBlock)
		binary.BigEndian.PutUint32(b[26:30], h.DataLogicalSize)
		binary.BigEndian.PutUint32(b[30:34], h.DataPhysicalSize)
		binary.BigEndian.PutUint16(b[34:36], h.ResourceStartBlock)
		binary.BigEndian.PutUint32(b[36:40], h.ResourceLogicalSize)
		binary.BigEndian.PutUint32(b[40:44], h.ResourcePhysicalSize)
		binary.BigEndian.PutUint32(b[44:48], h.CreateDate)
		binary.BigEndian.PutUint32(b[48:52], h.ModifyDate)
		binary.BigEndian.PutUint32(b[52:56], h.BackupDate)
		copy(b[56:72], h.FinderInfo[:])
		binary.BigEndian.PutUint16(b[72:74], h.ClumpSize)
		b = extents.EncodeHFSExtentRecord(b, h.DataExtents)
		b = extents.EncodeHFSExtentRecord(b, h.ResourceExtents)
		return binary.BigEndian.AppendUint32(b, h.Reserved)
	}

	p := f.plus
	b := make([]byte, 88, types.HFSPlusFileRecordSize)
	binary.BigEndian.PutUint16(b[0:2], p.RecordType)
	binary.BigEndian.PutUint16(b[2:4], p.Flags)
	binary.BigEndian.PutUint32(b[4:8], p.Reserved1)
	binary.BigEndian.PutUint32(b[8:12], uint32(p.FileID))
	binary.BigEndian.PutUint32(b[12:16], p.CreateDate)
	binary.BigEndian.PutUint32(b[16:20], p.ContentModDate)
	binary.BigEndian.PutUint32(b[20:24], p.AttributeModDate)
	binary.BigEndian.PutUint32(b[24:28], p.AccessDate)
	binary.BigEndian.PutUint32(b[28:32], p.BackupDate)
	encodeBSDInfo(b[32:48], p.Permissions)
	encodeFileInfo(b[48:64], p.UserInfo)
	copy(b[64:80], p.FinderInfo[:])
	binary.BigEndian.PutUint32(b[80:84], p.TextEncoding)
	binary.BigEndian.PutUint32(b[84:88], p.Reserved2)
	b = append(b, extents.NewHFSPlusForkData(p.DataFork).Bytes()...)
	return append(b, extents.NewHFSPlusForkData(p.ResourceFork).Bytes()...)
}
