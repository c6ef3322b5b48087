package catalog

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// Folder is a catalog folder record in either dialect. Exactly one of hfs and plus is set.
type Folder struct {
	hfs  *types.HFSCatalogFolder
	plus *types.HFSPlusCatalogFolder
}

// DecodeHFSFolder decodes a CdrDirRec at offset
func DecodeHFSFolder(data []byte, offset int) (*Folder, error) {
	if offset < 0 || len(data)-offset < types.HFSFolderRecordSize {
		return nil, types.NewDecodeError("HFS folder record", offset, types.ErrInsufficientData,
			"need %d bytes, have %d", types.HFSFolderRecordSize, len(data)-offset)
	}
	b := data[offset : offset+types.HFSFolderRecordSize]
	f := &types.HFSCatalogFolder{
		RecordType: b[0],
		Reserved2:  b[1],
		Flags:      binary.BigEndian.Uint16(b[2:4]),
		Valence:    binary.BigEndian.Uint16(b[4:6]),
		DirID:      types.CatalogNodeID(binary.BigEndian.Uint32(b[6:10])),
		CreateDate: binary.BigEndian.Uint32(b[10:14]),
		ModifyDate: binary.BigEndian.Uint32(b[14:18]),
		BackupDate: binary.BigEndian.Uint32(b[18:22]),
		UserInfo:   decodeFolderInfo(b[22:38]),
	}
	copy(f.FinderInfo[:], b[38:54])
	for i := range f.Reserved {
		f.Reserved[i] = binary.BigEndian.Uint32(b[54+4*i : 58+4*i])
	}
	return &Folder{hfs: f}, nil
}

// DecodeHFSPlusFolder decodes an HFSPlusCatalogFolder at offset
func DecodeHFSPlusFolder(data []byte, offset int) (*Folder, error) {
	if offset < 0 || len(data)-offset < types.HFSPlusFolderRecordSize {
		return nil, types.NewDecodeError("HFS+ folder record", offset, types.ErrInsufficientData,
			"need %d bytes, have %d", types.HFSPlusFolderRecordSize, len(data)-offset)
	}
	b := data[offset : offset+types.HFSPlusFolderRecordSize]
	f := &types.HFSPlusCatalogFolder{
		RecordType:       binary.BigEndian.Uint16(b[0:2]),
		Flags:            binary.BigEndian.Uint16(b[2:4]),
		Valence:          binary.BigEndian.Uint32(b[4:8]),
		FolderID:         types.CatalogNodeID(binary.BigEndian.Uint32(b[8:12])),
		CreateDate:       binary.BigEndian.Uint32(b[12:16]),
		ContentModDate:   binary.BigEndian.Uint32(b[16:20]),
		AttributeModDate: binary.BigEndian.Uint32(b[20:24]),
		AccessDate:       binary.BigEndian.Uint32(b[24:28]),
		BackupDate:       binary.BigEndian.Uint32(b[28:32]),
		Permissions:      decodeBSDInfo(b[32:48]),
		UserInfo:         decodeFolderInfo(b[48:64]),
		TextEncoding:     binary.BigEndian.Uint32(b[80:84]),
		FolderCount:      binary.BigEndian.Uint32(b[84:88]),
	}
	copy(f.FinderInfo[:], b[64:80])
	return &Folder{plus: f}, nil
}

// Dialect returns DialectHFS or DialectHFSPlus
func (f *Folder) Dialect() types.Dialect {
	if f.hfs != nil {
		return types.DialectHFS
	}
	return types.DialectHFSPlus
}

// FolderID returns the CNID of the folder
func (f *Folder) FolderID() types.CatalogNodeID {
	if f.hfs != nil {
		return f.hfs.DirID
	}
	return f.plus.FolderID
}

// Valence returns the number of direct children
func (f *Folder) Valence() uint32 {
	if f.hfs != nil {
		return uint32(f.hfs.Valence)
	}
	return f.plus.Valence
}

// Attributes returns the shared record attributes
func (f *Folder) Attributes() Attributes {
	if f.hfs != nil {
		return Attributes{
			dialect:          types.DialectHFS,
			recordType:       types.CatalogRecordType(f.hfs.RecordType),
			flags:            f.hfs.Flags,
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
func (f *Folder) Permissions() (p types.HFSPlusBSDInfo, ok bool) {
	if f.plus == nil {
		return p, false
	}
	return f.plus.Permissions, true
}

// FinderInfo returns the folder's Finder information
func (f *Folder) FinderInfo() types.FolderInfo {
	if f.hfs != nil {
		return f.hfs.UserInfo
	}
	return f.plus.UserInfo
}

// HFS returns the classic HFS record, or nil
func (f *Folder) HFS() *types.HFSCatalogFolder { return f.hfs }

// HFSPlus returns the HFS+ record, or nil
func (f *Folder) HFSPlus() *types.HFSPlusCatalogFolder { return f.plus }

// Size returns the encoded size of the record
func (f *Folder) Size() int {
	if f.hfs != nil {
		return types.HFSFolderRecordSize
	}
	return types.HFSPlusFolderRecordSize
}

// Bytes returns the on-disk encoding of the record
func (f *Folder) Bytes() []byte {
	if f.hfs != nil {
		h := f.hfs
		b := make([]byte, types.HFSFolderRecordSize)
		b[0] = h.RecordType
		b[1] = h.Reserved2
		binary.BigEndian.PutUint16(b[2:4], h.Flags)
		binary.BigEndian.PutUint16(b[4:6], h.Valence)
		binary.BigEndian.PutUint32(b[6:10], uint32(h.DirID))
		binary.BigEndian.PutUint32(b[10:14], h.CreateDate)
		binary.BigEndian.PutUint32(b[14:18], h.ModifyDate)
		binary.BigEndian.PutUint32(b[18:22], h.BackupDate)
		encodeFolderInfo(b[22:38], h.UserInfo)
		copy(b[38:54], h.FinderInfo[:])
		for i, v := range h.Reserved {
			binary.BigEndian.PutUint32(b[54+4*i:58+4*i], v)
		}
		return b
	}

	p := f.plus
	b := make([]byte, types.HFSPlusFolderRecordSize)
	binary.BigEndian.PutUint16(b[0:2], p.RecordType)
	binary.BigEndian.PutUint16(b[2:4], p.Flags)
	binary.BigEndian.PutUint32(b[4:8], p.Valence)
	binary.BigEndian.PutUint32(b[8:12], uint32(p.FolderID))
	binary.BigEndian.PutUint32(b[12:16], p.CreateDate)
	binary.BigEndian.PutUint32(b[16:20], p.ContentModDate)
	binary.BigEndian.PutUint32(b[20:24], p.AttributeModDate)
	binary.BigEndian.PutUint32(b[24:28], p.AccessDate)
	binary.BigEndian.PutUint32(b[28:32], p.BackupDate)
	encodeBSDInfo(b[32:48], p.Permissions)
	encodeFolderInfo(b[48:64], p.UserInfo)
	copy(b[64:80], p.FinderInfo[:])
	binary.BigEndian.PutUint32(b[80:84], p.TextEncoding)
	binary.BigEndian.PutUint32(b[84:88], p.FolderCount)
	return b
}
