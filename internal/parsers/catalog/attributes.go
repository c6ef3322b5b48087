package catalog

import (
	"time"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// Attributes are the fields shared by file and folder records.
// Classic HFS has no attribute-modified or access date; those accessors fall back to the
// modification date and the Has methods report false.
type Attributes struct {
	dialect          types.Dialect
	recordType       types.CatalogRecordType
	flags            uint16
	createDate       uint32
	contentModDate   uint32
	attributeModDate uint32
	accessDate       uint32
	backupDate       uint32
}

// RecordType returns the catalog record type
func (a Attributes) RecordType() types.CatalogRecordType { return a.recordType }

// Flags returns the record flags
func (a Attributes) Flags() uint16 { return a.flags }

// CreateDate returns the raw creation timestamp
func (a Attributes) CreateDate() uint32 { return a.createDate }

// ContentModDate returns the raw content modification timestamp
func (a Attributes) ContentModDate() uint32 { return a.contentModDate }

// AttributeModDate returns the raw attribute modification timestamp
func (a Attributes) AttributeModDate() uint32 { return a.attributeModDate }

// AccessDate returns the raw last access timestamp
func (a Attributes) AccessDate() uint32 { return a.accessDate }

// BackupDate returns the raw backup timestamp
func (a Attributes) BackupDate() uint32 { return a.backupDate }

func (a Attributes) HasCreateDate() bool       { return true }
func (a Attributes) HasContentModDate() bool   { return true }
func (a Attributes) HasAttributeModDate() bool { return a.dialect.IsHFSPlusFamily() }
func (a Attributes) HasAccessDate() bool       { return a.dialect.IsHFSPlusFamily() }
func (a Attributes) HasBackupDate() bool       { return true }

// CreateTime returns the creation date
func (a Attributes) CreateTime() time.Time { return types.MacTimeToTime(a.createDate) }

// ContentModTime returns the content modification date
func (a Attributes) ContentModTime() time.Time { return types.MacTimeToTime(a.contentModDate) }

// AttributeModTime returns the attribute modification date
func (a Attributes) AttributeModTime() time.Time { return types.MacTimeToTime(a.attributeModDate) }

// AccessTime returns the last access date
func (a Attributes) AccessTime() time.Time { return types.MacTimeToTime(a.accessDate) }

// BackupTime returns the backup date
func (a Attributes) BackupTime() time.Time { return types.MacTimeToTime(a.backupDate) }

// IsLocked reports whether the locked flag is set
func (a Attributes) IsLocked() bool { return a.flags&types.HFSFileLockedMask != 0 }
