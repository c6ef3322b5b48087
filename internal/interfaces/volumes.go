// File: internal/interfaces/volumes.go
package interfaces

import (
	"time"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// VolumeHeaderReader unifies the classic HFS Master Directory Block and the HFS+ volume header
type VolumeHeaderReader interface {
	// Dialect returns the on-disk variant of the volume
	Dialect() types.Dialect

	// Signature returns the raw volume signature
	Signature() uint16

	// BlockSize returns the allocation block size in bytes
	BlockSize() uint32

	// TotalBlocks returns the number of allocation blocks
	TotalBlocks() uint32

	// FreeBlocks returns the number of unused allocation blocks
	FreeBlocks() uint32

	// AllocationBlockStart returns the byte offset of allocation block 0 from the start of the volume
	AllocationBlockStart() int64

	// FileSystemEnd returns the byte length the volume occupies
	FileSystemEnd() int64

	// CreateDate returns the volume creation date
	CreateDate() time.Time

	// ModifyDate returns the date of the last modification
	ModifyDate() time.Time

	// BackupDate returns the date of the last backup
	BackupDate() time.Time

	// NextCatalogID returns the next unused catalog node ID
	NextCatalogID() types.CatalogNodeID

	// FileCount returns the number of files on the volume
	FileCount() uint32

	// FolderCount returns the number of folders on the volume
	FolderCount() uint32

	// IsJournaled reports whether the volume has a journal
	IsJournaled() bool

	// JournalInfoBlock returns the allocation block holding the journal info block
	JournalInfoBlock() uint32

	// Bytes returns the on-disk encoding of the header
	Bytes() []byte
}
