package catalog

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// LeafRecord is one catalog leaf record: *FolderRecord, *FileRecord, *FolderThreadRecord
// or *FileThreadRecord.
type LeafRecord interface {
	Key() *Key
	RecordType() types.CatalogRecordType

	// Bytes returns the key, the padding after it and the record data exactly as read.
	Bytes() []byte
	Size() int
}

type leafRecord struct {
	key      *Key
	padding  []byte
	trailing []byte
}

func (r *leafRecord) Key() *Key { return r.key }

func (r *leafRecord) encode(body []byte) []byte {
	out := r.key.Bytes()
	out = append(out, r.padding...)
	out = append(out, body...)
	return append(out, r.trailing...)
}

func (r *leafRecord) size(bodySize int) int {
	return r.key.OccupiedSize() + len(r.padding) + bodySize + len(r.trailing)
}

// FolderRecord is a folder entry
type FolderRecord struct {
	leafRecord
	Folder *Folder
}

func (r *FolderRecord) RecordType() types.CatalogRecordType { return types.CatalogFolderRecord }
func (r *FolderRecord) Bytes() []byte                       { return r.encode(r.Folder.Bytes()) }
func (r *FolderRecord) Size() int                           { return r.size(r.Folder.Size()) }

// FileRecord is a file entry
type FileRecord struct {
	leafRecord
	File *File
}

func (r *FileRecord) RecordType() types.CatalogRecordType { return types.CatalogFileRecord }
func (r *FileRecord) Bytes() []byte                       { return r.encode(r.File.Bytes()) }
func (r *FileRecord) Size() int                           { return r.size(r.File.Size()) }

// FolderThreadRecord links a folder's CNID to its parent and name
type FolderThreadRecord struct {
	leafRecord
	Thread *Thread
}

func (r *FolderThreadRecord) RecordType() types.CatalogRecordType {
	return types.CatalogFolderThreadRecord
}
func (r *FolderThreadRecord) Bytes() []byte { return r.encode(r.Thread.Bytes()) }
func (r *FolderThreadRecord) Size() int     { return r.size(r.Thread.Size()) }

// FileThreadRecord links a file's CNID to its parent and name
type FileThreadRecord struct {
	leafRecord
	Thread *Thread
}

func (r *FileThreadRecord) RecordType() types.CatalogRecordType { return types.CatalogFileThreadRecord }
func (r *FileThreadRecord) Bytes() []byte                       { return r.encode(r.Thread.Bytes()) }
func (r *FileThreadRecord) Size() int                           { return r.size(r.Thread.Size()) }

// DecodeLeafRecord decodes the catalog leaf record spanning [offset, offset+length).
// The key is decoded first; the record type tag that follows it (after padding to an even
// offset for HFS) selects the record layout. header supplies the HFSX compare type and may be nil.
func DecodeLeafRecord(data []byte, offset, length int, dialect types.Dialect, header *btrees.HeaderRecord) (LeafRecord, error) {
	if offset < 0 || length < 0 || offset+length > len(data) {
		return nil, fmt.Errorf("catalog leaf record span [%d, %d) exceeds %d bytes", offset, offset+length, len(data))
	}
	end := offset + length
	record := data[:end]

	key, err := DecodeKey(record, offset, dialect, CompareTypeFor(dialect, header))
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog key: %w", err)
	}

	at := offset + key.OccupiedSize()
	if dialect == types.DialectHFS && (at-offset)%2 != 0 {
		at++
	}
	if at > end {
		return nil, types.NewDecodeError("catalog leaf record", offset, types.ErrRecordOutOfBounds,
			"key of %d bytes fills the %d byte record", key.OccupiedSize(), length)
	}
	base := leafRecord{key: key, padding: bytes.Clone(data[offset+key.OccupiedSize() : at])}

	recordType, err := peekRecordType(record, at, dialect)
	if err != nil {
		return nil, err
	}

	tail := func(bodySize int) []byte {
		return bytes.Clone(data[at+bodySize : end])
	}

	switch recordType {
	case types.CatalogFolderRecord:
		folder, err := decodeFolder(record, at, dialect)
		if err != nil {
			return nil, err
		}
		base.trailing = tail(folder.Size())
		return &FolderRecord{leafRecord: base, Folder: folder}, nil
	case types.CatalogFileRecord:
		file, err := decodeFile(record, at, dialect)
		if err != nil {
			return nil, err
		}
		base.trailing = tail(file.Size())
		return &FileRecord{leafRecord: base, File: file}, nil
	case types.CatalogFolderThreadRecord:
		thread, err := decodeThread(record, at, dialect)
		if err != nil {
			return nil, err
		}
		base.trailing = tail(thread.Size())
		return &FolderThreadRecord{leafRecord: base, Thread: thread}, nil
	case types.CatalogFileThreadRecord:
		thread, err := decodeThread(record, at, dialect)
		if err != nil {
			return nil, err
		}
		base.trailing = tail(thread.Size())
		return &FileThreadRecord{leafRecord: base, Thread: thread}, nil
	default:
		return nil, types.NewDecodeError("catalog leaf record", at, types.ErrInvalidRecordType,
			"record type 0x%x", uint16(recordType))
	}
}

func peekRecordType(data []byte, at int, dialect types.Dialect) (types.CatalogRecordType, error) {
	if dialect == types.DialectHFS {
		if at >= len(data) {
			return 0, types.NewDecodeError("catalog leaf record", at, types.ErrInsufficientData, "no record type")
		}
		return types.CatalogRecordType(data[at]), nil
	}
	if at+2 > len(data) {
		return 0, types.NewDecodeError("catalog leaf record", at, types.ErrInsufficientData, "no record type")
	}
	return types.CatalogRecordType(binary.BigEndian.Uint16(data[at : at+2])), nil
}

func decodeFolder(data []byte, at int, dialect types.Dialect) (*Folder, error) {
	if dialect == types.DialectHFS {
		return DecodeHFSFolder(data, at)
	}
	return DecodeHFSPlusFolder(data, at)
}

func decodeFile(data []byte, at int, dialect types.Dialect) (*File, error) {
	if dialect == types.DialectHFS {
		return DecodeHFSFile(data, at)
	}
	return DecodeHFSPlusFile(data, at)
}

func decodeThread(data []byte, at int, dialect types.Dialect) (*Thread, error) {
	if dialect == types.DialectHFS {
		return DecodeHFSThread(data, at)
	}
	return DecodeHFSPlusThread(data, at)
}

// LeafRecordFactory returns a btrees.RecordFactory decoding catalog leaf records
func LeafRecordFactory(dialect types.Dialect, header *btrees.HeaderRecord) btrees.RecordFactory[LeafRecord] {
	return func(data []byte, offset, length, _ int) (LeafRecord, error) {
		return DecodeLeafRecord(data, offset, length, dialect, header)
	}
}
