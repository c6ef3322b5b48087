package btrees

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// Record is an uninterpreted record byte range
type Record struct {
	data []byte
}

// NewRecord copies the span [offset, offset+length) of data into a Record
func NewRecord(data []byte, offset, length int) (*Record, error) {
	if offset < 0 || length < 0 || offset+length > len(data) {
		return nil, fmt.Errorf("record span [%d, %d) exceeds %d bytes", offset, offset+length, len(data))
	}
	return &Record{data: bytes.Clone(data[offset : offset+length])}, nil
}

// RawRecordFactory is a RecordFactory returning uninterpreted records
func RawRecordFactory(data []byte, offset, length, _ int) (*Record, error) {
	return NewRecord(data, offset, length)
}

// Bytes returns the record bytes
func (r *Record) Bytes() []byte {
	return bytes.Clone(r.data)
}

// Size returns the length of the record in bytes
func (r *Record) Size() int {
	return len(r.data)
}

// RawKey is a key ordered lexicographically over its raw bytes
type RawKey struct {
	data []byte
}

// NewRawKey wraps the encoded key bytes
func NewRawKey(data []byte) *RawKey {
	return &RawKey{data: bytes.Clone(data)}
}

// Bytes returns the encoded key
func (k *RawKey) Bytes() []byte {
	return bytes.Clone(k.data)
}

// OccupiedSize returns the length of the key in bytes
func (k *RawKey) OccupiedSize() int {
	return len(k.data)
}

// Compare orders two keys by their raw bytes
func (k *RawKey) Compare(other interfaces.BTreeKey) int {
	return CompareKeyBytes(k, other)
}

// CompareKeyBytes is the default key ordering: unsigned lexicographic over the encodings
func CompareKeyBytes(a, b interfaces.BTreeKey) int {
	return bytes.Compare(a.Bytes(), b.Bytes())
}

// KeyDecoder decodes the key starting at offset
type KeyDecoder[K interfaces.BTreeKey] func(data []byte, offset int) (K, error)

// IndexRecord is a key followed by the number of the child node it points to
type IndexRecord[K interfaces.BTreeKey] struct {
	key       K
	padding   []byte
	childNode uint32
	trailing  []byte
}

// DecodeIndexRecord decodes an index record spanning [offset, offset+length)
func DecodeIndexRecord[K interfaces.BTreeKey](data []byte, offset, length int, decodeKey KeyDecoder[K]) (*IndexRecord[K], error) {
	if offset < 0 || length < 0 || offset+length > len(data) {
		return nil, fmt.Errorf("index record span [%d, %d) exceeds %d bytes", offset, offset+length, len(data))
	}

	key, err := decodeKey(data[:offset+length], offset)
	if err != nil {
		return nil, fmt.Errorf("failed to decode index key: %w", err)
	}

	keyLen := len(key.Bytes())
	pointerAt := offset + key.OccupiedSize()
	if pointerAt+types.IndexRecordPointerSize > offset+length {
		return nil, types.NewDecodeError("index record", offset, types.ErrRecordOutOfBounds,
			"key of %d bytes leaves no room for child pointer in %d byte record", key.OccupiedSize(), length)
	}

	return &IndexRecord[K]{
		key:       key,
		padding:   bytes.Clone(data[offset+keyLen : pointerAt]),
		childNode: binary.BigEndian.Uint32(data[pointerAt : pointerAt+4]),
		trailing:  bytes.Clone(data[pointerAt+4 : offset+length]),
	}, nil
}

// Key returns the index key
func (r *IndexRecord[K]) Key() K {
	return r.key
}

// ChildNode returns the node number the record points to
func (r *IndexRecord[K]) ChildNode() uint32 {
	return r.childNode
}

// Bytes returns the key, its padding and the child pointer
func (r *IndexRecord[K]) Bytes() []byte {
	out := r.key.Bytes()
	out = append(out, r.padding...)
	out = binary.BigEndian.AppendUint32(out, r.childNode)
	return append(out, r.trailing...)
}

// Size returns the length of the record in bytes
func (r *IndexRecord[K]) Size() int {
	return r.key.OccupiedSize() + types.IndexRecordPointerSize + len(r.trailing)
}
