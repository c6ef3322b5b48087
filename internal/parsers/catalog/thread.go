package catalog

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// Thread maps a CNID back to its parent folder and name. File and folder threads share the layout.
type Thread struct {
	hfs  *types.HFSCatalogThread
	plus *types.HFSPlusCatalogThread
}

// DecodeHFSThread decodes a CdrThdRec or CdrFThdRec at offset
func DecodeHFSThread(data []byte, offset int) (*Thread, error) {
	if offset < 0 || len(data)-offset < types.HFSThreadRecordSize {
		return nil, types.NewDecodeError("HFS thread record", offset, types.ErrInsufficientData,
			"need %d bytes, have %d", types.HFSThreadRecordSize, len(data)-offset)
	}
	b := data[offset : offset+types.HFSThreadRecordSize]
	t := &types.HFSCatalogThread{
		RecordType: b[0],
		Reserved2:  b[1],
		ParentID:   types.CatalogNodeID(binary.BigEndian.Uint32(b[10:14])),
	}
	copy(t.Reserved[:], b[2:10])
	copy(t.NodeName[:], b[14:46])
	if int(t.NodeName[0]) > types.HFSMaxNameLength {
		return nil, types.NewDecodeError("HFS thread record", offset, types.ErrRecordOutOfBounds,
			"name length %d exceeds %d", t.NodeName[0], types.HFSMaxNameLength)
	}
	return &Thread{hfs: t}, nil
}

// DecodeHFSPlusThread decodes an HFSPlusCatalogThread at offset
func DecodeHFSPlusThread(data []byte, offset int) (*Thread, error) {
	if offset < 0 || len(data)-offset < types.HFSPlusThreadRecordMinSize {
		return nil, types.NewDecodeError("HFS+ thread record", offset, types.ErrInsufficientData,
			"need %d bytes, have %d", types.HFSPlusThreadRecordMinSize, len(data)-offset)
	}
	b := data[offset:]
	nameLen := int(binary.BigEndian.Uint16(b[8:10]))
	if nameLen > types.HFSPlusMaxNameLength || types.HFSPlusThreadRecordMinSize+2*nameLen > len(b) {
		return nil, types.NewDecodeError("HFS+ thread record", offset, types.ErrRecordOutOfBounds,
			"name length %d does not fit %d bytes", nameLen, len(b))
	}

	t := &types.HFSPlusCatalogThread{
		RecordType: binary.BigEndian.Uint16(b[0:2]),
		Reserved:   binary.BigEndian.Uint16(b[2:4]),
		ParentID:   types.CatalogNodeID(binary.BigEndian.Uint32(b[4:8])),
		NodeName:   make([]uint16, nameLen),
	}
	for i := range t.NodeName {
		t.NodeName[i] = binary.BigEndian.Uint16(b[10+2*i:])
	}
	return &Thread{plus: t}, nil
}

// Dialect returns DialectHFS or DialectHFSPlus
func (t *Thread) Dialect() types.Dialect {
	if t.hfs != nil {
		return types.DialectHFS
	}
	return types.DialectHFSPlus
}

// RecordType returns whether this is a file or folder thread
func (t *Thread) RecordType() types.CatalogRecordType {
	if t.hfs != nil {
		return types.CatalogRecordType(t.hfs.RecordType)
	}
	return types.CatalogRecordType(t.plus.RecordType)
}

// ParentID returns the CNID of the parent folder of the thread's node
func (t *Thread) ParentID() types.CatalogNodeID {
	if t.hfs != nil {
		return t.hfs.ParentID
	}
	return t.plus.ParentID
}

// NodeName returns the name of the thread's node
func (t *Thread) NodeName() CatalogString {
	if t.hfs != nil {
		return NewHFSString(t.hfs.NodeName[1 : 1+t.hfs.NodeName[0]])
	}
	return NewHFSPlusStringFromUnits(t.plus.NodeName)
}

// HFS returns the classic HFS record, or nil
func (t *Thread) HFS() *types.HFSCatalogThread { return t.hfs }

// HFSPlus returns the HFS+ record, or nil
func (t *Thread) HFSPlus() *types.HFSPlusCatalogThread { return t.plus }

// Size returns the encoded size of the record
func (t *Thread) Size() int {
	if t.hfs != nil {
		return types.HFSThreadRecordSize
	}
	return types.HFSPlusThreadRecordMinSize + 2*len(t.plus.NodeName)
}

// Bytes returns the on-disk encoding of the record
func (t *Thread) Bytes() []byte {
	if t.hfs != nil {
		h := t.hfs
		b := make([]byte, types.HFSThreadRecordSize)
		b[0] = h.RecordType
		b[1] = h.Reserved2
		copy(b[2:10], h.Reserved[:])
		binary.BigEndian.PutUint32(b[10:14], uint32(h.ParentID))
		copy(b[14:46], h.NodeName[:])
		return b
	}

	p := t.plus
	b := make([]byte, types.HFSPlusThreadRecordMinSize, t.Size())
	binary.BigEndian.PutUint16(b[0:2], p.RecordType)
	binary.BigEndian.PutUint16(b[2:4], p.Reserved)
	binary.BigEndian.PutUint32(b[4:8], uint32(p.ParentID))
	binary.BigEndian.PutUint16(b[8:10], uint16(len(p.NodeName)))
	for _, u := range p.NodeName {
		b = binary.BigEndian.AppendUint16(b, u)
	}
	return b
}
