package dsstore

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

const (
	// block address slots are allocated in groups of 256
	addressGroup = 256

	freeListBuckets = 32
)

// TOCEntry names a block in the root block's table of contents
type TOCEntry struct {
	Name    string
	BlockID uint32
}

// RootBlock is the allocator's bookkeeping block: block addresses, table of contents and free lists
type RootBlock struct {
	unknown   uint32
	addresses []BlockAddress
	toc       []TOCEntry
	freeLists [freeListBuckets][]uint32
}

// DecodeRootBlock decodes the root block located by the header
func DecodeRootBlock(data []byte, h *Header) (*RootBlock, error) {
	start := types.DSStoreAllocatorOffset + int(h.RootBlockOffset)
	end := start + int(h.RootBlockSize)
	if end > len(data) || end < start {
		return nil, types.NewDecodeError("DS_Store root block", start, types.ErrRecordOutOfBounds,
			"size %d exceeds file of %d bytes", h.RootBlockSize, len(data))
	}
	r := &reader{data: data[:end], pos: start}

	count, err := r.u32()
	if err != nil {
		return nil, err
	}
	rb := &RootBlock{}
	if rb.unknown, err = r.u32(); err != nil {
		return nil, err
	}

	slots := (int(count) + addressGroup - 1) / addressGroup * addressGroup
	if slots*4 > end-r.pos {
		return nil, types.NewDecodeError("DS_Store root block", r.pos, types.ErrRecordOutOfBounds,
			"%d block addresses do not fit", count)
	}
	rb.addresses = make([]BlockAddress, count)
	for i := range rb.addresses {
		rb.addresses[i] = BlockAddress(binary.BigEndian.Uint32(data[r.pos+4*i:]))
	}
	r.pos += slots * 4

	tocCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < tocCount; i++ {
		nameLen, err := r.u8()
		if err != nil {
			return nil, err
		}
		name, err := r.bytes(int(nameLen))
		if err != nil {
			return nil, err
		}
		id, err := r.u32()
		if err != nil {
			return nil, err
		}
		rb.toc = append(rb.toc, TOCEntry{Name: string(name), BlockID: id})
	}

	for i := range rb.freeLists {
		n, err := r.u32()
		if err != nil {
			return nil, fmt.Errorf("free list bucket %d: %w", i, err)
		}
		for j := uint32(0); j < n; j++ {
			off, err := r.u32()
			if err != nil {
				return nil, fmt.Errorf("free list bucket %d: %w", i, err)
			}
			rb.freeLists[i] = append(rb.freeLists[i], off)
		}
	}
	return rb, nil
}

// BlockCount returns the number of allocated block IDs
func (rb *RootBlock) BlockCount() int { return len(rb.addresses) }

// Block returns the address of block id
func (rb *RootBlock) Block(id uint32) (BlockAddress, error) {
	if int(id) >= len(rb.addresses) {
		return 0, fmt.Errorf("block %d not in allocator of %d blocks: %w", id, len(rb.addresses), types.ErrRecordOutOfBounds)
	}
	return rb.addresses[id], nil
}

// Addresses returns all block addresses indexed by block ID
func (rb *RootBlock) Addresses() []BlockAddress {
	return append([]BlockAddress(nil), rb.addresses...)
}

// TableOfContents returns the named blocks
func (rb *RootBlock) TableOfContents() []TOCEntry {
	return append([]TOCEntry(nil), rb.toc...)
}

// Lookup returns the block ID of a table of contents entry
func (rb *RootBlock) Lookup(name string) (uint32, bool) {
	for _, e := range rb.toc {
		if e.Name == name {
			return e.BlockID, true
		}
	}
	return 0, false
}

// FreeList returns the free block offsets of size 1<<bucket
func (rb *RootBlock) FreeList(bucket int) []uint32 {
	return append([]uint32(nil), rb.freeLists[bucket]...)
}

// reader is a bounds-checked big-endian cursor
type reader struct {
	data []byte
	pos  int
}

func (r *reader) need(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return types.NewDecodeError("DS_Store", r.pos, types.ErrInsufficientData,
			"need %d bytes, have %d", n, len(r.data)-r.pos)
	}
	return nil
}

func (r *reader) u8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	r.pos++
	return r.data[r.pos-1], nil
}

func (r *reader) u16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	r.pos += 2
	return binary.BigEndian.Uint16(r.data[r.pos-2:]), nil
}

func (r *reader) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	r.pos += 4
	return binary.BigEndian.Uint32(r.data[r.pos-4:]), nil
}

func (r *reader) u64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	r.pos += 8
	return binary.BigEndian.Uint64(r.data[r.pos-8:]), nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	r.pos += n
	return r.data[r.pos-n : r.pos], nil
}
