package dsstore

import (
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// Node is a DSDB tree node. Records are stored back to back after the 8-byte node header;
// in index nodes each record is preceded by the block ID of the child holding smaller keys.
type Node struct {
	BlockID uint32
	Address BlockAddress

	// Mode is zero for leaf nodes and the rightmost child block ID for index nodes
	Mode     uint32
	Records  []Record
	Children []uint32
}

// IsLeaf reports whether the node has no children
func (n *Node) IsLeaf() bool { return n.Mode == 0 }

// RightmostChild returns the child holding keys greater than every record
func (n *Node) RightmostChild() uint32 { return n.Mode }

// ChildBlocks returns every child block ID in key order
func (n *Node) ChildBlocks() []uint32 {
	if n.IsLeaf() {
		return nil
	}
	return append(append([]uint32(nil), n.Children...), n.Mode)
}

// DecodeNode decodes the node stored in block id
func DecodeNode(data []byte, rb *RootBlock, id uint32) (*Node, error) {
	addr, err := rb.Block(id)
	if err != nil {
		return nil, err
	}
	start := addr.FileOffset()
	end := start + int(addr.Size())
	if end > len(data) {
		return nil, types.NewDecodeError("DS_Store node", start, types.ErrRecordOutOfBounds,
			"block %d of %d bytes exceeds file of %d bytes", id, addr.Size(), len(data))
	}

	r := &reader{data: data[:end], pos: start}
	n := &Node{BlockID: id, Address: addr}
	if n.Mode, err = r.u32(); err != nil {
		return nil, err
	}
	count, err := r.u32()
	if err != nil {
		return nil, err
	}

	for i := uint32(0); i < count; i++ {
		if !n.IsLeaf() {
			child, err := r.u32()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
		rec, err := decodeRecord(r)
		if err != nil {
			return nil, fmt.Errorf("node %d record %d: %w", id, i, err)
		}
		n.Records = append(n.Records, rec)
	}
	return n, nil
}
