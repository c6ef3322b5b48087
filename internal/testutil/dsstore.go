package testutil

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

const dsStoreBlockShift = 11

// DSStoreNode describes a synthetic DSDB tree node. Children are block IDs, one per record,
// and Mode is the rightmost child (zero for leaves).
type DSStoreNode struct {
	Mode     uint32
	Children []uint32
	Records  [][]byte
}

// DSStoreNodeBlock returns the block ID BuildDSStore assigns to nodes[i]
func DSStoreNodeBlock(i int) uint32 { return uint32(i + 2) }

// DSStoreRecord encodes a record: filename, struct ID, struct type and the encoded value
func DSStoreRecord(filename, structID, structType string, value []byte) []byte {
	name := UTF16BE(filename)
	b := binary.BigEndian.AppendUint32(nil, uint32(len(name)/2))
	b = append(b, name...)
	b = binary.BigEndian.AppendUint32(b, uint32(types.NewFourCC(structID)))
	b = binary.BigEndian.AppendUint32(b, uint32(types.NewFourCC(structType)))
	return append(b, value...)
}

// BuildDSStore lays out a .DS_Store file. Block 0 is the root block, block 1 the DSDB header
// and nodes follow from block 2, each in its own 2 KiB block.
func BuildDSStore(rootNode, levels uint32, nodes ...DSStoreNode) []byte {
	blockSize := 1 << dsStoreBlockShift
	blocks := len(nodes) + 2
	file := make([]byte, types.DSStoreAllocatorOffset+(blocks+1)*blockSize)
	be := binary.BigEndian

	addr := func(id int) uint32 { return uint32((id+1)*blockSize) | dsStoreBlockShift }
	at := func(id int) []byte {
		off := types.DSStoreAllocatorOffset + (id+1)*blockSize
		return file[off : off+blockSize]
	}

	be.PutUint32(file[0:4], types.DSStoreMagic1)
	be.PutUint32(file[4:8], types.DSStoreMagic2)
	be.PutUint32(file[8:12], uint32(blockSize))
	be.PutUint32(file[12:16], uint32(blockSize))
	be.PutUint32(file[16:20], uint32(blockSize))

	root := be.AppendUint32(nil, uint32(blocks))
	root = be.AppendUint32(root, 0)
	slots := make([]byte, 256*4)
	for id := 0; id < blocks; id++ {
		be.PutUint32(slots[4*id:], addr(id))
	}
	root = append(root, slots...)
	root = be.AppendUint32(root, 1)
	root = append(root, byte(len(types.DSStoreRootTOCName)))
	root = append(root, types.DSStoreRootTOCName...)
	root = be.AppendUint32(root, 1)
	root = append(root, make([]byte, 32*4)...)
	copy(at(0), root)

	var records uint32
	for _, n := range nodes {
		records += uint32(len(n.Records))
	}
	hdr := at(1)
	be.PutUint32(hdr[0:4], rootNode)
	be.PutUint32(hdr[4:8], levels)
	be.PutUint32(hdr[8:12], records)
	be.PutUint32(hdr[12:16], uint32(len(nodes)))
	be.PutUint32(hdr[16:20], 0x1000)

	for i, n := range nodes {
		b := be.AppendUint32(nil, n.Mode)
		b = be.AppendUint32(b, uint32(len(n.Records)))
		for j, r := range n.Records {
			if n.Mode != 0 {
				b = be.AppendUint32(b, n.Children[j])
			}
			b = append(b, r...)
		}
		copy(at(int(DSStoreNodeBlock(i))), b)
	}
	return file
}
