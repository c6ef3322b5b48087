package dsstore

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// TreeHeader is the DSDB block describing the record tree
type TreeHeader struct {
	RootNode uint32
	Levels   uint32
	Records  uint32
	Nodes    uint32
	PageSize uint32
}

// Store is a decoded .DS_Store file
type Store struct {
	data       []byte
	header     *Header
	root       *RootBlock
	treeHeader TreeHeader
	treeBlock  uint32
}

// Open decodes the allocator structures and the DSDB tree header of a .DS_Store file
func Open(data []byte) (*Store, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	rb, err := DecodeRootBlock(data, h)
	if err != nil {
		return nil, fmt.Errorf("failed to decode root block: %w", err)
	}
	id, ok := rb.Lookup(types.DSStoreRootTOCName)
	if !ok {
		return nil, fmt.Errorf("no %s entry in table of contents", types.DSStoreRootTOCName)
	}
	th, err := decodeTreeHeader(data, rb, id)
	if err != nil {
		return nil, err
	}
	return &Store{data: data, header: h, root: rb, treeHeader: th, treeBlock: id}, nil
}

func decodeTreeHeader(data []byte, rb *RootBlock, id uint32) (TreeHeader, error) {
	addr, err := rb.Block(id)
	if err != nil {
		return TreeHeader{}, err
	}
	at := addr.FileOffset()
	if at+types.DSStoreTreeHeaderSize > len(data) {
		return TreeHeader{}, types.NewDecodeError("DS_Store tree header", at, types.ErrInsufficientData,
			"need %d bytes", types.DSStoreTreeHeaderSize)
	}
	b := data[at : at+types.DSStoreTreeHeaderSize]
	return TreeHeader{
		RootNode: binary.BigEndian.Uint32(b[0:4]),
		Levels:   binary.BigEndian.Uint32(b[4:8]),
		Records:  binary.BigEndian.Uint32(b[8:12]),
		Nodes:    binary.BigEndian.Uint32(b[12:16]),
		PageSize: binary.BigEndian.Uint32(b[16:20]),
	}, nil
}

func (s *Store) Header() *Header        { return s.header }
func (s *Store) RootBlock() *RootBlock  { return s.root }
func (s *Store) TreeHeader() TreeHeader { return s.treeHeader }

// TreeBlock returns the ID and address of the DSDB block
func (s *Store) TreeBlock() (uint32, BlockAddress) {
	addr, _ := s.root.Block(s.treeBlock)
	return s.treeBlock, addr
}

// Node decodes the tree node in block id
func (s *Store) Node(id uint32) (*Node, error) {
	return DecodeNode(s.data, s.root, id)
}

// WalkFunc is called for each node with its depth below the root
type WalkFunc func(depth int, n *Node) error

// Walk visits the tree depth-first, each node before its children, children in key order.
// It stops at the first error returned by fn or when ctx is done.
func (s *Store) Walk(ctx context.Context, fn WalkFunc) error {
	visited := make(map[uint32]bool)
	var walk func(id uint32, depth int) error
	walk = func(id uint32, depth int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if visited[id] {
			return fmt.Errorf("node %d reached twice: %w", id, types.ErrRecordOutOfBounds)
		}
		visited[id] = true

		n, err := s.Node(id)
		if err != nil {
			return err
		}
		if err := fn(depth, n); err != nil {
			return err
		}
		for _, child := range n.ChildBlocks() {
			if err := walk(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(s.treeHeader.RootNode, 0)
}

// Records returns every record of the tree in key order
func (s *Store) Records(ctx context.Context) ([]Record, error) {
	var out []Record
	var inOrder func(id uint32, depth int) error
	inOrder = func(id uint32, depth int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if depth > int(s.treeHeader.Levels)+1 {
			return fmt.Errorf("tree deeper than %d levels: %w", s.treeHeader.Levels, types.ErrRecordOutOfBounds)
		}
		n, err := s.Node(id)
		if err != nil {
			return err
		}
		for i, rec := range n.Records {
			if !n.IsLeaf() {
				if err := inOrder(n.Children[i], depth+1); err != nil {
					return err
				}
			}
			out = append(out, rec)
		}
		if !n.IsLeaf() {
			return inOrder(n.RightmostChild(), depth+1)
		}
		return nil
	}
	if err := inOrder(s.treeHeader.RootNode, 0); err != nil {
		return nil, err
	}
	return out, nil
}
