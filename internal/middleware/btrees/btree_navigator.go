package btrees

import (
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// KeyDecoderFactory selects the key decoder of a tree once its header record is known.
// Catalog keys need the header's compare type.
type KeyDecoderFactory[K interfaces.OrderedKey] func(header *btrees.HeaderRecord) btrees.KeyDecoder[K]

// Navigator reads nodes of one B-tree file and decodes its header and index nodes
type Navigator[K interfaces.OrderedKey] struct {
	source    interfaces.NodeSource
	header    *btrees.HeaderNode
	decodeKey btrees.KeyDecoder[K]
	nodeCache map[uint32]*btrees.IndexNode[K]
}

// NewNavigator reads the header node of the tree behind source
func NewNavigator[K interfaces.OrderedKey](source interfaces.NodeSource, dialect types.Dialect, keys KeyDecoderFactory[K]) (*Navigator[K], error) {
	data, err := source.ReadNode(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read header node: %w", err)
	}
	header, err := btrees.DecodeHeaderNode(data, 0, source.NodeSize(), dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to decode header node: %w", err)
	}
	if int(header.HeaderRecord().NodeSize()) != source.NodeSize() {
		return nil, fmt.Errorf("header node size %d does not match source node size %d",
			header.HeaderRecord().NodeSize(), source.NodeSize())
	}

	return &Navigator[K]{
		source:    source,
		header:    header,
		decodeKey: keys(header.HeaderRecord()),
		nodeCache: make(map[uint32]*btrees.IndexNode[K]),
	}, nil
}

// HeaderNode returns the decoded node 0
func (nav *Navigator[K]) HeaderNode() *btrees.HeaderNode {
	return nav.header
}

// Header returns the tree's header record
func (nav *Navigator[K]) Header() *btrees.HeaderRecord {
	return nav.header.HeaderRecord()
}

// NodeSize returns the node size in bytes
func (nav *Navigator[K]) NodeSize() int {
	return nav.source.NodeSize()
}

// KeyDecoder returns the decoder used for this tree's keys
func (nav *Navigator[K]) KeyDecoder() btrees.KeyDecoder[K] {
	return nav.decodeKey
}

// ReadNode returns the bytes and descriptor of node n
func (nav *Navigator[K]) ReadNode(n uint32) ([]byte, interfaces.NodeDescriptorReader, error) {
	if total := nav.Header().TotalNodes(); total != 0 && n >= total {
		return nil, nil, fmt.Errorf("node %d beyond tree of %d nodes: %w", n, total, types.ErrRecordOutOfBounds)
	}
	data, err := nav.source.ReadNode(n)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read node %d: %w", n, err)
	}
	descriptor, err := btrees.NewNodeDescriptorReader(data, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("node %d: %w", n, err)
	}
	return data, descriptor, nil
}

// IndexNode decodes index node n
func (nav *Navigator[K]) IndexNode(n uint32) (*btrees.IndexNode[K], error) {
	if node, ok := nav.nodeCache[n]; ok {
		return node, nil
	}
	data, _, err := nav.ReadNode(n)
	if err != nil {
		return nil, err
	}
	node, err := btrees.DecodeIndexNode(data, 0, nav.NodeSize(), nav.decodeKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode index node %d: %w", n, err)
	}
	nav.nodeCache[n] = node
	return node, nil
}

// ChildNodes returns the children of index node n in key order
func (nav *Navigator[K]) ChildNodes(n uint32) ([]uint32, error) {
	node, err := nav.IndexNode(n)
	if err != nil {
		return nil, err
	}
	return node.ChildNodes(), nil
}

// ClearCache drops the decoded index nodes
func (nav *Navigator[K]) ClearCache() {
	nav.nodeCache = make(map[uint32]*btrees.IndexNode[K])
}

// CacheSize returns the number of cached index nodes
func (nav *Navigator[K]) CacheSize() int {
	return len(nav.nodeCache)
}
