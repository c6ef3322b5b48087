package btrees

import (
	"context"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// Searcher locates keys by descending the index nodes of a B-tree
type Searcher[K interfaces.OrderedKey] struct {
	navigator *Navigator[K]
}

// NewSearcher creates a Searcher over the navigator's tree
func NewSearcher[K interfaces.OrderedKey](navigator *Navigator[K]) *Searcher[K] {
	return &Searcher[K]{navigator: navigator}
}

// FindLeaf returns the leaf node that holds key if it is present: at each index node it follows
// the last record whose key is not greater than key, or the first record when every key is greater.
func (s *Searcher[K]) FindLeaf(key K) (uint32, error) {
	n := s.navigator.Header().RootNode()
	if n == 0 {
		return 0, fmt.Errorf("empty tree: %w", types.ErrNotFound)
	}

	maxDepth := int(s.navigator.Header().TreeDepth())
	for depth := 0; ; depth++ {
		if maxDepth > 0 && depth >= maxDepth {
			return 0, fmt.Errorf("no leaf within tree depth %d: %w", maxDepth, types.ErrRecordOutOfBounds)
		}
		_, descriptor, err := s.navigator.ReadNode(n)
		if err != nil {
			return 0, err
		}
		switch descriptor.Kind() {
		case types.NodeKindLeaf:
			return n, nil
		case types.NodeKindIndex:
		default:
			return 0, fmt.Errorf("node %d is a %s node: %w", n, descriptor.Kind(), types.ErrInvalidNodeKind)
		}

		index, err := s.navigator.IndexNode(n)
		if err != nil {
			return 0, err
		}
		if index.NumRecords() == 0 {
			return 0, fmt.Errorf("index node %d has no records: %w", n, types.ErrRecordOutOfBounds)
		}
		next := index.Record(0).ChildNode()
		for _, rec := range index.Records() {
			if rec.Key().Compare(key) > 0 {
				break
			}
			next = rec.ChildNode()
		}
		n = next
	}
}

// Seek visits leaf nodes in key order starting at the leaf that would hold key
func (s *Searcher[K]) Seek(ctx context.Context, key K, visit NodeVisitor) error {
	n, err := s.FindLeaf(key)
	if err != nil {
		return err
	}
	return s.navigator.followLeaves(ctx, n, visit)
}
