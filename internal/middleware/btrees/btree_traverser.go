package btrees

import (
	"context"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// NodeVisit is a node reached during a traversal
type NodeVisit struct {
	Number     uint32
	Depth      int
	Descriptor interfaces.NodeDescriptorReader
	Data       []byte
}

// NodeVisitor is called for each visited node. Returning false skips the node's children.
type NodeVisitor func(visit NodeVisit) (bool, error)

// Traverser walks the nodes of a B-tree
type Traverser[K interfaces.OrderedKey] struct {
	navigator *Navigator[K]
}

// NewTraverser creates a Traverser over the navigator's tree
func NewTraverser[K interfaces.OrderedKey](navigator *Navigator[K]) *Traverser[K] {
	return &Traverser[K]{navigator: navigator}
}

// PreOrder visits the tree depth-first from the root, each node before its children.
// Children of an index node are pushed in reverse so they are visited left to right.
// ctx is checked before every node.
func (t *Traverser[K]) PreOrder(ctx context.Context, visit NodeVisitor) error {
	root := t.navigator.Header().RootNode()
	if root == 0 {
		return nil
	}

	type entry struct {
		node  uint32
		depth int
	}
	stack := []entry{{node: root}}
	seen := make(map[uint32]bool)

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if seen[cur.node] {
			return fmt.Errorf("node %d reached twice: %w", cur.node, types.ErrRecordOutOfBounds)
		}
		seen[cur.node] = true

		data, descriptor, err := t.navigator.ReadNode(cur.node)
		if err != nil {
			return err
		}
		descend, err := visit(NodeVisit{Number: cur.node, Depth: cur.depth, Descriptor: descriptor, Data: data})
		if err != nil {
			return err
		}
		if !descend || descriptor.Kind() != types.NodeKindIndex {
			continue
		}

		children, err := t.navigator.ChildNodes(cur.node)
		if err != nil {
			return err
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, entry{node: children[i], depth: cur.depth + 1})
		}
	}
	return nil
}

// LeafChain visits the leaf nodes in key order by following forward links from the first leaf
func (t *Traverser[K]) LeafChain(ctx context.Context, visit NodeVisitor) error {
	return t.navigator.followLeaves(ctx, t.navigator.Header().FirstLeafNode(), visit)
}

func (nav *Navigator[K]) followLeaves(ctx context.Context, start uint32, visit NodeVisitor) error {
	seen := make(map[uint32]bool)
	for n := start; n != 0; {
		if err := ctx.Err(); err != nil {
			return err
		}
		if seen[n] {
			return fmt.Errorf("leaf chain loops at node %d: %w", n, types.ErrRecordOutOfBounds)
		}
		seen[n] = true

		data, descriptor, err := nav.ReadNode(n)
		if err != nil {
			return err
		}
		if descriptor.Kind() != types.NodeKindLeaf {
			return fmt.Errorf("node %d in leaf chain is a %s node: %w", n, descriptor.Kind(), types.ErrInvalidNodeKind)
		}
		more, err := visit(NodeVisit{Number: n, Depth: int(nav.Header().TreeDepth()) - 1, Descriptor: descriptor, Data: data})
		if err != nil || !more {
			return err
		}
		n = descriptor.ForwardLink()
	}
	return nil
}
