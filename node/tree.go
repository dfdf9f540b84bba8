package node

import (
	"context"
	"fmt"
)

// DefaultMaxDepth bounds every parent/child traversal.
const DefaultMaxDepth = 1000

// Tree is a node with its materialized child subtrees. Leaves carry an
// empty, non-nil Children slice.
type Tree struct {
	Node
	Children []*Tree `json:"children"`
}

type Forest []*Tree

// ChildrenFunc returns the direct children of id.
type ChildrenFunc func(ctx context.Context, id NodeID) (NodeList, error)

type frame struct {
	tree  *Tree
	depth int
}

func newTree(n Node) *Tree {
	return &Tree{Node: n, Children: []*Tree{}}
}

// Expand materializes the subtrees below roots. It walks with an explicit
// stack and calls children once per expanded node. Siblings are ordered by
// name, then id. Reaching a node twice, or going deeper than maxDepth
// levels, fails with ErrCorruptTree. A maxDepth <= 0 means DefaultMaxDepth.
func Expand(ctx context.Context, roots NodeList, children ChildrenFunc, maxDepth int) (Forest, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	roots.Sort()
	forest := make(Forest, len(roots))
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		forest[i] = newTree(roots[i])
		stack = append(stack, frame{tree: forest[i], depth: 1})
	}

	seen := make(map[NodeID]struct{})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := f.tree.ID
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: node %d reached twice", ErrCorruptTree, id)
		}
		seen[id] = struct{}{}
		if f.depth > maxDepth {
			return nil, fmt.Errorf("%w: node %d is deeper than %d levels", ErrCorruptTree, id, maxDepth)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		kids, err := children(ctx, id)
		if err != nil {
			return nil, err
		}
		kids.Sort()
		f.tree.Children = make([]*Tree, len(kids))
		for i := range kids {
			f.tree.Children[i] = newTree(kids[i])
		}
		// push in reverse so the first child is expanded first
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{tree: f.tree.Children[i], depth: f.depth + 1})
		}
	}
	return forest, nil
}

// BuildForest derives the nested view of an already fetched flat list
// through Expand. Nodes whose parent is missing from nl become top-level
// entries. Nodes that cannot be reached from any top-level entry are only
// possible when stored links form a cycle and yield ErrCorruptTree.
func BuildForest(nl NodeList, maxDepth int) (Forest, error) {
	present := make(map[NodeID]struct{}, len(nl))
	for i := range nl {
		present[nl[i].ID] = struct{}{}
	}
	byParent := make(map[NodeID]NodeList)
	var roots NodeList
	for _, n := range nl {
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		if _, ok := present[*n.ParentID]; !ok {
			roots = append(roots, n)
			continue
		}
		byParent[*n.ParentID] = append(byParent[*n.ParentID], n)
	}

	lookup := func(_ context.Context, id NodeID) (NodeList, error) {
		return append(NodeList(nil), byParent[id]...), nil
	}
	forest, err := Expand(context.Background(), roots, lookup, maxDepth)
	if err != nil {
		return nil, err
	}
	if got := forest.Len(); got != len(present) {
		return nil, fmt.Errorf("%w: %d of %d nodes unreachable from a root", ErrCorruptTree, len(present)-got, len(present))
	}
	return forest, nil
}

// Walk visits every tree in f depth first, parents before children.
func (f Forest) Walk(fn func(t *Tree, depth int)) {
	stack := make([]frame, 0, len(f))
	for i := len(f) - 1; i >= 0; i-- {
		stack = append(stack, frame{tree: f[i], depth: 1})
	}
	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(fr.tree, fr.depth)
		for i := len(fr.tree.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{tree: fr.tree.Children[i], depth: fr.depth + 1})
		}
	}
}

// Len counts the nodes in f.
func (f Forest) Len() int {
	n := 0
	f.Walk(func(*Tree, int) { n++ })
	return n
}
