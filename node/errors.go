package node

import "errors"

var (
	// ErrNotFound is returned when an id does not resolve to a node.
	ErrNotFound = errors.New("catalog: node not found")

	// ErrParentNotFound is returned when a supplied parent id does not exist.
	ErrParentNotFound = errors.New("catalog: parent node not found")

	// ErrSelfParent is returned when a node is made its own parent.
	ErrSelfParent = errors.New("catalog: node cannot be its own parent")

	// ErrCycle is returned when a node would be moved under one of its descendants.
	ErrCycle = errors.New("catalog: parent assignment would create a cycle")

	// ErrHasChildren is returned when deleting a node that still has children.
	ErrHasChildren = errors.New("catalog: node has child nodes")

	// ErrCorruptTree is returned when a traversal revisits a node or exceeds
	// the depth limit. It means stored parent links already form a cycle.
	ErrCorruptTree = errors.New("catalog: stored tree is not acyclic")
)
