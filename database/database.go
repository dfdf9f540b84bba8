package database

import (
	"context"

	"github.com/aquilax/catalog/node"
)

// Nodes is the node table. Lookups of missing ids fail with
// node.ErrNotFound; any other error comes from the storage engine.
// Lists are ordered by name, then id, unless noted.
type Nodes interface {
	GetNode(ctx context.Context, id node.NodeID) (*node.Node, error)
	AddNode(ctx context.Context, n *node.Node) (node.NodeID, error)
	EditNode(ctx context.Context, n *node.Node) error
	DeleteNode(ctx context.Context, id node.NodeID) error
	ListNodes(ctx context.Context, f node.Filter) (node.NodeList, error)
	GetChildNodes(ctx context.Context, parentID node.NodeID) (node.NodeList, error)
	CountChildNodes(ctx context.Context, parentID node.NodeID) (int, error)
	// GetRecentNodes returns up to limit nodes, most recently updated first.
	GetRecentNodes(ctx context.Context, limit int) (node.NodeList, error)
}

type Database interface {
	Nodes
	Open(database, dsn string) error
	Migrate(ctx context.Context) error
	// Atomic runs fn as one unit of work. Writes made through the Nodes
	// handed to fn commit together when fn returns nil and are discarded
	// otherwise. Atomic units that write never interleave.
	Atomic(ctx context.Context, fn func(Nodes) error) error
	Close() error
}
