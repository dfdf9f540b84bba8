package node

import (
	"sort"
	"time"
)

type NodeID = int64

const (
	MaxNameLength = 255
	MaxTypeLength = 100
)

// Node is a single catalog entry. A nil ParentID marks a root.
type Node struct {
	ID        NodeID    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Type      string    `db:"type" json:"type"`
	ParentID  *NodeID   `db:"parent_id" json:"parent_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type NodeList []Node

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool {
	return n.ParentID == nil
}

// HasParent reports whether n points at id.
func (n *Node) HasParent(id NodeID) bool {
	return n.ParentID != nil && *n.ParentID == id
}

// ID returns a pointer suitable for Node.ParentID.
func ID(id NodeID) *NodeID {
	return &id
}

// View is a node together with its immediate neighbourhood.
type View struct {
	Node
	Parent   *Node    `json:"parent"`
	Children NodeList `json:"children"`
}

// Less orders nodes by name, then id.
func Less(a, b *Node) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}

// Sort orders nl in place by name, then id.
func (nl NodeList) Sort() {
	sort.Slice(nl, func(i, j int) bool {
		return Less(&nl[i], &nl[j])
	})
}

// IDs returns the ids of nl in order.
func (nl NodeList) IDs() []NodeID {
	ids := make([]NodeID, len(nl))
	for i := range nl {
		ids[i] = nl[i].ID
	}
	return ids
}

// Names returns the names of nl in order.
func (nl NodeList) Names() []string {
	names := make([]string, len(nl))
	for i := range nl {
		names[i] = nl[i].Name
	}
	return names
}
