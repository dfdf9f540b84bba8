// Package cached memoizes node lookups for the lifetime of one request.
// A Cached must not outlive the request that created it.
package cached

import (
	"context"
	"sync"

	"github.com/aquilax/catalog/database"
	"github.com/aquilax/catalog/node"
)

type GetNodeCache map[node.NodeID]*node.Node
type GetChildNodesCache map[node.NodeID]node.NodeList

type Cached struct {
	db              database.Nodes
	nodeCache       GetNodeCache
	childNodesCache GetChildNodesCache
	lock            sync.Mutex
}

func New(db database.Nodes) *Cached {
	return &Cached{
		db:              db,
		nodeCache:       make(GetNodeCache),
		childNodesCache: make(GetChildNodesCache),
	}
}

func (m *Cached) clear() {
	m.lock.Lock()
	m.nodeCache = make(GetNodeCache)
	m.childNodesCache = make(GetChildNodesCache)
	m.lock.Unlock()
}

func (m *Cached) GetNode(ctx context.Context, id node.NodeID) (*node.Node, error) {
	m.lock.Lock()
	result, found := m.nodeCache[id]
	m.lock.Unlock()
	if found {
		n := *result
		return &n, nil
	}
	result, err := m.db.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	n := *result
	m.lock.Lock()
	m.nodeCache[id] = &n
	m.lock.Unlock()
	return result, nil
}

func (m *Cached) GetChildNodes(ctx context.Context, parentID node.NodeID) (node.NodeList, error) {
	m.lock.Lock()
	result, found := m.childNodesCache[parentID]
	m.lock.Unlock()
	if found {
		return append(node.NodeList{}, result...), nil
	}
	result, err := m.db.GetChildNodes(ctx, parentID)
	if err != nil {
		return nil, err
	}
	m.lock.Lock()
	m.childNodesCache[parentID] = append(node.NodeList{}, result...)
	for i := range result {
		n := result[i]
		m.nodeCache[n.ID] = &n
	}
	m.lock.Unlock()
	return result, nil
}

func (m *Cached) CountChildNodes(ctx context.Context, parentID node.NodeID) (int, error) {
	m.lock.Lock()
	result, found := m.childNodesCache[parentID]
	m.lock.Unlock()
	if found {
		return len(result), nil
	}
	return m.db.CountChildNodes(ctx, parentID)
}

func (m *Cached) ListNodes(ctx context.Context, f node.Filter) (node.NodeList, error) {
	return m.db.ListNodes(ctx, f)
}

func (m *Cached) GetRecentNodes(ctx context.Context, limit int) (node.NodeList, error) {
	return m.db.GetRecentNodes(ctx, limit)
}

func (m *Cached) AddNode(ctx context.Context, n *node.Node) (node.NodeID, error) {
	result, err := m.db.AddNode(ctx, n)
	if err == nil {
		m.clear()
	}
	return result, err
}

func (m *Cached) EditNode(ctx context.Context, n *node.Node) error {
	err := m.db.EditNode(ctx, n)
	if err == nil {
		m.clear()
	}
	return err
}

func (m *Cached) DeleteNode(ctx context.Context, id node.NodeID) error {
	err := m.db.DeleteNode(ctx, id)
	if err == nil {
		m.clear()
	}
	return err
}
