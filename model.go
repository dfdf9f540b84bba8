package main

import (
	"context"
	"errors"

	"github.com/aquilax/catalog/database"
	"github.com/aquilax/catalog/database/cached"
	"github.com/aquilax/catalog/node"
)

type Model struct {
	db       database.Database
	maxDepth int
}

func NewModel(db database.Database, maxDepth int) *Model {
	if maxDepth <= 0 {
		maxDepth = node.DefaultMaxDepth
	}
	return &Model{db, maxDepth}
}

// view loads the parent and the direct children of n through db.
func (m *Model) view(ctx context.Context, db database.Nodes, n node.Node) (*node.View, error) {
	v := &node.View{Node: n}
	if n.ParentID != nil {
		parent, err := db.GetNode(ctx, *n.ParentID)
		if err != nil {
			return nil, err
		}
		v.Parent = parent
	}
	children, err := db.GetChildNodes(ctx, n.ID)
	if err != nil {
		return nil, err
	}
	v.Children = children
	return v, nil
}

func (m *Model) views(ctx context.Context, db database.Nodes, nl node.NodeList) ([]node.View, error) {
	views := make([]node.View, len(nl))
	for i := range nl {
		v, err := m.view(ctx, db, nl[i])
		if err != nil {
			return nil, err
		}
		views[i] = *v
	}
	return views, nil
}

// Find returns the flat list of nodes matching f.
func (m *Model) Find(ctx context.Context, f node.Filter) (node.NodeList, error) {
	return m.db.ListNodes(ctx, f)
}

// List returns the nodes matching f with their neighbourhood loaded, and
// the total number of matches. A positive limit selects one page of the
// result starting at offset.
func (m *Model) List(ctx context.Context, f node.Filter, offset, limit int) ([]node.View, int, error) {
	nl, err := m.db.ListNodes(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total := len(nl)
	if limit > 0 {
		nl = page(nl, offset, limit)
	}
	views, err := m.views(ctx, cached.New(m.db), nl)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func page(nl node.NodeList, offset, limit int) node.NodeList {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(nl) {
		return node.NodeList{}
	}
	end := offset + limit
	if end > len(nl) {
		end = len(nl)
	}
	return nl[offset:end]
}

func (m *Model) Get(ctx context.Context, id node.NodeID) (*node.View, error) {
	n, err := m.db.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.view(ctx, m.db, *n)
}

// Children returns the direct children of id, each with its own
// neighbourhood.
func (m *Model) Children(ctx context.Context, id node.NodeID) ([]node.View, error) {
	c := cached.New(m.db)
	if _, err := c.GetNode(ctx, id); err != nil {
		return nil, err
	}
	nl, err := c.GetChildNodes(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.views(ctx, c, nl)
}

func (m *Model) Create(ctx context.Context, in NodeInput) (*node.View, error) {
	if errs := in.validate(); len(errs) > 0 {
		return nil, errs
	}
	n := node.Node{Name: in.Name, Type: in.Type, ParentID: in.Parent.ID}
	err := m.db.Atomic(ctx, func(tx database.Nodes) error {
		if err := m.checkParent(ctx, tx, 0, n.ParentID); err != nil {
			return err
		}
		_, err := tx.AddNode(ctx, &n)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m.view(ctx, m.db, n)
}

// Update replaces name and type of id. The parent changes only when the
// input carries a parent_id; null moves the node to the top level.
func (m *Model) Update(ctx context.Context, id node.NodeID, in NodeInput) (*node.View, error) {
	if errs := in.validate(); len(errs) > 0 {
		return nil, errs
	}
	var n *node.Node
	err := m.db.Atomic(ctx, func(tx database.Nodes) error {
		var err error
		if n, err = tx.GetNode(ctx, id); err != nil {
			return err
		}
		n.Name = in.Name
		n.Type = in.Type
		if in.Parent.Set {
			if err := m.checkParent(ctx, tx, id, in.Parent.ID); err != nil {
				return err
			}
			n.ParentID = in.Parent.ID
		}
		return tx.EditNode(ctx, n)
	})
	if err != nil {
		return nil, err
	}
	return m.view(ctx, m.db, *n)
}

// Delete removes a node without children. Nodes that still have children
// are left untouched and ErrHasChildren is returned.
func (m *Model) Delete(ctx context.Context, id node.NodeID) error {
	return m.db.Atomic(ctx, func(tx database.Nodes) error {
		if _, err := tx.GetNode(ctx, id); err != nil {
			return err
		}
		total, err := tx.CountChildNodes(ctx, id)
		if err != nil {
			return err
		}
		if total > 0 {
			return node.ErrHasChildren
		}
		return tx.DeleteNode(ctx, id)
	})
}

// Tree materializes the whole catalog, one tree per root.
func (m *Model) Tree(ctx context.Context) (node.Forest, error) {
	roots, err := m.db.ListNodes(ctx, node.Filter{Parent: node.ParentRoots})
	if err != nil {
		return nil, err
	}
	return node.Expand(ctx, roots, m.db.GetChildNodes, m.maxDepth)
}

// Subtree materializes id and everything below it.
func (m *Model) Subtree(ctx context.Context, id node.NodeID) (*node.Tree, error) {
	n, err := m.db.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	forest, err := node.Expand(ctx, node.NodeList{*n}, m.db.GetChildNodes, m.maxDepth)
	if err != nil {
		return nil, err
	}
	return forest[0], nil
}

// Ancestors returns the parent chain of id, immediate parent first.
func (m *Model) Ancestors(ctx context.Context, id node.NodeID) (node.NodeList, error) {
	n, err := m.db.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	nl := node.NodeList{}
	err = m.walkUp(ctx, m.db, n.ParentID, func(a *node.Node) error {
		if a.ID == id {
			return node.ErrCorruptTree
		}
		nl = append(nl, *a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nl, nil
}

func (m *Model) Recent(ctx context.Context, limit int) (node.NodeList, error) {
	return m.db.GetRecentNodes(ctx, limit)
}

// Seed fills an empty catalog with nodes. Each entry names its parent by
// the index of an earlier entry, or -1 for a root. It reports whether
// anything was added.
func (m *Model) Seed(ctx context.Context, entries []SeedEntry) (bool, error) {
	existing, err := m.db.ListNodes(ctx, node.Filter{Parent: node.ParentRoots})
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	ids := make([]node.NodeID, len(entries))
	for i, e := range entries {
		in := NodeInput{Name: e.Name, Type: e.Type}
		if e.Parent >= 0 {
			if e.Parent >= i {
				return false, errors.New("seed entry refers to a later parent")
			}
			in.Parent = ParentField{Set: true, ID: node.ID(ids[e.Parent])}
		}
		v, err := m.Create(ctx, in)
		if err != nil {
			return false, err
		}
		ids[i] = v.ID
	}
	return true, nil
}
