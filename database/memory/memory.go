package memory

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/aquilax/catalog/database"
	"github.com/aquilax/catalog/node"
	"github.com/hashicorp/go-memdb"
)

const table = "nodes"

// record is the stored form of a node. ParentKey is 0 for roots; ids
// start at 1.
type record struct {
	node.Node
	ParentKey int64
}

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		table: {
			Name: table,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "ID"},
				},
				"parent": {
					Name:    "parent",
					Indexer: &memdb.IntFieldIndex{Field: "ParentKey"},
				},
				"type": {
					Name:         "type",
					AllowMissing: true,
					Indexer:      &memdb.StringFieldIndex{Field: "Type"},
				},
			},
		},
	},
}

// Memory keeps nodes in a go-memdb database. Copies bound to a write
// transaction are handed out by Atomic.
type Memory struct {
	db  *memdb.MemDB
	txn *memdb.Txn
	seq *atomic.Int64
}

func New() *Memory {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		panic(err)
	}
	return &Memory{db: db, seq: new(atomic.Int64)}
}

func (m *Memory) Open(database, dsn string) error {
	return nil
}

func (m *Memory) Migrate(ctx context.Context) error {
	return nil
}

func (m *Memory) Close() error {
	return nil
}

func (m *Memory) Atomic(ctx context.Context, fn func(database.Nodes) error) error {
	if m.txn != nil {
		return fn(m)
	}
	txn := m.db.Txn(true)
	defer txn.Abort()
	if err := fn(&Memory{db: m.db, txn: txn, seq: m.seq}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (m *Memory) read() *memdb.Txn {
	if m.txn != nil {
		return m.txn
	}
	return m.db.Txn(false)
}

func (m *Memory) write(fn func(txn *memdb.Txn) error) error {
	if m.txn != nil {
		return fn(m.txn)
	}
	txn := m.db.Txn(true)
	defer txn.Abort()
	if err := fn(txn); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func newRecord(n node.Node) *record {
	r := &record{Node: n}
	if n.ParentID != nil {
		r.ParentID = node.ID(*n.ParentID)
		r.ParentKey = *n.ParentID
	}
	return r
}

func (r *record) node() node.Node {
	n := r.Node
	if n.ParentID != nil {
		n.ParentID = node.ID(*n.ParentID)
	}
	return n
}

func first(txn *memdb.Txn, id node.NodeID) (*record, error) {
	raw, err := txn.First(table, "id", id)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, node.ErrNotFound
	}
	return raw.(*record), nil
}

func collect(it memdb.ResultIterator, keep func(n *node.Node) bool) node.NodeList {
	nl := node.NodeList{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		n := raw.(*record).node()
		if keep(&n) {
			nl = append(nl, n)
		}
	}
	return nl
}

func checkParent(txn *memdb.Txn, parentID *node.NodeID) error {
	if parentID == nil {
		return nil
	}
	if _, err := first(txn, *parentID); err != nil {
		return fmt.Errorf("memory: foreign key violation on parent_id %d: %w", *parentID, err)
	}
	return nil
}

func (m *Memory) GetNode(ctx context.Context, id node.NodeID) (*node.Node, error) {
	r, err := first(m.read(), id)
	if err != nil {
		return nil, err
	}
	n := r.node()
	return &n, nil
}

func (m *Memory) AddNode(ctx context.Context, n *node.Node) (node.NodeID, error) {
	err := m.write(func(txn *memdb.Txn) error {
		if err := checkParent(txn, n.ParentID); err != nil {
			return err
		}
		n.ID = m.seq.Add(1)
		n.CreatedAt = time.Now().UTC()
		n.UpdatedAt = n.CreatedAt
		return txn.Insert(table, newRecord(*n))
	})
	if err != nil {
		return 0, err
	}
	return n.ID, nil
}

func (m *Memory) EditNode(ctx context.Context, n *node.Node) error {
	return m.write(func(txn *memdb.Txn) error {
		current, err := first(txn, n.ID)
		if err != nil {
			return err
		}
		if err := checkParent(txn, n.ParentID); err != nil {
			return err
		}
		n.CreatedAt = current.CreatedAt
		n.UpdatedAt = time.Now().UTC()
		return txn.Insert(table, newRecord(*n))
	})
}

// DeleteNode removes id and, like ON DELETE CASCADE, everything below it.
func (m *Memory) DeleteNode(ctx context.Context, id node.NodeID) error {
	return m.write(func(txn *memdb.Txn) error {
		r, err := first(txn, id)
		if err != nil {
			return err
		}
		doomed := []*record{r}
		seen := map[node.NodeID]bool{id: true}
		for i := 0; i < len(doomed); i++ {
			it, err := txn.Get(table, "parent", doomed[i].ID)
			if err != nil {
				return err
			}
			for raw := it.Next(); raw != nil; raw = it.Next() {
				child := raw.(*record)
				if !seen[child.ID] {
					seen[child.ID] = true
					doomed = append(doomed, child)
				}
			}
		}
		for _, r := range doomed {
			if err := txn.Delete(table, r); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *Memory) ListNodes(ctx context.Context, f node.Filter) (node.NodeList, error) {
	txn := m.read()
	var it memdb.ResultIterator
	var err error
	switch {
	case f.RootsOnly, f.Parent == node.ParentRoots:
		it, err = txn.Get(table, "parent", int64(0))
	case f.Parent == node.ParentIs:
		it, err = txn.Get(table, "parent", f.ParentID)
	case f.Type != "":
		it, err = txn.Get(table, "type", f.Type)
	default:
		it, err = txn.Get(table, "id")
	}
	if err != nil {
		return nil, err
	}
	nl := collect(it, f.Match)
	nl.Sort()
	return nl, nil
}

func (m *Memory) GetChildNodes(ctx context.Context, parentID node.NodeID) (node.NodeList, error) {
	return m.ListNodes(ctx, node.Filter{Parent: node.ParentIs, ParentID: parentID})
}

func (m *Memory) CountChildNodes(ctx context.Context, parentID node.NodeID) (int, error) {
	it, err := m.read().Get(table, "parent", parentID)
	if err != nil {
		return 0, err
	}
	total := 0
	for raw := it.Next(); raw != nil; raw = it.Next() {
		total++
	}
	return total, nil
}

func (m *Memory) GetRecentNodes(ctx context.Context, limit int) (node.NodeList, error) {
	it, err := m.read().Get(table, "id")
	if err != nil {
		return nil, err
	}
	nl := collect(it, func(*node.Node) bool { return true })
	sort.Slice(nl, func(i, j int) bool {
		if !nl[i].UpdatedAt.Equal(nl[j].UpdatedAt) {
			return nl[i].UpdatedAt.After(nl[j].UpdatedAt)
		}
		return nl[i].ID > nl[j].ID
	})
	if limit >= 0 && len(nl) > limit {
		nl = nl[:limit]
	}
	return nl, nil
}
