// Package sqlbase holds the node table queries shared by the SQL backends.
// Queries are written with ? placeholders and rebound for the driver.
package sqlbase

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aquilax/catalog/database"
	"github.com/aquilax/catalog/node"
	"github.com/jmoiron/sqlx"
)

const columns = "id, name, type, parent_id, created_at, updated_at"

// InsertFunc inserts n and returns the generated id.
type InsertFunc func(ctx context.Context, q sqlx.ExtContext, n *node.Node) (node.NodeID, error)

type Store struct {
	q      sqlx.ExtContext
	insert InsertFunc
}

func New(q sqlx.ExtContext, insert InsertFunc) *Store {
	return &Store{q: q, insert: insert}
}

// With returns a Store issuing its queries through q.
func (s *Store) With(q sqlx.ExtContext) *Store {
	return &Store{q: q, insert: s.insert}
}

func now() time.Time {
	// postgres keeps microseconds
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *Store) GetNode(ctx context.Context, id node.NodeID) (*node.Node, error) {
	var n node.Node
	err := sqlx.GetContext(ctx, s.q, &n, s.q.Rebind("SELECT "+columns+" FROM nodes WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, node.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) AddNode(ctx context.Context, n *node.Node) (node.NodeID, error) {
	n.CreatedAt = now()
	n.UpdatedAt = n.CreatedAt
	id, err := s.insert(ctx, s.q, n)
	if err != nil {
		return 0, err
	}
	n.ID = id
	return id, nil
}

func (s *Store) EditNode(ctx context.Context, n *node.Node) error {
	updated := now()
	res, err := s.q.ExecContext(ctx, s.q.Rebind(`UPDATE nodes SET
			name = ?,
			type = ?,
			parent_id = ?,
			updated_at = ?
			WHERE id = ?`),
		n.Name, n.Type, n.ParentID, updated, n.ID)
	if err := affected(res, err); err != nil {
		return err
	}
	n.UpdatedAt = updated
	return nil
}

func (s *Store) DeleteNode(ctx context.Context, id node.NodeID) error {
	res, err := s.q.ExecContext(ctx, s.q.Rebind("DELETE FROM nodes WHERE id = ?"), id)
	return affected(res, err)
}

func (s *Store) ListNodes(ctx context.Context, f node.Filter) (node.NodeList, error) {
	where, args := f.Where()
	nl := node.NodeList{}
	err := sqlx.SelectContext(ctx, s.q, &nl, s.q.Rebind("SELECT "+columns+" FROM nodes"+where+" ORDER BY name, id"), args...)
	return nl, err
}

func (s *Store) GetChildNodes(ctx context.Context, parentID node.NodeID) (node.NodeList, error) {
	return s.ListNodes(ctx, node.Filter{Parent: node.ParentIs, ParentID: parentID})
}

func (s *Store) CountChildNodes(ctx context.Context, parentID node.NodeID) (int, error) {
	var total int
	err := sqlx.GetContext(ctx, s.q, &total, s.q.Rebind("SELECT count(*) FROM nodes WHERE parent_id = ?"), parentID)
	return total, err
}

func (s *Store) GetRecentNodes(ctx context.Context, limit int) (node.NodeList, error) {
	nl := node.NodeList{}
	err := sqlx.SelectContext(ctx, s.q, &nl, s.q.Rebind("SELECT "+columns+" FROM nodes ORDER BY updated_at DESC, id DESC LIMIT ?"), limit)
	return nl, err
}

// Atomic runs fn inside a transaction on db. The optional lock statement
// is executed first.
func (s *Store) Atomic(ctx context.Context, db *sqlx.DB, lock string, fn func(database.Nodes) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if lock != "" {
		if _, err := tx.ExecContext(ctx, lock); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := fn(s.With(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Migrate executes the schema statements in order.
func Migrate(ctx context.Context, q sqlx.ExecerContext, statements []string) error {
	for _, stmt := range statements {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return node.ErrNotFound
	}
	return nil
}
