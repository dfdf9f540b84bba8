package postgres

import (
	"context"

	"github.com/aquilax/catalog/database"
	"github.com/aquilax/catalog/database/sqlbase"
	"github.com/aquilax/catalog/node"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const DriverName = "postgres"

// name uses the "C" collation so ordering is bytewise and lower() folds
// ASCII letters only, the same as the other backends.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS nodes (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) COLLATE "C" NOT NULL,
		type VARCHAR(100) NOT NULL,
		parent_id BIGINT NULL REFERENCES nodes(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS nodes_parent_id_index ON nodes(parent_id)`,
	`CREATE INDEX IF NOT EXISTS nodes_type_index ON nodes(type)`,
}

// lockNodes blocks other writers, but not readers, until commit.
const lockNodes = "LOCK TABLE nodes IN SHARE ROW EXCLUSIVE MODE"

type Postgres struct {
	*sqlbase.Store
	db *sqlx.DB
}

func New() *Postgres {
	return &Postgres{}
}

func (m *Postgres) Open(database, DSN string) error {
	db, err := sqlx.Open(database, DSN)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}
	m.db = db
	m.Store = sqlbase.New(db, insert)
	return nil
}

func (m *Postgres) Migrate(ctx context.Context) error {
	return sqlbase.Migrate(ctx, m.db, schema)
}

func (m *Postgres) Atomic(ctx context.Context, fn func(database.Nodes) error) error {
	return m.Store.Atomic(ctx, m.db, lockNodes, fn)
}

func (m *Postgres) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

func insert(ctx context.Context, q sqlx.ExtContext, n *node.Node) (node.NodeID, error) {
	var id node.NodeID
	err := sqlx.GetContext(ctx, q, &id, `INSERT INTO nodes (
			name,
			type,
			parent_id,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		n.Name, n.Type, n.ParentID, n.CreatedAt, n.UpdatedAt)
	return id, err
}
