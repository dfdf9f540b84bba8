package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/aquilax/catalog/database"
	"github.com/aquilax/catalog/database/sqlbase"
	"github.com/aquilax/catalog/node"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const DriverName = "sqlite"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS nodes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(255) NOT NULL,
		type VARCHAR(100) NOT NULL,
		parent_id INTEGER NULL REFERENCES nodes(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS nodes_parent_id_index ON nodes(parent_id)`,
	`CREATE INDEX IF NOT EXISTS nodes_type_index ON nodes(type)`,
}

type SQLite struct {
	*sqlbase.Store
	db *sqlx.DB
}

func New() *SQLite {
	return &SQLite{}
}

// Open connects to the database file in DSN. A single connection is kept
// so writers are serialized and ":memory:" databases survive between calls.
func (m *SQLite) Open(database, DSN string) error {
	if err := ensureDir(DSN); err != nil {
		return err
	}
	db, err := sqlx.Open(database, withForeignKeys(DSN))
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}
	m.db = db
	m.Store = sqlbase.New(db, insert)
	return nil
}

func (m *SQLite) Migrate(ctx context.Context) error {
	return sqlbase.Migrate(ctx, m.db, schema)
}

func (m *SQLite) Atomic(ctx context.Context, fn func(database.Nodes) error) error {
	return m.Store.Atomic(ctx, m.db, "", fn)
}

func (m *SQLite) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

func insert(ctx context.Context, q sqlx.ExtContext, n *node.Node) (node.NodeID, error) {
	res, err := q.ExecContext(ctx, `INSERT INTO nodes (
			name,
			type,
			parent_id,
			created_at,
			updated_at
		) VALUES (?, ?, ?, ?, ?)`,
		n.Name, n.Type, n.ParentID, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// withForeignKeys turns on foreign key enforcement, which SQLite leaves
// off by default, so ON DELETE CASCADE applies.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func ensureDir(dsn string) error {
	path := dsn
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimPrefix(path, "file:")
	if path == "" || strings.Contains(path, ":memory:") {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
