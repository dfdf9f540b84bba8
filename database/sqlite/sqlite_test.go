package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/aquilax/catalog/database"
	"github.com/aquilax/catalog/database/databasetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImplementsDatabase(t *testing.T) {
	inter := reflect.TypeOf((*database.Database)(nil)).Elem()

	if !reflect.TypeOf(New()).Implements(inter) {
		t.Errorf("SQLite does not implement the database interface")
	}
}

func open(t *testing.T, dsn string) *SQLite {
	db := New()
	require.NoError(t, db.Open(DriverName, dsn))
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func TestSQLite(t *testing.T) {
	databasetest.Run(t, func(t *testing.T) database.Database {
		return open(t, ":memory:")
	})
}

func TestSQLiteFile(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "catalog.sqlite")
	db := open(t, dsn)
	// migrating twice is harmless
	require.NoError(t, db.Migrate(context.Background()))
	assert.FileExists(t, dsn)
}

func TestWithForeignKeys(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{":memory:", ":memory:?_pragma=foreign_keys(1)"},
		{"db/test.sqlite?_pragma=busy_timeout(5000)", "db/test.sqlite?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"},
		{"file:x.db?_pragma=foreign_keys(0)", "file:x.db?_pragma=foreign_keys(0)"},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, withForeignKeys(tt.dsn))
		})
	}
}
