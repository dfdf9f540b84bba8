package memory

import (
	"reflect"
	"testing"

	"github.com/aquilax/catalog/database"
	"github.com/aquilax/catalog/database/databasetest"
)

func TestImplementsDatabase(t *testing.T) {
	inter := reflect.TypeOf((*database.Database)(nil)).Elem()

	if !reflect.TypeOf(New()).Implements(inter) {
		t.Errorf("Memory does not implement the database interface")
	}
}

func TestMemory(t *testing.T) {
	databasetest.Run(t, func(t *testing.T) database.Database {
		return New()
	})
}
