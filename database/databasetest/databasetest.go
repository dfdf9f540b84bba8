// Package databasetest is a behaviour suite every database backend must pass.
package databasetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aquilax/catalog/database"
	"github.com/aquilax/catalog/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty, migrated database.
type Factory func(t *testing.T) database.Database

// Run executes the suite, asking factory for a fresh database per test.
func Run(t *testing.T, factory Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, db database.Database)
	}{
		{"RoundTrip", testRoundTrip},
		{"IDsAreNotReused", testIDsAreNotReused},
		{"EditNode", testEditNode},
		{"NotFound", testNotFound},
		{"ListOrdering", testListOrdering},
		{"ListFilters", testListFilters},
		{"Children", testChildren},
		{"DeleteCascades", testDeleteCascades},
		{"AtomicCommit", testAtomicCommit},
		{"AtomicRollback", testAtomicRollback},
		{"RecentNodes", testRecentNodes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := factory(t)
			tt.fn(t, db)
		})
	}
}

func add(t *testing.T, db database.Nodes, name, typ string, parent *node.NodeID) node.Node {
	t.Helper()
	n := node.Node{Name: name, Type: typ, ParentID: parent}
	id, err := db.AddNode(context.Background(), &n)
	require.NoError(t, err)
	require.Equal(t, id, n.ID)
	return n
}

func testRoundTrip(t *testing.T, db database.Database) {
	ctx := context.Background()
	root := add(t, db, "Electronics", "category", nil)
	child := add(t, db, "Computers", "subcategory", node.ID(root.ID))

	got, err := db.GetNode(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, child.ID, got.ID)
	assert.Equal(t, "Computers", got.Name)
	assert.Equal(t, "subcategory", got.Type)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, root.ID, *got.ParentID)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))

	got, err = db.GetNode(ctx, root.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
}

func testIDsAreNotReused(t *testing.T, db database.Database) {
	ctx := context.Background()
	a := add(t, db, "a", "item", nil)
	b := add(t, db, "b", "item", nil)
	assert.NotEqual(t, a.ID, b.ID)
	require.NoError(t, db.DeleteNode(ctx, b.ID))
	c := add(t, db, "c", "item", nil)
	assert.Greater(t, c.ID, b.ID)
}

func testEditNode(t *testing.T, db database.Database) {
	ctx := context.Background()
	a := add(t, db, "a", "category", nil)
	b := add(t, db, "b", "item", nil)

	b.Name = "b2"
	b.Type = "product"
	b.ParentID = node.ID(a.ID)
	require.NoError(t, db.EditNode(ctx, &b))

	got, err := db.GetNode(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b2", got.Name)
	assert.Equal(t, "product", got.Type)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, a.ID, *got.ParentID)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

	b.ParentID = nil
	require.NoError(t, db.EditNode(ctx, &b))
	got, err = db.GetNode(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
}

func testNotFound(t *testing.T, db database.Database) {
	ctx := context.Background()
	_, err := db.GetNode(ctx, 4242)
	assert.True(t, errors.Is(err, node.ErrNotFound), "GetNode: %v", err)
	err = db.EditNode(ctx, &node.Node{ID: 4242, Name: "x", Type: "y"})
	assert.True(t, errors.Is(err, node.ErrNotFound), "EditNode: %v", err)
	err = db.DeleteNode(ctx, 4242)
	assert.True(t, errors.Is(err, node.ErrNotFound), "DeleteNode: %v", err)
}

func testListOrdering(t *testing.T, db database.Database) {
	ctx := context.Background()
	add(t, db, "beta", "item", nil)
	b2 := add(t, db, "Beta", "item", nil)
	add(t, db, "alpha", "item", nil)
	dup := add(t, db, "alpha", "item", nil)

	nl, err := db.ListNodes(ctx, node.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta", "alpha", "alpha", "beta"}, nl.Names())
	assert.Equal(t, b2.ID, nl[0].ID)
	assert.Less(t, nl[1].ID, nl[2].ID)
	assert.Equal(t, dup.ID, nl[2].ID)
}

func testListFilters(t *testing.T, db database.Database) {
	ctx := context.Background()
	electronics := add(t, db, "Electronics", "category", nil)
	clothing := add(t, db, "Clothing", "category", nil)
	computers := add(t, db, "Computers", "subcategory", node.ID(electronics.ID))
	add(t, db, "MacBook Pro", "product", node.ID(computers.ID))
	add(t, db, "iPhone 15 Pro", "product", node.ID(electronics.ID))
	add(t, db, "Promo_50%", "product", node.ID(clothing.ID))

	tests := []struct {
		name string
		f    node.Filter
		want []string
	}{
		{"all", node.Filter{}, []string{"Clothing", "Computers", "Electronics", "MacBook Pro", "Promo_50%", "iPhone 15 Pro"}},
		{"search case insensitive", node.Filter{Search: "pro"}, []string{"MacBook Pro", "Promo_50%", "iPhone 15 Pro"}},
		{"search literal percent", node.Filter{Search: "_50%"}, []string{"Promo_50%"}},
		{"search literal underscore", node.Filter{Search: "o_"}, []string{"Promo_50%"}},
		{"type", node.Filter{Type: "category"}, []string{"Clothing", "Electronics"}},
		{"type and search", node.Filter{Type: "product", Search: "15 PRO"}, []string{"iPhone 15 Pro"}},
		{"roots", node.Filter{Parent: node.ParentRoots}, []string{"Clothing", "Electronics"}},
		{"children", node.Filter{Parent: node.ParentIs, ParentID: electronics.ID}, []string{"Computers", "iPhone 15 Pro"}},
		{"roots only wins", node.Filter{Parent: node.ParentIs, ParentID: electronics.ID, RootsOnly: true}, []string{"Clothing", "Electronics"}},
		{"no match", node.Filter{Type: "product", Parent: node.ParentRoots}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nl, err := db.ListNodes(ctx, tt.f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, nl.Names())
		})
	}
}

func testChildren(t *testing.T, db database.Database) {
	ctx := context.Background()
	root := add(t, db, "root", "category", nil)
	add(t, db, "z", "item", node.ID(root.ID))
	add(t, db, "a", "item", node.ID(root.ID))

	nl, err := db.GetChildNodes(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "z"}, nl.Names())

	total, err := db.CountChildNodes(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	total, err = db.CountChildNodes(ctx, nl[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func testDeleteCascades(t *testing.T, db database.Database) {
	ctx := context.Background()
	root := add(t, db, "root", "category", nil)
	mid := add(t, db, "mid", "subcategory", node.ID(root.ID))
	leaf := add(t, db, "leaf", "item", node.ID(mid.ID))
	other := add(t, db, "other", "category", nil)

	require.NoError(t, db.DeleteNode(ctx, root.ID))
	for _, id := range []node.NodeID{root.ID, mid.ID, leaf.ID} {
		_, err := db.GetNode(ctx, id)
		assert.ErrorIs(t, err, node.ErrNotFound)
	}
	_, err := db.GetNode(ctx, other.ID)
	assert.NoError(t, err)
}

func testAtomicCommit(t *testing.T, db database.Database) {
	ctx := context.Background()
	var id node.NodeID
	err := db.Atomic(ctx, func(tx database.Nodes) error {
		n := node.Node{Name: "inside", Type: "item"}
		var err error
		id, err = tx.AddNode(ctx, &n)
		if err != nil {
			return err
		}
		got, err := tx.GetNode(ctx, id)
		if err != nil {
			return err
		}
		assert.Equal(t, "inside", got.Name)
		return nil
	})
	require.NoError(t, err)
	got, err := db.GetNode(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "inside", got.Name)
}

func testAtomicRollback(t *testing.T, db database.Database) {
	ctx := context.Background()
	kept := add(t, db, "kept", "item", nil)
	boom := errors.New("boom")
	err := db.Atomic(ctx, func(tx database.Nodes) error {
		n := node.Node{Name: "discarded", Type: "item"}
		if _, err := tx.AddNode(ctx, &n); err != nil {
			return err
		}
		if err := tx.DeleteNode(ctx, kept.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	nl, err := db.ListNodes(ctx, node.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, nl.Names())
}

func testRecentNodes(t *testing.T, db database.Database) {
	ctx := context.Background()
	a := add(t, db, "a", "item", nil)
	add(t, db, "b", "item", nil)
	time.Sleep(2 * time.Millisecond)
	a.Name = "a2"
	require.NoError(t, db.EditNode(ctx, &a))

	nl, err := db.GetRecentNodes(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, nl.Names())

	nl, err = db.GetRecentNodes(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, nl, 2)
}
