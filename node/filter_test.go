package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterPredicates(t *testing.T) {
	tests := []struct {
		name  string
		f     Filter
		where string
		args  []interface{}
	}{
		{
			name: "no filter",
			f:    Filter{},
		},
		{
			name:  "search and type",
			f:     Filter{Search: "Pro", Type: "product"},
			where: ` WHERE lower(name) LIKE ? ESCAPE '\' AND type = ?`,
			args:  []interface{}{"%pro%", "product"},
		},
		{
			name:  "roots",
			f:     Filter{Parent: ParentRoots},
			where: " WHERE parent_id IS NULL",
		},
		{
			name:  "children of",
			f:     Filter{Parent: ParentIs, ParentID: 7},
			where: " WHERE parent_id = ?",
			args:  []interface{}{NodeID(7)},
		},
		{
			name:  "roots only overrides parent id",
			f:     Filter{Parent: ParentIs, ParentID: 7, RootsOnly: true},
			where: " WHERE parent_id IS NULL",
		},
		{
			name:  "like wildcards are literal",
			f:     Filter{Search: `50%_off\`},
			where: ` WHERE lower(name) LIKE ? ESCAPE '\'`,
			args:  []interface{}{`%50\%\_off\\%`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.f.Where()
			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestFilterMatch(t *testing.T) {
	electronics := Node{ID: 1, Name: "Electronics", Type: "category"}
	computers := Node{ID: 2, Name: "Computers", Type: "subcategory", ParentID: ID(1)}
	macbook := Node{ID: 3, Name: "MacBook Pro", Type: "product", ParentID: ID(2)}
	cafe := Node{ID: 4, Name: "Café PRO", Type: "product", ParentID: ID(2)}

	tests := []struct {
		name string
		f    Filter
		n    Node
		want bool
	}{
		{"empty filter matches", Filter{}, macbook, true},
		{"search is case insensitive", Filter{Search: "book"}, macbook, true},
		{"search upper case", Filter{Search: "MACBOOK"}, macbook, true},
		{"search misses", Filter{Search: "dell"}, macbook, false},
		{"search folds ascii only", Filter{Search: "café pro"}, cafe, true},
		{"search keeps non ascii case", Filter{Search: "CAFÉ"}, cafe, false},
		{"type exact", Filter{Type: "product"}, macbook, true},
		{"type is not substring", Filter{Type: "prod"}, macbook, false},
		{"roots", Filter{Parent: ParentRoots}, electronics, true},
		{"roots excludes children", Filter{Parent: ParentRoots}, computers, false},
		{"roots only", Filter{RootsOnly: true}, computers, false},
		{"child of", Filter{Parent: ParentIs, ParentID: 2}, macbook, true},
		{"child of other", Filter{Parent: ParentIs, ParentID: 1}, macbook, false},
		{"composed", Filter{Search: "pro", Type: "product", Parent: ParentIs, ParentID: 2}, macbook, true},
		{"composed one fails", Filter{Search: "pro", Type: "category"}, macbook, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.n
			assert.Equal(t, tt.want, tt.f.Match(&n))
		})
	}
}

func TestFoldASCII(t *testing.T) {
	assert.Equal(t, "macbook pro 16\"", FoldASCII("MacBook Pro 16\""))
	assert.Equal(t, "émile", FoldASCII("éMILE"))
}
