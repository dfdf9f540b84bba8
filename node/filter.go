package node

import "strings"

// ParentScope selects how Filter.ParentID is applied.
type ParentScope int

const (
	// ParentAny applies no parent filter.
	ParentAny ParentScope = iota
	// ParentRoots matches nodes without a parent.
	ParentRoots
	// ParentIs matches direct children of Filter.ParentID.
	ParentIs
)

// Filter holds the optional list filters. Set fields are combined with AND.
type Filter struct {
	Search    string
	Type      string
	Parent    ParentScope
	ParentID  NodeID
	RootsOnly bool
}

// Predicate is one filter condition. Clause is a SQL boolean expression
// using ? placeholders over the nodes table; Match evaluates the same
// condition in memory.
type Predicate struct {
	Clause string
	Args   []interface{}
	Match  func(n *Node) bool
}

// Predicates returns one predicate per set filter field.
func (f Filter) Predicates() []Predicate {
	var ps []Predicate
	if f.Search != "" {
		ps = append(ps, Search(f.Search))
	}
	if f.Type != "" {
		ps = append(ps, OfType(f.Type))
	}
	switch {
	case f.RootsOnly, f.Parent == ParentRoots:
		ps = append(ps, Roots())
	case f.Parent == ParentIs:
		ps = append(ps, ChildOf(f.ParentID))
	}
	return ps
}

// Where renders the filter as a WHERE clause. It returns an empty string
// when no field is set.
func (f Filter) Where() (string, []interface{}) {
	ps := f.Predicates()
	if len(ps) == 0 {
		return "", nil
	}
	clauses := make([]string, len(ps))
	var args []interface{}
	for i, p := range ps {
		clauses[i] = p.Clause
		args = append(args, p.Args...)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Match reports whether n satisfies every set filter field.
func (f Filter) Match(n *Node) bool {
	for _, p := range f.Predicates() {
		if !p.Match(n) {
			return false
		}
	}
	return true
}

// Search matches names containing s. Matching folds ASCII letters only and
// treats % and _ literally.
func Search(s string) Predicate {
	folded := FoldASCII(s)
	return Predicate{
		Clause: `lower(name) LIKE ? ESCAPE '\'`,
		Args:   []interface{}{"%" + escapeLike(folded) + "%"},
		Match: func(n *Node) bool {
			return strings.Contains(FoldASCII(n.Name), folded)
		},
	}
}

// OfType matches nodes whose type equals t exactly.
func OfType(t string) Predicate {
	return Predicate{
		Clause: "type = ?",
		Args:   []interface{}{t},
		Match: func(n *Node) bool {
			return n.Type == t
		},
	}
}

// Roots matches nodes without a parent.
func Roots() Predicate {
	return Predicate{
		Clause: "parent_id IS NULL",
		Match:  (*Node).IsRoot,
	}
}

// ChildOf matches direct children of id.
func ChildOf(id NodeID) Predicate {
	return Predicate{
		Clause: "parent_id = ?",
		Args:   []interface{}{id},
		Match: func(n *Node) bool {
			return n.HasParent(id)
		},
	}
}

// FoldASCII lower-cases ASCII letters and leaves every other byte alone,
// mirroring lower() on SQLite and on Postgres with the "C" collation.
func FoldASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
