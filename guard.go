package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aquilax/catalog/database"
	"github.com/aquilax/catalog/node"
)

type ValidationErrors []string

func (ve ValidationErrors) Error() string {
	return strings.Join(ve, " ")
}

// NodeInput carries the writable node fields of a create or update.
type NodeInput struct {
	Name   string      `json:"name"`
	Type   string      `json:"type"`
	Parent ParentField `json:"parent_id"`
}

func (in *NodeInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.TrimSpace(in.Type)
}

// validate checks the field rules. The returned slice is empty when the
// input is acceptable.
func (in *NodeInput) validate() ValidationErrors {
	in.normalize()
	errs := ValidationErrors{}
	errs = append(errs, checkText("name", in.Name, node.MaxNameLength)...)
	errs = append(errs, checkText("type", in.Type, node.MaxTypeLength)...)
	if in.Parent.Invalid {
		errs = append(errs, "The parent_id field must be an integer or null.")
	}
	return errs
}

func checkText(field, value string, limit int) ValidationErrors {
	if value == "" {
		return ValidationErrors{fmt.Sprintf("The %s field is required.", field)}
	}
	var errs ValidationErrors
	if utf8.RuneCountInString(value) > limit {
		errs = append(errs, fmt.Sprintf("The %s may not be greater than %d characters.", field, limit))
	}
	return errs
}

// checkParent rejects parentID for node id when it is the node itself,
// does not exist, or lies below id. A zero id stands for a node that is
// not stored yet and so has no descendants.
func (m *Model) checkParent(ctx context.Context, db database.Nodes, id node.NodeID, parentID *node.NodeID) error {
	if parentID == nil {
		return nil
	}
	if id != 0 && *parentID == id {
		return node.ErrSelfParent
	}
	if _, err := db.GetNode(ctx, *parentID); err != nil {
		if errors.Is(err, node.ErrNotFound) {
			return fmt.Errorf("%w: %d", node.ErrParentNotFound, *parentID)
		}
		return err
	}
	if id == 0 {
		return nil
	}
	return m.walkUp(ctx, db, parentID, func(n *node.Node) error {
		if n.ID == id {
			return fmt.Errorf("%w: %d is an ancestor of %d", node.ErrCycle, id, *parentID)
		}
		return nil
	})
}

// walkUp calls visit for the node at start and each of its ancestors,
// nearest first. It stops at a root, at the first visit error, or with
// ErrCorruptTree when the chain loops or exceeds the depth limit.
func (m *Model) walkUp(ctx context.Context, db database.Nodes, start *node.NodeID, visit func(n *node.Node) error) error {
	seen := make(map[node.NodeID]struct{})
	for cur := start; cur != nil; {
		if _, ok := seen[*cur]; ok {
			return fmt.Errorf("%w: ancestor chain revisits %d", node.ErrCorruptTree, *cur)
		}
		seen[*cur] = struct{}{}
		if len(seen) > m.maxDepth {
			return fmt.Errorf("%w: ancestor chain longer than %d", node.ErrCorruptTree, m.maxDepth)
		}
		n, err := db.GetNode(ctx, *cur)
		if err != nil {
			return err
		}
		if err := visit(n); err != nil {
			return err
		}
		cur = n.ParentID
	}
	return nil
}
