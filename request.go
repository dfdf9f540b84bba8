package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aquilax/catalog/node"
	"github.com/gorilla/mux"
)

const (
	maxBodySize = 1 << 20
	maxPage     = 1 << 20
	maxPerPage  = 1000
)

// ParentField is an optional, nullable parent_id. Set tells an absent
// field apart from an explicit null.
type ParentField struct {
	Set     bool
	ID      *node.NodeID
	Invalid bool
}

func (p *ParentField) UnmarshalJSON(b []byte) error {
	p.Set = true
	p.ID = nil
	p.Invalid = false
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}
	var raw string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	} else {
		raw = string(b)
	}
	id, ok := parseID(raw)
	switch {
	case raw == "":
	case !ok:
		p.Invalid = true
	default:
		p.ID = node.ID(id)
	}
	return nil
}

func parseID(s string) (node.NodeID, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// nodeID reads the {id} route variable. Ids the store could never have
// issued are reported as missing nodes.
func nodeID(r *http.Request) (node.NodeID, error) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		return 0, node.ErrNotFound
	}
	return id, nil
}

func decodeInput(r *http.Request) (NodeInput, error) {
	var in NodeInput
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(&in); err != nil {
		return in, &HTTPError{
			Err:     err,
			Message: fmt.Sprintf("Malformed request body: %s", err),
			Code:    http.StatusBadRequest,
			Kind:    kindBadRequest,
		}
	}
	return in, nil
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}

// parseFilter builds a node filter from the list query parameters.
func parseFilter(q url.Values) (node.Filter, error) {
	f := node.Filter{
		Search:    strings.TrimSpace(q.Get("search")),
		Type:      strings.TrimSpace(q.Get("type")),
		RootsOnly: truthy(q.Get("roots_only")),
	}
	if _, ok := q["parent_id"]; ok {
		v := strings.TrimSpace(q.Get("parent_id"))
		if v == "" || v == "null" {
			f.Parent = node.ParentRoots
		} else {
			// ids below 1 are never issued and match no children
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return f, ValidationErrors{"The parent_id field must be an integer or null."}
			}
			f.Parent = node.ParentIs
			f.ParentID = id
		}
	}
	return f, nil
}

// pageParams reads page and per_page. A zero limit means no paging.
func pageParams(q url.Values, perPage int) (page, offset, limit int) {
	_, hasPage := q["page"]
	_, hasPerPage := q["per_page"]
	if !hasPage && !hasPerPage {
		return 0, 0, 0
	}
	page = getPageNumber(q.Get("page"))
	limit = perPage
	if n, err := strconv.Atoi(q.Get("per_page")); err == nil && n > 0 {
		limit = n
	}
	if limit > maxPerPage {
		limit = maxPerPage
	}
	return page, page * limit, limit
}

func getPageNumber(pageStr string) int {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return 0
	}
	if page > maxPage {
		page = maxPage
	}
	return page - 1
}
