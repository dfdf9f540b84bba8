package main

import (
	"net/http"

	"github.com/aquilax/catalog/node"
)

func (c *Catalog) listHandler(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	f, err := parseFilter(q)
	if err != nil {
		return err
	}
	page, offset, limit := pageParams(q, c.config.PerPage)
	views, total, err := c.m.List(r.Context(), f, offset, limit)
	if err != nil {
		return err
	}
	if limit > 0 {
		link := Pagination(PaginationConfig{
			page:  page + 1,
			ipp:   limit,
			total: total,
			url:   r.URL.RequestURI(),
			param: "page",
		}).Link(page + 1)
		if link != "" {
			w.Header().Set("Link", link)
		}
	}
	return writeJSON(w, r, http.StatusOK, envelope{Success: true, Data: views, Count: &total})
}

func (c *Catalog) getHandler(w http.ResponseWriter, r *http.Request) error {
	id, err := nodeID(r)
	if err != nil {
		return err
	}
	v, err := c.m.Get(r.Context(), id)
	if err != nil {
		return err
	}
	return writeData(w, r, v)
}

func (c *Catalog) createHandler(w http.ResponseWriter, r *http.Request) error {
	in, err := decodeInput(r)
	if err != nil {
		return err
	}
	v, err := c.m.Create(r.Context(), in)
	if err != nil {
		return err
	}
	return writeJSON(w, r, http.StatusCreated, envelope{
		Success: true,
		Data:    v,
		Message: "Node created successfully",
	})
}

func (c *Catalog) updateHandler(w http.ResponseWriter, r *http.Request) error {
	id, err := nodeID(r)
	if err != nil {
		return err
	}
	in, err := decodeInput(r)
	if err != nil {
		return err
	}
	v, err := c.m.Update(r.Context(), id, in)
	if err != nil {
		return err
	}
	return writeJSON(w, r, http.StatusOK, envelope{
		Success: true,
		Data:    v,
		Message: "Node updated successfully",
	})
}

func (c *Catalog) deleteHandler(w http.ResponseWriter, r *http.Request) error {
	id, err := nodeID(r)
	if err != nil {
		return err
	}
	if err := c.m.Delete(r.Context(), id); err != nil {
		return err
	}
	return writeJSON(w, r, http.StatusOK, envelope{Success: true, Message: "Node deleted successfully"})
}

func (c *Catalog) childrenHandler(w http.ResponseWriter, r *http.Request) error {
	id, err := nodeID(r)
	if err != nil {
		return err
	}
	views, err := c.m.Children(r.Context(), id)
	if err != nil {
		return err
	}
	total := len(views)
	return writeJSON(w, r, http.StatusOK, envelope{Success: true, Data: views, Count: &total})
}

func (c *Catalog) treeHandler(w http.ResponseWriter, r *http.Request) error {
	forest, err := c.m.Tree(r.Context())
	if err != nil {
		return err
	}
	return writeData(w, r, forest)
}

func (c *Catalog) subtreeHandler(w http.ResponseWriter, r *http.Request) error {
	id, err := nodeID(r)
	if err != nil {
		return err
	}
	t, err := c.m.Subtree(r.Context(), id)
	if err != nil {
		return err
	}
	return writeData(w, r, t)
}

func (c *Catalog) ancestorsHandler(w http.ResponseWriter, r *http.Request) error {
	id, err := nodeID(r)
	if err != nil {
		return err
	}
	nl, err := c.m.Ancestors(r.Context(), id)
	if err != nil {
		return err
	}
	return writeData(w, r, nl)
}

// nodeURL is the permalink of n below baseURL.
func nodeURL(baseURL string, n node.Node) string {
	return baseURL + "/api/nodes/" + idString(n.ID) + "/" + nodeSlug(n.Name)
}
