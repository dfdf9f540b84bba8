package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aquilax/catalog/node"
	"github.com/rs/zerolog"
)

const (
	kindNotFound       = "not_found"
	kindParentNotFound = "parent_not_found"
	kindValidation     = "validation"
	kindSelfParent     = "self_parent"
	kindCycle          = "cycle"
	kindHasChildren    = "has_children"
	kindBadRequest     = "bad_request"
	kindCorruptTree    = "corrupt_tree"
	kindStorage        = "storage"
)

type HTTPError struct {
	Err     error
	Message string
	Code    int
	Kind    string
	Errors  []string
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Kind    string      `json:"kind,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// classify maps an operation error onto the response it produces.
func classify(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return &HTTPError{err, "The given data was invalid.", http.StatusUnprocessableEntity, kindValidation, ve}
	}
	switch {
	case errors.Is(err, node.ErrNotFound):
		return &HTTPError{err, "Node not found", http.StatusNotFound, kindNotFound, nil}
	case errors.Is(err, node.ErrParentNotFound):
		return &HTTPError{err, "The selected parent node does not exist.", http.StatusNotFound, kindParentNotFound, nil}
	case errors.Is(err, node.ErrSelfParent):
		return &HTTPError{err, "A node cannot be its own parent.", http.StatusUnprocessableEntity, kindSelfParent, nil}
	case errors.Is(err, node.ErrCycle):
		return &HTTPError{err, "A node cannot be moved under one of its own descendants.", http.StatusUnprocessableEntity, kindCycle, nil}
	case errors.Is(err, node.ErrHasChildren):
		return &HTTPError{err, "Cannot delete node with child nodes", http.StatusUnprocessableEntity, kindHasChildren, nil}
	case errors.Is(err, node.ErrCorruptTree):
		return &HTTPError{err, "The stored tree is corrupt: " + err.Error(), http.StatusInternalServerError, kindCorruptTree, nil}
	}
	return &HTTPError{err, "Storage error: " + err.Error(), http.StatusInternalServerError, kindStorage, nil}
}

// writeJSON encodes body before the status line is sent. Failures writing
// to the client are only logged.
func writeJSON(w http.ResponseWriter, r *http.Request, code int, body interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(append(b, '\n')); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("writing response")
	}
	return nil
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	he := classify(err)
	log := zerolog.Ctx(r.Context())
	if he.Code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("kind", he.Kind).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("kind", he.Kind).Msg("request rejected")
	}
	if werr := writeJSON(w, r, he.Code, envelope{
		Success: false,
		Message: he.Message,
		Kind:    he.Kind,
		Errors:  he.Errors,
	}); werr != nil {
		log.Error().Err(werr).Msg("writing error response")
	}
}

func writeData(w http.ResponseWriter, r *http.Request, data interface{}) error {
	return writeJSON(w, r, http.StatusOK, envelope{Success: true, Data: data})
}
