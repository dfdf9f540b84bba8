package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type Catalog struct {
	config *Config
	m      *Model
	log    zerolog.Logger
}

type appHandler func(http.ResponseWriter, *http.Request) error

func NewCatalog() *Catalog {
	return &Catalog{}
}

func (c *Catalog) Run(args []string) error {
	c.config = NewConfig()
	if err := c.config.Load(args); err != nil {
		return err
	}
	c.log = newLogger(c.config, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, c.config, c.log)
	if err != nil {
		return err
	}
	defer db.Close()

	c.m = NewModel(db, c.config.MaxDepth)
	if c.config.Seed {
		seeded, err := c.m.Seed(ctx, demoCatalog)
		if err != nil {
			return err
		}
		c.log.Info().Bool("seeded", seeded).Msg("demo catalog")
	}

	server := &http.Server{
		Addr:              c.config.Server,
		Handler:           c.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		c.log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sctx)
	})
	return g.Wait()
}

func (c *Catalog) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(c.log))
	r.NotFoundHandler = appHandler(notFoundHandler)
	r.MethodNotAllowedHandler = appHandler(methodNotAllowedHandler)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/nodes", appHandler(c.listHandler).ServeHTTP).Methods("GET")
	api.HandleFunc("/nodes", appHandler(c.createHandler).ServeHTTP).Methods("POST")
	api.HandleFunc("/nodes-tree", appHandler(c.treeHandler).ServeHTTP).Methods("GET")
	api.HandleFunc("/nodes/{id:[0-9]+}", appHandler(c.getHandler).ServeHTTP).Methods("GET")
	api.HandleFunc("/nodes/{id:[0-9]+}", appHandler(c.updateHandler).ServeHTTP).Methods("PUT")
	api.HandleFunc("/nodes/{id:[0-9]+}", appHandler(c.deleteHandler).ServeHTTP).Methods("DELETE")
	api.HandleFunc("/nodes/{id:[0-9]+}/children", appHandler(c.childrenHandler).ServeHTTP).Methods("GET")
	api.HandleFunc("/nodes/{id:[0-9]+}/tree", appHandler(c.subtreeHandler).ServeHTTP).Methods("GET")
	api.HandleFunc("/nodes/{id:[0-9]+}/ancestors", appHandler(c.ancestorsHandler).ServeHTTP).Methods("GET")
	// Permalinks used by the feed and the sitemap
	api.HandleFunc("/nodes/{id:[0-9]+}/{slug}", appHandler(c.getHandler).ServeHTTP).Methods("GET")

	r.HandleFunc("/feed.xml", appHandler(c.feedHandler).ServeHTTP).Methods("GET")
	r.HandleFunc("/sitemap.xml", appHandler(c.sitemapHandler).ServeHTTP).Methods("GET")
	return r
}

func (fn appHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := fn(w, r); err != nil {
		writeError(w, r, err)
	}
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) error {
	return &HTTPError{Message: "Not found", Code: http.StatusNotFound, Kind: kindNotFound}
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) error {
	return &HTTPError{Message: "Method not allowed", Code: http.StatusMethodNotAllowed, Kind: kindBadRequest}
}
