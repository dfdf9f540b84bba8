package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/aquilax/catalog/node"
	"github.com/joho/godotenv"
)

const envPrefix = "CATALOG_"

type Config struct {
	Server       string
	Database     string
	Dsn          string
	Title        string
	LogLevel     string
	LogPretty    bool
	MaxDepth     int
	PerPage      int
	FeedSize     int
	Seed         bool
	OpenAttempts uint64
	OpenDelay    time.Duration
}

func NewConfig() *Config {
	return &Config{
		Server:       ":8080",
		Database:     "sqlite",
		Dsn:          "./db/catalog.sqlite",
		Title:        "Catalog",
		LogLevel:     "info",
		MaxDepth:     node.DefaultMaxDepth,
		PerPage:      20,
		FeedSize:     20,
		OpenAttempts: 5,
		OpenDelay:    500 * time.Millisecond,
	}
}

// Load layers the environment (and an optional .env file) and then the
// command line over the defaults.
func (c *Config) Load(args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := c.loadEnv(os.LookupEnv); err != nil {
		return err
	}
	return c.parseFlags(args)
}

func (c *Config) loadEnv(lookup func(string) (string, bool)) error {
	// PORT is what most hosting platforms hand out
	if port, ok := lookup("PORT"); ok && port != "" {
		c.Server = ":" + port
	}
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}
	var err error
	integer := func(name string, dst *int) {
		if v, ok := lookup(envPrefix + name); ok && err == nil {
			if *dst, err = strconv.Atoi(v); err != nil {
				err = fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(envPrefix + name); ok && err == nil {
			if *dst, err = strconv.ParseBool(v); err != nil {
				err = fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
		}
	}
	str("SERVER", &c.Server)
	str("DATABASE", &c.Database)
	str("DSN", &c.Dsn)
	str("TITLE", &c.Title)
	str("LOG_LEVEL", &c.LogLevel)
	boolean("LOG_PRETTY", &c.LogPretty)
	integer("MAX_DEPTH", &c.MaxDepth)
	integer("PER_PAGE", &c.PerPage)
	integer("FEED_SIZE", &c.FeedSize)
	boolean("SEED", &c.Seed)
	return err
}

func (c *Config) parseFlags(args []string) error {
	fl := flag.NewFlagSet("catalog", flag.ContinueOnError)
	fl.StringVar(&c.Server, "server", c.Server, "address to listen on")
	fl.StringVar(&c.Database, "database", c.Database, "storage backend: sqlite, postgres or memory")
	fl.StringVar(&c.Dsn, "dsn", c.Dsn, "data source name")
	fl.StringVar(&c.Title, "title", c.Title, "feed title")
	fl.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	fl.BoolVar(&c.LogPretty, "pretty", c.LogPretty, "human readable logs")
	fl.IntVar(&c.MaxDepth, "max-depth", c.MaxDepth, "deepest tree level before a traversal gives up")
	fl.IntVar(&c.PerPage, "per-page", c.PerPage, "default page size")
	fl.IntVar(&c.FeedSize, "feed-size", c.FeedSize, "number of feed items")
	fl.BoolVar(&c.Seed, "seed", c.Seed, "load the demo catalog into an empty store")
	if err := fl.Parse(args); err != nil {
		return err
	}
	if c.PerPage <= 0 {
		return fmt.Errorf("per-page must be positive, got %d", c.PerPage)
	}
	return nil
}
