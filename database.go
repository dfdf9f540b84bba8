package main

import (
	"context"
	"fmt"

	"github.com/aquilax/catalog/database"
	"github.com/aquilax/catalog/database/memory"
	"github.com/aquilax/catalog/database/postgres"
	"github.com/aquilax/catalog/database/sqlite"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

func newDatabase(name string) (database.Database, string, error) {
	switch name {
	case "sqlite", "sqlite3":
		return sqlite.New(), sqlite.DriverName, nil
	case "postgres", "postgresql":
		return postgres.New(), postgres.DriverName, nil
	case "memory":
		return memory.New(), "", nil
	}
	return nil, "", fmt.Errorf("unknown database %q", name)
}

// openDatabase connects and migrates the configured backend. Connecting is
// retried since the database server may still be starting.
func openDatabase(ctx context.Context, c *Config, log zerolog.Logger) (database.Database, error) {
	db, driver, err := newDatabase(c.Database)
	if err != nil {
		return nil, err
	}
	b := retry.WithMaxRetries(c.OpenAttempts, retry.NewExponential(c.OpenDelay))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		if err := db.Open(driver, c.Dsn); err != nil {
			log.Warn().Err(err).Str("database", c.Database).Msg("database not ready")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", c.Database, err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating %s database: %w", c.Database, err)
	}
	log.Info().Str("database", c.Database).Msg("database ready")
	return db, nil
}
