package database

import (
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"apartment-search/internal/config"
	"apartment-search/internal/filter"
)

// ErrNotConfigured is returned by Open when no connection details are set.
var ErrNotConfigured = errors.New("database not configured")

// Open prepares a pool for the configured driver without connecting. The
// first connection happens on the liveness probe, so an unreachable database
// does not stop the service from starting.
func Open(cfg config.StoreConfig) (*sqlx.DB, filter.Dialect, error) {
	if !cfg.Enabled() {
		return nil, nil, ErrNotConfigured
	}

	dialect, err := filter.DialectFor(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sqlx.Open(cfg.Driver, cfg.ConnString())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(config.Duration(cfg.ConnMaxLifetime, 30*time.Minute))

	return db, dialect, nil
}
