package store

import (
	"context"
	"fmt"

	"coinvault/internal/config"
	"coinvault/internal/db"
)

// Open builds the configured backend. The returned close function releases
// its resources and is never nil.
func Open(ctx context.Context, cfg config.StoreConfig) (KV, func(), error) {
	switch cfg.Driver {
	case "sqlite":
		sqlDB, err := db.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLiteStore(sqlDB), func() { _ = sqlDB.Close() }, nil
	case "file":
		fs, err := NewFileStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	case "postgres":
		pg, err := OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	case "memory":
		return NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
