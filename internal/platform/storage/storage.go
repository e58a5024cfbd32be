// Package storage opens the progress store and event logger selected by config.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/civica/civica/internal/platform/cache"
	"github.com/civica/civica/internal/platform/config"
	"github.com/civica/civica/internal/platform/database"
	"github.com/civica/civica/internal/progress"
)

// Backend is an opened progress store plus the resources behind it.
type Backend struct {
	Store  progress.Store
	Events progress.EventLogger

	closers []func() error
}

// Open connects to the configured store. Callers must Close the backend.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{Events: progress.NopEventLogger{}}

	var db *database.DB
	if cfg.NeedsDatabase() {
		var err error
		db, err = database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		b.closers = append(b.closers, func() error { db.Close(); return nil })
	}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		b.Store = progress.NewMemoryStore()

	case config.DriverSQLite:
		store, err := progress.OpenSQLiteStore(ctx, cfg.Store.SQLitePath)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.Store = store
		b.closers = append(b.closers, store.Close)

	case config.DriverPostgres:
		store, err := progress.NewPostgresStore(ctx, db.Pool)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.Store = store

	case config.DriverRedis:
		client, err := cache.Open(ctx, cfg.Cache)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("connecting to cache: %w", err)
		}
		b.closers = append(b.closers, client.Close)
		store, err := progress.NewRedisStore(client)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.Store = store

	default:
		_ = b.Close()
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.Events {
		// The events table is created with the postgres store schema.
		if cfg.Store.Driver != config.DriverPostgres {
			if _, err := progress.NewPostgresStore(ctx, db.Pool); err != nil {
				_ = b.Close()
				return nil, err
			}
		}
		b.Events = progress.NewPostgresEventLogger(db.Pool)
	}

	slog.Info("progress store ready",
		"driver", cfg.Store.Driver,
		"key", cfg.Store.Key,
		"events", cfg.Events,
	)
	return b, nil
}

// Tracker builds a tracker over the backend.
func (b *Backend) Tracker(key string) *progress.Tracker {
	return progress.NewTracker(progress.TrackerConfig{
		Store:  b.Store,
		Key:    key,
		Events: b.Events,
	})
}

// Close releases resources in reverse order of acquisition.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
