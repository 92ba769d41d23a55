// Package app assembles the record store from configuration. Both binaries
// go through it so they always agree on the backend and search mode.
package app

import (
	"fmt"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/records"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/gormdb"
	"github.com/aanand-mishra/student-records/internal/storage/sqlite"
)

// OpenStorage opens the backend named by cfg.Storage.Driver.
func OpenStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err := sqlite.New(cfg)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverPostgres:
		db, err := gormdb.OpenPostgres(cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// NewStore opens storage and wraps it in a records.Store. The caller
// closes the returned storage.
func NewStore(cfg *config.Config) (*records.Store, storage.Storage, error) {
	st, err := OpenStorage(cfg)
	if err != nil {
		return nil, nil, err
	}
	return records.NewStore(st, records.Options{
		CaseSensitiveSearch: cfg.Search.CaseSensitive,
	}), st, nil
}
