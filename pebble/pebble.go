// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/calcvm/state"
)

var _ state.Database = (*Database)(nil)

type Config struct {
	CacheSize int64 `json:"cacheSize"`
	Sync      bool  `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize: 64 * 1024 * 1024,
		Sync:      true,
	}
}

// Database is an account store backed by pebble.
type Database struct {
	lock   sync.RWMutex
	closed bool

	db        *pebble.DB
	writeOpts *pebble.WriteOptions
	metrics   *metrics
}

// New opens (or creates) the database at [file] and registers its metrics
// with [registerer].
func New(file string, cfg Config, registerer prometheus.Registerer) (*Database, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}

	cache := pebble.NewCache(cfg.CacheSize)
	defer cache.Unref()
	db, err := pebble.Open(file, &pebble.Options{Cache: cache})
	if err != nil {
		return nil, err
	}

	return &Database{
		db:        db,
		writeOpts: &pebble.WriteOptions{Sync: cfg.Sync},
		metrics:   m,
	}, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	_, err := db.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (db *Database) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}

	start := time.Now()
	data, closer, err := db.db.Get(key)
	db.metrics.getLatency.Observe(float64(time.Since(start)))
	if err != nil {
		return nil, updateError(err)
	}
	defer closer.Close()

	db.metrics.reads.Inc()
	return slices.Clone(data), nil
}

func (db *Database) Put(key []byte, value []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	if err := db.db.Set(key, value, db.writeOpts); err != nil {
		return updateError(err)
	}
	db.metrics.writes.Inc()
	return nil
}

func (db *Database) Delete(key []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	if err := db.db.Delete(key, db.writeOpts); err != nil {
		return updateError(err)
	}
	db.metrics.deletes.Inc()
	return nil
}

func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return database.ErrClosed
	}
	db.closed = true
	return updateError(db.db.Close())
}

// updateError converts a pebble error to the avalanchego database error
// callers check for.
func updateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pebble.ErrNotFound):
		return database.ErrNotFound
	case errors.Is(err, pebble.ErrClosed):
		return database.ErrClosed
	default:
		return err
	}
}
