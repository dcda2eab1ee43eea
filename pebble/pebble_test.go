// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	cfg := NewDefaultConfig()
	cfg.Sync = false
	db, err := New(t.TempDir(), cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	return db
}

func TestDatabase(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)

	key := []byte("counter")
	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)
	_, err = db.Get(key)
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Put(key, []byte{1, 0, 0, 0}))
	has, err = db.Has(key)
	require.NoError(err)
	require.True(has)
	v, err := db.Get(key)
	require.NoError(err)
	require.Equal([]byte{1, 0, 0, 0}, v)

	require.NoError(db.Delete(key))
	_, err = db.Get(key)
	require.ErrorIs(err, database.ErrNotFound)

	require.InDelta(1, testutil.ToFloat64(db.metrics.writes), 0)
	require.InDelta(1, testutil.ToFloat64(db.metrics.deletes), 0)

	require.NoError(db.Close())
	require.ErrorIs(db.Close(), database.ErrClosed)
	_, err = db.Get(key)
	require.ErrorIs(err, database.ErrClosed)
	require.ErrorIs(db.Put(key, nil), database.ErrClosed)
}

func TestDatabaseReopen(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	db, err := New(dir, NewDefaultConfig(), prometheus.NewRegistry())
	require.NoError(err)
	require.NoError(db.Put([]byte("k"), []byte("v")))
	require.NoError(db.Close())

	db, err = New(dir, NewDefaultConfig(), prometheus.NewRegistry())
	require.NoError(err)
	v, err := db.Get([]byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), v)
	require.NoError(db.Close())
}
