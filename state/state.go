// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

//go:generate go run go.uber.org/mock/mockgen -package=state -destination=mock_mutable.go . Mutable

type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Database is the persistent store a [SimpleMutable] reads from and
// commits to.
type Database interface {
	database.KeyValueReader
	database.KeyValueWriterDeleter
}
