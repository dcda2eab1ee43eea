// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrCorruptAccount = errors.New("corrupt account")
	ErrInvalidName    = errors.New("invalid account name")
)
