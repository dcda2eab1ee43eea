// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import "errors"

var (
	ErrDuplicateProgram = errors.New("program already registered")
	ErrProgramNotFound  = errors.New("program not found")
	ErrProgramFailed    = errors.New("program failed")
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountExists    = errors.New("account already exists")
	ErrDuplicateAccount = errors.New("duplicate account")
	ErrInvalidSpace     = errors.New("invalid account space")
	ErrAccountResized   = errors.New("account data resized")
	ErrReadOnlyModified = errors.New("read-only account modified")
	ErrExternalModified = errors.New("account not owned by program modified")
)
