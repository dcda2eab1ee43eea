// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrDuplicateAccountName = errors.New("account name already exists")
	ErrNamedAccountNotFound = errors.New("named account not found")
	ErrInvalidPlan          = errors.New("invalid plan")
	ErrInvalidStep          = errors.New("invalid step")
	ErrInvalidAction        = errors.New("invalid action")
	ErrMissingAccount       = errors.New("missing account")
	ErrMissingOperation     = errors.New("missing operation")
	ErrUnknownCode          = errors.New("unknown error code")
	ErrInvalidConfigFormat  = errors.New("invalid config format")
	ErrAssertionFailed      = errors.New("assertion failed")
)
