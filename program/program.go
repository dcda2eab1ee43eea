// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"context"

	"github.com/ava-labs/calcvm/codec"
)

// AccountInfo is the view of an account handed to a program for the
// duration of a single call. The program has exclusive access to Data
// until Process returns.
type AccountInfo struct {
	Address  codec.Address
	Owner    codec.Address
	Writable bool
	Data     []byte
}

// Program processes raw instruction data against the supplied accounts.
type Program interface {
	Process(
		ctx context.Context,
		programID codec.Address,
		accounts []*AccountInfo,
		data []byte,
	) error
}

// ProgramFunc adapts a function to the Program interface.
type ProgramFunc func(context.Context, codec.Address, []*AccountInfo, []byte) error

func (f ProgramFunc) Process(
	ctx context.Context,
	programID codec.Address,
	accounts []*AccountInfo,
	data []byte,
) error {
	return f(ctx, programID, accounts, data)
}
