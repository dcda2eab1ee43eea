// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	Name = "calcvm"

	IDLen     = 32
	ByteLen   = 1
	Uint32Len = 4
	MaxUint32 = ^uint32(0)

	// Address type ids
	AccountTypeID uint8 = 0x0
	ProgramTypeID uint8 = 0x1
)
