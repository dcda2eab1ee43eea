// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/near/borsh-go"

	"github.com/ava-labs/calcvm/codec"
	"github.com/ava-labs/calcvm/state"
)

const (
	accountPrefix = 0x0
	namePrefix    = 0x1

	MaxNameLen = 64
)

// Account is the persisted form of an account.
type Account struct {
	Owner codec.Address
	Data  []byte
}

//
// Accounts
//

func AccountKey(address codec.Address) (k []byte) {
	k = make([]byte, 1+codec.AddressLen)
	k[0] = accountPrefix
	copy(k[1:], address[:])
	return
}

// [address] -> [account]
func GetAccount(
	ctx context.Context,
	im state.Immutable,
	address codec.Address,
) (
	*Account,
	bool, // exists
	error,
) {
	v, err := im.GetValue(ctx, AccountKey(address))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var acc Account
	if err := borsh.Deserialize(&acc, v); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", ErrCorruptAccount, address, err)
	}
	return &acc, true, nil
}

// SetAccount stores [acc] at [address]
func SetAccount(
	ctx context.Context,
	mu state.Mutable,
	address codec.Address,
	acc *Account,
) error {
	v, err := borsh.Serialize(*acc)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, AccountKey(address), v)
}

func DeleteAccount(ctx context.Context, mu state.Mutable, address codec.Address) error {
	return mu.Remove(ctx, AccountKey(address))
}

//
// Names
//

func NameKey(name string) (k []byte) {
	k = make([]byte, 1+len(name))
	k[0] = namePrefix
	copy(k[1:], name)
	return
}

// [name] -> [address]
func GetAddress(ctx context.Context, im state.Immutable, name string) (codec.Address, bool, error) {
	if err := verifyName(name); err != nil {
		return codec.EmptyAddress, false, err
	}
	v, err := im.GetValue(ctx, NameKey(name))
	if errors.Is(err, database.ErrNotFound) {
		return codec.EmptyAddress, false, nil
	}
	if err != nil {
		return codec.EmptyAddress, false, err
	}
	addr, err := codec.ToAddress(v)
	if err != nil {
		return codec.EmptyAddress, false, err
	}
	return addr, true, nil
}

func SetAddress(ctx context.Context, mu state.Mutable, name string, address codec.Address) error {
	if err := verifyName(name); err != nil {
		return err
	}
	return mu.Insert(ctx, NameKey(name), address[:])
}

func verifyName(name string) error {
	if len(name) == 0 || len(name) > MaxNameLen {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
