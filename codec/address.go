// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
)

const AddressLen = 33

// Address names an account or a program. The first byte is a type id and
// the remaining 32 bytes identify the account within that type.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	var a Address
	a[0] = typeID
	copy(a[1:], id[:])
	return a
}

// TypeID returns the leading type byte of [a].
func (a Address) TypeID() uint8 {
	return a[0]
}

// ToAddress copies [b] into an [Address]. [b] must be exactly AddressLen
// bytes.
func ToAddress(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, fmt.Errorf("%w: expected %d bytes but got %d", ErrInvalidSize, AddressLen, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// StringToAddress parses the hex representation of an address, with or
// without a 0x prefix.
func StringToAddress(s string) (Address, error) {
	var a Address
	if err := a.UnmarshalText([]byte(s)); err != nil {
		return EmptyAddress, err
	}
	return a, nil
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	result := make([]byte, len(a)*2+2)
	copy(result, `0x`)
	hex.Encode(result[2:], a[:])
	return result, nil
}

// UnmarshalText parses a hex-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	if len(input) >= 2 && input[0] == '0' && (input[1] == 'x' || input[1] == 'X') {
		input = input[2:]
	}
	decoded, err := hex.DecodeString(string(input))
	if err != nil {
		return err
	}
	if len(decoded) != AddressLen {
		return fmt.Errorf("%w: expected %d bytes but got %d", ErrInvalidSize, AddressLen, len(decoded))
	}
	copy(a[:], decoded)
	return nil
}
