// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package calculator

import "errors"

var (
	ErrNotEnoughAccounts    = errors.New("not enough accounts")
	ErrUnauthorizedAccount  = errors.New("account is not owned by this program")
	ErrMalformedInstruction = errors.New("malformed instruction")
	ErrMalformedState       = errors.New("malformed account state")
	ErrDivisionByZero       = errors.New("division by zero")
	ErrArithmeticOverflow   = errors.New("arithmetic overflow")
)

// Code is the stable numeric form of a program error reported to the
// host.
type Code uint32

const (
	CodeOK Code = iota
	CodeNotEnoughAccounts
	CodeUnauthorizedAccount
	CodeMalformedInstruction
	CodeMalformedState
	CodeDivisionByZero
	CodeArithmeticOverflow

	CodeUnknown Code = 0xffff
)

var codes = []struct {
	err  error
	code Code
}{
	{ErrNotEnoughAccounts, CodeNotEnoughAccounts},
	{ErrUnauthorizedAccount, CodeUnauthorizedAccount},
	{ErrMalformedInstruction, CodeMalformedInstruction},
	{ErrMalformedState, CodeMalformedState},
	{ErrDivisionByZero, CodeDivisionByZero},
	{ErrArithmeticOverflow, CodeArithmeticOverflow},
}

// ErrorCode maps an error returned by Process to its Code.
func ErrorCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeUnknown
}

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeNotEnoughAccounts:
		return "not_enough_accounts"
	case CodeUnauthorizedAccount:
		return "unauthorized_account"
	case CodeMalformedInstruction:
		return "malformed_instruction"
	case CodeMalformedState:
		return "malformed_state"
	case CodeDivisionByZero:
		return "division_by_zero"
	case CodeArithmeticOverflow:
		return "arithmetic_overflow"
	default:
		return "unknown"
	}
}
