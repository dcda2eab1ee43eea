// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package calculator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const maxUint32 = ^uint32(0)

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		op       Operation
		current  uint32
		operand  uint32
		expected uint32
		err      error
	}{
		{name: "increment", op: Increment, current: 5, operand: 3, expected: 8},
		{name: "decrement", op: Decrement, current: 5, operand: 3, expected: 2},
		{name: "multiply", op: Multiply, current: 5, operand: 3, expected: 15},
		{name: "divide", op: Divide, current: 15, operand: 3, expected: 5},
		{name: "divide truncates", op: Divide, current: 16, operand: 3, expected: 5},
		{name: "divide by zero", op: Divide, current: 15, operand: 0, err: ErrDivisionByZero},
		{name: "increment to max", op: Increment, current: maxUint32 - 1, operand: 1, expected: maxUint32},
		{name: "increment overflow", op: Increment, current: maxUint32, operand: 1, err: ErrArithmeticOverflow},
		{name: "decrement to zero", op: Decrement, current: 3, operand: 3, expected: 0},
		{name: "decrement underflow", op: Decrement, current: 2, operand: 3, err: ErrArithmeticOverflow},
		{name: "multiply by zero", op: Multiply, current: maxUint32, operand: 0, expected: 0},
		{name: "multiply overflow", op: Multiply, current: 1 << 16, operand: 1 << 16, err: ErrArithmeticOverflow},
		{name: "unknown operation", op: Operation(4), current: 1, operand: 1, err: ErrMalformedInstruction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			r, err := Apply(tt.op, Record{Value: tt.current}, tt.operand)
			require.ErrorIs(err, tt.err)
			if tt.err != nil {
				return
			}
			require.Equal(tt.expected, r.Value)
		})
	}
}

func TestIncrementDecrementRoundTrip(t *testing.T) {
	require := require.New(t)

	values := []uint32{0, 1, 7, 1 << 20, maxUint32 / 2, maxUint32 - 10}
	operands := []uint32{0, 1, 3, 10, 1 << 20}
	for _, v := range values {
		for _, a := range operands {
			up, err := Apply(Increment, Record{Value: v}, a)
			if uint64(v)+uint64(a) > uint64(maxUint32) {
				require.ErrorIs(err, ErrArithmeticOverflow)
				continue
			}
			require.NoError(err)

			down, err := Apply(Decrement, up, a)
			require.NoError(err)
			require.Equal(v, down.Value)
		}
	}
}
