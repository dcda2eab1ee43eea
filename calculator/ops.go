// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package calculator

import (
	"fmt"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/calcvm/consts"
)

// handler computes the next record. Handlers are pure: they never read or
// write account data.
type handler func(current Record, operand uint32) (Record, error)

// Apply selects the handler for [op] and computes the record that results
// from applying it with [operand] to [current].
func Apply(op Operation, current Record, operand uint32) (Record, error) {
	var h handler
	switch op {
	case Increment:
		h = increment
	case Decrement:
		h = decrement
	case Multiply:
		h = multiply
	case Divide:
		h = divide
	default:
		return Record{}, fmt.Errorf("%w: unknown operation %d", ErrMalformedInstruction, uint8(op))
	}
	return h(current, operand)
}

func increment(current Record, operand uint32) (Record, error) {
	return toRecord(smath.Add64(uint64(current.Value), uint64(operand)))
}

func decrement(current Record, operand uint32) (Record, error) {
	return toRecord(smath.Sub(uint64(current.Value), uint64(operand)))
}

func multiply(current Record, operand uint32) (Record, error) {
	return toRecord(smath.Mul64(uint64(current.Value), uint64(operand)))
}

func divide(current Record, operand uint32) (Record, error) {
	if operand == 0 {
		return Record{}, ErrDivisionByZero
	}
	return Record{Value: current.Value / operand}, nil
}

// toRecord narrows a widened result back into the 32-bit counter.
func toRecord(v uint64, err error) (Record, error) {
	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrArithmeticOverflow, err)
	}
	if v > uint64(consts.MaxUint32) {
		return Record{}, fmt.Errorf("%w: %d does not fit in 32 bits", ErrArithmeticOverflow, v)
	}
	return Record{Value: uint32(v)}, nil
}
