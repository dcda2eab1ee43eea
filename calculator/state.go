// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package calculator

import (
	"fmt"
	"strings"

	"github.com/near/borsh-go"

	"github.com/ava-labs/calcvm/consts"
)

const (
	// RecordLen is the number of leading account bytes holding the counter.
	RecordLen = consts.Uint32Len

	// InstructionLen is the exact size of an encoded instruction:
	// family tag, operation tag and little-endian operand.
	InstructionLen = 2*consts.ByteLen + consts.Uint32Len

	// calculatorFamily is the only instruction family this program
	// understands.
	calculatorFamily uint8 = 0
)

// Record is the counter persisted at the start of an account's data.
type Record struct {
	Value uint32
}

// DecodeRecord reads the record from the leading bytes of [data]. Any
// bytes after the record are ignored.
func DecodeRecord(data []byte) (Record, error) {
	var r Record
	if len(data) < RecordLen {
		return r, fmt.Errorf("%w: expected at least %d bytes but got %d", ErrMalformedState, RecordLen, len(data))
	}
	if err := borsh.Deserialize(&r, data[:RecordLen]); err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrMalformedState, err)
	}
	return r, nil
}

// EncodeRecord overwrites the leading bytes of [data] with [r]. [data] is
// never resized and bytes after the record are left untouched.
func EncodeRecord(r Record, data []byte) error {
	if len(data) < RecordLen {
		return fmt.Errorf("%w: expected at least %d bytes but got %d", ErrMalformedState, RecordLen, len(data))
	}
	b, err := borsh.Serialize(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedState, err)
	}
	if len(b) != RecordLen {
		return fmt.Errorf("%w: encoded record is %d bytes", ErrMalformedState, len(b))
	}
	copy(data, b)
	return nil
}

// Operation selects the arithmetic applied by an instruction.
type Operation uint8

const (
	Increment Operation = iota
	Decrement
	Multiply
	Divide

	numOperations
)

var operationNames = [numOperations]string{
	Increment: "increment",
	Decrement: "decrement",
	Multiply:  "multiply",
	Divide:    "divide",
}

func (o Operation) Valid() bool {
	return o < numOperations
}

func (o Operation) String() string {
	if !o.Valid() {
		return fmt.Sprintf("operation(%d)", uint8(o))
	}
	return operationNames[o]
}

// ParseOperation returns the Operation named [s] (case insensitive).
func ParseOperation(s string) (Operation, error) {
	for i, name := range operationNames {
		if strings.EqualFold(s, name) {
			return Operation(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown operation %q", ErrMalformedInstruction, s)
}

// Instruction is a decoded request to apply one operation.
type Instruction struct {
	Operation Operation
	Operand   uint32
}

func NewInstruction(op Operation, operand uint32) Instruction {
	return Instruction{Operation: op, Operand: operand}
}

func (i Instruction) String() string {
	return fmt.Sprintf("%s(%d)", i.Operation, i.Operand)
}

// envelope is the borsh layout of an instruction.
type envelope struct {
	Family    uint8
	Operation uint8
	Operand   uint32
}

// Bytes encodes [i] into its wire form.
func (i Instruction) Bytes() ([]byte, error) {
	if !i.Operation.Valid() {
		return nil, fmt.Errorf("%w: unknown operation %d", ErrMalformedInstruction, uint8(i.Operation))
	}
	return borsh.Serialize(envelope{
		Family:    calculatorFamily,
		Operation: uint8(i.Operation),
		Operand:   i.Operand,
	})
}

// DecodeInstruction parses the wire form of an instruction. Trailing
// bytes are rejected.
func DecodeInstruction(data []byte) (Instruction, error) {
	if len(data) != InstructionLen {
		return Instruction{}, fmt.Errorf("%w: expected %d bytes but got %d", ErrMalformedInstruction, InstructionLen, len(data))
	}
	var e envelope
	if err := borsh.Deserialize(&e, data); err != nil {
		return Instruction{}, fmt.Errorf("%w: %w", ErrMalformedInstruction, err)
	}
	if e.Family != calculatorFamily {
		return Instruction{}, fmt.Errorf("%w: unknown instruction family %d", ErrMalformedInstruction, e.Family)
	}
	op := Operation(e.Operation)
	if !op.Valid() {
		return Instruction{}, fmt.Errorf("%w: unknown operation %d", ErrMalformedInstruction, e.Operation)
	}
	return Instruction{Operation: op, Operand: e.Operand}, nil
}
