// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"github.com/ava-labs/calcvm/calculator"
	"github.com/ava-labs/calcvm/codec"
)

type Plan struct {
	// The name of the plan.
	Name string `json:"name" yaml:"name"`
	// A description of the plan.
	Description string `json:"description" yaml:"description"`
	// Steps to performed during simulation.
	Steps []Step `json:"steps" yaml:"steps"`
}

type Action string

const (
	// Create a named account.
	CreateAction Action = "create"
	// Send one instruction to the calculator.
	ExecuteAction Action = "execute"
	// Read a named account.
	ShowAction Action = "show"
)

type Step struct {
	// Description of the step.
	Description string `json:"description" yaml:"description"`
	// What the step does. (required)
	Action Action `json:"action" yaml:"action"`
	// Name of the account the step acts on. (required)
	Account string `json:"account" yaml:"account"`

	// Bytes allocated by a create step. Defaults to the record size.
	Space *int `json:"space,omitempty" yaml:"space,omitempty"`
	// Owner address of a create step. Defaults to the calculator.
	Owner string `json:"owner,omitempty" yaml:"owner,omitempty"`

	// Operation and operand of an execute step.
	Operation string `json:"operation,omitempty" yaml:"operation,omitempty"`
	Operand   uint32 `json:"operand,omitempty" yaml:"operand,omitempty"`
	// Hex encoded instruction sent as is instead of Operation.
	Data string `json:"data,omitempty" yaml:"data,omitempty"`

	// Define required assertions against this step.
	Require *Require `json:"require,omitempty" yaml:"require,omitempty"`
}

type Require struct {
	// Counter value after the step.
	Value *uint32 `json:"value,omitempty" yaml:"value,omitempty"`
	// Error code the step must fail with, e.g. "division_by_zero".
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newResponse(id int) *Response {
	return &Response{
		ID: id,
	}
}

type Response struct {
	// The index of the step that generated this response.
	ID int `json:"id"`
	// The account after the step has completed.
	Result *AccountView `json:"result,omitempty"`
	// The error code and message if the step failed.
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

func (r *Response) setError(err error) {
	r.Code = calculator.ErrorCode(err).String()
	r.Error = err.Error()
}

// Print writes [r] as a single line of JSON.
func (r *Response) Print(w io.Writer) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// check compares the outcome of a step against [req].
func (req *Require) check(view *AccountView, stepErr error) error {
	if req.Error != "" {
		if stepErr == nil {
			return fmt.Errorf("%w: expected %s but step succeeded", ErrAssertionFailed, req.Error)
		}
		if code := calculator.ErrorCode(stepErr).String(); code != req.Error {
			return fmt.Errorf("%w: expected %s but got %s", ErrAssertionFailed, req.Error, code)
		}
		return nil
	}
	if stepErr != nil {
		return fmt.Errorf("%w: unexpected error: %w", ErrAssertionFailed, stepErr)
	}
	if req.Value != nil {
		if view == nil || view.Value == nil {
			return fmt.Errorf("%w: expected value %d but account has no counter", ErrAssertionFailed, *req.Value)
		}
		if *view.Value != *req.Value {
			return fmt.Errorf("%w: expected value %d but got %d", ErrAssertionFailed, *req.Value, *view.Value)
		}
	}
	return nil
}

func unmarshalPlan(b []byte) (*Plan, error) {
	var p Plan
	switch {
	case isJSON(b):
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, err
		}
	case isYAML(b):
		if err := yaml.Unmarshal(b, &p); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidConfigFormat
	}
	return &p, nil
}

func isJSON(b []byte) bool {
	var js map[string]interface{}
	return json.Unmarshal(b, &js) == nil
}

func isYAML(b []byte) bool {
	var y map[string]interface{}
	return yaml.Unmarshal(b, &y) == nil
}

var knownCodes = func() map[string]struct{} {
	m := make(map[string]struct{})
	for c := calculator.CodeNotEnoughAccounts; c <= calculator.CodeArithmeticOverflow; c++ {
		m[c.String()] = struct{}{}
	}
	m[calculator.CodeUnknown.String()] = struct{}{}
	return m
}()

func (p *Plan) verify() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps found", ErrInvalidPlan)
	}
	for i := range p.Steps {
		if err := p.Steps[i].verify(); err != nil {
			return fmt.Errorf("%w %d: %w", ErrInvalidStep, i, err)
		}
	}
	return nil
}

func (s *Step) verify() error {
	if s.Account == "" {
		return ErrMissingAccount
	}
	switch s.Action {
	case CreateAction:
		if s.Owner != "" {
			if _, err := codec.StringToAddress(s.Owner); err != nil {
				return err
			}
		}
	case ExecuteAction:
		if _, err := s.instruction(); err != nil {
			return err
		}
	case ShowAction:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, s.Action)
	}
	if s.Require != nil && s.Require.Error != "" {
		if _, ok := knownCodes[s.Require.Error]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCode, s.Require.Error)
		}
	}
	return nil
}

// instruction returns the bytes an execute step sends.
func (s *Step) instruction() ([]byte, error) {
	if s.Data != "" {
		return hex.DecodeString(s.Data)
	}
	if s.Operation == "" {
		return nil, ErrMissingOperation
	}
	op, err := calculator.ParseOperation(s.Operation)
	if err != nil {
		return nil, err
	}
	return calculator.NewInstruction(op, s.Operand).Bytes()
}
