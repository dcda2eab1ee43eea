// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ava-labs/calcvm/calculator"
)

func newExecuteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "execute [name] [increment|decrement|multiply|divide] [operand]",
		Short: "Apply one calculator instruction to a named account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := parseInstruction(args[1], args[2])
			if err != nil {
				return err
			}
			return a.withSimulator(cmd, func(ctx context.Context, s *simulator) error {
				view, err := s.execute(ctx, args[0], ins)
				if err != nil {
					return err
				}
				resp := newResponse(0)
				resp.Result = view
				return resp.Print(cmd.OutOrStdout())
			})
		},
	}
}

func parseInstruction(op string, operand string) (calculator.Instruction, error) {
	operation, err := calculator.ParseOperation(op)
	if err != nil {
		return calculator.Instruction{}, err
	}
	v, err := strconv.ParseUint(operand, 10, 32)
	if err != nil {
		return calculator.Instruction{}, err
	}
	return calculator.NewInstruction(operation, uint32(v)), nil
}
