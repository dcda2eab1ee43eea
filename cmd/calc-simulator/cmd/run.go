// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/calcvm/calculator"
	"github.com/ava-labs/calcvm/codec"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run [path|-]",
		Short: "Run a simulation plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := readPlan(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return a.withSimulator(cmd, func(ctx context.Context, s *simulator) error {
				return runPlan(ctx, s, plan, cmd.OutOrStdout())
			})
		},
	}
}

// readPlan loads and verifies the plan at [p]. "-" reads from [stdin].
func readPlan(stdin io.Reader, p string) (*Plan, error) {
	var (
		b   []byte
		err error
	)
	if p == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(p)
	}
	if err != nil {
		return nil, err
	}
	plan, err := unmarshalPlan(b)
	if err != nil {
		return nil, err
	}
	if err := plan.verify(); err != nil {
		return nil, err
	}
	return plan, nil
}

// runPlan executes every step of [plan] in order and prints one response
// per step to [w]. A failing step without a matching assertion does not
// stop the plan. A failed assertion does.
func runPlan(ctx context.Context, s *simulator, plan *Plan, w io.Writer) error {
	s.log.Info("simulation",
		zap.String("plan", plan.Name),
		zap.String("description", plan.Description),
		zap.Int("steps", len(plan.Steps)),
	)

	for i := range plan.Steps {
		step := &plan.Steps[i]
		s.log.Info("simulation",
			zap.Int("step", i),
			zap.String("description", step.Description),
			zap.String("action", string(step.Action)),
			zap.String("account", step.Account),
		)

		resp := newResponse(i)
		view, err := runStep(ctx, s, step)
		resp.Result = view
		if err != nil {
			resp.setError(err)
		}
		if err := resp.Print(w); err != nil {
			return err
		}

		if step.Require == nil {
			continue
		}
		if err := step.Require.check(view, err); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func runStep(ctx context.Context, s *simulator, step *Step) (*AccountView, error) {
	switch step.Action {
	case CreateAction:
		space := calculator.RecordLen
		if step.Space != nil {
			space = *step.Space
		}
		var owner *codec.Address
		if step.Owner != "" {
			addr, err := codec.StringToAddress(step.Owner)
			if err != nil {
				return nil, err
			}
			owner = &addr
		}
		if _, err := s.createAccount(ctx, step.Account, space, owner); err != nil {
			return nil, err
		}
		return s.show(ctx, step.Account)
	case ExecuteAction:
		data, err := step.instruction()
		if err != nil {
			return nil, err
		}
		return s.executeRaw(ctx, step.Account, data)
	case ShowAction:
		return s.show(ctx, step.Account)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, step.Action)
	}
}
