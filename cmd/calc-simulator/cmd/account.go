// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ava-labs/calcvm/calculator"
	"github.com/ava-labs/calcvm/codec"
)

func newAccountCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage named accounts",
	}
	cmd.AddCommand(
		newAccountCreateCmd(a),
		newAccountShowCmd(a),
	)
	return cmd
}

func newAccountCreateCmd(a *app) *cobra.Command {
	var (
		space int
		owner string
	)
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a named account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ownerAddr *codec.Address
			if owner != "" {
				addr, err := codec.StringToAddress(owner)
				if err != nil {
					return err
				}
				ownerAddr = &addr
			}
			return a.withSimulator(cmd, func(ctx context.Context, s *simulator) error {
				if _, err := s.createAccount(ctx, args[0], space, ownerAddr); err != nil {
					return err
				}
				view, err := s.show(ctx, args[0])
				if err != nil {
					return err
				}
				resp := newResponse(0)
				resp.Result = view
				return resp.Print(cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().IntVar(&space, "space", calculator.RecordLen, "bytes of data allocated to the account")
	cmd.Flags().StringVar(&owner, "owner", "", "owner address (defaults to the calculator)")
	return cmd
}

func newAccountShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Print a named account and its counter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSimulator(cmd, func(ctx context.Context, s *simulator) error {
				view, err := s.show(ctx, args[0])
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
