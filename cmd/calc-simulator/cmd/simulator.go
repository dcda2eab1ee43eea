// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/calcvm/calculator"
	"github.com/ava-labs/calcvm/codec"
	"github.com/ava-labs/calcvm/consts"
	"github.com/ava-labs/calcvm/runtime"
	"github.com/ava-labs/calcvm/state"
	"github.com/ava-labs/calcvm/storage"
	"github.com/ava-labs/calcvm/utils"
)

// CalculatorID is the address the calculator program is registered at.
var CalculatorID = codec.CreateAddress(consts.ProgramTypeID, utils.ToID([]byte("calculator")))

// simulator drives the runtime against a local database. Every call that
// succeeds is committed to [db] before returning.
type simulator struct {
	log     logging.Logger
	db      state.Database
	runtime *runtime.Runtime
}

func newSimulator(
	log logging.Logger,
	db state.Database,
	maxAccountSpace int,
	tracer trace.Tracer,
	registerer prometheus.Registerer,
) (*simulator, error) {
	rt := runtime.New(log, runtime.Config{MaxAccountSpace: maxAccountSpace}, tracer)
	calc, err := calculator.New(log, tracer, registerer)
	if err != nil {
		return nil, err
	}
	if err := rt.Register(CalculatorID, calc); err != nil {
		return nil, err
	}
	return &simulator{
		log:     log,
		db:      db,
		runtime: rt,
	}, nil
}

// AccountView is the printable form of a named account.
type AccountView struct {
	Name    string        `json:"name"`
	Address codec.Address `json:"address"`
	Owner   codec.Address `json:"owner"`
	Space   int           `json:"space"`
	Value   *uint32       `json:"value,omitempty"`
}

// createAccount allocates a new account of [space] bytes under [name]. A
// nil [owner] makes the calculator the owner.
func (s *simulator) createAccount(
	ctx context.Context,
	name string,
	space int,
	owner *codec.Address,
) (codec.Address, error) {
	mu := state.NewSimpleMutable(s.db)
	_, exists, err := storage.GetAddress(ctx, mu, name)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if exists {
		return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrDuplicateAccountName, name)
	}

	id, err := utils.RandomID()
	if err != nil {
		return codec.EmptyAddress, err
	}
	address := codec.CreateAddress(consts.AccountTypeID, id)
	accountOwner := CalculatorID
	if owner != nil {
		accountOwner = *owner
	}
	if err := s.runtime.CreateAccount(ctx, mu, address, accountOwner, space); err != nil {
		return codec.EmptyAddress, err
	}
	if err := storage.SetAddress(ctx, mu, name, address); err != nil {
		return codec.EmptyAddress, err
	}
	if err := mu.Commit(ctx); err != nil {
		return codec.EmptyAddress, err
	}

	s.log.Info("account created",
		zap.String("name", name),
		zap.Stringer("address", address),
		zap.Stringer("owner", accountOwner),
		zap.Int("space", space),
	)
	return address, nil
}

// execute sends [ins] to the calculator with [name] as its only account
// and returns the account afterwards.
func (s *simulator) execute(ctx context.Context, name string, ins calculator.Instruction) (*AccountView, error) {
	data, err := ins.Bytes()
	if err != nil {
		return nil, err
	}
	return s.executeRaw(ctx, name, data)
}

func (s *simulator) executeRaw(ctx context.Context, name string, data []byte) (*AccountView, error) {
	mu := state.NewSimpleMutable(s.db)
	address, err := lookup(ctx, mu, name)
	if err != nil {
		return nil, err
	}

	result, err := s.runtime.Execute(ctx, mu, &runtime.Transaction{
		Program: CalculatorID,
		Accounts: []runtime.AccountMeta{
			{Address: address, Writable: true},
		},
		Data: data,
	})
	if err != nil {
		s.log.Info("execution failed",
			zap.String("name", name),
			zap.Stringer("code", calculator.ErrorCode(err)),
			zap.Error(err),
		)
		return nil, err
	}
	if err := mu.Commit(ctx); err != nil {
		return nil, err
	}

	s.log.Info("execution succeeded",
		zap.String("name", name),
		zap.Int("modified", len(result.Modified)),
	)
	return s.show(ctx, name)
}

// show reads the account registered under [name]. Value is nil when the
// data does not hold a counter.
func (s *simulator) show(ctx context.Context, name string) (*AccountView, error) {
	im := state.NewSimpleMutable(s.db)
	address, err := lookup(ctx, im, name)
	if err != nil {
		return nil, err
	}
	acc, exists, err := storage.GetAccount(ctx, im, address)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", runtime.ErrAccountNotFound, address)
	}

	view := &AccountView{
		Name:    name,
		Address: address,
		Owner:   acc.Owner,
		Space:   len(acc.Data),
	}
	if record, err := calculator.DecodeRecord(acc.Data); err == nil {
		view.Value = &record.Value
	}
	return view, nil
}

func lookup(ctx context.Context, im state.Immutable, name string) (codec.Address, error) {
	address, exists, err := storage.GetAddress(ctx, im, name)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if !exists {
		return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrNamedAccountNotFound, name)
	}
	return address, nil
}
