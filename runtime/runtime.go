// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/calcvm/codec"
	"github.com/ava-labs/calcvm/program"
	"github.com/ava-labs/calcvm/state"
	"github.com/ava-labs/calcvm/storage"
)

type Config struct {
	// MaxAccountSpace is the largest data buffer CreateAccount will allocate.
	MaxAccountSpace int
}

// AccountMeta references an account a transaction wants handed to the
// program.
type AccountMeta struct {
	Address  codec.Address
	Writable bool
}

type Transaction struct {
	Program  codec.Address
	Accounts []AccountMeta
	Data     []byte
}

type Result struct {
	// Accounts whose data was changed by the program.
	Modified []codec.Address
}

// Runtime hands accounts to registered programs and persists the result.
// A transaction either has all of its account changes written to the
// supplied state or none of them.
type Runtime struct {
	log    logging.Logger
	cfg    Config
	tracer trace.Tracer

	lock     sync.RWMutex
	programs map[codec.Address]program.Program
}

func New(log logging.Logger, cfg Config, tracer trace.Tracer) *Runtime {
	return &Runtime{
		log:      log,
		cfg:      cfg,
		tracer:   tracer,
		programs: make(map[codec.Address]program.Program),
	}
}

// Register makes [p] callable at [id].
func (r *Runtime) Register(id codec.Address, p program.Program) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.programs[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateProgram, id)
	}
	r.programs[id] = p
	r.log.Debug("registered program",
		zap.Stringer("id", id),
	)
	return nil
}

func (r *Runtime) getProgram(id codec.Address) (program.Program, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	p, ok := r.programs[id]
	return p, ok
}

// CreateAccount allocates a zeroed account of [space] bytes owned by
// [owner].
func (r *Runtime) CreateAccount(
	ctx context.Context,
	mu state.Mutable,
	address codec.Address,
	owner codec.Address,
	space int,
) error {
	if space < 0 || space > r.cfg.MaxAccountSpace {
		return fmt.Errorf("%w: %d (max %d)", ErrInvalidSpace, space, r.cfg.MaxAccountSpace)
	}
	_, exists, err := storage.GetAccount(ctx, mu, address)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrAccountExists, address)
	}
	if err := storage.SetAccount(ctx, mu, address, &storage.Account{
		Owner: owner,
		Data:  make([]byte, space),
	}); err != nil {
		return err
	}
	r.log.Debug("created account",
		zap.Stringer("address", address),
		zap.Stringer("owner", owner),
		zap.Int("space", space),
	)
	return nil
}

// Execute runs [tx] against [mu]. Account changes are inserted into [mu]
// only if the program succeeds and every change is permitted.
func (r *Runtime) Execute(ctx context.Context, mu state.Mutable, tx *Transaction) (*Result, error) {
	ctx, span := r.tracer.Start(ctx, "Runtime.Execute")
	defer span.End()
	span.SetAttributes(
		attribute.String("program", tx.Program.String()),
		attribute.Int("accounts", len(tx.Accounts)),
	)

	p, ok := r.getProgram(tx.Program)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProgramNotFound, tx.Program)
	}

	var (
		seen      = set.NewSet[codec.Address](len(tx.Accounts))
		originals = make([]*storage.Account, len(tx.Accounts))
		infos     = make([]*program.AccountInfo, len(tx.Accounts))
	)
	for i, meta := range tx.Accounts {
		if seen.Contains(meta.Address) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAccount, meta.Address)
		}
		seen.Add(meta.Address)

		acc, exists, err := storage.GetAccount(ctx, mu, meta.Address)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, meta.Address)
		}
		originals[i] = acc
		infos[i] = &program.AccountInfo{
			Address:  meta.Address,
			Owner:    acc.Owner,
			Writable: meta.Writable,
			Data:     slices.Clone(acc.Data),
		}
	}

	if err := p.Process(ctx, tx.Program, infos, tx.Data); err != nil {
		r.log.Debug("program failed",
			zap.Stringer("program", tx.Program),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrProgramFailed, err)
	}

	// Verify every change before writing any of them.
	modified := make([]int, 0, len(infos))
	for i, info := range infos {
		original := originals[i]
		if bytes.Equal(info.Data, original.Data) {
			continue
		}
		switch {
		case len(info.Data) != len(original.Data):
			return nil, fmt.Errorf("%w: %s", ErrAccountResized, info.Address)
		case !info.Writable:
			return nil, fmt.Errorf("%w: %s", ErrReadOnlyModified, info.Address)
		case original.Owner != tx.Program:
			return nil, fmt.Errorf("%w: %s", ErrExternalModified, info.Address)
		}
		modified = append(modified, i)
	}

	result := &Result{Modified: make([]codec.Address, 0, len(modified))}
	for _, i := range modified {
		info := infos[i]
		if err := storage.SetAccount(ctx, mu, info.Address, &storage.Account{
			Owner: originals[i].Owner,
			Data:  info.Data,
		}); err != nil {
			return nil, err
		}
		result.Modified = append(result.Modified, info.Address)
	}
	return result, nil
}
