// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package calculator

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/calcvm/codec"
	"github.com/ava-labs/calcvm/program"
)

var _ program.Program = (*Processor)(nil)

// Processor is the calculator program entry point.
type Processor struct {
	log     logging.Logger
	tracer  trace.Tracer
	metrics *metrics
}

func New(log logging.Logger, tracer trace.Tracer, registerer prometheus.Registerer) (*Processor, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Processor{
		log:     log,
		tracer:  tracer,
		metrics: m,
	}, nil
}

// Process applies the instruction encoded in [data] to the counter held by
// the first account in [accounts]. The account must be owned by
// [programID]. On error the account data is left untouched.
func (p *Processor) Process(
	ctx context.Context,
	programID codec.Address,
	accounts []*program.AccountInfo,
	data []byte,
) error {
	_, span := p.tracer.Start(ctx, "Processor.Process")
	defer span.End()

	ins, err := p.process(programID, accounts, data)
	if err != nil {
		code := ErrorCode(err)
		span.SetAttributes(attribute.String("code", code.String()))
		p.metrics.failed.WithLabelValues(code.String()).Inc()
		return err
	}
	span.SetAttributes(attribute.String("operation", ins.Operation.String()))
	p.metrics.executed.WithLabelValues(ins.Operation.String()).Inc()
	return nil
}

func (p *Processor) process(
	programID codec.Address,
	accounts []*program.AccountInfo,
	data []byte,
) (Instruction, error) {
	if len(accounts) == 0 || accounts[0] == nil {
		return Instruction{}, ErrNotEnoughAccounts
	}
	acc := accounts[0]

	// Ownership is checked before the instruction is looked at.
	if acc.Owner != programID {
		p.log.Debug("account is not owned by this program",
			zap.Stringer("account", acc.Address),
			zap.Stringer("owner", acc.Owner),
			zap.Stringer("program", programID),
		)
		return Instruction{}, fmt.Errorf("%w: %s is owned by %s", ErrUnauthorizedAccount, acc.Address, acc.Owner)
	}

	ins, err := DecodeInstruction(data)
	if err != nil {
		return Instruction{}, err
	}
	p.log.Debug("processing instruction",
		zap.Stringer("instruction", ins),
		zap.Stringer("account", acc.Address),
	)
	return ins, p.dispatch(ins, acc)
}

// dispatch reads the record, applies the selected handler and writes the
// result back. Nothing is written unless the handler succeeds.
func (p *Processor) dispatch(ins Instruction, acc *program.AccountInfo) error {
	current, err := DecodeRecord(acc.Data)
	if err != nil {
		return err
	}

	next, err := Apply(ins.Operation, current, ins.Operand)
	if err != nil {
		p.log.Debug("instruction failed",
			zap.Stringer("instruction", ins),
			zap.Uint32("value", current.Value),
			zap.Error(err),
		)
		return err
	}

	p.log.Debug("account data updated",
		zap.Uint32("before", current.Value),
		zap.Uint32("after", next.Value),
	)
	return EncodeRecord(next, acc.Data)
}
