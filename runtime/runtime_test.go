// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/near/borsh-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/calcvm/calculator"
	"github.com/ava-labs/calcvm/codec"
	"github.com/ava-labs/calcvm/consts"
	"github.com/ava-labs/calcvm/program"
	"github.com/ava-labs/calcvm/state"
	"github.com/ava-labs/calcvm/storage"
	"github.com/ava-labs/calcvm/trace"
)

const testMaxAccountSpace = 1024

var calculatorID = codec.CreateAddress(consts.ProgramTypeID, ids.GenerateTestID())

func newTestRuntime(t *testing.T) *Runtime {
	require := require.New(t)

	rt := New(logging.NoLog{}, Config{MaxAccountSpace: testMaxAccountSpace}, trace.Noop())
	p, err := calculator.New(logging.NoLog{}, trace.Noop(), prometheus.NewRegistry())
	require.NoError(err)
	require.NoError(rt.Register(calculatorID, p))
	return rt
}

func newAddress() codec.Address {
	return codec.CreateAddress(consts.AccountTypeID, ids.GenerateTestID())
}

func calcTx(t *testing.T, account codec.Address, op calculator.Operation, operand uint32) *Transaction {
	data, err := calculator.NewInstruction(op, operand).Bytes()
	require.NoError(t, err)
	return &Transaction{
		Program:  calculatorID,
		Accounts: []AccountMeta{{Address: account, Writable: true}},
		Data:     data,
	}
}

func counterValue(t *testing.T, im state.Immutable, address codec.Address) uint32 {
	require := require.New(t)

	acc, ok, err := storage.GetAccount(context.Background(), im, address)
	require.NoError(err)
	require.True(ok)
	r, err := calculator.DecodeRecord(acc.Data)
	require.NoError(err)
	return r.Value
}

func TestExecute(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt := newTestRuntime(t)
	db := memdb.New()
	mu := state.NewSimpleMutable(db)

	addr := newAddress()
	require.NoError(rt.CreateAccount(ctx, mu, addr, calculatorID, calculator.RecordLen))
	require.NoError(mu.Commit(ctx))
	require.Zero(counterValue(t, mu, addr))

	result, err := rt.Execute(ctx, mu, calcTx(t, addr, calculator.Increment, 20))
	require.NoError(err)
	require.Equal([]codec.Address{addr}, result.Modified)
	require.Equal(uint32(20), counterValue(t, mu, addr))

	_, err = rt.Execute(ctx, mu, calcTx(t, addr, calculator.Decrement, 10))
	require.NoError(err)
	_, err = rt.Execute(ctx, mu, calcTx(t, addr, calculator.Multiply, 3))
	require.NoError(err)
	_, err = rt.Execute(ctx, mu, calcTx(t, addr, calculator.Divide, 2))
	require.NoError(err)
	require.Equal(uint32(15), counterValue(t, mu, addr))

	require.NoError(mu.Commit(ctx))
	require.Equal(uint32(15), counterValue(t, state.NewSimpleMutable(db), addr))
}

func TestExecuteProgramFailure(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt := newTestRuntime(t)
	mu := state.NewSimpleMutable(memdb.New())

	addr := newAddress()
	require.NoError(rt.CreateAccount(ctx, mu, addr, calculatorID, calculator.RecordLen))
	_, err := rt.Execute(ctx, mu, calcTx(t, addr, calculator.Increment, 15))
	require.NoError(err)

	_, err = rt.Execute(ctx, mu, calcTx(t, addr, calculator.Divide, 0))
	require.ErrorIs(err, ErrProgramFailed)
	require.ErrorIs(err, calculator.ErrDivisionByZero)
	require.Equal(calculator.CodeDivisionByZero, calculator.ErrorCode(err))
	require.Equal(uint32(15), counterValue(t, mu, addr))
}

func TestExecuteUnauthorized(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt := newTestRuntime(t)
	mu := state.NewSimpleMutable(memdb.New())

	addr := newAddress()
	otherProgram := codec.CreateAddress(consts.ProgramTypeID, ids.GenerateTestID())
	require.NoError(rt.CreateAccount(ctx, mu, addr, otherProgram, calculator.RecordLen))

	_, err := rt.Execute(ctx, mu, calcTx(t, addr, calculator.Increment, 1))
	require.ErrorIs(err, calculator.ErrUnauthorizedAccount)
	require.Zero(counterValue(t, mu, addr))
}

func TestExecuteFailureDoesNotWrite(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	rt := newTestRuntime(t)
	addr := newAddress()
	v, err := borsh.Serialize(storage.Account{
		Owner: calculatorID,
		Data:  []byte{15, 0, 0, 0},
	})
	require.NoError(err)

	// Insert and Remove are not expected
	mu := state.NewMockMutable(ctrl)
	mu.EXPECT().GetValue(gomock.Any(), storage.AccountKey(addr)).Return(v, nil).Times(2)

	_, err = rt.Execute(context.Background(), mu, calcTx(t, addr, calculator.Divide, 0))
	require.ErrorIs(err, calculator.ErrDivisionByZero)

	_, err = rt.Execute(context.Background(), mu, &Transaction{
		Program:  calculatorID,
		Accounts: []AccountMeta{{Address: addr, Writable: true}},
		Data:     []byte{0, 9, 0, 0, 0, 0},
	})
	require.ErrorIs(err, calculator.ErrMalformedInstruction)
}

func TestExecuteInvalidTransactions(t *testing.T) {
	ctx := context.Background()
	addr := newAddress()

	tests := []struct {
		name string
		tx   func(t *testing.T) *Transaction
		err  error
	}{
		{
			name: "unknown program",
			tx: func(t *testing.T) *Transaction {
				tx := calcTx(t, addr, calculator.Increment, 1)
				tx.Program = codec.CreateAddress(consts.ProgramTypeID, ids.GenerateTestID())
				return tx
			},
			err: ErrProgramNotFound,
		},
		{
			name: "missing account",
			tx: func(t *testing.T) *Transaction {
				return calcTx(t, newAddress(), calculator.Increment, 1)
			},
			err: ErrAccountNotFound,
		},
		{
			name: "duplicate account",
			tx: func(t *testing.T) *Transaction {
				tx := calcTx(t, addr, calculator.Increment, 1)
				tx.Accounts = append(tx.Accounts, tx.Accounts[0])
				return tx
			},
			err: ErrDuplicateAccount,
		},
		{
			name: "no accounts",
			tx: func(t *testing.T) *Transaction {
				tx := calcTx(t, addr, calculator.Increment, 1)
				tx.Accounts = nil
				return tx
			},
			err: calculator.ErrNotEnoughAccounts,
		},
		{
			name: "read-only account",
			tx: func(t *testing.T) *Transaction {
				tx := calcTx(t, addr, calculator.Increment, 1)
				tx.Accounts[0].Writable = false
				return tx
			},
			err: ErrReadOnlyModified,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			rt := newTestRuntime(t)
			mu := state.NewSimpleMutable(memdb.New())
			require.NoError(rt.CreateAccount(ctx, mu, addr, calculatorID, calculator.RecordLen))

			_, err := rt.Execute(ctx, mu, tt.tx(t))
			require.ErrorIs(err, tt.err)
			require.Zero(counterValue(t, mu, addr))
		})
	}
}

func TestExecuteVerifiesChanges(t *testing.T) {
	ctx := context.Background()
	programID := codec.CreateAddress(consts.ProgramTypeID, ids.GenerateTestID())
	otherProgram := codec.CreateAddress(consts.ProgramTypeID, ids.GenerateTestID())

	tests := []struct {
		name  string
		owner codec.Address
		fn    program.ProgramFunc
		err   error
	}{
		{
			name:  "resize",
			owner: programID,
			fn: func(_ context.Context, _ codec.Address, accounts []*program.AccountInfo, _ []byte) error {
				accounts[0].Data = append(accounts[0].Data, 1)
				return nil
			},
			err: ErrAccountResized,
		},
		{
			name:  "external account",
			owner: otherProgram,
			fn: func(_ context.Context, _ codec.Address, accounts []*program.AccountInfo, _ []byte) error {
				accounts[0].Data[0] = 1
				return nil
			},
			err: ErrExternalModified,
		},
		{
			name:  "unchanged external account",
			owner: otherProgram,
			fn: func(context.Context, codec.Address, []*program.AccountInfo, []byte) error {
				return nil
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			rt := New(logging.NoLog{}, Config{MaxAccountSpace: testMaxAccountSpace}, trace.Noop())
			require.NoError(rt.Register(programID, tt.fn))
			mu := state.NewSimpleMutable(memdb.New())

			addr := newAddress()
			require.NoError(rt.CreateAccount(ctx, mu, addr, tt.owner, 4))
			require.NoError(mu.Commit(ctx))

			result, err := rt.Execute(ctx, mu, &Transaction{
				Program:  programID,
				Accounts: []AccountMeta{{Address: addr, Writable: true}},
			})
			require.ErrorIs(err, tt.err)
			if tt.err == nil {
				require.Empty(result.Modified)
			}
			require.Zero(mu.Len())
		})
	}
}

func TestCreateAccount(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt := newTestRuntime(t)
	mu := state.NewSimpleMutable(memdb.New())

	addr := newAddress()
	require.NoError(rt.CreateAccount(ctx, mu, addr, calculatorID, 100))
	require.ErrorIs(rt.CreateAccount(ctx, mu, addr, calculatorID, 100), ErrAccountExists)
	require.ErrorIs(rt.CreateAccount(ctx, mu, newAddress(), calculatorID, testMaxAccountSpace+1), ErrInvalidSpace)
	require.ErrorIs(rt.CreateAccount(ctx, mu, newAddress(), calculatorID, -1), ErrInvalidSpace)

	acc, ok, err := storage.GetAccount(ctx, mu, addr)
	require.NoError(err)
	require.True(ok)
	require.Equal(calculatorID, acc.Owner)
	require.Equal(make([]byte, 100), acc.Data)
}

func TestRegisterDuplicate(t *testing.T) {
	rt := newTestRuntime(t)
	noop := program.ProgramFunc(func(context.Context, codec.Address, []*program.AccountInfo, []byte) error {
		return nil
	})
	require.ErrorIs(t, rt.Register(calculatorID, noop), ErrDuplicateProgram)
}
