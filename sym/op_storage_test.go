// Copyright 2024 The zevm Authors
// This file is part of the zevm library.
//
// The zevm library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The zevm library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the zevm library. If not, see <http://www.gnu.org/licenses/>.

package sym

import (
	"errors"
	"testing"

	"github.com/aclements/go-z3/z3"
	gethvm "github.com/ethereum/go-ethereum/core/vm"
	"github.com/stretchr/testify/require"

	"github.com/symbolic-vm/zevm/vm"
)

func TestStoreThenLoad(t *testing.T) {
	ctx := z3.NewContext(nil)
	evm := NewBuilder(ctx, testProgram(gethvm.SSTORE, gethvm.SLOAD)).SetGas(300).Build()
	ex := evm.executions[0]

	// SSTORE takes the key on top and the value below it.
	mustPush(t, ex, evm.word(7), evm.word(5))

	offers, err := evm.Step()
	require.NoError(t, err)
	require.Equal(t, []Outcome{Advance()}, outcomesOf(offers))
	require.NoError(t, evm.Apply(0, Advance()))
	require.Equal(t, 0, ex.Stack().Len())
	require.Equal(t, vm.Offset(1), ex.PC())

	mustPush(t, ex, evm.word(5))
	offers, err = evm.Step()
	require.NoError(t, err)
	require.Equal(t, []Outcome{Advance()}, outcomesOf(offers))
	require.NoError(t, evm.Apply(0, Advance()))

	top, err := ex.Stack().Peek(0)
	require.NoError(t, err)
	sat, err := ex.Feasible(top.Eq(evm.word(7)).Not())
	require.NoError(t, err)
	require.False(t, sat)
}

func TestSstoreUnderflow(t *testing.T) {
	ctx := z3.NewContext(nil)
	evm := NewBuilder(ctx, testProgram(gethvm.SSTORE)).SetGas(300).Build()
	mustPush(t, evm.executions[0], evm.word(5))

	offers, err := evm.Step()
	require.NoError(t, err)
	require.Equal(t, []Outcome{Halt{Reason: HaltStackUnderflow}}, outcomesOf(offers))
}

func TestInMemoryCloneIsolated(t *testing.T) {
	ctx := z3.NewContext(nil)
	bv := func(v int64) z3.BV {
		return ctx.FromInt(v, ctx.BVSort(wordBits)).(z3.BV)
	}

	m := NewInMemory(ctx)
	require.NoError(t, m.Write(bv(1), bv(10)))

	c := m.Clone().(*InMemory)
	require.NoError(t, c.Write(bv(2), bv(20)))

	require.Len(t, m.writes, 1)
	require.Len(t, c.writes, 2)
}

func TestInMemoryRepeatedReadConsistent(t *testing.T) {
	ctx := z3.NewContext(nil)
	key := ctx.FreshConst("key", ctx.BVSort(wordBits)).(z3.BV)

	m := NewInMemory(ctx)
	first, err := m.Read(key)
	require.NoError(t, err)
	second, err := m.Read(key)
	require.NoError(t, err)
	require.Equal(t, first.String(), second.String())
}

// failingStorage exercises opaque propagation of backend errors.
type failingStorage struct {
	err error
}

func (f failingStorage) Read(key z3.BV) (z3.BV, error) { return z3.BV{}, f.err }
func (f failingStorage) Write(key, value z3.BV) error  { return f.err }
func (f failingStorage) Clone() Storage                { return f }

func TestStorageErrorPropagates(t *testing.T) {
	ctx := z3.NewContext(nil)
	backendErr := errors.New("backend unavailable")
	evm := NewBuilder(ctx, testProgram(gethvm.SLOAD)).
		SetGas(300).
		SetStorage(failingStorage{err: backendErr}).
		Build()
	ex := evm.executions[0]
	mustPush(t, ex, evm.word(5))

	_, err := evm.Step()
	require.NoError(t, err)

	err = evm.Apply(0, Advance())
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	require.ErrorIs(t, err, backendErr)

	// The failed Apply left the machine state untouched.
	require.Equal(t, 1, ex.Stack().Len())
	require.Equal(t, vm.Offset(0), ex.PC())
}
