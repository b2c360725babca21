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

package vm

import (
	"testing"

	gethvm "github.com/ethereum/go-ethereum/core/vm"
	"github.com/stretchr/testify/require"
)

func TestDecodeOffsets(t *testing.T) {
	// PUSH1 0x05; JUMPDEST; JUMP
	p := Decode([]byte{0x60, 0x05, 0x5b, 0x56})
	require.Equal(t, 3, p.Len())

	op, ok := p.OpAt(0)
	require.True(t, ok)
	require.Equal(t, gethvm.PUSH1, op.Code)
	require.Equal(t, []byte{0x05}, op.Immediate)
	require.Equal(t, Offset(2), op.Size())

	_, ok = p.OpAt(1)
	require.False(t, ok)

	op, ok = p.OpAt(2)
	require.True(t, ok)
	require.Equal(t, gethvm.JUMPDEST, op.Code)

	require.Equal(t, Offset(2), p.NextOffset(0))
	require.Equal(t, Offset(3), p.NextOffset(2))
	require.Equal(t, []Offset{0, 2, 3}, p.Offsets())
}

func TestDecodeJumpDestTable(t *testing.T) {
	// JUMPDEST; PUSH1 0x5b; JUMPDEST — the immediate 0x5b is data.
	p := Decode([]byte{0x5b, 0x60, 0x5b, 0x5b})
	require.Equal(t, []Offset{0, 3}, p.Destinations())
	require.True(t, p.IsDestination(0))
	require.False(t, p.IsDestination(2))
	require.True(t, p.IsDestination(3))
}

func TestDecodeTruncatedPush(t *testing.T) {
	p := Decode([]byte{0x61, 0x01})
	require.Equal(t, 1, p.Len())

	op, ok := p.OpAt(0)
	require.True(t, ok)
	require.Equal(t, gethvm.PUSH2, op.Code)
	require.Equal(t, []byte{0x01}, op.Immediate)
	require.Equal(t, uint64(1), op.PushValue().Uint64())
}

func TestNewProgramDestinationsAscending(t *testing.T) {
	p := NewProgram([]Op{
		{Code: gethvm.JUMPI},
		{Code: gethvm.JUMPDEST},
		{Code: gethvm.STOP},
		{Code: gethvm.JUMPDEST},
	})
	require.Equal(t, []Offset{1, 3}, p.Destinations())
}

func TestOpString(t *testing.T) {
	require.Equal(t, "JUMPI", Op{Code: gethvm.JUMPI}.String())
	require.Equal(t, "PUSH1 0x5", Op{Code: gethvm.PUSH1, Immediate: []byte{0x05}}.String())
	require.Equal(t, "0x2", Offset(2).String())
}
