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
	"testing"

	"github.com/aclements/go-z3/z3"
	gethvm "github.com/ethereum/go-ethereum/core/vm"
	"github.com/stretchr/testify/require"

	"github.com/symbolic-vm/zevm/vm"
)

// testProgram builds a program of single-byte instructions, so opcode
// index and byte offset coincide.
func testProgram(codes ...gethvm.OpCode) *vm.Program {
	ops := make([]vm.Op, len(codes))
	for i, c := range codes {
		ops[i] = vm.Op{Code: c}
	}
	return vm.NewProgram(ops)
}

func freshWord(ctx *z3.Context, name string) z3.BV {
	return ctx.FreshConst(name, ctx.BVSort(wordBits)).(z3.BV)
}

// mustPush seeds an execution's stack for a test.
func mustPush(t *testing.T, ex *Execution, words ...z3.BV) {
	t.Helper()
	for _, w := range words {
		require.NoError(t, ex.stack.Push(w))
	}
}

// outcomesOf strips the execution ids off a step result.
func outcomesOf(offers []StepOutcome) []Outcome {
	outcomes := make([]Outcome, len(offers))
	for i, so := range offers {
		outcomes[i] = so.Outcome
	}
	return outcomes
}
