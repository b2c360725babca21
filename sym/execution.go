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
	"github.com/aclements/go-z3/z3"

	"github.com/symbolic-vm/zevm/vm"
)

// wordBits is the machine word width.
const wordBits = 256

// Execution is the full machine state of one candidate path: program
// counter, symbolic gas, stack, storage handle, and the path's own
// solver with its permanently asserted constraints.
//
// Each execution exclusively owns its solver. The permanent assertions
// are additionally tracked as a slice so a fork can replay them into a
// fresh solver; sibling paths therefore never observe each other's
// constraints.
type Execution struct {
	pc           vm.Offset
	gasRemaining z3.Int
	stack        *Stack
	storage      Storage

	halted bool
	reason HaltReason

	solver      *z3.Solver
	constraints []z3.Bool

	// offered is the outcome list from the most recent Step, consumed by
	// exactly one successful Apply.
	offered []Outcome
}

// PC returns the current program counter.
func (ex *Execution) PC() vm.Offset {
	return ex.pc
}

// GasRemaining returns the symbolic remaining gas term.
func (ex *Execution) GasRemaining() z3.Int {
	return ex.gasRemaining
}

// Stack returns the execution's stack. Mutating it between Step and
// Apply invalidates the offered outcomes.
func (ex *Execution) Stack() *Stack {
	return ex.stack
}

// Storage returns the execution's storage handle.
func (ex *Execution) Storage() Storage {
	return ex.storage
}

// Halted reports whether the execution reached a terminal state.
func (ex *Execution) Halted() bool {
	return ex.halted
}

// Reason returns the halt reason, if the execution has halted.
func (ex *Execution) Reason() (HaltReason, bool) {
	return ex.reason, ex.halted
}

// Feasible reports whether the given assumptions are satisfiable
// together with the path's committed constraints. The speculative scope
// opened for the query is closed on every exit path.
func (ex *Execution) Feasible(assumptions ...z3.Bool) (bool, error) {
	ex.solver.Push()
	defer ex.solver.Pop()
	for _, a := range assumptions {
		ex.solver.Assert(a)
	}
	return ex.check()
}

// check runs a satisfiability query against the solver's current scope,
// mapping an inconclusive answer to SolverUnknownError.
func (ex *Execution) check() (bool, error) {
	sat, err := ex.solver.Check()
	if err != nil {
		return false, &SolverUnknownError{Err: err}
	}
	return sat, nil
}

// assert commits a constraint permanently to this path.
func (ex *Execution) assert(c z3.Bool) {
	ex.solver.Assert(c)
	ex.constraints = append(ex.constraints, c)
}

// coversCost is the hypothesis that the remaining gas pays for cost.
func (ex *Execution) coversCost(evm *ZEvm, cost int64) z3.Bool {
	return ex.gasRemaining.GE(evm.intVal(cost))
}

// deductGas subtracts a committed instruction's cost.
func (ex *Execution) deductGas(evm *ZEvm, cost int64) {
	ex.gasRemaining = ex.gasRemaining.Sub(evm.intVal(cost))
}

// fork deep-copies the execution, giving the copy its own solver with
// the same committed constraints and the same offered outcomes.
func (ex *Execution) fork(ctx *z3.Context) *Execution {
	child := &Execution{
		pc:           ex.pc,
		gasRemaining: ex.gasRemaining,
		stack:        ex.stack.Clone(),
		storage:      ex.storage.Clone(),
		halted:       ex.halted,
		reason:       ex.reason,
		solver:       z3.NewSolver(ctx),
		constraints:  make([]z3.Bool, len(ex.constraints)),
		offered:      make([]Outcome, len(ex.offered)),
	}
	copy(child.constraints, ex.constraints)
	copy(child.offered, ex.offered)
	for _, c := range child.constraints {
		child.solver.Assert(c)
	}
	return child
}
