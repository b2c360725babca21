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

	"github.com/aclements/go-z3/z3"
	gethvm "github.com/ethereum/go-ethereum/core/vm"

	"github.com/symbolic-vm/zevm/vm"
)

// SymbolicOp is the two-phase contract every opcode implements.
//
// Outcomes enumerates every semantically distinct, currently satisfiable
// result of attempting the instruction. It is purely speculative: it may
// open nested solver scopes but must close all of them before returning,
// it never asserts a permanent constraint, and for identical state and
// assertions it returns an identical, identically ordered list.
//
// Execute commits one Run outcome that enumeration already proved
// feasible. It performs the instruction's concrete effects and asserts
// exactly the constraint of the chosen branch; it runs no satisfiability
// checks of its own. Halt outcomes are committed by the driver directly
// and never reach Execute.
type SymbolicOp interface {
	Outcomes(evm *ZEvm, ex *Execution) ([]Outcome, error)
	Execute(evm *ZEvm, ex *Execution, run Run) error
}

// errNotRunnable is returned by Execute on opcodes that only ever offer
// Halt outcomes. Apply's offered-outcome check keeps it unreachable.
var errNotRunnable = errors.New("opcode has no runnable outcome")

// opFor maps a decoded instruction to its symbolic implementation. The
// set is closed: anything else halts with HaltInvalidOpcode.
func opFor(o vm.Op) (SymbolicOp, bool) {
	switch {
	case o.Code == gethvm.STOP:
		return stopOp{}, true
	case o.Code == gethvm.JUMPDEST:
		return jumpDestOp{}, true
	case o.Code == gethvm.JUMPI:
		return jumpIOp{}, true
	case o.Code == gethvm.JUMP:
		return jumpOp{}, true
	case o.Code == gethvm.PC:
		return pcOp{}, true
	case o.Code == gethvm.POP:
		return popOp{}, true
	case o.Code == gethvm.SLOAD:
		return sloadOp{}, true
	case o.Code == gethvm.SSTORE:
		return sstoreOp{}, true
	case gethvm.PUSH0 <= o.Code && o.Code <= gethvm.PUSH32:
		return pushOp{op: o}, true
	default:
		return nil, false
	}
}

// advanceOutcomes enumerates outcomes for an instruction with a constant
// gas cost and a static stack effect whose only way to continue is
// falling through. Stack validation happens first and alone; running out
// of gas and having enough gas are independent hypotheses over symbolic
// gas, so both sides may be offered together.
func advanceOutcomes(evm *ZEvm, ex *Execution, cost int64, pops, pushes int) ([]Outcome, error) {
	if ex.stack.Len() < pops {
		return []Outcome{Halt{Reason: HaltStackUnderflow}}, nil
	}
	if ex.stack.Len()-pops+pushes > StackLimit {
		return []Outcome{Halt{Reason: HaltStackOverflow}}, nil
	}

	outcomes := make([]Outcome, 0, 2)
	covers := ex.coversCost(evm, cost)

	sat, err := ex.Feasible(covers.Not())
	if err != nil {
		return nil, err
	}
	if sat {
		outcomes = append(outcomes, Halt{Reason: HaltOutOfGas})
	}

	sat, err = ex.Feasible(covers)
	if err != nil {
		return nil, err
	}
	if sat {
		outcomes = append(outcomes, Advance())
	}
	return outcomes, nil
}

// scanJumpTargets finds every valid jump destination the symbolic word
// dest can currently reach, in ascending offset order, and reports
// whether dest can also miss all of them. The scan runs in a nested
// solver scope holding the given speculative assumptions; the scope is
// closed on every exit path. If the assumptions themselves are
// infeasible the scan is empty.
func scanJumpTargets(evm *ZEvm, ex *Execution, dest z3.BV, assuming ...z3.Bool) (jumps []Outcome, badJump bool, err error) {
	ex.solver.Push()
	defer ex.solver.Pop()
	for _, a := range assuming {
		ex.solver.Assert(a)
	}

	sat, err := ex.check()
	if err != nil || !sat {
		return nil, false, err
	}

	dests := evm.program.Destinations()
	misses := make([]z3.Bool, 0, len(dests))
	for _, off := range dests {
		hit := evm.word(uint64(off)).Eq(dest)
		sat, err := ex.Feasible(hit)
		if err != nil {
			return nil, false, err
		}
		if sat {
			misses = append(misses, hit.Not())
			jumps = append(jumps, Jump(off))
		}
	}

	// Can dest land outside every reachable destination?
	if len(misses) == 0 {
		return jumps, true, nil
	}
	badJump, err = ex.Feasible(misses[0].And(misses[1:]...))
	if err != nil {
		return nil, false, err
	}
	return jumps, badJump, nil
}
