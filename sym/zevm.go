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

// Package sym symbolically executes EVM bytecode. Instead of running one
// concrete trace it enumerates, per instruction, every currently
// satisfiable outcome via scoped SMT queries, and lets the caller commit
// outcomes one at a time to build a path-constrained exploration tree.
package sym

import (
	"math/big"

	"github.com/aclements/go-z3/z3"
	log "github.com/sirupsen/logrus"

	"github.com/symbolic-vm/zevm/vm"
)

// ExecutionID identifies one live path within an engine. The initial
// path is 0; Fork assigns ids in creation order.
type ExecutionID int

// StepOutcome pairs an enumerated outcome with the execution it was
// enumerated for.
type StepOutcome struct {
	Execution ExecutionID
	Outcome   Outcome
}

// ZEvm drives symbolic execution of one program. It owns the set of
// live executions and the shared read-only program; each execution owns
// its solver. All operations are synchronous and single-threaded.
type ZEvm struct {
	ctx      *z3.Context
	program  *vm.Program
	wordSort z3.Sort

	executions []*Execution
}

// Builder assembles an engine. Gas defaults to a fresh unconstrained
// symbolic integer and storage to the in-memory backend.
type Builder struct {
	ctx     *z3.Context
	program *vm.Program
	gas     *int64
	storage Storage
}

func NewBuilder(ctx *z3.Context, program *vm.Program) *Builder {
	return &Builder{ctx: ctx, program: program}
}

// SetGas fixes the initial gas to a concrete value.
func (b *Builder) SetGas(gas int64) *Builder {
	b.gas = &gas
	return b
}

// SetStorage replaces the storage backend of the initial execution.
func (b *Builder) SetStorage(s Storage) *Builder {
	b.storage = s
	return b
}

// Build creates the engine with a single execution at offset zero.
func (b *Builder) Build() *ZEvm {
	evm := &ZEvm{
		ctx:      b.ctx,
		program:  b.program,
		wordSort: b.ctx.BVSort(wordBits),
	}

	var gas z3.Int
	if b.gas != nil {
		gas = b.ctx.FromInt(*b.gas, b.ctx.IntSort()).(z3.Int)
	} else {
		gas = b.ctx.FreshConst("gas", b.ctx.IntSort()).(z3.Int)
	}
	storage := b.storage
	if storage == nil {
		storage = NewInMemory(b.ctx)
	}

	evm.executions = []*Execution{{
		gasRemaining: gas,
		stack:        NewStack(),
		storage:      storage,
		solver:       z3.NewSolver(b.ctx),
	}}
	return evm
}

// Context returns the engine's Z3 context.
func (evm *ZEvm) Context() *z3.Context {
	return evm.ctx
}

// Program returns the shared decoded program.
func (evm *ZEvm) Program() *vm.Program {
	return evm.program
}

// NumExecutions returns how many executions the engine holds, halted
// ones included.
func (evm *ZEvm) NumExecutions() int {
	return len(evm.executions)
}

// Execution returns the execution with the given id.
func (evm *ZEvm) Execution(id ExecutionID) (*Execution, error) {
	return evm.execution(id)
}

func (evm *ZEvm) execution(id ExecutionID) (*Execution, error) {
	if id < 0 || int(id) >= len(evm.executions) {
		return nil, ErrNoSuchExecution
	}
	return evm.executions[id], nil
}

// Step enumerates the feasible outcomes of the current instruction of
// every live, non-halted execution, in ascending execution id order. It
// commits nothing: all solver scopes opened during enumeration are
// closed again. Results are staged and published only if every
// feasibility query was conclusive, so an inconclusive solver leaves the
// previously offered outcomes untouched.
func (evm *ZEvm) Step() ([]StepOutcome, error) {
	staged := make([][]Outcome, len(evm.executions))
	var results []StepOutcome
	for i, ex := range evm.executions {
		if ex.halted {
			continue
		}
		outcomes, err := evm.enumerate(ex)
		if err != nil {
			return nil, err
		}
		staged[i] = outcomes
		for _, o := range outcomes {
			results = append(results, StepOutcome{Execution: ExecutionID(i), Outcome: o})
		}
		log.WithFields(log.Fields{
			"execution": i,
			"pc":        ex.pc,
			"outcomes":  len(outcomes),
		}).Trace("enumerated instruction outcomes")
	}
	for i, ex := range evm.executions {
		if !ex.halted {
			ex.offered = staged[i]
		}
	}
	return results, nil
}

func (evm *ZEvm) enumerate(ex *Execution) ([]Outcome, error) {
	op, ok := evm.program.OpAt(ex.pc)
	if !ok {
		// Falling off the end of the code is an implicit stop.
		return []Outcome{Halt{Reason: HaltStop}}, nil
	}
	sop, ok := opFor(op)
	if !ok {
		return []Outcome{Halt{Reason: HaltInvalidOpcode}}, nil
	}
	return sop.Outcomes(evm, ex)
}

// Apply commits one outcome that the last Step offered for the given
// execution. A Run outcome mutates the machine state and permanently
// asserts the branch's constraint; a Halt outcome makes the execution
// terminal. At most one Apply succeeds per execution per Step: committing
// consumes the offered list. Usage failures and collaborator failures
// leave the committed state unchanged.
func (evm *ZEvm) Apply(id ExecutionID, outcome Outcome) error {
	ex, err := evm.execution(id)
	if err != nil {
		return err
	}
	if ex.halted {
		return ErrAlreadyHalted
	}
	if !outcomeOffered(ex.offered, outcome) {
		return ErrOutcomeNotOffered
	}

	switch o := outcome.(type) {
	case Halt:
		ex.halted = true
		ex.reason = o.Reason
	case Run:
		op, ok := evm.program.OpAt(ex.pc)
		if !ok {
			return ErrOutcomeNotOffered
		}
		sop, ok := opFor(op)
		if !ok {
			return ErrOutcomeNotOffered
		}
		if err := sop.Execute(evm, ex, o); err != nil {
			return err
		}
	}
	ex.offered = nil
	log.WithFields(log.Fields{
		"execution": id,
		"outcome":   outcome.String(),
		"pc":        ex.pc,
	}).Debug("committed outcome")
	return nil
}

// Fork duplicates an execution, including its solver's assertion stack
// and the outcomes offered to it by the last Step, and returns the new
// execution's id. Siblings explore independently: constraints committed
// on one are invisible to the other.
func (evm *ZEvm) Fork(id ExecutionID) (ExecutionID, error) {
	ex, err := evm.execution(id)
	if err != nil {
		return 0, err
	}
	child := ex.fork(evm.ctx)
	evm.executions = append(evm.executions, child)
	nid := ExecutionID(len(evm.executions) - 1)
	log.WithFields(log.Fields{"parent": id, "child": nid}).Debug("forked execution")
	return nid, nil
}

func outcomeOffered(offered []Outcome, outcome Outcome) bool {
	for _, o := range offered {
		if o == outcome {
			return true
		}
	}
	return false
}

// word returns v as a concrete machine word.
func (evm *ZEvm) word(v uint64) z3.BV {
	return evm.ctx.FromInt(int64(v), evm.wordSort).(z3.BV)
}

// wordBig returns v as a concrete machine word, modulo 2^256.
func (evm *ZEvm) wordBig(v *big.Int) z3.BV {
	return evm.ctx.FromBigInt(v, evm.wordSort).(z3.BV)
}

// intVal returns v as an unbounded integer term.
func (evm *ZEvm) intVal(v int64) z3.Int {
	return evm.ctx.FromInt(v, evm.ctx.IntSort()).(z3.Int)
}
