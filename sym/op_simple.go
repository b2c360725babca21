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
	gethvm "github.com/ethereum/go-ethereum/core/vm"

	"github.com/symbolic-vm/zevm/vm"
)

const (
	jumpDestGas = 1
	pcGas       = 2
	popGas      = 2
	pushZeroGas = 2
	pushGas     = 3
)

// stopOp halts normally. It costs nothing, so gas plays no part.
type stopOp struct{}

func (stopOp) Outcomes(evm *ZEvm, ex *Execution) ([]Outcome, error) {
	return []Outcome{Halt{Reason: HaltStop}}, nil
}

func (stopOp) Execute(evm *ZEvm, ex *Execution, run Run) error {
	return errNotRunnable
}

// jumpDestOp marks a valid jump target and otherwise falls through.
type jumpDestOp struct{}

func (jumpDestOp) Outcomes(evm *ZEvm, ex *Execution) ([]Outcome, error) {
	return advanceOutcomes(evm, ex, jumpDestGas, 0, 0)
}

func (jumpDestOp) Execute(evm *ZEvm, ex *Execution, run Run) error {
	ex.deductGas(evm, jumpDestGas)
	ex.pc = evm.program.NextOffset(ex.pc)
	return nil
}

// pcOp pushes the instruction's own offset as a concrete word.
type pcOp struct{}

func (pcOp) Outcomes(evm *ZEvm, ex *Execution) ([]Outcome, error) {
	return advanceOutcomes(evm, ex, pcGas, 0, 1)
}

func (pcOp) Execute(evm *ZEvm, ex *Execution, run Run) error {
	here := ex.pc
	if err := ex.stack.Push(evm.word(uint64(here))); err != nil {
		return err
	}
	ex.deductGas(evm, pcGas)
	ex.pc = evm.program.NextOffset(here)
	return nil
}

// popOp discards the top of the stack.
type popOp struct{}

func (popOp) Outcomes(evm *ZEvm, ex *Execution) ([]Outcome, error) {
	return advanceOutcomes(evm, ex, popGas, 1, 0)
}

func (popOp) Execute(evm *ZEvm, ex *Execution, run Run) error {
	if _, err := ex.stack.Pop(); err != nil {
		return err
	}
	ex.deductGas(evm, popGas)
	ex.pc = evm.program.NextOffset(ex.pc)
	return nil
}

// pushOp pushes its immediate operand as a concrete word.
type pushOp struct {
	op vm.Op
}

func (p pushOp) gas() int64 {
	if p.op.Code == gethvm.PUSH0 {
		return pushZeroGas
	}
	return pushGas
}

func (p pushOp) Outcomes(evm *ZEvm, ex *Execution) ([]Outcome, error) {
	return advanceOutcomes(evm, ex, p.gas(), 0, 1)
}

func (p pushOp) Execute(evm *ZEvm, ex *Execution, run Run) error {
	if err := ex.stack.Push(evm.wordBig(p.op.PushValue().ToBig())); err != nil {
		return err
	}
	ex.deductGas(evm, p.gas())
	ex.pc = evm.program.NextOffset(ex.pc)
	return nil
}
