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

const (
	sloadGas  = 100
	sstoreGas = 100
)

// sloadOp reads storage at the symbolic key on top of the stack.
type sloadOp struct{}

func (sloadOp) Outcomes(evm *ZEvm, ex *Execution) ([]Outcome, error) {
	return advanceOutcomes(evm, ex, sloadGas, 1, 1)
}

func (sloadOp) Execute(evm *ZEvm, ex *Execution, run Run) error {
	// Read through the capability before touching the stack so a backend
	// failure leaves the state unchanged.
	key, err := ex.stack.Peek(0)
	if err != nil {
		return err
	}
	value, err := ex.storage.Read(key)
	if err != nil {
		return &StorageError{Err: err}
	}
	if _, err := ex.stack.Pop(); err != nil {
		return err
	}
	if err := ex.stack.Push(value); err != nil {
		return err
	}
	ex.deductGas(evm, sloadGas)
	ex.pc = evm.program.NextOffset(ex.pc)
	return nil
}

// sstoreOp writes the second stack word at the key on top.
type sstoreOp struct{}

func (sstoreOp) Outcomes(evm *ZEvm, ex *Execution) ([]Outcome, error) {
	return advanceOutcomes(evm, ex, sstoreGas, 2, 0)
}

func (sstoreOp) Execute(evm *ZEvm, ex *Execution, run Run) error {
	key, err := ex.stack.Peek(0)
	if err != nil {
		return err
	}
	value, err := ex.stack.Peek(1)
	if err != nil {
		return err
	}
	if err := ex.storage.Write(key, value); err != nil {
		return &StorageError{Err: err}
	}
	if _, err := ex.stack.Pop(); err != nil {
		return err
	}
	if _, err := ex.stack.Pop(); err != nil {
		return err
	}
	ex.deductGas(evm, sstoreGas)
	ex.pc = evm.program.NextOffset(ex.pc)
	return nil
}
