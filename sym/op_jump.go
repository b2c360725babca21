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

// jumpOp is the unconditional jump: the destination scan of jumpIOp
// without the fall-through branch.
type jumpOp struct{}

const jumpGas = 8

func (jumpOp) Outcomes(evm *ZEvm, ex *Execution) ([]Outcome, error) {
	if ex.stack.Len() < 1 {
		return []Outcome{Halt{Reason: HaltStackUnderflow}}, nil
	}

	outcomes := make([]Outcome, 0, 2)
	covers := ex.coversCost(evm, jumpGas)

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
	if !sat {
		return outcomes, nil
	}

	dest, err := ex.stack.Peek(0)
	if err != nil {
		return nil, err
	}
	jumps, badJump, err := scanJumpTargets(evm, ex, dest)
	if err != nil {
		return nil, err
	}
	if badJump {
		outcomes = append(outcomes, Halt{Reason: HaltInvalidJumpDest})
	}
	outcomes = append(outcomes, jumps...)
	return outcomes, nil
}

func (jumpOp) Execute(evm *ZEvm, ex *Execution, run Run) error {
	if run.Kind != RunJump {
		return errNotRunnable
	}
	dest, err := ex.stack.Pop()
	if err != nil {
		return err
	}
	ex.deductGas(evm, jumpGas)
	ex.assert(dest.Eq(evm.word(uint64(run.Dest))))
	ex.pc = run.Dest
	return nil
}
