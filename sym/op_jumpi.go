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

// jumpIOp is the conditional jump. It consumes the destination (top of
// stack) and the condition (second); a zero condition falls through,
// anything else jumps.
type jumpIOp struct{}

const jumpIGas = 10

// Outcomes enumerates, in order: out-of-gas if gas can fall short,
// invalid-destination if the destination can miss every valid target
// while jumping, one jump per reachable valid target in ascending offset
// order, and fall-through if the condition can be zero.
func (jumpIOp) Outcomes(evm *ZEvm, ex *Execution) ([]Outcome, error) {
	// Too few stack elements halts before any gas or branch reasoning.
	if ex.stack.Len() < 2 {
		return []Outcome{Halt{Reason: HaltStackUnderflow}}, nil
	}

	outcomes := make([]Outcome, 0, 2)
	covers := ex.coversCost(evm, jumpIGas)

	// Gas exhaustion and gas sufficiency are independent hypotheses over
	// symbolic gas, not two branches of one decision.
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
	cond, err := ex.stack.Peek(1)
	if err != nil {
		return nil, err
	}
	advance := cond.Eq(evm.word(0))

	// Assume the jump is taken and scan the destination table.
	jumps, badJump, err := scanJumpTargets(evm, ex, dest, advance.Not())
	if err != nil {
		return nil, err
	}
	if badJump {
		outcomes = append(outcomes, Halt{Reason: HaltInvalidJumpDest})
	}
	outcomes = append(outcomes, jumps...)

	// Independently, can the instruction fall through?
	sat, err = ex.Feasible(advance)
	if err != nil {
		return nil, err
	}
	if sat {
		outcomes = append(outcomes, Advance())
	}
	return outcomes, nil
}

// Execute pops the operands, charges gas, asserts the committed branch's
// constraint, and moves the program counter.
func (jumpIOp) Execute(evm *ZEvm, ex *Execution, run Run) error {
	dest, err := ex.stack.Pop()
	if err != nil {
		return err
	}
	cond, err := ex.stack.Pop()
	if err != nil {
		return err
	}
	ex.deductGas(evm, jumpIGas)

	willAdvance := cond.Eq(evm.word(0))
	switch run.Kind {
	case RunJump:
		ex.assert(willAdvance.Not())
		ex.assert(dest.Eq(evm.word(uint64(run.Dest))))
		ex.pc = run.Dest
	case RunAdvance:
		ex.assert(willAdvance)
		ex.pc = evm.program.NextOffset(ex.pc)
	}
	return nil
}
