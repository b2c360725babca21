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
	"fmt"

	"github.com/symbolic-vm/zevm/vm"
)

// HaltReason says why an execution stopped. Halts are legitimate
// terminal states of the modeled machine, not library failures.
type HaltReason int

const (
	HaltStop HaltReason = iota
	HaltStackUnderflow
	HaltStackOverflow
	HaltOutOfGas
	HaltInvalidJumpDest
	HaltInvalidOpcode
)

func (r HaltReason) String() string {
	switch r {
	case HaltStop:
		return "stop"
	case HaltStackUnderflow:
		return "stack underflow"
	case HaltStackOverflow:
		return "stack overflow"
	case HaltOutOfGas:
		return "out of gas"
	case HaltInvalidJumpDest:
		return "invalid jump destination"
	case HaltInvalidOpcode:
		return "invalid opcode"
	default:
		return fmt.Sprintf("halt reason %d", int(r))
	}
}

// RunKind distinguishes the ways a non-halting outcome moves the
// program counter.
type RunKind int

const (
	// RunAdvance falls through to the next instruction.
	RunAdvance RunKind = iota
	// RunJump transfers control to a valid jump destination.
	RunJump
)

// Outcome is one semantically distinct, currently satisfiable result of
// attempting the current instruction. It is produced by enumeration and
// consumed by Apply for the same instruction and state. The two variants
// are Halt and Run.
type Outcome interface {
	fmt.Stringer
	outcome()
}

// Halt is a terminal outcome.
type Halt struct {
	Reason HaltReason
}

func (Halt) outcome() {}

func (h Halt) String() string {
	return fmt.Sprintf("halt(%v)", h.Reason)
}

// Run is an outcome under which execution continues. Dest is only
// meaningful for RunJump.
type Run struct {
	Kind RunKind
	Dest vm.Offset
}

func (Run) outcome() {}

func (r Run) String() string {
	if r.Kind == RunJump {
		return fmt.Sprintf("jump(%v)", r.Dest)
	}
	return "advance"
}

// Advance returns the fall-through outcome.
func Advance() Run {
	return Run{Kind: RunAdvance}
}

// Jump returns the outcome that transfers control to dest.
func Jump(dest vm.Offset) Run {
	return Run{Kind: RunJump, Dest: dest}
}
