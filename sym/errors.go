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
	"fmt"
)

var (
	// ErrAlreadyHalted is returned when applying an outcome to an
	// execution that already reached a terminal state.
	ErrAlreadyHalted = errors.New("execution already halted")

	// ErrOutcomeNotOffered is returned when the applied outcome was not
	// among the outcomes enumerated for that execution's current
	// instruction, or when an outcome was already applied this step.
	ErrOutcomeNotOffered = errors.New("outcome was not offered for this execution")

	// ErrNoSuchExecution is returned for unknown execution ids.
	ErrNoSuchExecution = errors.New("no such execution")

	// ErrStackUnderflow and ErrStackOverflow report out-of-bounds stack
	// access. During enumeration these surface as Halt outcomes instead.
	ErrStackUnderflow = errors.New("stack underflow")
	ErrStackOverflow  = errors.New("stack overflow")
)

// SolverUnknownError reports that the solver answered neither sat nor
// unsat for a feasibility query. The enumeration it interrupted produced
// no result: treating unknown as unsat would drop reachable outcomes and
// treating it as sat would admit spurious ones.
type SolverUnknownError struct {
	Err error
}

func (e *SolverUnknownError) Error() string {
	return fmt.Sprintf("solver could not decide feasibility: %v", e.Err)
}

func (e *SolverUnknownError) Unwrap() error {
	return e.Err
}

// StorageError wraps a failure reported by the storage capability. The
// underlying error is backend specific and passed through opaquely.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
