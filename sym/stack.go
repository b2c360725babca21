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

import "github.com/aclements/go-z3/z3"

// StackLimit is the maximum number of words the machine stack may hold.
const StackLimit = 1024

// Stack is a bounded stack of 256-bit symbolic words.
type Stack struct {
	data []z3.BV
}

func NewStack() *Stack {
	return &Stack{}
}

func (s *Stack) Len() int {
	return len(s.data)
}

// Push places w on top of the stack.
func (s *Stack) Push(w z3.BV) error {
	if len(s.data) >= StackLimit {
		return ErrStackOverflow
	}
	s.data = append(s.data, w)
	return nil
}

// Pop removes and returns the top word.
func (s *Stack) Pop() (z3.BV, error) {
	if len(s.data) == 0 {
		return z3.BV{}, ErrStackUnderflow
	}
	w := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return w, nil
}

// Peek returns the n-th word from the top without removing it; Peek(0)
// is the top of the stack.
func (s *Stack) Peek(n int) (z3.BV, error) {
	if n < 0 || len(s.data) <= n {
		return z3.BV{}, ErrStackUnderflow
	}
	return s.data[len(s.data)-1-n], nil
}

// Clone does a deep copy of the stack. The words themselves are
// immutable terms and are shared.
func (s *Stack) Clone() *Stack {
	c := &Stack{data: make([]z3.BV, len(s.data))}
	copy(c.data, s.data)
	return c
}
