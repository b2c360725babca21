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

// Package vm models a decoded EVM program: its instructions, their byte
// offsets, and the table of valid jump destinations.
package vm

import (
	"fmt"

	gethvm "github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"
)

// Offset is a byte position in a program. Offsets are stable for the
// lifetime of the program.
type Offset uint64

func (o Offset) String() string {
	return fmt.Sprintf("%#x", uint64(o))
}

// Op is a single decoded instruction. Immediate holds the inline operand
// bytes of PUSH instructions and is empty for everything else.
type Op struct {
	Code      gethvm.OpCode
	Immediate []byte
}

// Size returns the number of code bytes the instruction occupies.
func (o Op) Size() Offset {
	return Offset(1 + len(o.Immediate))
}

// PushValue returns the immediate operand as a 256-bit word.
func (o Op) PushValue() *uint256.Int {
	return new(uint256.Int).SetBytes(o.Immediate)
}

func (o Op) String() string {
	if len(o.Immediate) == 0 {
		return o.Code.String()
	}
	return fmt.Sprintf("%v %s", o.Code, o.PushValue().Hex())
}

// Program is an immutable decoded program together with its
// jump-destination table. It is shared read-only by all executions.
type Program struct {
	ops     []Op
	offsets []Offset
	index   map[Offset]int
	dests   []Offset
}

// NewProgram builds a program from an already decoded instruction
// sequence, assigning byte offsets cumulatively.
func NewProgram(ops []Op) *Program {
	p := &Program{
		ops:   ops,
		index: make(map[Offset]int, len(ops)),
	}
	var off Offset
	for i, op := range ops {
		p.offsets = append(p.offsets, off)
		p.index[off] = i
		if op.Code == gethvm.JUMPDEST {
			p.dests = append(p.dests, off)
		}
		off += op.Size()
	}
	return p
}

// Decode splits raw bytecode into instructions. PUSH immediates are
// consumed inline, so a 0x5b byte inside an immediate is not a valid
// jump destination. A truncated trailing immediate keeps whatever bytes
// are present.
func Decode(code []byte) *Program {
	var ops []Op
	for i := 0; i < len(code); {
		op := Op{Code: gethvm.OpCode(code[i])}
		i++
		if gethvm.PUSH1 <= op.Code && op.Code <= gethvm.PUSH32 {
			n := int(op.Code) - int(gethvm.PUSH0)
			end := i + n
			if end > len(code) {
				end = len(code)
			}
			op.Immediate = code[i:end]
			i = end
		}
		ops = append(ops, op)
	}
	return NewProgram(ops)
}

// OpAt returns the instruction starting at the given offset. It reports
// false for offsets inside an immediate or past the end of the code.
func (p *Program) OpAt(off Offset) (Op, bool) {
	i, ok := p.index[off]
	if !ok {
		return Op{}, false
	}
	return p.ops[i], true
}

// NextOffset returns the offset of the instruction following the one at
// off. For offsets that hold no instruction the next byte is assumed.
func (p *Program) NextOffset(off Offset) Offset {
	if op, ok := p.OpAt(off); ok {
		return off + op.Size()
	}
	return off + 1
}

// Destinations returns the valid jump destinations in ascending offset
// order. The returned slice must not be modified.
func (p *Program) Destinations() []Offset {
	return p.dests
}

// IsDestination reports whether off is a valid jump destination.
func (p *Program) IsDestination(off Offset) bool {
	if op, ok := p.OpAt(off); ok {
		return op.Code == gethvm.JUMPDEST
	}
	return false
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.ops)
}

// Offsets returns the starting offset of every instruction in order.
func (p *Program) Offsets() []Offset {
	return p.offsets
}
