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

// Storage is the capability storage-touching opcodes run against. Keys
// and values are symbolic words. Backend errors are propagated through
// the engine opaquely, wrapped in StorageError.
//
// Clone must produce a store the forked path can mutate without the
// sibling observing the writes.
type Storage interface {
	Read(key z3.BV) (z3.BV, error)
	Write(key, value z3.BV) error
	Clone() Storage
}

type storageWrite struct {
	key   z3.BV
	value z3.BV
}

// InMemory is the reference storage backend. Reads resolve through an
// if-then-else chain over the recorded writes, newest first, falling
// back to an arbitrary but fixed initial word per unseen key. The
// fallback is memoized per key term, so syntactically distinct keys get
// independent initial words even when they could be equal.
type InMemory struct {
	ctx     *z3.Context
	writes  []storageWrite
	initial map[string]z3.BV
}

func NewInMemory(ctx *z3.Context) *InMemory {
	return &InMemory{
		ctx:     ctx,
		initial: make(map[string]z3.BV),
	}
}

func (m *InMemory) Read(key z3.BV) (z3.BV, error) {
	value := m.initialValue(key)
	for _, w := range m.writes {
		value = w.key.Eq(key).IfThenElse(w.value, value).(z3.BV)
	}
	return value, nil
}

func (m *InMemory) Write(key, value z3.BV) error {
	m.writes = append(m.writes, storageWrite{key: key, value: value})
	return nil
}

func (m *InMemory) Clone() Storage {
	c := NewInMemory(m.ctx)
	c.writes = append(c.writes, m.writes...)
	for k, v := range m.initial {
		c.initial[k] = v
	}
	return c
}

func (m *InMemory) initialValue(key z3.BV) z3.BV {
	k := key.String()
	if v, ok := m.initial[k]; ok {
		return v
	}
	v := m.ctx.FreshConst("storage", m.ctx.BVSort(wordBits)).(z3.BV)
	m.initial[k] = v
	return v
}
