// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
)

// Stack builds push and pop transformations against the stack arena.
//
// The stack grows downwards from StackBase. A push decrements SP by one
// word then writes at SP; a pop reads at SP then increments SP.
//
// A Stack tracks the stack pointer across several pushes and pops of the
// same Sequence, so consecutive operations stack up correctly before
// any of them has been applied.
type Stack struct {
	st      State
	sp      Word
	pending map[Word]Word // Pushed, but not yet applied.
}

// NewStack starts building stack operations from the current SP.
func NewStack(st State) *Stack {
	return &Stack{
		st: st,
		sp: st.Register(REG_SP),
	}
}

// Pointer returns the stack pointer after the operations built so far.
func (s *Stack) Pointer() Word {
	return s.sp
}

// Empty returns true if there is nothing left to pop.
func (s *Stack) Empty() bool {
	return s.sp >= s.st.StackBase()
}

// Full returns true if there is no room for another push.
func (s *Stack) Full() bool {
	return s.sp < s.st.StackLimit()+WORD_SIZE || s.sp > s.st.StackBase()
}

// Depth returns the number of words on the stack.
func (s *Stack) Depth() int {
	if s.Empty() {
		return 0
	}
	return int((s.st.StackBase() - s.sp) / WORD_SIZE)
}

// Push builds a push of 'value'.
func (s *Stack) Push(value Word) (seq Sequence, err error) {
	if s.Full() {
		err = ErrStackFull
		return
	}

	sp := s.sp - WORD_SIZE
	write, err := MemoryTransform(s.st, sp, value)
	if err != nil {
		return
	}
	move, err := RegisterTransform(REG_SP, sp)
	if err != nil {
		return
	}

	if s.pending == nil {
		s.pending = make(map[Word]Word)
	}
	s.pending[sp] = value
	s.sp = sp

	seq = NewSequence(write, move)
	return
}

// Peek returns the value on top of the stack.
func (s *Stack) Peek() (value Word, err error) {
	if s.Empty() {
		err = ErrStackUnderflow
		return
	}

	value, ok := s.pending[s.sp]
	if ok {
		return
	}

	value, err = s.st.Load(s.sp)
	return
}

// Pop builds a pop, returning the value on top of the stack.
func (s *Stack) Pop() (value Word, seq Sequence, err error) {
	value, err = s.Peek()
	if err != nil {
		return
	}

	sp := s.sp + WORD_SIZE
	move, err := RegisterTransform(REG_SP, sp)
	if err != nil {
		return
	}

	delete(s.pending, s.sp)
	s.sp = sp

	seq = NewSequence(move)
	return
}

// PopInto builds a pop into the register or memory operand 'dst'.
func (s *Stack) PopInto(dst Operand) (seq Sequence, err error) {
	value, seq, err := s.Pop()
	if err != nil {
		return
	}

	write, err := dst.Transform(s.st, value)
	if err != nil {
		seq = nil
		return
	}

	seq = seq.Concat(NewSequence(write))
	return
}

// Push builds consecutive pushes of 'values' onto the stack of 'st'.
func Push(st State, values ...Word) (seq Sequence, err error) {
	s := NewStack(st)
	for _, value := range values {
		var push Sequence
		push, err = s.Push(value)
		if err != nil {
			seq = nil
			return
		}
		seq = seq.Concat(push)
	}
	return
}

// Pop builds 'count' consecutive pops from the stack of 'st', returning
// the values in pop order.
func Pop(st State, count int) (values []Word, seq Sequence, err error) {
	if count < 0 {
		err = errors.Join(ErrInvalidOperand, ErrStackUnderflow)
		return
	}

	s := NewStack(st)
	values = make([]Word, 0, count)
	for range count {
		var value Word
		var pop Sequence
		value, pop, err = s.Pop()
		if err != nil {
			values = nil
			seq = nil
			return
		}
		values = append(values, value)
		seq = seq.Concat(pop)
	}
	return
}
