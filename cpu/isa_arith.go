// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"math/bits"
)

// arithOp computes a result from two operands.
type arithOp func(a, b Word) (Word, error)

var errDivideByZero = errors.Join(ErrArithmetic, errors.New(f("divide by zero")))

func opAdd(a, b Word) (Word, error) { return a + b, nil }
func opSub(a, b Word) (Word, error) { return a - b, nil }
func opAnd(a, b Word) (Word, error) { return a & b, nil }
func opOr(a, b Word) (Word, error)  { return a | b, nil }
func opXor(a, b Word) (Word, error) { return a ^ b, nil }

// Shifts clamp the shift count to 63 bits.
func opSll(a, b Word) (Word, error) { return a << (b & 0x3f), nil }
func opSrl(a, b Word) (Word, error) { return a >> (b & 0x3f), nil }
func opSra(a, b Word) (Word, error) { return Word(a.Int() >> (b & 0x3f)), nil }

func opMod(a, b Word) (value Word, err error) {
	if b == 0 {
		err = errDivideByZero
		return
	}
	value = Word(a.Int() % b.Int())
	return
}

// operands resolves the two source operands of an arithmetic instruction.
func operands(st State, args []Operand) (a, b Word, err error) {
	a, err = args[1].Get(st)
	if err != nil {
		return
	}
	b, err = args[2].Get(st)
	return
}

// binaryOp makes a 'op dst a b' instruction.
func binaryOp(op arithOp) Handler {
	return func(st State, args []Operand) (seq Sequence, err error) {
		a, b, err := operands(st, args)
		if err != nil {
			return
		}

		value, err := op(a, b)
		if err != nil {
			return
		}

		t, err := args[0].Transform(st, value)
		if err != nil {
			return
		}

		seq = NewSequence(t)
		return
	}
}

// mul multiplies, also writing the high word of the signed product to HI.
func mul(st State, args []Operand) (seq Sequence, err error) {
	a, b, err := operands(st, args)
	if err != nil {
		return
	}

	hi, lo := bits.Mul64(uint64(a), uint64(b))
	// Signed correction of the unsigned high word.
	if a.Int() < 0 {
		hi -= uint64(b)
	}
	if b.Int() < 0 {
		hi -= uint64(a)
	}

	dst, err := args[0].Transform(st, Word(lo))
	if err != nil {
		return
	}
	high, err := RegisterTransform(REG_HI, Word(hi))
	if err != nil {
		return
	}

	seq = NewSequence(high, dst)
	return
}

// div divides, also writing the remainder to LO.
func div(st State, args []Operand) (seq Sequence, err error) {
	a, b, err := operands(st, args)
	if err != nil {
		return
	}

	if b == 0 {
		err = errDivideByZero
		return
	}

	quotient := Word(a.Int() / b.Int())
	remainder := Word(a.Int() % b.Int())

	dst, err := args[0].Transform(st, quotient)
	if err != nil {
		return
	}
	low, err := RegisterTransform(REG_LO, remainder)
	if err != nil {
		return
	}

	seq = NewSequence(low, dst)
	return
}

// not writes the bitwise complement.
func not(st State, args []Operand) (seq Sequence, err error) {
	value, err := args[1].Get(st)
	if err != nil {
		return
	}

	t, err := args[0].Transform(st, ^value)
	if err != nil {
		return
	}

	seq = NewSequence(t)
	return
}

// increment makes an instruction that adds 'delta' to its operand.
func increment(delta Word) Handler {
	return func(st State, args []Operand) (seq Sequence, err error) {
		value, err := args[0].Get(st)
		if err != nil {
			return
		}

		t, err := args[0].Transform(st, value+delta)
		if err != nil {
			return
		}

		seq = NewSequence(t)
		return
	}
}
