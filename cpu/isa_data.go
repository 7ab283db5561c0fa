// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

// move copies the source operand to the destination.
func move(st State, args []Operand) (seq Sequence, err error) {
	value, err := args[1].Get(st)
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

// push pushes the operand onto the stack.
func push(st State, args []Operand) (seq Sequence, err error) {
	value, err := args[0].Get(st)
	if err != nil {
		return
	}

	seq, err = Push(st, value)
	return
}

// pop pops the top of the stack into the operand.
func pop(st State, args []Operand) (seq Sequence, err error) {
	seq, err = NewStack(st).PopInto(args[0])
	return
}
