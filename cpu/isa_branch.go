// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

// branchCond compares two signed values.
type branchCond func(a, b int64) bool

func condEq(a, b int64) bool { return a == b }
func condNe(a, b int64) bool { return a != b }
func condLt(a, b int64) bool { return a < b }
func condLe(a, b int64) bool { return a <= b }
func condGt(a, b int64) bool { return a > b }
func condGe(a, b int64) bool { return a >= b }

// branch makes a 'bxx a b target' instruction, which jumps to target if
// the condition holds. A branch not taken has no effect of its own.
func branch(cond branchCond) Handler {
	return func(st State, args []Operand) (seq Sequence, err error) {
		a, err := args[0].Get(st)
		if err != nil {
			return
		}
		b, err := args[1].Get(st)
		if err != nil {
			return
		}

		// The target must resolve, taken or not.
		_, err = args[2].Get(st)
		if err != nil {
			return
		}

		if !cond(a.Int(), b.Int()) {
			seq = Sequence{}
			return
		}

		seq, err = jump(st, args[2:])
		return
	}
}
