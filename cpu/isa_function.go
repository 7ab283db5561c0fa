// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

// jump sets the PC to the target.
func jump(st State, args []Operand) (seq Sequence, err error) {
	target, err := args[0].Get(st)
	if err != nil {
		return
	}

	pc, err := RegisterTransform(REG_PC, target)
	if err != nil {
		return
	}

	seq = NewSequence(pc)
	return
}

// call jumps to the target and links the return address.
//
// The caller's RA and FID are pushed, in that order. FID changes only
// when the target is a label in another file.
func call(st State, args []Operand) (seq Sequence, err error) {
	target := args[0]
	stack := NewStack(st)

	saveRa, err := stack.Push(st.Register(REG_RA))
	if err != nil {
		return
	}
	seq = seq.Concat(saveRa)

	ra, err := RegisterTransform(REG_RA, st.Register(REG_PC))
	if err != nil {
		return
	}
	seq = seq.Concat(NewSequence(ra))

	fid := st.Register(REG_FID)
	saveFid, err := stack.Push(fid)
	if err != nil {
		return
	}
	seq = seq.Concat(saveFid)

	if target.Kind == OPERAND_LABEL {
		var next Word
		next, err = target.OwningFile(st)
		if err != nil {
			return
		}
		if next != fid {
			var t Transformation
			t, err = RegisterTransform(REG_FID, next)
			if err != nil {
				return
			}
			seq = seq.Concat(NewSequence(t))
		}
	}

	jmp, err := jump(st, args)
	if err != nil {
		return
	}
	seq = seq.Concat(jmp)

	return
}

// _return jumps to RA, then restores the caller's FID and RA.
func _return(st State, args []Operand) (seq Sequence, err error) {
	seq, err = jump(st, []Operand{RegisterRef(REG_RA)})
	if err != nil {
		return
	}

	stack := NewStack(st)

	fid, err := stack.PopInto(RegisterRef(REG_FID))
	if err != nil {
		return
	}
	seq = seq.Concat(fid)

	ra, err := stack.PopInto(RegisterRef(REG_RA))
	if err != nil {
		return
	}
	seq = seq.Concat(ra)

	return
}

// exit sets the exit status and halts the program.
func exit(st State, args []Operand) (seq Sequence, err error) {
	status, err := args[0].Get(st)
	if err != nil {
		return
	}

	r0, err := RegisterTransform(REG_R0, status)
	if err != nil {
		return
	}

	pc, err := RegisterTransform(REG_PC, st.EndPc())
	if err != nil {
		return
	}

	seq = NewSequence(r0, pc)
	return
}
