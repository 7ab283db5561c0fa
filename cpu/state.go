// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

// State is the read-only view of the engine that instructions build
// their Sequence from.
type State interface {
	// Register returns the current value of a register.
	Register(reg Register) Word
	// Load reads a word of memory.
	Load(addr Word) (Word, error)
	// MemorySize returns the size of memory in bytes.
	MemorySize() Word
	// StackBase is the stack pointer of an empty stack.
	StackBase() Word
	// StackLimit is the lowest address the stack may grow to.
	StackLimit() Word
	// Label resolves a label, as seen from the executing file.
	Label(name string) (Label, error)
	// EndPc is the program counter of a halted program.
	EndPc() Word
	// InputPeek returns an input byte past the input cursor. At the end
	// of input, ok is false. ErrInputWait is returned if the byte has not
	// arrived yet.
	InputPeek(offset int) (value byte, ok bool, err error)
	// InputCursor returns the input cursor.
	InputCursor() Word
}

// fetchState is the view seen by an executing instruction, where the
// program counter has already advanced to the next instruction.
type fetchState struct {
	State
	nextPc Word
}

func (st *fetchState) Register(reg Register) Word {
	if reg == REG_PC {
		return st.nextPc
	}
	return st.State.Register(reg)
}
