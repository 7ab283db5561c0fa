// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ezrec/ezasm/io"
)

const (
	DEFAULT_HISTORY_LIMIT = 4096 // Default depth of the undo history.
)

// Cpu is the simulation engine: register file, memory, terminal, the
// loaded program and the undo history.
//
// Cpu is not safe for concurrent use. See emulator.Emulator for a
// synchronized driver.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Registers    Registers      // Register file.
	Memory       *Memory        // Main memory.
	Tape         *io.Tape       // Terminal.
	Program      *Program       // Loaded program.
	Instructions InstructionSet // Instruction dispatch table.

	StackSize    Word // Size of the stack arena, in bytes.
	HistoryLimit int  // Maximum undo depth, or 0 for unlimited.

	Ticks int // Instructions executed since reset.

	history []Sequence
}

var _ State = (*Cpu)(nil)

// NewCpu creates a new CPU with a specifically sized memory and stack.
func NewCpu(memorySize uint, stackSize uint) (cp *Cpu) {
	cp = &Cpu{
		Memory:       NewMemory(memorySize),
		Tape:         &io.Tape{},
		Program:      &Program{},
		Instructions: NewInstructionSet(),
		StackSize:    Word(stackSize),
		HistoryLimit: DEFAULT_HISTORY_LIMIT,
	}

	cp.Reset()

	return
}

// SetProgram replaces the program, and resets the CPU.
func (cp *Cpu) SetProgram(prog *Program) {
	cp.Program = prog
	cp.Reset()
}

// Reset the CPU state.
// - Clears the registers, memory and undo history.
// - Rewinds the terminal.
// - Sets SP to the empty stack, and PC to the start of the first file.
func (cp *Cpu) Reset() {
	if cp.Verbose {
		log.Printf("cpu: reset")
	}

	cp.Registers.Reset()
	cp.Memory.Reset()
	cp.Tape.Rewind()
	cp.history = nil
	cp.Ticks = 0

	cp.Registers.set(REG_SP, cp.StackBase())
}

// Register returns the current value of a register.
func (cp *Cpu) Register(reg Register) Word {
	return cp.Registers.Get(reg)
}

// Load reads a word of memory.
func (cp *Cpu) Load(addr Word) (Word, error) {
	return cp.Memory.Load(addr)
}

// MemorySize returns the size of memory in bytes.
func (cp *Cpu) MemorySize() Word {
	return cp.Memory.Size()
}

// StackBase is the stack pointer of an empty stack: the top of memory.
func (cp *Cpu) StackBase() Word {
	return cp.Memory.Size()
}

// StackLimit is the lowest address of the stack arena.
func (cp *Cpu) StackLimit() Word {
	if cp.StackSize >= cp.Memory.Size() {
		return 0
	}
	return cp.Memory.Size() - cp.StackSize
}

// Label resolves a label from the executing file.
func (cp *Cpu) Label(name string) (Label, error) {
	return cp.Program.Label(name, cp.Registers.Get(REG_FID))
}

// EndPc is the program counter of a halted program.
func (cp *Cpu) EndPc() Word {
	return END_PC
}

// InputPeek returns an input byte past the input cursor.
func (cp *Cpu) InputPeek(offset int) (byte, bool, error) {
	return cp.Tape.Peek(offset)
}

// InputCursor returns the input cursor.
func (cp *Cpu) InputCursor() Word {
	return Word(cp.Tape.Cursor())
}

// ExitCode returns the exit status of the program.
func (cp *Cpu) ExitCode() int64 {
	return cp.Registers.Get(REG_R0).Int()
}

// Where returns the source location of the next instruction.
func (cp *Cpu) Where() Debug {
	return cp.Program.Debug(cp.Registers.Get(REG_FID), cp.Registers.Get(REG_PC))
}

// Current returns the next instruction to execute.
// Returns ErrHalted at the end sentinel, at the end of a file, or when
// no program is loaded.
func (cp *Cpu) Current() (ins *Instruction, err error) {
	pc := cp.Registers.Get(REG_PC)
	fid := cp.Registers.Get(REG_FID)

	if pc == END_PC || len(cp.Program.Files) == 0 {
		err = ErrHalted
		return
	}

	file, ok := cp.Program.File(fid)
	if !ok {
		err = errors.Join(ErrOutOfBounds, ErrFileInvalid, errors.New(f("file id %d", fid)))
		return
	}

	count := Word(len(file.Instructions))
	switch {
	case pc == count:
		err = ErrHalted
	case pc > count:
		err = errors.Join(ErrOutOfBounds, errors.New(f("pc %d past end of %v", pc, file.Name)))
	default:
		ins = &file.Instructions[pc]
	}

	return
}

// Halted returns true if the program has finished.
func (cp *Cpu) Halted() bool {
	_, err := cp.Current()
	return errors.Is(err, ErrHalted)
}

// Build resolves the effect of the next instruction, without applying it.
// The Sequence first advances PC, then performs the instruction.
func (cp *Cpu) Build() (seq Sequence, err error) {
	ins, err := cp.Current()
	if err != nil {
		if !errors.Is(err, ErrHalted) {
			dbg := cp.Where()
			err = &SimulationError{File: dbg.File, Err: err}
		}
		return
	}

	defer func() {
		if err != nil {
			dbg := cp.Where()
			err = &SimulationError{File: dbg.File, LineNo: ins.LineNo, Line: ins.String(), Err: err}
			seq = nil
		}
	}()

	pc := cp.Registers.Get(REG_PC)
	advance, err := RegisterTransform(REG_PC, pc+1)
	if err != nil {
		return
	}

	body, err := cp.Instructions.Build(&fetchState{State: cp, nextPc: pc + 1}, ins)
	if err != nil {
		return
	}

	seq = NewSequence(advance).Concat(body)
	return
}

// TryStep executes a single instruction without blocking. If the
// instruction needs terminal input that has not arrived, ErrInputWait
// is returned.
// On error, the CPU state is unchanged.
func (cp *Cpu) TryStep() (err error) {
	seq, err := cp.Build()
	if err != nil {
		return
	}

	if cp.Verbose {
		dbg := cp.Where()
		log.Printf("%v:%d: %v", dbg.File, dbg.LineNo, dbg.Instruction)
	}

	cp.Apply(seq)

	return
}

// Step executes a single instruction, waiting for terminal input when
// the instruction needs it.
// On error, the CPU state is unchanged.
func (cp *Cpu) Step() (err error) {
	for {
		err = cp.TryStep()
		if !errors.Is(err, ErrInputWait) {
			return
		}

		err = cp.Tape.Wait(context.Background())
		if err != nil {
			return
		}
	}
}

// Apply applies a sequence and records it in the undo history.
func (cp *Cpu) Apply(seq Sequence) {
	seq.Apply(cp)

	if cp.Verbose {
		log.Printf("  %v", seq)
	}

	cp.history = append(cp.history, seq)
	if cp.HistoryLimit > 0 && len(cp.history) > cp.HistoryLimit {
		cp.history = cp.history[len(cp.history)-cp.HistoryLimit:]
	}

	cp.Ticks++
}

// StepBack undoes the most recently applied sequence.
// Returns false if the history is empty.
func (cp *Cpu) StepBack() (ok bool) {
	if len(cp.history) == 0 {
		return
	}

	last := len(cp.history) - 1
	seq := cp.history[last]
	cp.history[last] = nil
	cp.history = cp.history[:last]

	seq.Undo(cp)
	cp.Ticks--

	if cp.Verbose {
		log.Printf("cpu: undo %v", seq)
	}

	ok = true
	return
}

// History returns the number of sequences that can be undone.
func (cp *Cpu) History() int {
	return len(cp.history)
}

// String returns the current CPU state as a string.
func (cp *Cpu) String() (text string) {
	for reg, value := range cp.Registers.All() {
		text += fmt.Sprintf("% 5s: %04X_%04X_%04X_%04X\n", reg,
			uint16(value>>48), uint16(value>>32), uint16(value>>16), uint16(value))
	}

	return
}
