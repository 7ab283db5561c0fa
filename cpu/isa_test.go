// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestIsa_Arithmetic(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line     string
		expected int64
	}){
		{"add $t0 2 3", 5},
		{"sub $t0 2 3", -1},
		{"mul $t0 -3 4", -12},
		{"div $t0 -7 2", -3},
		{"mod $t0 -7 2", -1},
		{"and $t0 0b1100 0b1010", 0b1000},
		{"or $t0 0b1100 0b1010", 0b1110},
		{"xor $t0 0b1100 0b1010", 0b0110},
		{"sll $t0 1 4", 16},
		{"sll $t0 1 68", 16},
		{"srl $t0 -1 60", 0xf},
		{"sra $t0 -16 2", -4},
		{"not $t0 0", -1},
		{"mov $t0 0x7fff", 0x7fff},
		{"mov $t0 'A'", 65},
		{"mov $t0 $(3 * WORD_SIZE)", 24},
		{"inc $t0", 1},
		{"dec $t0", -1},
	}

	for _, entry := range table {
		cp := assemble(t, entry.line)
		assert.NoError(cp.Step(), entry.line)
		assert.Equal(entry.expected, cp.Register(REG_T0).Int(), entry.line)
	}
}

func TestIsa_MulDiv(t *testing.T) {
	assert := assert.New(t)

	cp := assemble(t,
		"mul $t0 -3 4",
		"mul $t1 0x4000000000000000 4",
		"div $t2 -7 2",
	)

	assert.NoError(runToHalt(cp, 10))
	assert.Equal(int64(-12), cp.Register(REG_T0).Int())
	assert.Equal(Word(0), cp.Register(REG_T1))
	assert.Equal(Word(1), cp.Register(REG_HI))
	assert.Equal(int64(-3), cp.Register(REG_T2).Int())
	assert.Equal(int64(-1), cp.Register(REG_LO).Int())

	cp = assemble(t, "mul $t0 -3 4")
	assert.NoError(cp.Step())
	assert.Equal(int64(-1), cp.Register(REG_HI).Int())
}

func TestIsa_Memory(t *testing.T) {
	assert := assert.New(t)

	// Memory references are always relative to a register.
	_, err := (&Assembler{}).Parse(strings.NewReader("mov $t3 (2008)"))
	assert.ErrorIs(err, ErrRegisterInvalid)

	cp := assemble(t,
		"mov $t1 2000",
		"mov 8($t1) 77",
		"mov $t2 8($t1)",
		"add $t3 -8($t1) 1",
	)
	assert.NoError(runToHalt(cp, 10))
	assert.Equal(Word(77), cp.Register(REG_T2))
	assert.Equal(Word(1), cp.Register(REG_T3))
	value, _ := cp.Load(2008)
	assert.Equal(Word(77), value)
}

func TestIsa_PushPop(t *testing.T) {
	assert := assert.New(t)

	cp := assemble(t,
		"mov $t0 11",
		"push $t0",
		"push 22",
		"pop $t1",
		"pop $t2",
	)
	base := cp.StackBase()

	assert.NoError(cp.Step())
	assert.NoError(cp.Step())
	assert.Equal(base-WORD_SIZE, cp.Register(REG_SP))
	assert.NoError(cp.Step())
	assert.Equal(base-2*WORD_SIZE, cp.Register(REG_SP))

	assert.NoError(runToHalt(cp, 10))
	assert.Equal(Word(22), cp.Register(REG_T1))
	assert.Equal(Word(11), cp.Register(REG_T2))
	assert.Equal(base, cp.Register(REG_SP))
}

func TestIsa_Branch(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op    string
		a, b  int64
		taken bool
	}){
		{"beq", 1, 1, true},
		{"beq", 1, 2, false},
		{"bne", 1, 2, true},
		{"bne", 2, 2, false},
		{"blt", -1, 0, true},
		{"blt", 0, 0, false},
		{"ble", 0, 0, true},
		{"ble", 1, 0, false},
		{"bgt", 0, -1, true},
		{"bgt", 0, 0, false},
		{"bge", 0, 0, true},
		{"bge", -1, 0, false},
	}

	for _, entry := range table {
		line := fmt.Sprintf("%v %d %d there", entry.op, entry.a, entry.b)
		cp := assemble(t,
			line,
			"mov $t0 1",
			"there: mov $t1 1",
		)

		assert.NoError(cp.Step(), line)
		if entry.taken {
			assert.Equal(Word(2), cp.Register(REG_PC), line)
		} else {
			assert.Equal(Word(1), cp.Register(REG_PC), line)
		}
	}

	// Targets are resolved even when not taken.
	cp := NewCpu(4096, 1024)
	ins := &Instruction{Name: "beq", Args: []Operand{Immediate(1), Immediate(2), LabelRef("nowhere")}}
	seq, err := cp.Instructions.Build(cp, ins)
	assert.ErrorIs(err, ErrUnresolvedLabel)
	assert.Nil(seq)
}

func TestIsa_Terminal(t *testing.T) {
	assert := assert.New(t)

	cp := assemble(t,
		"readi $t0",
		"readc $t1",
		"readc $t2",
		"printi $t0",
		"printc ','",
		"printc $t1",
		"readc $t3",
		"readi $t4",
	)
	cp.Tape.SetInput(strings.NewReader("  -42 x"))

	for range 7 {
		assert.NoError(cp.Step())
	}
	assert.Equal(int64(-42), cp.Register(REG_T0).Int())
	assert.Equal(Word(' '), cp.Register(REG_T1))
	assert.Equal(Word('x'), cp.Register(REG_T2))
	assert.Equal("-42, ", string(cp.Tape.Bytes()))

	// End of input
	assert.Equal(int64(-1), cp.Register(REG_T3).Int())
	assert.Equal(Word(7), cp.InputCursor())

	err := cp.Step()
	assert.ErrorIs(err, ErrInputInvalid)
}

func TestIsa_Exit(t *testing.T) {
	assert := assert.New(t)

	cp := assemble(t,
		"exit 5",
		"mov $t0 1",
	)

	assert.NoError(cp.Step())
	assert.Equal(int64(5), cp.ExitCode())
	assert.Equal(END_PC, cp.Register(REG_PC))
	assert.True(cp.Halted())
	assert.ErrorIs(cp.Step(), ErrHalted)
	assert.Equal(Word(0), cp.Register(REG_T0))

	assert.True(cp.StepBack())
	assert.Equal(Word(0), cp.Register(REG_PC))
	assert.Equal(int64(0), cp.ExitCode())
}

// callProgram has a call from file 1 to label L, at instruction 40 of
// file 2.
func callProgram() (prog *Program) {
	prog = &Program{}
	prog.AddFile("zero")

	main := prog.AddFile("main")
	main.Instructions = []Instruction{
		{LineNo: 1, Name: "call", Args: []Operand{LabelRef("L")}},
	}

	other := prog.AddFile("other")
	for n := range 40 {
		other.Instructions = append(other.Instructions, Instruction{
			LineNo: n + 1, Name: "inc", Args: []Operand{RegisterRef(REG_T0)},
		})
	}
	_ = other.Define("L")
	other.Instructions = append(other.Instructions, Instruction{LineNo: 41, Name: "return"})

	return
}

func TestIsa_Call(t *testing.T) {
	assert := assert.New(t)

	cp := NewCpu(4096, 1024)
	cp.SetProgram(callProgram())
	cp.Registers.set(REG_FID, 1)
	cp.Registers.set(REG_RA, 0x77)
	before := snap(cp)
	sp := cp.Register(REG_SP)

	assert.NoError(cp.Step())
	assert.Equal(Word(40), cp.Register(REG_PC))
	assert.Equal(Word(2), cp.Register(REG_FID))
	assert.Equal(Word(1), cp.Register(REG_RA))
	assert.Equal(sp-2*WORD_SIZE, cp.Register(REG_SP))

	// Caller's FID on top, caller's RA below.
	top, _ := cp.Load(sp - 2*WORD_SIZE)
	assert.Equal(Word(1), top)
	below, _ := cp.Load(sp - WORD_SIZE)
	assert.Equal(Word(0x77), below)

	assert.Equal("other", cp.Where().File)

	// return
	assert.NoError(cp.Step())
	assert.Equal(Word(1), cp.Register(REG_PC))
	assert.Equal(Word(1), cp.Register(REG_FID))
	assert.Equal(Word(0x77), cp.Register(REG_RA))
	assert.Equal(sp, cp.Register(REG_SP))
	assert.True(cp.Halted())

	assert.True(cp.StepBack())
	assert.True(cp.StepBack())
	assert.Empty(cmp.Diff(before, snap(cp)))
}

func TestIsa_CallSameFile(t *testing.T) {
	assert := assert.New(t)

	cp := assemble(t,
		"call f",
		"exit $t0",
		"f: mov $t0 3",
		"return",
	)

	assert.NoError(cp.Step())
	assert.Equal(Word(2), cp.Register(REG_PC))
	assert.Equal(Word(1), cp.Register(REG_RA))
	assert.Equal(Word(0), cp.Register(REG_FID))

	// Register targets jump within the current file.
	cp = assemble(t,
		"mov $t1 3",
		"call $t1",
		"exit 1",
		"return",
	)
	assert.NoError(runToHalt(cp, 10))
	assert.Equal(int64(1), cp.ExitCode())
	assert.Equal(cp.StackBase(), cp.Register(REG_SP))
}

func TestIsa_NestedCall(t *testing.T) {
	assert := assert.New(t)

	cp := assemble(t,
		"main:",
		"  call f",
		"  exit $t0",
		"f:",
		"  inc $t0",
		"  blt $t0 5 deeper",
		"  return",
		"deeper:",
		"  call f",
		"  return",
	)
	initial := snap(cp)

	assert.NoError(runToHalt(cp, 100))
	assert.Equal(int64(5), cp.ExitCode())
	assert.Equal(Word(0), cp.Register(REG_RA))
	assert.Equal(cp.StackBase(), cp.Register(REG_SP))

	for cp.StepBack() {
	}
	assert.Empty(cmp.Diff(initial, snap(cp)))
}

func TestIsa_ReturnUnderflow(t *testing.T) {
	assert := assert.New(t)

	cp := assemble(t, "return")

	err := cp.Step()
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.Equal(Word(0), cp.Register(REG_PC))
}
