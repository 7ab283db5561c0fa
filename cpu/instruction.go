// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"strings"
)

// Instruction is a decoded line of a program.
type Instruction struct {
	LineNo int       // Source line number.
	Words  []string  // Source words.
	Name   string    // Instruction name.
	Args   []Operand // Operands.
}

// String returns the instruction in assembler syntax.
func (ins Instruction) String() string {
	parts := make([]string, 0, 1+len(ins.Args))
	parts = append(parts, ins.Name)
	for _, arg := range ins.Args {
		parts = append(parts, arg.String())
	}
	return strings.Join(parts, " ")
}

// Handler builds the effect of an instruction from the engine state and
// its operands. A Handler must not change the engine.
type Handler func(st State, args []Operand) (Sequence, error)

// InstructionDef describes an instruction of the instruction set.
type InstructionDef struct {
	Name    string
	Arity   int
	Handler Handler
}

// InstructionSet maps instruction names to their definitions.
type InstructionSet map[string]InstructionDef

// Lookup finds an instruction definition by name.
func (is InstructionSet) Lookup(name string) (def InstructionDef, err error) {
	def, ok := is[strings.ToLower(name)]
	if !ok {
		err = ErrInstruction(name)
	}
	return
}

// Check verifies that an instruction exists and has the right number of
// operands.
func (is InstructionSet) Check(ins *Instruction) (def InstructionDef, err error) {
	def, err = is.Lookup(ins.Name)
	if err != nil {
		return
	}

	if len(ins.Args) != def.Arity {
		err = errors.Join(ErrArgumentCount,
			errors.New(f("%v takes %d operands, not %d", def.Name, def.Arity, len(ins.Args))))
	}
	return
}

// Build resolves an instruction against 'st' into its Sequence.
func (is InstructionSet) Build(st State, ins *Instruction) (seq Sequence, err error) {
	def, err := is.Check(ins)
	if err != nil {
		return
	}

	seq, err = def.Handler(st, ins.Args)
	if err != nil {
		seq = nil
	}
	return
}

// define adds an instruction, and any aliases of it.
func (is InstructionSet) define(arity int, handler Handler, names ...string) {
	for _, name := range names {
		is[name] = InstructionDef{Name: name, Arity: arity, Handler: handler}
	}
}

// NewInstructionSet builds the complete instruction set.
func NewInstructionSet() (is InstructionSet) {
	is = InstructionSet{}

	// Function and control flow.
	is.define(1, jump, "jump", "j")
	is.define(1, call, "call", "jal")
	is.define(0, _return, "return")
	is.define(1, exit, "exit")

	// Data movement.
	is.define(2, move, "mov", "move")
	is.define(1, push, "push")
	is.define(1, pop, "pop")

	// Arithmetic.
	is.define(3, binaryOp(opAdd), "add")
	is.define(3, binaryOp(opSub), "sub")
	is.define(3, mul, "mul")
	is.define(3, div, "div")
	is.define(3, binaryOp(opMod), "mod")
	is.define(3, binaryOp(opAnd), "and")
	is.define(3, binaryOp(opOr), "or")
	is.define(3, binaryOp(opXor), "xor")
	is.define(3, binaryOp(opSll), "sll")
	is.define(3, binaryOp(opSrl), "srl")
	is.define(3, binaryOp(opSra), "sra")
	is.define(2, not, "not")
	is.define(1, increment(1), "inc")
	is.define(1, increment(^Word(0)), "dec")

	// Branches.
	is.define(3, branch(condEq), "beq")
	is.define(3, branch(condNe), "bne")
	is.define(3, branch(condLt), "blt")
	is.define(3, branch(condLe), "ble")
	is.define(3, branch(condGt), "bgt")
	is.define(3, branch(condGe), "bge")

	// Terminal.
	is.define(1, printi, "printi")
	is.define(1, printc, "printc")
	is.define(1, readi, "readi")
	is.define(1, readc, "readc")

	return
}
