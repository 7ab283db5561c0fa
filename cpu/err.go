// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"

	"github.com/ezrec/ezasm/io"
	"github.com/ezrec/ezasm/translate"
)

var f = translate.From

var (
	// Simulation errors
	ErrOutOfBounds     = errors.New(f("out of bounds access"))
	ErrStackUnderflow  = errors.New(f("stack underflow"))
	ErrStackFull       = errors.New(f("stack full"))
	ErrInvalidOperand  = errors.New(f("invalid operand"))
	ErrUnresolvedLabel = errors.New(f("unresolved label"))
	ErrArithmetic      = errors.New(f("arithmetic fault"))
	ErrInputInvalid    = errors.New(f("input invalid"))
	ErrHalted          = errors.New(f("program halted"))

	// Not a fault: the instruction needs terminal input that has not
	// arrived yet.
	ErrInputWait = io.ErrTapeWait

	// Instruction decode errors
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrArgumentCount      = errors.New(f("argument count"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrFileInvalid        = errors.New(f("file invalid"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrImportSyntax    = errors.New(f("import syntax"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrLabelInvalid    = errors.New(f("label invalid"))
	ErrOperandSyntax   = errors.New(f("operand syntax"))
)

// ErrLabelMissing reports a label reference without a definition.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

func (el ErrLabelMissing) Is(err error) bool {
	return err == ErrUnresolvedLabel
}

// ErrRegisterName reports an unknown register name.
type ErrRegisterName string

func (er ErrRegisterName) Error() string {
	return f("register %v unknown", string(er))
}

func (er ErrRegisterName) Is(err error) bool {
	return err == ErrRegisterInvalid
}

// ErrAddress reports a memory address outside of memory.
type ErrAddress Word

func (ea ErrAddress) Error() string {
	return f("address %v out of bounds", Word(ea))
}

func (ea ErrAddress) Is(err error) bool {
	return err == ErrOutOfBounds
}

// ErrInstruction reports an unknown instruction name.
type ErrInstruction string

func (ei ErrInstruction) Error() string {
	return f("instruction %v unknown", string(ei))
}

func (ei ErrInstruction) Is(err error) bool {
	return err == ErrInstructionInvalid
}

// ErrParseNumber reports a malformed numeric operand.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrParseExpression reports a $(...) expression that did not evaluate
// to an integer.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax locates an assembler error.
type ErrSyntax struct {
	File   string
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("%v:%d '%v' %v", err.File, err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// SimulationError locates a fault raised while building an instruction's
// effect. The engine state is unchanged when one is returned.
type SimulationError struct {
	File   string
	LineNo int
	Line   string
	Err    error
}

func (err *SimulationError) Error() string {
	return f("%v:%d '%v' %v", err.File, err.LineNo, err.Line, err.Err)
}

func (err *SimulationError) Unwrap() error {
	return err.Err
}
