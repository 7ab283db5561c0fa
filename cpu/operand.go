// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
)

// OperandKind is the kind of an instruction operand.
type OperandKind int

const (
	OPERAND_IMMEDIATE = OperandKind(0) // immediate
	OPERAND_REGISTER  = OperandKind(1) // register
	OPERAND_MEMORY    = OperandKind(2) // memory
	OPERAND_LABEL     = OperandKind(3) // label
)

var operandKindNames = map[OperandKind]string{
	OPERAND_IMMEDIATE: "immediate",
	OPERAND_REGISTER:  "register",
	OPERAND_MEMORY:    "memory",
	OPERAND_LABEL:     "label",
}

func (kind OperandKind) String() string {
	name, ok := operandKindNames[kind]
	if !ok {
		return fmt.Sprintf("kind(%d)", int(kind))
	}
	return name
}

// Operand is a resolved instruction argument.
type Operand struct {
	Kind     OperandKind
	Value    Word     // Immediate value, or memory offset.
	Register Register // Register, or memory base register.
	Label    string   // Label name.
}

// Immediate makes an immediate operand.
func Immediate(value Word) Operand {
	return Operand{Kind: OPERAND_IMMEDIATE, Value: value}
}

// RegisterRef makes a register operand.
func RegisterRef(reg Register) Operand {
	return Operand{Kind: OPERAND_REGISTER, Register: reg}
}

// MemoryRef makes an operand for the word at 'offset' bytes past the
// address held in 'base'.
func MemoryRef(base Register, offset Word) Operand {
	return Operand{Kind: OPERAND_MEMORY, Register: base, Value: offset}
}

// LabelRef makes a label operand.
func LabelRef(name string) Operand {
	return Operand{Kind: OPERAND_LABEL, Label: name}
}

// Address returns the effective address of a memory operand.
func (op Operand) Address(st State) (addr Word, err error) {
	if op.Kind != OPERAND_MEMORY {
		err = errors.Join(ErrInvalidOperand, errors.New(f("%v is not a memory reference", op)))
		return
	}

	addr = st.Register(op.Register) + op.Value
	return
}

// Get resolves the value of the operand.
func (op Operand) Get(st State) (value Word, err error) {
	switch op.Kind {
	case OPERAND_IMMEDIATE:
		value = op.Value
	case OPERAND_REGISTER:
		if !op.Register.Valid() {
			err = errors.Join(ErrInvalidOperand, ErrRegisterInvalid)
			return
		}
		value = st.Register(op.Register)
	case OPERAND_MEMORY:
		var addr Word
		addr, err = op.Address(st)
		if err != nil {
			return
		}
		value, err = st.Load(addr)
	case OPERAND_LABEL:
		var label Label
		label, err = st.Label(op.Label)
		if err != nil {
			return
		}
		value = label.Address
	default:
		err = ErrInvalidOperand
	}

	return
}

// OwningFile returns the id of the file that defines a label operand.
func (op Operand) OwningFile(st State) (fid Word, err error) {
	if op.Kind != OPERAND_LABEL {
		err = errors.Join(ErrInvalidOperand, errors.New(f("%v is not a label", op)))
		return
	}

	label, err := st.Label(op.Label)
	if err != nil {
		return
	}

	fid = label.File
	return
}

// Transform builds a write of 'value' to the operand. Only register and
// memory operands are writable.
func (op Operand) Transform(st State, value Word) (t Transformation, err error) {
	switch op.Kind {
	case OPERAND_REGISTER:
		t, err = RegisterTransform(op.Register, value)
	case OPERAND_MEMORY:
		var addr Word
		addr, err = op.Address(st)
		if err != nil {
			return
		}
		t, err = MemoryTransform(st, addr, value)
	default:
		err = errors.Join(ErrInvalidOperand, errors.New(f("%v is not writable", op)))
	}

	return
}

// String returns the operand in assembler syntax.
func (op Operand) String() string {
	switch op.Kind {
	case OPERAND_IMMEDIATE:
		return fmt.Sprintf("%d", op.Value.Int())
	case OPERAND_REGISTER:
		return "$" + op.Register.String()
	case OPERAND_MEMORY:
		if op.Value == 0 {
			return fmt.Sprintf("($%v)", op.Register)
		}
		return fmt.Sprintf("%d($%v)", op.Value.Int(), op.Register)
	case OPERAND_LABEL:
		return op.Label
	}
	return "?"
}
