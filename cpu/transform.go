// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"strings"
)

// LocationKind is the kind of storage a Transformation targets.
type LocationKind int

const (
	LOCATION_REGISTER = LocationKind(0) // register
	LOCATION_MEMORY   = LocationKind(1) // memory
	LOCATION_OUTPUT   = LocationKind(2) // output
	LOCATION_INPUT    = LocationKind(3) // input
)

// Location is the target of a Transformation.
type Location struct {
	Kind     LocationKind
	Register Register // LOCATION_REGISTER only
	Address  Word     // LOCATION_MEMORY only
}

func (loc Location) String() string {
	switch loc.Kind {
	case LOCATION_REGISTER:
		return loc.Register.String()
	case LOCATION_MEMORY:
		return fmt.Sprintf("[%v]", loc.Address)
	case LOCATION_OUTPUT:
		return "output"
	case LOCATION_INPUT:
		return "input"
	}
	return "?"
}

// Transformation is a single reversible write.
//
// For the output location, Value is the byte appended and Prior the
// output length. For the input location, Value and Prior are input
// cursor positions.
type Transformation struct {
	Location Location
	Value    Word
	Prior    Word // Captured by Apply.
}

// RegisterTransform builds a write of 'value' to 'reg'.
func RegisterTransform(reg Register, value Word) (t Transformation, err error) {
	if !reg.Writable() {
		err = errors.Join(ErrInvalidOperand, ErrRegisterInvalid)
		return
	}

	t = Transformation{
		Location: Location{Kind: LOCATION_REGISTER, Register: reg},
		Value:    value,
	}
	return
}

// MemoryTransform builds a write of 'value' to the word at 'addr'.
func MemoryTransform(st State, addr Word, value Word) (t Transformation, err error) {
	err = checkAddress(st.MemorySize(), addr)
	if err != nil {
		return
	}

	t = Transformation{
		Location: Location{Kind: LOCATION_MEMORY, Address: addr},
		Value:    value,
	}
	return
}

// OutputTransform builds the output of a single byte.
func OutputTransform(value byte) Transformation {
	return Transformation{
		Location: Location{Kind: LOCATION_OUTPUT},
		Value:    Word(value),
	}
}

// InputTransform builds a move of the input cursor.
func InputTransform(cursor Word) Transformation {
	return Transformation{
		Location: Location{Kind: LOCATION_INPUT},
		Value:    cursor,
	}
}

// Apply performs the write, capturing the prior value.
func (t *Transformation) Apply(cp *Cpu) {
	loc := t.Location
	switch loc.Kind {
	case LOCATION_REGISTER:
		t.Prior = cp.Registers.Get(loc.Register)
		cp.Registers.set(loc.Register, t.Value)
	case LOCATION_MEMORY:
		t.Prior, _ = cp.Memory.Load(loc.Address)
		cp.Memory.store(loc.Address, t.Value)
	case LOCATION_OUTPUT:
		t.Prior = Word(cp.Tape.Written())
		cp.Tape.Send(byte(t.Value))
	case LOCATION_INPUT:
		t.Prior = Word(cp.Tape.Cursor())
		_ = cp.Tape.SetCursor(int(t.Value))
	}
}

// Undo restores the value captured by Apply.
func (t *Transformation) Undo(cp *Cpu) {
	loc := t.Location
	switch loc.Kind {
	case LOCATION_REGISTER:
		cp.Registers.set(loc.Register, t.Prior)
	case LOCATION_MEMORY:
		cp.Memory.store(loc.Address, t.Prior)
	case LOCATION_OUTPUT:
		cp.Tape.Truncate(int(t.Prior))
	case LOCATION_INPUT:
		_ = cp.Tape.SetCursor(int(t.Prior))
	}
}

func (t Transformation) String() string {
	return fmt.Sprintf("%v <- %v", t.Location, t.Value)
}

// Sequence is the complete effect of one instruction.
type Sequence []Transformation

// NewSequence creates a sequence from transformations.
func NewSequence(ts ...Transformation) Sequence {
	return Sequence(ts)
}

// Concat returns a new sequence of this sequence's transformations
// followed by those of 'other'.
func (seq Sequence) Concat(other Sequence) (out Sequence) {
	out = make(Sequence, 0, len(seq)+len(other))
	out = append(out, seq...)
	out = append(out, other...)
	return
}

// Apply applies every transformation, in order.
func (seq Sequence) Apply(cp *Cpu) {
	for n := range seq {
		seq[n].Apply(cp)
	}
}

// Undo reverts every transformation, in reverse order.
func (seq Sequence) Undo(cp *Cpu) {
	for n := len(seq) - 1; n >= 0; n-- {
		seq[n].Undo(cp)
	}
}

func (seq Sequence) String() string {
	parts := make([]string, len(seq))
	for n, t := range seq {
		parts[n] = t.String()
	}
	return strings.Join(parts, "; ")
}
