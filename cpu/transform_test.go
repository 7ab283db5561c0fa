// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// mustTransform fails the test on a Transformation construction error.
func mustTransform(t *testing.T) func(Transformation, error) Transformation {
	return func(tr Transformation, err error) Transformation {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
		return tr
	}
}

func TestTransformation_Register(t *testing.T) {
	assert := assert.New(t)
	must := mustTransform(t)

	_, err := RegisterTransform(REG_ZERO, 1)
	assert.ErrorIs(err, ErrInvalidOperand)
	assert.ErrorIs(err, ErrRegisterInvalid)

	_, err = RegisterTransform(Register(REGISTER_COUNT), 1)
	assert.ErrorIs(err, ErrRegisterInvalid)

	cp := NewCpu(256, 64)
	cp.Registers.set(REG_T0, 7)

	tr := must(RegisterTransform(REG_T0, 9))
	tr.Apply(cp)
	assert.Equal(Word(9), cp.Register(REG_T0))
	assert.Equal(Word(7), tr.Prior)

	tr.Undo(cp)
	assert.Equal(Word(7), cp.Register(REG_T0))
	assert.Equal("t0 <- 0x0000000000000009", tr.String())
}

func TestTransformation_Memory(t *testing.T) {
	assert := assert.New(t)
	must := mustTransform(t)

	cp := NewCpu(256, 64)

	_, err := MemoryTransform(cp, 252, 1)
	assert.ErrorIs(err, ErrOutOfBounds)

	tr := must(MemoryTransform(cp, 16, 0xabc))
	tr.Apply(cp)
	value, _ := cp.Load(16)
	assert.Equal(Word(0xabc), value)

	tr.Undo(cp)
	value, _ = cp.Load(16)
	assert.Equal(Word(0), value)
}

func TestTransformation_Terminal(t *testing.T) {
	assert := assert.New(t)

	cp := NewCpu(256, 64)
	cp.Tape.SetInput(strings.NewReader("xyz"))

	out := OutputTransform('!')
	out.Apply(cp)
	assert.Equal("!", string(cp.Tape.Bytes()))
	out.Undo(cp)
	assert.Equal("", string(cp.Tape.Bytes()))

	for {
		_, ok, err := cp.InputPeek(1)
		if errors.Is(err, ErrInputWait) {
			assert.NoError(cp.Tape.Wait(context.Background()))
			continue
		}
		assert.NoError(err)
		assert.True(ok)
		break
	}

	in := InputTransform(2)
	in.Apply(cp)
	assert.Equal(Word(2), cp.InputCursor())
	in.Undo(cp)
	assert.Equal(Word(0), cp.InputCursor())
}

func TestSequence_RoundTrip(t *testing.T) {
	assert := assert.New(t)
	must := mustTransform(t)

	cp := NewCpu(256, 64)
	cp.Registers.set(REG_T0, 7)
	before := snap(cp)

	// Repeated writes to a location undo to the original value.
	seq := NewSequence(
		must(RegisterTransform(REG_T0, 9)),
		must(MemoryTransform(cp, 16, 0xabc)),
		OutputTransform('x'),
		must(RegisterTransform(REG_T0, 10)),
		must(MemoryTransform(cp, 20, 0xdef)),
	)

	seq.Apply(cp)
	assert.Equal(Word(10), cp.Register(REG_T0))
	assert.Equal("x", string(cp.Tape.Bytes()))
	after := snap(cp)

	seq.Undo(cp)
	assert.Empty(cmp.Diff(before, snap(cp)))

	// Re-applying gives the same result.
	seq.Apply(cp)
	assert.Empty(cmp.Diff(after, snap(cp)))
}

func TestSequence_Concat(t *testing.T) {
	assert := assert.New(t)

	a := NewSequence(OutputTransform('a'))
	b := NewSequence(OutputTransform('b'), OutputTransform('c'))

	ab := a.Concat(b)
	assert.Len(ab, 3)
	assert.Len(a, 1)
	assert.Len(b, 2)

	// Concat never aliases its inputs.
	ab[0].Value = 'z'
	assert.Equal(Word('a'), a[0].Value)

	assert.Len(Sequence{}.Concat(nil), 0)
	assert.Equal("output <- 0x0000000000000061; output <- 0x0000000000000062; output <- 0x0000000000000063",
		a.Concat(b).String())
}
