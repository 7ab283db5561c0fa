// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_LoadStore(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(64)
	assert.Equal(Word(64), mem.Size())

	mem.store(8, 0x1122334455667788)
	value, err := mem.Load(8)
	assert.NoError(err)
	assert.Equal(Word(0x1122334455667788), value)
	assert.Equal(byte(0x88), mem.Data[8])

	// unaligned
	mem.store(3, 0xabcd)
	value, err = mem.Load(3)
	assert.NoError(err)
	assert.Equal(Word(0xabcd), value)

	value, err = mem.Load(56)
	assert.NoError(err)
	assert.Equal(Word(0), value)

	mem.Reset()
	value, _ = mem.Load(8)
	assert.Equal(Word(0), value)
}

func TestMemory_OutOfBounds(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(64)

	for _, addr := range []Word{57, 64, 1000, END_PC} {
		_, err := mem.Load(addr)
		assert.ErrorIs(err, ErrOutOfBounds, addr)
		assert.ErrorIs(mem.Check(addr), ErrOutOfBounds, addr)
	}

	tiny := NewMemory(4)
	_, err := tiny.Load(0)
	assert.ErrorIs(err, ErrOutOfBounds)
}
