// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
)

// Memory is a flat byte-addressable store. Words are little-endian and
// need not be aligned.
type Memory struct {
	Data []byte
}

// NewMemory creates a zeroed memory of 'size' bytes.
func NewMemory(size uint) (mem *Memory) {
	mem = &Memory{
		Data: make([]byte, size),
	}
	return
}

// Size returns the size of memory in bytes.
func (mem *Memory) Size() Word {
	return Word(len(mem.Data))
}

// Check verifies that a full word at 'addr' is inside memory.
func (mem *Memory) Check(addr Word) (err error) {
	return checkAddress(mem.Size(), addr)
}

func checkAddress(size Word, addr Word) (err error) {
	if size < WORD_SIZE || addr > size-WORD_SIZE {
		err = errors.Join(ErrOutOfBounds, ErrAddress(addr))
	}
	return
}

// Load reads the word at 'addr'.
func (mem *Memory) Load(addr Word) (value Word, err error) {
	err = mem.Check(addr)
	if err != nil {
		return
	}

	value = WordFromBytes(mem.Data[addr : addr+WORD_SIZE])
	return
}

// store writes the word at 'addr'. The address must have been checked.
func (mem *Memory) store(addr Word, value Word) {
	copy(mem.Data[addr:addr+WORD_SIZE], value.Bytes())
}

// Reset zeros memory.
func (mem *Memory) Reset() {
	clear(mem.Data)
}
