// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"encoding/binary"
	"fmt"
)

// Word is the unit of storage of registers and memory.
type Word uint64

const (
	WORD_SIZE = 8 // Size of a Word in bytes.

	// END_PC is the program counter value of a halted program.
	END_PC = Word(0xffff_ffff_ffff_ffff)
)

// Int interprets the word as a signed integer.
func (w Word) Int() int64 {
	return int64(w)
}

// Bytes returns the little-endian encoding of the word.
func (w Word) Bytes() (data []byte) {
	data = make([]byte, WORD_SIZE)
	binary.LittleEndian.PutUint64(data, uint64(w))
	return
}

// WordFromBytes decodes a little-endian word.
func WordFromBytes(data []byte) Word {
	return Word(binary.LittleEndian.Uint64(data))
}

// String returns the word as hexadecimal.
func (w Word) String() string {
	return fmt.Sprintf("0x%016x", uint64(w))
}
