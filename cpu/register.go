// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"iter"
	"strings"
)

// Register identifies a cell of the register file.
type Register int

const (
	REG_ZERO = Register(iota) // zero
	REG_PID                   // pid
	REG_FID                   // fid
	REG_PC                    // pc
	REG_SP                    // sp
	REG_RA                    // ra
	REG_A0                    // a0
	REG_A1                    // a1
	REG_A2                    // a2
	REG_R0                    // r0
	REG_R1                    // r1
	REG_R2                    // r2
	REG_S0                    // s0
	REG_S1                    // s1
	REG_S2                    // s2
	REG_S3                    // s3
	REG_S4                    // s4
	REG_S5                    // s5
	REG_S6                    // s6
	REG_S7                    // s7
	REG_S8                    // s8
	REG_S9                    // s9
	REG_T0                    // t0
	REG_T1                    // t1
	REG_T2                    // t2
	REG_T3                    // t3
	REG_T4                    // t4
	REG_T5                    // t5
	REG_T6                    // t6
	REG_T7                    // t7
	REG_T8                    // t8
	REG_T9                    // t9
	REG_HI                    // hi
	REG_LO                    // lo

	REGISTER_COUNT = int(iota) // Number of registers.
)

var registerNames = [REGISTER_COUNT]string{
	"zero", "pid", "fid", "pc", "sp", "ra",
	"a0", "a1", "a2",
	"r0", "r1", "r2",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8", "t9",
	"hi", "lo",
}

var registerMap = func() (regs map[string]Register) {
	regs = make(map[string]Register, REGISTER_COUNT)
	for n, name := range registerNames {
		regs[name] = Register(n)
	}
	return
}()

// String returns the name of the register.
func (reg Register) String() string {
	if !reg.Valid() {
		return f("reg(%d)", int(reg))
	}
	return registerNames[reg]
}

// Valid returns true if the register is part of the register file.
func (reg Register) Valid() bool {
	return reg >= 0 && int(reg) < REGISTER_COUNT
}

// Writable returns true if instructions may change the register.
func (reg Register) Writable() bool {
	return reg.Valid() && reg != REG_ZERO
}

// RegisterByName finds a register by name. The name may have a
// leading '$' and is not case sensitive.
func RegisterByName(name string) (reg Register, err error) {
	key := strings.ToLower(strings.TrimPrefix(name, "$"))
	reg, ok := registerMap[key]
	if !ok {
		err = ErrRegisterName(name)
	}
	return
}

// Registers is the register file.
type Registers [REGISTER_COUNT]Word

// Get returns the value of a register.
func (regs *Registers) Get(reg Register) Word {
	return regs[reg]
}

// set changes a register. Only the transformation layer and Reset may
// call this.
func (regs *Registers) set(reg Register, value Word) {
	regs[reg] = value
}

// Reset zeros all of the registers.
func (regs *Registers) Reset() {
	clear(regs[:])
}

// All iterates over every register and its value.
func (regs *Registers) All() iter.Seq2[Register, Word] {
	return func(yield func(Register, Word) bool) {
		for n, value := range regs {
			if !yield(Register(n), value) {
				return
			}
		}
	}
}
