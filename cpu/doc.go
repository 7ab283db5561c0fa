// Package cpu implements the execution engine and assembler for the ezasm
// simulator.
//
// The engine consists of a register file of 64-bit words, a flat
// byte-addressable memory with a downward growing stack at its top, and
// an undo history. Instructions never change the engine directly: each
// one describes its effect as a Sequence of Transformations, which the
// Cpu applies as a unit and can later undo. This is what allows the
// debugger to step backwards.
//
// Programs may span several source files. The FID register names the
// file whose instructions are executing, and the PC register is an
// index into that file's instruction list.
package cpu
