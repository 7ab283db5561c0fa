// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"strconv"
)

// printi writes the operand as a signed decimal integer.
func printi(st State, args []Operand) (seq Sequence, err error) {
	value, err := args[0].Get(st)
	if err != nil {
		return
	}

	for _, c := range []byte(strconv.FormatInt(value.Int(), 10)) {
		seq = append(seq, OutputTransform(c))
	}
	return
}

// printc writes the low byte of the operand.
func printc(st State, args []Operand) (seq Sequence, err error) {
	value, err := args[0].Get(st)
	if err != nil {
		return
	}

	seq = NewSequence(OutputTransform(byte(value)))
	return
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// readi reads a signed decimal integer, skipping leading white space.
// The integer ends at the first byte that is not a digit, or at the end
// of input.
func readi(st State, args []Operand) (seq Sequence, err error) {
	var c byte
	var ok bool

	n := 0
	for {
		c, ok, err = st.InputPeek(n)
		if err != nil {
			return
		}
		if !ok || !isSpace(c) {
			break
		}
		n++
	}

	start := n
	if ok && (c == '-' || c == '+') {
		n++
	}

	var text []byte
	for {
		c, ok, err = st.InputPeek(n)
		if err != nil {
			return
		}
		if !ok || !isDigit(c) {
			break
		}
		n++
	}

	for k := start; k < n; k++ {
		c, _, _ = st.InputPeek(k)
		text = append(text, c)
	}

	value, perr := strconv.ParseInt(string(text), 10, 64)
	if perr != nil {
		err = errors.Join(ErrInputInvalid, errors.New(f("'%v' is not an integer", string(text))))
		return
	}

	dst, err := args[0].Transform(st, Word(value))
	if err != nil {
		return
	}

	seq = NewSequence(dst, InputTransform(st.InputCursor()+Word(n)))
	return
}

// readc reads a single byte. At the end of input, the operand is set to
// -1 and the input cursor does not move.
func readc(st State, args []Operand) (seq Sequence, err error) {
	c, ok, err := st.InputPeek(0)
	if err != nil {
		return
	}

	if !ok {
		var dst Transformation
		dst, err = args[0].Transform(st, ^Word(0))
		if err != nil {
			return
		}
		seq = NewSequence(dst)
		return
	}

	dst, err := args[0].Transform(st, Word(c))
	if err != nil {
		return
	}

	seq = NewSequence(dst, InputTransform(st.InputCursor()+1))
	return
}
