// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package io provides the terminal device of the ezasm simulator.
//
// A Tape keeps every byte it has read and every byte written by the
// program, so that the simulator can move the input cursor backwards
// and drop output when an instruction is undone.
package io

import (
	"context"
	"io"
	"sync"
)

// TAPE_READ_SIZE is the largest single read from the input.
const TAPE_READ_SIZE = 256

// Tape provides sequential byte I/O for a simulated program.
//
// Input is read by a background goroutine and retained. Peek never
// blocks: when the byte asked for has not arrived yet, it returns
// ErrTapeWait, and Wait blocks until more input arrives. Output is
// buffered until Flush.
//
// Only Wait may be called concurrently with the other methods.
type Tape struct {
	Output io.Writer

	mutex   sync.Mutex
	input   io.Reader
	gen     int           // Incremented for every new input.
	feeding bool          // Reader goroutine started.
	pending []byte        // Delivered by the reader, not yet received.
	closed  bool          // Reader goroutine hit the end of input.
	notify  chan struct{} // Signalled on delivery.

	received []byte
	eof      bool
	cursor   int

	sent    []byte
	flushed int
}

// SetInput replaces the input reader, discarding all input received
// from the previous one.
func (tc *Tape) SetInput(input io.Reader) {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	tc.input = input
	tc.gen++
	tc.feeding = false
	tc.pending = nil
	tc.closed = false

	tc.received = nil
	tc.eof = false
	tc.cursor = 0
}

// Rewind resets the input cursor and discards output.
// Input already received is kept, so a rewound tape replays it.
func (tc *Tape) Rewind() {
	tc.cursor = 0
	tc.sent = tc.sent[:0]
	tc.flushed = 0
}

// notifier returns the delivery channel. Must be called with the
// mutex held.
func (tc *Tape) notifier() chan struct{} {
	if tc.notify == nil {
		tc.notify = make(chan struct{}, 1)
	}
	return tc.notify
}

// feed reads 'input' until it fails, delivering to 'pending'.
// A feed of a replaced input exits at its next delivery.
func (tc *Tape) feed(input io.Reader, gen int) {
	var buff [TAPE_READ_SIZE]byte
	for {
		n, err := input.Read(buff[:])

		tc.mutex.Lock()
		if gen != tc.gen {
			tc.mutex.Unlock()
			return
		}
		tc.pending = append(tc.pending, buff[:n]...)
		if err != nil {
			tc.closed = true
		}
		notify := tc.notifier()
		tc.mutex.Unlock()

		select {
		case notify <- struct{}{}:
		default:
		}

		if err != nil {
			return
		}
	}
}

// start runs the reader goroutine, if it is needed and not yet running.
// Must be called with the mutex held.
func (tc *Tape) start() {
	if tc.feeding || tc.closed || tc.input == nil {
		return
	}

	tc.feeding = true
	go tc.feed(tc.input, tc.gen)
}

// receive moves delivered input onto the tape, and starts the reader
// when fewer than 'need' bytes are known.
func (tc *Tape) receive(need int) {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	tc.received = append(tc.received, tc.pending...)
	tc.pending = nil
	tc.eof = tc.closed || tc.input == nil

	if !tc.eof && len(tc.received) < need {
		tc.start()
	}
}

// Peek returns the input byte 'offset' bytes past the cursor, without
// moving the cursor. At the end of input, ok is false. If the byte has
// not arrived yet, err is ErrTapeWait.
func (tc *Tape) Peek(offset int) (value byte, ok bool, err error) {
	index := tc.cursor + offset
	if index < 0 {
		return
	}

	tc.receive(index + 1)
	if index < len(tc.received) {
		value = tc.received[index]
		ok = true
		return
	}

	if !tc.eof {
		err = ErrTapeWait
	}
	return
}

// Wait blocks until more input has arrived, the input has ended, or
// ctx is done.
func (tc *Tape) Wait(ctx context.Context) (err error) {
	tc.mutex.Lock()
	ready := len(tc.pending) > 0 || tc.closed || tc.input == nil
	if !ready {
		tc.start()
	}
	notify := tc.notifier()
	tc.mutex.Unlock()

	if ready {
		return
	}

	select {
	case <-notify:
	case <-ctx.Done():
		err = ctx.Err()
	}
	return
}

// Cursor returns the input position.
func (tc *Tape) Cursor() int {
	return tc.cursor
}

// SetCursor moves the input position. A cursor may never move past the
// input that has been received.
func (tc *Tape) SetCursor(cursor int) (err error) {
	if cursor < 0 || cursor > len(tc.received) {
		err = ErrTapeCursor
		return
	}

	tc.cursor = cursor
	return
}

// Written returns the number of bytes of output.
func (tc *Tape) Written() int {
	return len(tc.sent)
}

// Send appends a byte to the output.
func (tc *Tape) Send(value byte) {
	tc.sent = append(tc.sent, value)
}

// Truncate drops output beyond 'size' bytes.
// Bytes that have already been flushed can not be recalled.
func (tc *Tape) Truncate(size int) {
	if size < 0 {
		size = 0
	}
	if size >= len(tc.sent) {
		return
	}

	tc.sent = tc.sent[:size]
	if tc.flushed > size {
		tc.flushed = size
	}
}

// Bytes returns the output written so far.
func (tc *Tape) Bytes() []byte {
	return tc.sent
}

// Flush writes any pending output to Output.
func (tc *Tape) Flush() (err error) {
	if tc.Output == nil || tc.flushed == len(tc.sent) {
		return
	}

	n, err := tc.Output.Write(tc.sent[tc.flushed:])
	tc.flushed += n
	return
}
