// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/ezrec/ezasm/cpu"
	"github.com/ezrec/ezasm/internal"
)

// RunState is the run mode of the emulator.
//
//go:generate go tool stringer -linecomment -type=RunState
type RunState int

const (
	// Loaded, or reset, and not yet run.
	RUN_READY = RunState(iota) // ready
	// Executing instructions.
	RUN_RUNNING // running
	// Stopped at an instruction boundary.
	RUN_PAUSED // paused
	// The program has finished.
	RUN_HALTED // halted
	// An instruction raised a fault.
	RUN_FAULTED // faulted
)

var _emulator_defines = map[string]string{
	"END_PC": fmt.Sprintf("%d", cpu.END_PC),
}

// Emulator drives a Cpu through its run states.
//
// All of the methods are safe to call from multiple goroutines. The
// Cpu is only ever changed by one instruction at a time, and Pause,
// Stop and context cancellation take effect between instructions.
type Emulator struct {
	Verbose bool // If set, enables verbose logging.

	config Config

	mutex sync.Mutex
	cpu   *cpu.Cpu
	state RunState
	fault error
	done  chan struct{}      // Closed when the run loop exits.
	wake  context.CancelFunc // Interrupts a wait for terminal input.

	pause atomic.Bool
}

// NewEmulator creates a new emulator with an empty program.
func NewEmulator(config Config) (emu *Emulator, err error) {
	err = config.Validate()
	if err != nil {
		return
	}

	cp := cpu.NewCpu(config.MemorySize, config.StackSize)
	cp.HistoryLimit = config.HistoryLimit
	cp.Verbose = config.Verbose

	emu = &Emulator{
		Verbose: config.Verbose,
		config:  config,
		cpu:     cp,
	}

	return
}

// Config returns the configuration the emulator was created with.
func (emu *Emulator) Config() Config {
	return emu.config
}

// Defines returns an iterator over the assembler equates describing
// this emulator.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	machine := map[string]string{
		"MEMORY_SIZE": fmt.Sprintf("%d", emu.config.MemorySize),
		"STACK_SIZE":  fmt.Sprintf("%d", emu.config.StackSize),
	}

	return internal.IterSeq2Concat(maps.All(_emulator_defines), maps.All(machine))
}

// Assemble assembles the named files of a file system, and loads the
// resulting program.
func (emu *Emulator) Assemble(fsys fs.FS, names ...string) (err error) {
	emu.mutex.Lock()
	is := emu.cpu.Instructions
	emu.mutex.Unlock()

	asm := &cpu.Assembler{
		Verbose:      emu.Verbose,
		Instructions: is,
	}
	for equ, value := range emu.Defines() {
		asm.Predefine(equ, value)
	}

	prog, err := asm.ParseFS(fsys, names...)
	if err != nil {
		return
	}

	_, err = emu.Load(prog)
	return
}

// Load replaces the program, and resets the emulator.
func (emu *Emulator) Load(prog *cpu.Program) (state RunState, err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	state = emu.state
	switch {
	case prog == nil:
		err = ErrNoProgram
		return
	case emu.state == RUN_RUNNING:
		err = ErrRunning
		return
	}

	emu.cpu.SetProgram(prog)
	emu.setState(RUN_READY)
	emu.fault = nil

	state = emu.state
	return
}

// SetTape connects the program's terminal. Input from a previous
// reader is discarded.
func (emu *Emulator) SetTape(input io.Reader, output io.Writer) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	emu.cpu.Tape.SetInput(input)
	emu.cpu.Tape.Output = output
}

// State returns the current run state.
func (emu *Emulator) State() RunState {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.state
}

// Fault returns the fault that stopped the program, if any.
func (emu *Emulator) Fault() error {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.fault
}

// View calls fn with the Cpu, while no instruction is executing.
// fn must not change the Cpu.
func (emu *Emulator) View(fn func(cp *cpu.Cpu)) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	fn(emu.cpu)
}

// setState changes the run state. Must be called with the mutex held.
func (emu *Emulator) setState(state RunState) {
	if emu.Verbose && state != emu.state {
		log.Printf("emulator: %v -> %v", emu.state, state)
	}
	emu.state = state
}

// runnable checks that an instruction may be executed.
// Must be called with the mutex held.
func (emu *Emulator) runnable() (err error) {
	if len(emu.cpu.Program.Files) == 0 {
		err = ErrNoProgram
		return
	}

	switch emu.state {
	case RUN_RUNNING:
		err = ErrRunning
	case RUN_HALTED:
		err = cpu.ErrHalted
	case RUN_FAULTED:
		err = emu.fault
	}
	return
}

// tick executes a single instruction. Must be called with the mutex
// held. ErrInputWait is returned, with no state change, if the
// instruction needs input that has not arrived.
func (emu *Emulator) tick() (err error) {
	err = emu.cpu.TryStep()

	ferr := emu.cpu.Tape.Flush()
	if ferr != nil && emu.Verbose {
		log.Printf("emulator: %v", ferr)
	}

	switch {
	case errors.Is(err, cpu.ErrInputWait):
	case errors.Is(err, cpu.ErrHalted):
		err = nil
		emu.setState(RUN_HALTED)
	case err != nil:
		emu.fault = err
		emu.setState(RUN_FAULTED)
	case emu.cpu.Halted():
		emu.setState(RUN_HALTED)
	}

	return
}

// run executes instructions until the program halts, faults or is
// paused, or after one instruction if 'single' is set.
//
// The mutex is only held while an instruction executes. Waits for
// terminal input happen outside of it, and are interrupted by Pause or
// by cancelling ctx.
func (emu *Emulator) run(ctx context.Context, single bool) (state RunState, err error) {
	emu.mutex.Lock()
	err = emu.runnable()
	if err != nil {
		state = emu.state
		emu.mutex.Unlock()
		return
	}

	waitCtx, wake := context.WithCancel(ctx)
	defer wake()

	emu.setState(RUN_RUNNING)
	emu.pause.Store(false)
	done := make(chan struct{})
	emu.done = done
	emu.wake = wake
	tape := emu.cpu.Tape
	emu.mutex.Unlock()

	defer close(done)

	for {
		waiting := false

		emu.mutex.Lock()
		if emu.pause.Swap(false) || ctx.Err() != nil {
			emu.setState(RUN_PAUSED)
		} else {
			err = emu.tick()
			switch {
			case errors.Is(err, cpu.ErrInputWait):
				err = nil
				waiting = true
			case single && emu.state == RUN_RUNNING:
				emu.setState(RUN_PAUSED)
			}
		}
		state = emu.state
		if state != RUN_RUNNING {
			emu.wake = nil
		}
		emu.mutex.Unlock()

		if state != RUN_RUNNING {
			return
		}

		if waiting {
			_ = tape.Wait(waitCtx)
		}
	}
}

// Start runs the program from the current PC until it halts, faults or
// is paused. Cancelling ctx pauses the program.
func (emu *Emulator) Start(ctx context.Context) (state RunState, err error) {
	return emu.run(ctx, false)
}

// Resume continues a paused program.
func (emu *Emulator) Resume(ctx context.Context) (state RunState, err error) {
	if emu.State() != RUN_PAUSED {
		state = emu.State()
		err = ErrNotPaused
		return
	}

	return emu.Start(ctx)
}

// Pause requests that a running program stop at the next instruction
// boundary. A program waiting for terminal input pauses at once.
func (emu *Emulator) Pause() (state RunState, err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	state = emu.state
	if state != RUN_RUNNING {
		err = ErrNotRunning
		return
	}

	emu.pause.Store(true)
	if emu.wake != nil {
		emu.wake()
	}
	return
}

// Step executes exactly one instruction, then pauses. If the instruction
// needs terminal input, Step waits for it while RUN_RUNNING, and Pause
// abandons the wait.
func (emu *Emulator) Step() (state RunState, err error) {
	return emu.run(context.Background(), true)
}

// StepBack undoes the most recently executed instruction, then pauses.
// A faulted or halted program may step back.
func (emu *Emulator) StepBack() (state RunState, err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	if emu.state == RUN_RUNNING {
		state = emu.state
		err = ErrRunning
		return
	}

	if emu.state == RUN_FAULTED {
		// The faulting instruction was never applied.
		emu.fault = nil
		emu.setState(RUN_PAUSED)
		state = emu.state
		return
	}

	if !emu.cpu.StepBack() {
		state = emu.state
		err = ErrNoHistory
		return
	}

	emu.setState(RUN_PAUSED)
	state = emu.state
	return
}

// Reset reinitializes registers, memory and history, keeping the program.
func (emu *Emulator) Reset() (state RunState, err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	if emu.state == RUN_RUNNING {
		state = emu.state
		err = ErrRunning
		return
	}

	emu.cpu.Reset()
	emu.fault = nil
	emu.setState(RUN_READY)

	state = emu.state
	return
}

// Stop pauses a running program, waits for it to reach an instruction
// boundary, then resets the emulator.
func (emu *Emulator) Stop() (state RunState, err error) {
	emu.mutex.Lock()
	done := emu.done
	if emu.state == RUN_RUNNING {
		emu.pause.Store(true)
		if emu.wake != nil {
			emu.wake()
		}
	}
	emu.mutex.Unlock()

	if done != nil {
		<-done
	}

	return emu.Reset()
}
