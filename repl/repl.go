// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package repl is an interactive debugger for the ezasm emulator.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/k0kubun/pp/v3"

	"github.com/ezrec/ezasm/cpu"
	"github.com/ezrec/ezasm/emulator"
	"github.com/ezrec/ezasm/translate"
)

var f = translate.From

const (
	prompt = "ezasm> "

	MEM_DEFAULT_COUNT = 8 // Words shown by 'mem' without a count.
)

// REPL provides an interactive debugger loop over an Emulator.
type REPL struct {
	Color bool // If set, 'dump' output is colorized.

	emu     *emulator.Emulator
	printer *pp.PrettyPrinter
	history []string
}

// New creates a new REPL for an emulator.
func New(emu *emulator.Emulator) *REPL {
	return &REPL{
		emu:     emu,
		printer: pp.New(),
	}
}

// Start runs the REPL loop until 'quit', or the end of input.
// Cancelling ctx pauses a running program.
func (r *REPL) Start(ctx context.Context, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, f("ezasm debugger - type 'help' for commands"))

	for {
		fmt.Fprint(out, prompt)

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		r.history = append(r.history, line)

		if quit := r.handleCommand(ctx, line, out); quit {
			return
		}
	}
}

// count parses an optional repeat count.
func count(parts []string, index int) (n int, err error) {
	n = 1
	if len(parts) <= index {
		return
	}

	n, err = strconv.Atoi(parts[index])
	if err == nil && n < 1 {
		err = errors.New(f("count must be positive"))
	}
	return
}

// handleCommand runs one command, returning true when the REPL should
// exit.
func (r *REPL) handleCommand(ctx context.Context, line string, out io.Writer) (quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}

	var state emulator.RunState
	var err error

	switch strings.ToLower(parts[0]) {
	case "quit", "exit", "q":
		return true

	case "help", "h", "?":
		r.printHelp(out)
		return

	case "run", "r":
		state, err = r.emu.Start(ctx)

	case "step", "s":
		var n int
		n, err = count(parts, 1)
		for ; err == nil && n > 0; n-- {
			state, err = r.emu.Step()
		}

	case "back", "b":
		var n int
		n, err = count(parts, 1)
		for ; err == nil && n > 0; n-- {
			state, err = r.emu.StepBack()
		}

	case "reset":
		state, err = r.emu.Reset()

	case "regs":
		r.emu.View(func(cp *cpu.Cpu) {
			fmt.Fprint(out, cp.String())
		})
		return

	case "stack":
		r.printStack(out)
		return

	case "mem", "m":
		err = r.printMemory(parts[1:], out)
		if err != nil {
			fmt.Fprintln(out, f("error: %v", err))
		}
		return

	case "where", "w":
		r.printWhere(out)
		return

	case "labels":
		r.printLabels(out)
		return

	case "dump":
		r.dump(out)
		return

	case "history":
		for i, cmd := range r.history {
			fmt.Fprintf(out, "%3d: %s\n", i+1, cmd)
		}
		return

	default:
		fmt.Fprintln(out, f("unknown command '%v', type 'help' for commands", parts[0]))
		return
	}

	if err != nil {
		fmt.Fprintln(out, f("error: %v", err))
	}
	fmt.Fprintln(out, f("[%v]", state))
	if state == emulator.RUN_PAUSED || state == emulator.RUN_READY {
		r.printWhere(out)
	}

	return
}

func (r *REPL) printWhere(out io.Writer) {
	r.emu.View(func(cp *cpu.Cpu) {
		dbg := cp.Where()
		if dbg.Instruction == nil {
			fmt.Fprintln(out, f("pc %v (no instruction)", cp.Register(cpu.REG_PC)))
			return
		}
		fmt.Fprintf(out, "%v:%d: %v\n", dbg.File, dbg.LineNo, dbg.Instruction)
	})
}

func (r *REPL) printStack(out io.Writer) {
	r.emu.View(func(cp *cpu.Cpu) {
		stack := cpu.NewStack(cp)
		if stack.Empty() {
			fmt.Fprintln(out, f("stack is empty"))
			return
		}
		fmt.Fprintln(out, f("stack depth %d", stack.Depth()))
		for addr := stack.Pointer(); addr < cp.StackBase(); addr += cpu.WORD_SIZE {
			value, err := cp.Load(addr)
			if err != nil {
				fmt.Fprintln(out, f("error: %v", err))
				return
			}
			fmt.Fprintf(out, "%v: %v\n", addr, value)
		}
	})
}

func (r *REPL) printMemory(args []string, out io.Writer) (err error) {
	if len(args) < 1 || len(args) > 2 {
		err = errors.New(f("usage: mem ADDR [N]"))
		return
	}

	addr, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		return
	}

	n := MEM_DEFAULT_COUNT
	if len(args) == 2 {
		n, err = count(args, 1)
		if err != nil {
			return
		}
	}

	r.emu.View(func(cp *cpu.Cpu) {
		for k := range n {
			at := cpu.Word(addr) + cpu.Word(k)*cpu.WORD_SIZE
			var value cpu.Word
			value, err = cp.Load(at)
			if err != nil {
				return
			}
			fmt.Fprintf(out, "%v: %v\n", at, value)
		}
	})

	return
}

func (r *REPL) printLabels(out io.Writer) {
	r.emu.View(func(cp *cpu.Cpu) {
		var lines []string
		for name, label := range cp.Program.Labels() {
			file, _ := cp.Program.File(label.File)
			lines = append(lines, fmt.Sprintf("%v:%d %v", file.Name, label.Address, name))
		}
		slices.Sort(lines)
		for _, line := range lines {
			fmt.Fprintln(out, line)
		}
	})
}

// machineDump is the structure shown by 'dump'.
type machineDump struct {
	State     string
	Fault     string
	Ticks     int
	History   int
	Where     string
	Registers map[string]string
	Output    string
}

func (r *REPL) dump(out io.Writer) {
	md := machineDump{
		State:     r.emu.State().String(),
		Registers: map[string]string{},
	}
	if fault := r.emu.Fault(); fault != nil {
		md.Fault = fault.Error()
	}

	r.emu.View(func(cp *cpu.Cpu) {
		md.Ticks = cp.Ticks
		md.History = cp.History()
		dbg := cp.Where()
		if dbg.Instruction != nil {
			md.Where = fmt.Sprintf("%v:%d", dbg.File, dbg.LineNo)
		}
		for reg, value := range cp.Registers.All() {
			if value != 0 {
				md.Registers[reg.String()] = value.String()
			}
		}
		md.Output = string(cp.Tape.Bytes())
	})

	r.printer.SetColoringEnabled(r.Color)
	r.printer.Fprintln(out, md)
}

func (r *REPL) printHelp(out io.Writer) {
	help := `
ezasm debugger commands:
  run, r          Run until halted, faulted or interrupted
  step, s [N]     Execute N instructions (default 1)
  back, b [N]     Undo N instructions (default 1)
  reset           Reset registers, memory and history
  regs            Show the registers
  stack           Show the stack, top first
  mem, m ADDR [N] Show N words of memory at ADDR
  where, w        Show the next instruction
  labels          List the program labels
  dump            Dump the machine state
  history         Show command history
  help, h, ?      Show this help message
  quit, exit, q   Exit the debugger

Press Ctrl-C to pause a running program, or one waiting for input.
`
	fmt.Fprint(out, help)
}
