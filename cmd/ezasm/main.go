// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/ezrec/ezasm/cpu"
	"github.com/ezrec/ezasm/emulator"
	"github.com/ezrec/ezasm/repl"
	"github.com/ezrec/ezasm/translate"
)

// sourceFS returns a file system rooted at the directory of the first
// source file, and the source names relative to it.
func sourceFS(paths []string) (fsys fs.FS, names []string, err error) {
	root := filepath.Dir(paths[0])
	for _, path := range paths {
		var rel string
		rel, err = filepath.Rel(root, path)
		if err != nil {
			return
		}
		names = append(names, filepath.ToSlash(rel))
	}

	fsys = os.DirFS(root)
	return
}

func run() (status int) {
	var configPath string
	var memorySize uint
	var stackSize uint
	var history int
	var verbose bool
	var input string
	var output string
	var debug bool
	var color bool
	var lang string

	flag.StringVar(&configPath, "config", "", "TOML configuration file")
	flag.UintVar(&memorySize, "m", cpu.DEFAULT_MEMORY_SIZE, "Memory size, in bytes")
	flag.UintVar(&stackSize, "stack", cpu.DEFAULT_STACK_SIZE, "Stack size, in bytes")
	flag.IntVar(&history, "history", cpu.DEFAULT_HISTORY_LIMIT, "Undo history depth, 0 for unlimited")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&input, "i", "", "Terminal input file, '-' for stdin (default stdin, none with -debug)")
	flag.StringVar(&output, "o", "-", "Terminal output file, '-' for stdout")
	flag.BoolVar(&debug, "debug", false, "Start the interactive debugger")
	flag.BoolVar(&color, "color", false, "Colorize debugger dumps")
	flag.StringVar(&lang, "lang", "", "Message language, as a BCP 47 tag (default from locale)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %v [options] main.ez [more.ez...]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return 2
	}

	if len(lang) != 0 {
		err := translate.SetLanguage(lang)
		if err != nil {
			log.Fatalf("-lang %v: %v", lang, err)
		}
	}

	config := emulator.DefaultConfig()
	if len(configPath) != 0 {
		var err error
		config, err = emulator.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("%v: %v", configPath, err)
		}
	}

	// Flags given on the command line override the configuration file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "m":
			config.MemorySize = memorySize
		case "stack":
			config.StackSize = stackSize
		case "history":
			config.HistoryLimit = history
		case "v":
			config.Verbose = verbose
		}
	})

	emu, err := emulator.NewEmulator(config)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	fsys, names, err := sourceFS(flag.Args())
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	err = emu.Assemble(fsys, names...)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var tapeInput io.Reader
	switch {
	case input == "-" || (input == "" && !debug):
		tapeInput = os.Stdin
	case input != "":
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		tapeInput = inf
	}

	var tapeOutput io.Writer = os.Stdout
	if output != "-" {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		tapeOutput = ouf
	}

	emu.SetTape(tapeInput, tapeOutput)

	if debug {
		// SIGINT pauses the running program, and returns to the prompt.
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		defer signal.Stop(interrupt)
		go func() {
			for range interrupt {
				_, _ = emu.Pause()
			}
		}()

		debugger := repl.New(emu)
		debugger.Color = color
		debugger.Start(context.Background(), os.Stdin, os.Stdout)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	state, err := emu.Start(ctx)
	switch state {
	case emulator.RUN_HALTED:
		emu.View(func(cp *cpu.Cpu) {
			status = int(cp.ExitCode())
		})
	case emulator.RUN_PAUSED:
		emu.View(func(cp *cpu.Cpu) {
			dbg := cp.Where()
			log.Printf("interrupted at %v:%d", dbg.File, dbg.LineNo)
		})
		status = 130
	default:
		log.Printf("%v", err)
		status = 1
	}

	return
}

func main() {
	os.Exit(run())
}
