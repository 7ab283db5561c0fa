// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"maps"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":    "0",
	"WORD_SIZE": fmt.Sprintf("%d", WORD_SIZE),
}

// Assembler is a single pass assembler for ezasm source files.
type Assembler struct {
	Verbose      bool           // If set, verbosely logs the assembler actions.
	Instructions InstructionSet // Instruction set to check against.

	predefine map[string]string // Predefines
	Equate    map[string]string // Map of equates.

	fsys    fs.FS
	program *Program
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel      = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
)

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value Word, err error) {
	invert := false
	if len(word) > 1 && word[0] == '~' {
		invert = true
		word = word[1:]
	}

	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		// Large unsigned constants, such as 0xffff_ffff_ffff_ffff.
		var u64 uint64
		u64, err = strconv.ParseUint(word, 0, 64)
		if err != nil {
			err = ErrParseNumber(word)
			return
		}
		v64 = int64(u64)
	}

	value = Word(v64)
	if invert {
		value = ^value
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value Word, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 Word
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(value64.Int())
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = Word(st_int64)
	return
}

// expandCharacters replaces 'x' character constants with their values.
func expandCharacters(line string) string {
	return reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "'":
				str = "'"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "0":
				str = "\000"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})
}

// stripComment removes a ';' or '#' comment from a line.
func stripComment(line string) string {
	if n := strings.IndexAny(line, ";#"); n >= 0 {
		line = line[:n]
	}
	return line
}

// parseLine expands a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value.Int())
	})
	if err != nil {
		return
	}

	words = strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// parseOperand decodes a single operand word.
func (asm *Assembler) parseOperand(word string) (op Operand, err error) {
	// offset($reg)
	if open := strings.IndexByte(word, '('); open >= 0 {
		if !strings.HasSuffix(word, ")") {
			err = errors.Join(ErrOperandSyntax, errors.New(word))
			return
		}
		var base Register
		base, err = RegisterByName(word[open+1 : len(word)-1])
		if err != nil {
			return
		}
		var offset Word
		if open > 0 {
			offset, err = asm.valueOf(word[:open])
			if err != nil {
				return
			}
		}
		op = MemoryRef(base, offset)
		return
	}

	if strings.HasPrefix(word, "$") {
		var reg Register
		reg, err = RegisterByName(word)
		if err != nil {
			return
		}
		op = RegisterRef(reg)
		return
	}

	value, verr := asm.valueOf(word)
	if verr == nil {
		op = Immediate(value)
		return
	}

	if reLabel.MatchString(word) {
		op = LabelRef(word)
		return
	}

	err = errors.Join(ErrOperandSyntax, verr)
	return
}

// parseWords evaluates the words of a line into the current file.
func (asm *Assembler) parseWords(file *File, words []string, lineno int) (err error) {
	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) {
			err = errors.Join(ErrLabelInvalid, errors.New(label))
			return
		}

		err = file.Define(label)
		if err != nil {
			return
		}

		if asm.Verbose {
			log.Printf("%v: label %v = %d", file.Name, label, file.Labels[label])
		}
		words = words[1:]
	}

	// no-op
	if len(words) == 0 {
		return
	}

	if strings.ToLower(words[0]) == "import" {
		if len(words) != 2 {
			err = ErrImportSyntax
			return
		}
		name := strings.Trim(words[1], `"`)
		err = asm.importFile(path.Join(path.Dir(file.Name), name))
		return
	}

	ins := Instruction{
		LineNo: lineno,
		Words:  slices.Clone(words),
		Name:   strings.ToLower(words[0]),
	}

	for _, word := range words[1:] {
		var op Operand
		op, err = asm.parseOperand(word)
		if err != nil {
			return
		}
		ins.Args = append(ins.Args, op)
	}

	_, err = asm.Instructions.Check(&ins)
	if err != nil {
		return
	}

	file.Instructions = append(file.Instructions, ins)

	return
}

// parseFile parses an input stream as a new file of the program.
func (asm *Assembler) parseFile(name string, input io.Reader) (err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		var syn *ErrSyntax
		if err != nil && !errors.As(err, &syn) {
			err = &ErrSyntax{File: name, LineNo: lineno, Line: line, Err: err}
		}
	}()

	file := asm.program.AddFile(name)

	if asm.Verbose {
		log.Printf("%v: file id %d", name, file.Id)
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v:%v: %v\n", name, lineno, text)
		}

		line = strings.TrimSpace(stripComment(expandCharacters(text)))

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(file, words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	return
}

// importFile parses a file from the assembler's file system, unless it
// is already part of the program.
func (asm *Assembler) importFile(name string) (err error) {
	if _, ok := asm.program.FileByName(name); ok {
		return
	}

	if asm.fsys == nil {
		err = errors.Join(ErrImportSyntax, fs.ErrNotExist)
		return
	}

	inf, err := asm.fsys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	err = asm.parseFile(name, inf)
	return
}

// begin resets the assembler state for a new program.
func (asm *Assembler) begin(fsys fs.FS) {
	if asm.Instructions == nil {
		asm.Instructions = NewInstructionSet()
	}

	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	asm.fsys = fsys
	asm.program = &Program{}
}

// link verifies that every label reference has a definition.
func (asm *Assembler) link() (err error) {
	for _, file := range asm.program.Files {
		for _, ins := range file.Instructions {
			for _, op := range ins.Args {
				if op.Kind != OPERAND_LABEL {
					continue
				}
				_, err = asm.program.Label(op.Label, file.Id)
				if err != nil {
					err = &ErrSyntax{File: file.Name, LineNo: ins.LineNo, Line: strings.Join(ins.Words, " "), Err: err}
					return
				}
			}
		}
	}

	return
}

// Parse parses an input stream into a single file Program.
// Imports are not available.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	asm.begin(nil)

	err = asm.parseFile("main", input)
	if err != nil {
		return
	}

	err = asm.link()
	if err != nil {
		return
	}

	prog = asm.program
	return
}

// ParseFS parses the named files of a file system into a Program.
// Execution starts with the first name. Imports are resolved relative to
// the importing file.
func (asm *Assembler) ParseFS(fsys fs.FS, names ...string) (prog *Program, err error) {
	asm.begin(fsys)

	for _, name := range names {
		err = asm.importFile(path.Clean(name))
		if err != nil {
			return
		}
	}

	err = asm.link()
	if err != nil {
		return
	}

	prog = asm.program
	return
}
