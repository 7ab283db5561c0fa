// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"iter"
	"maps"

	"github.com/ezrec/ezasm/internal"
)

// Label is a resolved label reference.
type Label struct {
	Name    string
	File    Word // Id of the defining file.
	Address Word // Instruction index within the defining file.
}

// File is a single source unit of a program.
type File struct {
	Id           Word
	Name         string
	Instructions []Instruction
	Labels       map[string]Word
}

// Define adds a label at the next instruction of the file.
func (file *File) Define(label string) (err error) {
	if file.Labels == nil {
		file.Labels = make(map[string]Word)
	}

	_, ok := file.Labels[label]
	if ok {
		err = ErrLabelDuplicate
		return
	}

	file.Labels[label] = Word(len(file.Instructions))
	return
}

// Program is the set of files loaded into the simulator. The first file
// is where execution begins.
type Program struct {
	Files []*File
}

// AddFile adds an empty file, with the next file id.
func (prog *Program) AddFile(name string) (file *File) {
	file = &File{
		Id:     Word(len(prog.Files)),
		Name:   name,
		Labels: make(map[string]Word),
	}
	prog.Files = append(prog.Files, file)
	return
}

// File finds a file by id.
func (prog *Program) File(fid Word) (file *File, ok bool) {
	if fid >= Word(len(prog.Files)) {
		return
	}

	file = prog.Files[fid]
	ok = true
	return
}

// FileByName finds a file by name.
func (prog *Program) FileByName(name string) (file *File, ok bool) {
	for _, file = range prog.Files {
		if file.Name == name {
			ok = true
			return
		}
	}

	file = nil
	return
}

// Label resolves a label as seen from file 'from'. Labels of the file
// itself take precedence, then files are searched in load order.
func (prog *Program) Label(name string, from Word) (label Label, err error) {
	if file, ok := prog.File(from); ok {
		if addr, ok := file.Labels[name]; ok {
			label = Label{Name: name, File: file.Id, Address: addr}
			return
		}
	}

	for _, file := range prog.Files {
		if addr, ok := file.Labels[name]; ok {
			label = Label{Name: name, File: file.Id, Address: addr}
			return
		}
	}

	err = ErrLabelMissing(name)
	return
}

// Labels iterates over the labels of every file.
func (prog *Program) Labels() iter.Seq2[string, Label] {
	seqs := make([]iter.Seq2[string, Label], 0, len(prog.Files))
	for _, file := range prog.Files {
		seqs = append(seqs, func(yield func(string, Label) bool) {
			for name, addr := range maps.All(file.Labels) {
				if !yield(name, Label{Name: name, File: file.Id, Address: addr}) {
					return
				}
			}
		})
	}

	return internal.IterSeq2Concat(seqs...)
}

// Fetch returns the instruction at 'pc' of file 'fid'.
func (prog *Program) Fetch(fid Word, pc Word) (ins *Instruction, ok bool) {
	file, ok := prog.File(fid)
	if !ok || pc >= Word(len(file.Instructions)) {
		ok = false
		return
	}

	ins = &file.Instructions[pc]
	return
}

// Debug is the source location of an instruction.
type Debug struct {
	*Instruction
	File string
}

// Debug returns the source location of the instruction at 'pc' of file
// 'fid'. The Instruction is nil if there is none.
func (prog *Program) Debug(fid Word, pc Word) (dbg Debug) {
	if file, ok := prog.File(fid); ok {
		dbg.File = file.Name
	}

	ins, ok := prog.Fetch(fid, pc)
	if ok {
		dbg.Instruction = ins
	}

	return
}
