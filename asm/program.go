// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"fmt"
	"io"
	"iter"

	"github.com/ezrec/run1920/isa"
)

// IMAGE_VERSION is the first line of every machine code image.
const IMAGE_VERSION = "RUN1920 machinecode v1"

// Program is an assembled program.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the opcode containing a byte address.
type Debug struct {
	*Opcode
	Index int
}

// Debug returns the opcode assembled at address, if any.
func (prog *Program) Debug(address int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if address >= op.Address && address < op.Address+4*len(op.Codes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  (address - op.Address) / 4,
			}
			break
		}
	}

	return
}

// Codes iterates over every instruction word with its byte address.
func (prog *Program) Codes() iter.Seq2[int, isa.Code] {
	return func(yield func(address int, code isa.Code) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Address+4*n, code) {
					return
				}
			}
		}
	}
}

// Binary returns the program as memory words from address 0.
func (prog *Program) Binary() (bins []uint32) {
	for address, code := range prog.Codes() {
		for len(bins) < address/4 {
			bins = append(bins, 0)
		}
		bins = append(bins, uint32(code))
	}

	return
}

// Marshal writes the program in machine code image format.
func (prog *Program) Marshal(file io.Writer) (err error) {
	_, err = fmt.Fprintln(file, IMAGE_VERSION)
	if err != nil {
		return
	}

	for _, word := range prog.Binary() {
		_, err = fmt.Fprintf(file, "%08x\n", word)
		if err != nil {
			return
		}
	}

	return
}
