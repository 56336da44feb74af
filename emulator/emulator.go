// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs RUN1920 programs: a cpu with the reference
// instruction decoder, a keyboard and a console.
package emulator

import (
	"context"
	"fmt"
	stdio "io"
	"iter"
	"log"
	"maps"
	"os"

	"github.com/ezrec/run1920/asm"
	"github.com/ezrec/run1920/cpu"
	"github.com/ezrec/run1920/internal"
	"github.com/ezrec/run1920/io"
	"github.com/ezrec/run1920/isa"
)

var _emulator_defines = map[string]string{
	"GUARD_LIMIT": fmt.Sprintf("%v", cpu.GUARD_LIMIT),
}

// Emulator state. CPU + keyboard + console.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging and tracing.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *asm.Program // Listing of the running program, if assembled.

	Keyboard io.Keyboard // Keyboard attached to the I/O address.
	Console  io.Console  // Console attached to the I/O address.
}

// NewEmulator creates a new emulator with memory of the given number
// of words.
func NewEmulator(words int, keyboard io.Keyboard, output stdio.Writer) (emu *Emulator) {
	emu = &Emulator{
		Cpu:      cpu.NewCpu(words, isa.Decoder{}),
		Keyboard: keyboard,
		Console:  io.Console{Output: output},
	}

	emu.Cpu.Bus.Keyboard = emu.Keyboard
	emu.Cpu.Bus.Console = &emu.Console

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// setVerbose propagates the verbosity to the cpu and console.
func (emu *Emulator) setVerbose() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Console.Verbose = emu.Verbose
}

// Assemble assembles a program and loads it.
func (emu *Emulator) Assemble(input stdio.Reader) (err error) {
	emu.setVerbose()

	assembler := &asm.Assembler{Verbose: emu.Verbose}
	assembler.PredefineAll(emu.Defines())

	prog, err := assembler.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	grown, err := emu.Cpu.LoadWords(prog.Binary())
	emu.loaded(grown)

	return
}

// Load loads a machine code image.
func (emu *Emulator) Load(input stdio.Reader) (err error) {
	emu.setVerbose()

	emu.Program = nil
	grown, err := emu.Cpu.LoadImage(input)
	emu.loaded(grown)

	return
}

// LoadFile loads a machine code image file.
func (emu *Emulator) LoadFile(path string) (err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	return emu.Load(inf)
}

// loaded resets the cpu after a load, warning if memory grew.
func (emu *Emulator) loaded(grown bool) {
	if grown {
		log.Print(f("[!] WARNING: %v", cpu.ErrImageTooLarge))
	}

	emu.Cpu.Reset()
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(int(emu.Cpu.Register.Get(cpu.REG_PC)))
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
// done is set once the cpu has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.setVerbose()

	pc := emu.Cpu.Register.Get(cpu.REG_PC)
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
		done = emu.Cpu.Halted
	}()

	err = emu.Cpu.Tick()

	return
}

// Run ticks the emulator until it halts, or until ctx is cancelled.
// Cancellation halts the cpu with cpu.ErrInterrupted between cycles.
// The returned error is the fault that stopped the cpu, if any.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for {
		select {
		case <-ctx.Done():
			emu.Cpu.Halt(cpu.ErrInterrupted)
			err = &ErrRuntime{Pc: emu.Cpu.Register.Get(cpu.REG_PC), LineNo: emu.LineNo(), Err: cpu.ErrInterrupted}
			return
		default:
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}
