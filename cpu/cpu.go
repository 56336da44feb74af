// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

const (
	// GUARD_LIMIT is the lowest word value that is ever decoded. Anything
	// below it is 'or.al r0 r0 r0' or blank memory.
	GUARD_LIMIT = 16

	// MEMORY_DEFAULT_WORDS is the default memory size, in words.
	MEMORY_DEFAULT_WORDS = 1024
)

var _cpu_defines = map[string]string{
	"IO_ADDRESS": fmt.Sprintf("%d", IO_OFFSET),
	"REG_ZERO":   fmt.Sprintf("%d", REG_ZERO),
	"REG_LR":     fmt.Sprintf("%d", REG_LR),
	"REG_SP":     fmt.Sprintf("%d", REG_SP),
	"REG_PC":     fmt.Sprintf("%d", REG_PC),
}

// Instruction is a decoded instruction word.
type Instruction interface {
	// Cond returns the condition code gating execution.
	Cond() Cond
	// Execute performs the instruction. A memory fault has already
	// halted the cpu when the returned error is an *ErrAddress.
	Execute(cpu *Cpu) error
	// String returns the assembly language form, for traces.
	String() string
}

// Decoder turns an instruction word into an Instruction.
// Decode is only called for words of at least GUARD_LIMIT.
type Decoder interface {
	Decode(word uint32) Instruction
}

// Cpu is the simulation context for the RUN1920 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register Registers // Register bank.
	Flags    Flags     // Condition flags.
	Bus      Bus       // Memory bus.
	Decoder  Decoder   // Instruction decoder.

	Halted      bool        // Set once the cpu has stopped.
	Fault       error       // Reason for the halt, nil for a halt instruction.
	Instruction Instruction // Most recently decoded instruction.

	Ticks int // Completed cycles.
}

// NewCpu creates a new CPU with memory of the given number of words.
func NewCpu(words int, decoder Decoder) (cpu *Cpu) {
	if words < 0 {
		words = 0
	}

	cpu = &Cpu{
		Bus:     Bus{Memory: make([]byte, words*4)},
		Decoder: decoder,
	}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears the registers, flags and halt state.
// - Sets the stack pointer to the memory size.
// - Zeros the tick counter.
// Memory is left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Register.Set(REG_SP, cpu.Bus.Size())
	cpu.Flags = Flags{}
	cpu.Halted = false
	cpu.Fault = nil
	cpu.Instruction = nil
	cpu.Ticks = 0
}

// Halt stops the cpu. fault is the reason, or nil for an orderly halt.
// Only the first halt is recorded.
func (cpu *Cpu) Halt(fault error) {
	if cpu.Halted {
		return
	}

	cpu.Halted = true
	cpu.Fault = fault

	if cpu.Verbose {
		if fault != nil {
			log.Printf("cpu: halt: %v\n%v", fault, cpu)
		} else {
			log.Printf("cpu: halt\n%v", cpu)
		}
	}
}

// ReadMemory reads a word through the bus. A fault halts the cpu.
func (cpu *Cpu) ReadMemory(addr uint32) (value uint32, err error) {
	value, err = cpu.Bus.Read32(addr)
	if err != nil {
		cpu.Halt(err)
	}

	return
}

// WriteMemory writes a word through the bus. A fault halts the cpu.
func (cpu *Cpu) WriteMemory(addr uint32, value uint32) (err error) {
	err = cpu.Bus.Write32(addr, value)
	if err != nil {
		cpu.Halt(err)
	}

	return
}

// Fetch reads the instruction word at the program counter, applies the
// low value guard, and advances the program counter.
func (cpu *Cpu) Fetch() (word uint32, err error) {
	pc := cpu.Register.Get(REG_PC)

	word, err = cpu.ReadMemory(pc)
	if err != nil {
		return
	}

	if word < GUARD_LIMIT {
		err = ErrMissingHalt
		cpu.Halt(err)
		return
	}

	cpu.Register.Set(REG_PC, pc+4)

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	if cpu.Decoder == nil {
		err = ErrDecoder
		cpu.Halt(err)
		return
	}

	pc := cpu.Register.Get(REG_PC)

	word, err := cpu.Fetch()
	if err != nil {
		return
	}

	inst := cpu.Decoder.Decode(word)
	cpu.Instruction = inst
	cpu.Ticks++

	if !inst.Cond().Test(cpu.Flags) {
		return
	}

	cpu.Bus.Console.Tracef("%08x: %v\n", pc, inst)

	err = inst.Execute(cpu)

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	for n := range REG_COUNT {
		val := cpu.Register.Get(n)
		text += fmt.Sprintf("% 5s: %04X_%04X\n", fmt.Sprintf("r%d", n), val>>16, val&0xffff)
	}
	text += fmt.Sprintf("% 5s: %v\n", "flags", cpu.Flags)

	return
}
