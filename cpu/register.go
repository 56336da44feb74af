// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

const (
	REG_ZERO  = 0  // Hardwired to zero.
	REG_LR    = 13 // Link register by convention.
	REG_SP    = 14 // Stack pointer by convention, reset to the memory size.
	REG_PC    = 15 // Program counter.
	REG_COUNT = 16 // Number of registers.
)

// Registers is the register file. Register 0 always reads as zero, and
// writes to it are ignored.
type Registers [REG_COUNT]uint32

// Get returns the value of register index.
func (reg *Registers) Get(index int) uint32 {
	if index == REG_ZERO {
		return 0
	}

	return reg[index]
}

// Set sets register index to value. Setting register 0 has no effect.
func (reg *Registers) Set(index int, value uint32) {
	if index == REG_ZERO {
		return
	}

	reg[index] = value
}
