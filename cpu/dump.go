// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"io"
	"strings"
)

// DumpMemory writes memory as a table, one word per row.
func (cpu *Cpu) DumpMemory(w io.Writer) (err error) {
	rule := strings.Repeat("-", 44)

	_, err = fmt.Fprintf(w, "\n%s\n", rule)
	if err != nil {
		return
	}

	mem := cpu.Bus.Memory
	for i := 0; i+3 < len(mem); i += 4 {
		_, err = fmt.Fprintf(w, "| 0x%08x  |  0x%02x | 0x%02x | 0x%02x | 0x%02x |\n",
			i, mem[i], mem[i+1], mem[i+2], mem[i+3])
		if err != nil {
			return
		}
	}

	_, err = fmt.Fprintf(w, "%s\n", rule)

	return
}

// DumpRegisters writes every register in hex and decimal.
func (cpu *Cpu) DumpRegisters(w io.Writer) (err error) {
	for n := range REG_COUNT {
		val := cpu.Register.Get(n)
		_, err = fmt.Fprintf(w, "R%-2d = 0x%08x (%d)\n", n, val, val)
		if err != nil {
			return
		}
	}

	return
}
