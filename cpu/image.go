// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// ParseImage reads a machine code image: a version line, followed by one
// hexadecimal instruction word per line. Blank lines are skipped.
func ParseImage(input io.Reader) (words []uint32, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		// The assembler includes the version as the first line.
		if lineno == 1 {
			continue
		}

		text := strings.TrimSpace(line)
		if len(text) == 0 {
			continue
		}
		text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")

		var value uint64
		value, err = strconv.ParseUint(text, 16, 32)
		if err != nil {
			err = &ErrImage{LineNo: lineno, Line: line, Err: ErrImageWord}
			return
		}

		words = append(words, uint32(value))
	}

	err = scanner.Err()

	return
}

// LoadImage loads a machine code image into memory at address 0.
// If the image does not fit, memory grows to exactly fit it, the stack
// pointer is set to the new memory size, and grown is true.
func (cpu *Cpu) LoadImage(input io.Reader) (grown bool, err error) {
	words, err := ParseImage(input)
	if err != nil {
		return
	}

	return cpu.LoadWords(words)
}

// LoadWords stores words into consecutive memory words from address 0.
func (cpu *Cpu) LoadWords(words []uint32) (grown bool, err error) {
	if cpu.Bus.Grow(len(words) * 4) {
		grown = true
		cpu.Register.Set(REG_SP, cpu.Bus.Size())
	}

	for n, word := range words {
		err = cpu.Bus.Write32(uint32(n*4), word)
		if err != nil {
			return
		}
	}

	return
}
