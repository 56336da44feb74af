// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package io provides the character peripherals of the RUN1920 machine.
// It includes the keyboard input sources (Buffered, Blocking), the
// synchronized character Queue that backs the buffered keyboard, the
// Console that receives memory mapped output, and terminal mode control.
package io

// Keyboard is the character input source read through the memory mapped
// I/O address.
type Keyboard interface {
	// ReadCharacter returns the next pending character, or 0 when
	// no character is pending.
	ReadCharacter() uint8
}
