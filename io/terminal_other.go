// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

//go:build !(linux || darwin)

package io

import (
	"os"
)

// Terminal is unavailable on this platform.
type Terminal struct{}

// NewTerminal always fails with ErrTerminalUnsupported.
func NewTerminal(input *os.File) (pt *Terminal, err error) {
	err = ErrTerminalUnsupported
	return
}

// Restore does nothing.
func (pt *Terminal) Restore() error {
	return nil
}
