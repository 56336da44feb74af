// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

//go:build linux || darwin

package io

import (
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Terminal switches an input terminal into cbreak mode, so that key
// presses are delivered one at a time without waiting for a newline.
// Signals (Ctrl-C) and output processing are left enabled.
type Terminal struct {
	input *os.File

	canAttr    unix.Termios
	cbreakAttr unix.Termios
}

// NewTerminal puts input into cbreak mode. Restore must be called to
// return the terminal to canonical mode.
func NewTerminal(input *os.File) (pt *Terminal, err error) {
	pt = &Terminal{input: input}

	err = termios.Tcgetattr(input.Fd(), &pt.canAttr)
	if err != nil {
		pt = nil
		return
	}

	pt.cbreakAttr = pt.canAttr
	termios.Cfmakecbreak(&pt.cbreakAttr)

	err = termios.Tcsetattr(input.Fd(), termios.TCIFLUSH, &pt.cbreakAttr)
	if err != nil {
		pt = nil
		return
	}

	return
}

// Restore puts the terminal back into canonical mode.
func (pt *Terminal) Restore() error {
	return termios.Tcsetattr(pt.input.Fd(), termios.TCIFLUSH, &pt.canAttr)
}
