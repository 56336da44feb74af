// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"log"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/ezrec/run1920/io"
)

// newKeyboard selects the keyboard for standard input. An interactive
// terminal is switched to cbreak mode and read in the background;
// anything else is read on demand. restore must always be called.
func newKeyboard(verbose bool) (kb io.Keyboard, restore func()) {
	restore = func() {}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		kb = &io.Blocking{Input: os.Stdin}
		return
	}

	pt, err := io.NewTerminal(os.Stdin)
	if err != nil {
		if verbose {
			log.Printf("keyboard: %v", err)
		}
		kb = &io.Blocking{Input: os.Stdin}
		return
	}

	kb = io.NewBuffered(os.Stdin, verbose)
	restore = sync.OnceFunc(func() {
		err := pt.Restore()
		if err != nil {
			log.Printf("keyboard: %v", err)
		}
	})

	return
}
