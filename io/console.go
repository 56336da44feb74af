// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"fmt"
	"io"

	"github.com/ezrec/run1920/translate"
)

// Console receives characters written to the memory mapped I/O address,
// and instruction traces in verbose mode.
type Console struct {
	Output  io.Writer
	Verbose bool // Annotate each output character on its own line.
}

// Put emits a single character.
func (con *Console) Put(ch uint8) (err error) {
	if con == nil || con.Output == nil {
		return
	}

	if con.Verbose {
		_, err = translate.Fprintf(con.Output, "\n[!] Output: %c\n\n", rune(ch))
		return
	}

	_, err = con.Output.Write([]byte{ch})

	return
}

// Tracef writes a trace line when verbose.
func (con *Console) Tracef(format string, args ...any) {
	if con == nil || con.Output == nil || !con.Verbose {
		return
	}

	fmt.Fprintf(con.Output, format, args...)
}
