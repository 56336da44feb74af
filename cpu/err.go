// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"

	"github.com/ezrec/run1920/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrAddressAlign  = errors.New(f("invalid memory address"))
	ErrAddressRange  = errors.New(f("memory address out of range"))
	ErrMissingHalt   = errors.New(f("useless operation OR 0, R0, R0 found, did you forget to include a HALT instruction?"))
	ErrInterrupted   = errors.New(f("processor interrupted"))
	ErrHalted        = errors.New(f("processor halted"))
	ErrDecoder       = errors.New(f("no instruction decoder"))
	ErrImageTooLarge = errors.New(f("machinecode does not fit in memory, adjusting memory size to fit machinecode"))

	// Image errors
	ErrImageWord = errors.New(f("not a hexadecimal word"))
)

// ErrAddress is a memory access fault at Address.
type ErrAddress struct {
	Address uint32
	Err     error
}

func (err *ErrAddress) Error() string {
	return f("%v: 0x%08x", err.Err, err.Address)
}

func (err *ErrAddress) Unwrap() error {
	return err.Err
}

// ErrImage locates a malformed line of a machine code image.
type ErrImage struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrImage) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrImage) Unwrap() error {
	return err.Err
}
