// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"errors"
	"io"
	"log"
)

// Buffered is a keyboard fed by a background reader goroutine.
// Every byte read from Input is appended to the Queue; ReadCharacter
// never blocks.
type Buffered struct {
	Verbose bool
	Queue   Queue

	input io.Reader
	done  chan struct{}
	err   error
}

var _ Keyboard = (*Buffered)(nil)

// NewBuffered creates a buffered keyboard and starts its reader.
// verbose logs dropped keypresses.
func NewBuffered(input io.Reader, verbose bool) (kb *Buffered) {
	kb = &Buffered{
		Verbose: verbose,
		input:   input,
		done:  make(chan struct{}),
	}
	kb.Queue.Rewind()

	go kb.reader()

	return
}

// reader consumes Input until it fails, queueing each byte.
// Keypresses that arrive while the queue is full are dropped.
func (kb *Buffered) reader() {
	defer close(kb.done)

	var one [1]byte
	for {
		n, err := kb.input.Read(one[:])
		if n == 1 {
			perr := kb.Queue.Push(one[0])
			if perr != nil && kb.Verbose {
				log.Printf("keyboard: drop 0x%02x: %v", one[0], perr)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				kb.err = err
			}
			return
		}
	}
}

// Done is closed once the reader goroutine has stopped.
func (kb *Buffered) Done() <-chan struct{} {
	return kb.done
}

// Err returns the read error that stopped the reader, if any.
// Only valid after Done is closed.
func (kb *Buffered) Err() error {
	return kb.err
}

// ReadCharacter pops the oldest pending character, or returns 0.
func (kb *Buffered) ReadCharacter() uint8 {
	value, _ := kb.Queue.Pop()
	return value
}

// Blocking is a keyboard that reads directly from Input on every call.
// It is used when raw key capture is not available.
type Blocking struct {
	Input io.Reader
}

var _ Keyboard = (*Blocking)(nil)

// ReadCharacter waits for one character. At end of input it returns 0.
func (kb *Blocking) ReadCharacter() uint8 {
	if kb.Input == nil {
		return 0
	}

	var one [1]byte
	_, err := io.ReadFull(kb.Input, one[:])
	if err != nil {
		return 0
	}

	return one[0]
}
