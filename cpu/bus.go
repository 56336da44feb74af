// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"encoding/binary"

	"github.com/ezrec/run1920/io"
)

const (
	// IO_OFFSET is the signed value of the I/O address.
	IO_OFFSET = -512

	// IO_ADDRESS is the memory mapped character I/O address.
	IO_ADDRESS = uint32(0xffff_fe00)
)

// Bus is the memory bus: big-endian, word aligned, byte addressed
// memory plus the character I/O address.
type Bus struct {
	Memory   []byte      // Memory contents, a multiple of 4 bytes long.
	Keyboard io.Keyboard // Source of characters read from IO_ADDRESS.
	Console  *io.Console // Sink of characters written to IO_ADDRESS.
}

// Size returns the memory size in bytes.
func (bus *Bus) Size() uint32 {
	return uint32(len(bus.Memory))
}

// Grow extends memory to size bytes, rounded up to a whole word.
// Memory never shrinks. Returns true if memory was extended.
func (bus *Bus) Grow(size int) (grown bool) {
	size = (size + 3) &^ 3
	if size <= len(bus.Memory) {
		return
	}

	bus.Memory = append(bus.Memory, make([]byte, size-len(bus.Memory))...)
	grown = true

	return
}

// Check validates a non-I/O word address.
func (bus *Bus) Check(addr uint32) (err error) {
	switch {
	case (addr & 3) != 0:
		err = &ErrAddress{Address: addr, Err: ErrAddressAlign}
	case uint64(addr)+3 >= uint64(len(bus.Memory)):
		err = &ErrAddress{Address: addr, Err: ErrAddressRange}
	}

	return
}

// Read32 reads the word at addr. Reading IO_ADDRESS takes one pending
// character from the keyboard, or 0 if none.
func (bus *Bus) Read32(addr uint32) (value uint32, err error) {
	if addr == IO_ADDRESS {
		if bus.Keyboard != nil {
			value = uint32(bus.Keyboard.ReadCharacter())
		}
		return
	}

	err = bus.Check(addr)
	if err != nil {
		return
	}

	value = binary.BigEndian.Uint32(bus.Memory[addr:])

	return
}

// Write32 writes the word at addr. Writing IO_ADDRESS emits the low
// 8 bits of value on the console.
func (bus *Bus) Write32(addr uint32, value uint32) (err error) {
	if addr == IO_ADDRESS {
		err = bus.Console.Put(uint8(value))
		return
	}

	err = bus.Check(addr)
	if err != nil {
		return
	}

	binary.BigEndian.PutUint32(bus.Memory[addr:], value)

	return
}
