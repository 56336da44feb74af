// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package cpu implements the execution core of the RUN1920 processor.
//
// The CPU consists of sixteen 32-bit registers (r0 reads as zero, r14 is the
// stack pointer by convention and r15 the program counter), four condition
// flags, and a byte addressable big-endian memory bus with a single memory
// mapped character I/O address. Every instruction carries a 4-bit condition
// code that is tested against the flags before it executes.
//
// Instruction decoding is supplied by the caller through the Decoder
// interface.
package cpu
