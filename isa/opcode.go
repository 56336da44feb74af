// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"fmt"

	"github.com/ezrec/run1920/cpu"
)

// CodeOp is an operation type.
type CodeOp int

const (
	OP_OR    = CodeOp(0)  // or
	OP_AND   = CodeOp(1)  // and
	OP_XOR   = CodeOp(2)  // xor
	OP_ADD   = CodeOp(3)  // add
	OP_SUB   = CodeOp(4)  // sub
	OP_SHL   = CodeOp(5)  // shl
	OP_SHR   = CodeOp(6)  // shr
	OP_CMP   = CodeOp(7)  // cmp
	OP_LOAD  = CodeOp(8)  // load
	OP_STORE = CodeOp(9)  // store
	OP_JUMP  = CodeOp(10) // jump
	OP_CALL  = CodeOp(11) // call
	OP_PUSH  = CodeOp(12) // push
	OP_POP   = CodeOp(13) // pop
	OP_MOVHI = CodeOp(14) // movhi
	OP_HALT  = CodeOp(15) // halt
)

var _op_names = [16]string{
	"or", "and", "xor", "add", "sub", "shl", "shr", "cmp",
	"load", "store", "jump", "call", "push", "pop", "movhi", "halt",
}

func (op CodeOp) String() string {
	if op < 0 || int(op) >= len(_op_names) {
		return fmt.Sprintf("CodeOp(%d)", int(op))
	}
	return _op_names[op]
}

// ParseOp returns the operation for a mnemonic.
func ParseOp(name string) (op CodeOp, ok bool) {
	for n, str := range _op_names {
		if str == name {
			return CodeOp(n), true
		}
	}
	return
}

const (
	IMM_MIN   = -(1 << 14)    // Smallest 15-bit signed immediate.
	IMM_MAX   = (1 << 14) - 1 // Largest 15-bit signed immediate.
	IMM20_MAX = (1 << 20) - 1 // Largest MOVHI immediate.
	HI_SHIFT  = 12            // MOVHI shift.

	immFlag = uint32(1 << 19)
)

// Code is a single instruction word.
type Code uint32

// makeCond creates an instruction word with the specified condition code.
func makeCond(cond cpu.Cond, op CodeOp, rd, ra int, rest uint32) Code {
	return Code((uint32(op)&0xf)<<28 |
		(uint32(rd)&0xf)<<24 |
		(uint32(ra)&0xf)<<20 |
		rest |
		uint32(cond&cpu.COND_MASK))
}

// MakeCode creates a register form instruction: rd, ra, rb.
func MakeCode(cond cpu.Cond, op CodeOp, rd, ra, rb int) Code {
	return makeCond(cond, op, rd, ra, (uint32(rb)&0xf)<<4)
}

// MakeCodeImm creates an immediate form instruction: rd, ra, simm.
// simm is truncated to 15 bits.
func MakeCodeImm(cond cpu.Cond, op CodeOp, rd, ra int, simm int32) Code {
	return makeCond(cond, op, rd, ra, immFlag|(uint32(simm)&0x7fff)<<4)
}

// MakeCodeMovhi creates a MOVHI instruction, setting rd to imm20 << 12.
func MakeCodeMovhi(cond cpu.Cond, rd int, imm20 uint32) Code {
	return Code((uint32(OP_MOVHI) << 28) |
		(uint32(rd)&0xf)<<24 |
		(imm20&IMM20_MAX)<<4 |
		uint32(cond&cpu.COND_MASK))
}

// MakeCodeHalt creates a HALT instruction.
func MakeCodeHalt(cond cpu.Cond) Code {
	return makeCond(cond, OP_HALT, 0, 0, 0)
}

// MakeCodeNop creates an instruction that never executes.
// 'or r0 r0 r0' is trapped by the fetch guard, so r1 is the source.
func MakeCodeNop() Code {
	return MakeCode(cpu.COND_NV, OP_OR, 0, 0, 1)
}

// Cond returns the condition code from the instruction word.
func (code Code) Cond() cpu.Cond {
	return cpu.Cond(code) & cpu.COND_MASK
}

// Op returns the operation from the instruction word.
func (code Code) Op() CodeOp {
	return CodeOp(code >> 28)
}

// Rd returns the destination register.
func (code Code) Rd() int {
	return int(code>>24) & 0xf
}

// Ra returns the first source register.
func (code Code) Ra() int {
	return int(code>>20) & 0xf
}

// Rb returns the second source register, if not Immediate().
func (code Code) Rb() int {
	return int(code>>4) & 0xf
}

// Immediate returns true if the second operand is Simm().
func (code Code) Immediate() bool {
	return (uint32(code) & immFlag) != 0
}

// Simm returns the sign extended 15-bit immediate.
func (code Code) Simm() int32 {
	return int32(uint32(code)<<13) >> 17
}

// Imm20 returns the MOVHI immediate.
func (code Code) Imm20() uint32 {
	return (uint32(code) >> 4) & IMM20_MAX
}

// operand returns the value of the second operand.
func (code Code) operand(c *cpu.Cpu) uint32 {
	if code.Immediate() {
		return uint32(code.Simm())
	}
	return c.Register.Get(code.Rb())
}

// mnemonic returns the op, with a condition suffix unless always.
func (code Code) mnemonic() string {
	cond := code.Cond()
	if cond == cpu.COND_AL {
		return code.Op().String()
	}
	return fmt.Sprintf("%v.%v", code.Op(), cond)
}

// operandString returns the second operand in assembly form.
func (code Code) operandString() string {
	if code.Immediate() {
		return fmt.Sprintf("%d", code.Simm())
	}
	return regName(code.Rb())
}

func regName(reg int) string {
	return fmt.Sprintf("r%d", reg)
}
