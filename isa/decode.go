// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"github.com/ezrec/run1920/cpu"
)

// Decoder decodes RUN1920 instruction words. Every word decodes.
type Decoder struct{}

var _ cpu.Decoder = Decoder{}

// Decode returns the instruction for word.
func (Decoder) Decode(word uint32) cpu.Instruction {
	return Decode(Code(word))
}

// Decode returns the instruction variant for code.
func Decode(code Code) (inst cpu.Instruction) {
	switch code.Op() {
	case OP_OR, OP_AND, OP_XOR, OP_ADD, OP_SUB, OP_SHL, OP_SHR, OP_CMP:
		inst = Alu{code}
	case OP_LOAD, OP_STORE:
		inst = Memory{code}
	case OP_JUMP, OP_CALL:
		inst = Branch{code}
	case OP_PUSH, OP_POP:
		inst = Stack{code}
	case OP_MOVHI:
		inst = MoveHigh{code}
	default:
		inst = Halt{code}
	}

	return
}
