// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"fmt"

	"github.com/ezrec/run1920/cpu"
)

// Alu is an arithmetic, logic or compare instruction: rd = ra op operand.
// All of them set the flags; CMP does not write rd.
type Alu struct{ Code }

// Memory is a LOAD or STORE of rd at ra + operand.
type Memory struct{ Code }

// Branch is a JUMP or CALL. The immediate form is relative to the
// already advanced program counter; the register form jumps to ra.
// CALL saves the return address in rd.
type Branch struct{ Code }

// Stack is a PUSH or POP of rd through the stack pointer.
type Stack struct{ Code }

// MoveHigh sets rd to imm20 << 12.
type MoveHigh struct{ Code }

// Halt stops the processor.
type Halt struct{ Code }

var (
	_ cpu.Instruction = Alu{}
	_ cpu.Instruction = Memory{}
	_ cpu.Instruction = Branch{}
	_ cpu.Instruction = Stack{}
	_ cpu.Instruction = MoveHigh{}
	_ cpu.Instruction = Halt{}
)

// doAlu performs the requested ALU action, and returns the output value
// and the carry and overflow flags.
func doAlu(op CodeOp, a uint32, b uint32) (output uint32, carry, overflow bool) {
	switch op {
	case OP_OR:
		output = a | b
	case OP_AND:
		output = a & b
	case OP_XOR:
		output = a ^ b
	case OP_ADD:
		sum := uint64(a) + uint64(b)
		output = uint32(sum)
		carry = (sum >> 32) != 0
		overflow = ((a^output)&(b^output))>>31 != 0
	case OP_SUB, OP_CMP:
		output = a - b
		carry = a >= b // no borrow
		overflow = ((a^b)&(a^output))>>31 != 0
	case OP_SHL:
		n := b & 0x1f // clamp to 31 bits of shift
		output = a << n
		if n > 0 {
			carry = ((a >> (32 - n)) & 1) != 0
		}
	case OP_SHR:
		n := b & 0x1f // clamp to 31 bits of shift
		output = a >> n
		if n > 0 {
			carry = ((a >> (n - 1)) & 1) != 0
		}
	}

	return
}

func (inst Alu) Execute(c *cpu.Cpu) error {
	op := inst.Op()

	output, carry, overflow := doAlu(op, c.Register.Get(inst.Ra()), inst.operand(c))

	c.Flags.Set(output>>31 != 0, output == 0, carry, overflow)

	if op != OP_CMP {
		c.Register.Set(inst.Rd(), output)
	}

	return nil
}

func (inst Alu) String() string {
	if inst.Op() == OP_CMP {
		return fmt.Sprintf("%v %v, %v", inst.mnemonic(), regName(inst.Ra()), inst.operandString())
	}
	return fmt.Sprintf("%v %v, %v, %v", inst.mnemonic(), regName(inst.Rd()), regName(inst.Ra()), inst.operandString())
}

func (inst Memory) Execute(c *cpu.Cpu) (err error) {
	addr := c.Register.Get(inst.Ra()) + inst.operand(c)

	switch inst.Op() {
	case OP_LOAD:
		var value uint32
		value, err = c.ReadMemory(addr)
		if err != nil {
			return
		}
		c.Register.Set(inst.Rd(), value)
	case OP_STORE:
		err = c.WriteMemory(addr, c.Register.Get(inst.Rd()))
	}

	return
}

func (inst Memory) String() string {
	return fmt.Sprintf("%v %v, [%v + %v]", inst.mnemonic(), regName(inst.Rd()), regName(inst.Ra()), inst.operandString())
}

func (inst Branch) Execute(c *cpu.Cpu) error {
	pc := c.Register.Get(cpu.REG_PC)

	var target uint32
	if inst.Immediate() {
		target = pc + uint32(inst.Simm())
	} else {
		target = c.Register.Get(inst.Ra())
	}

	if inst.Op() == OP_CALL {
		c.Register.Set(inst.Rd(), pc)
	}

	c.Register.Set(cpu.REG_PC, target)

	return nil
}

func (inst Branch) String() string {
	var target string
	if inst.Immediate() {
		target = fmt.Sprintf("%+d", inst.Simm())
	} else {
		target = regName(inst.Ra())
	}

	if inst.Op() == OP_CALL {
		return fmt.Sprintf("%v %v, %v", inst.mnemonic(), target, regName(inst.Rd()))
	}
	return fmt.Sprintf("%v %v", inst.mnemonic(), target)
}

func (inst Stack) Execute(c *cpu.Cpu) (err error) {
	sp := c.Register.Get(cpu.REG_SP)

	switch inst.Op() {
	case OP_PUSH:
		sp -= 4
		err = c.WriteMemory(sp, c.Register.Get(inst.Rd()))
		if err != nil {
			return
		}
		c.Register.Set(cpu.REG_SP, sp)
	case OP_POP:
		var value uint32
		value, err = c.ReadMemory(sp)
		if err != nil {
			return
		}
		c.Register.Set(cpu.REG_SP, sp+4)
		c.Register.Set(inst.Rd(), value)
	}

	return
}

func (inst Stack) String() string {
	return fmt.Sprintf("%v %v", inst.mnemonic(), regName(inst.Rd()))
}

func (inst MoveHigh) Execute(c *cpu.Cpu) error {
	c.Register.Set(inst.Rd(), inst.Imm20()<<HI_SHIFT)
	return nil
}

func (inst MoveHigh) String() string {
	return fmt.Sprintf("%v %v, 0x%05x", inst.mnemonic(), regName(inst.Rd()), inst.Imm20())
}

func (inst Halt) Execute(c *cpu.Cpu) error {
	c.Halt(nil)
	return nil
}

func (inst Halt) String() string {
	return inst.mnemonic()
}
