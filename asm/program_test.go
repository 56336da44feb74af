package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/run1920/cpu"
	"github.com/ezrec/run1920/isa"
)

func testProgram() *Program {
	return &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Address: 0, Words: []string{"li", "r1", "0x12345"},
				Codes: []isa.Code{
					isa.MakeCodeMovhi(cpu.COND_AL, 1, 0x12),
					isa.MakeCodeImm(cpu.COND_AL, isa.OP_OR, 1, 1, 0x345),
				}},
			{LineNo: 2, Address: 8, Words: []string{"add", "r1", "r1", "r1"},
				Codes: []isa.Code{isa.MakeCode(cpu.COND_AL, isa.OP_ADD, 1, 1, 1)}},
			{LineNo: 4, Address: 16, Words: []string{"halt"},
				Codes: []isa.Code{isa.MakeCodeHalt(cpu.COND_AL)}},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.Opcode.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(4)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.Opcode.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(8)
	assert.NotNil(dbg.Opcode)
	assert.Equal(2, dbg.Opcode.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(12)
	assert.Nil(dbg.Opcode)

	dbg = prog.Debug(100)
	assert.Nil(dbg.Opcode)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	assert.Equal([]uint32{
		uint32(isa.MakeCodeMovhi(cpu.COND_AL, 1, 0x12)),
		uint32(isa.MakeCodeImm(cpu.COND_AL, isa.OP_OR, 1, 1, 0x345)),
		uint32(isa.MakeCode(cpu.COND_AL, isa.OP_ADD, 1, 1, 1)),
		0,
		uint32(isa.MakeCodeHalt(cpu.COND_AL)),
	}, prog.Binary())

	assert.Nil((&Program{}).Binary())
}

func TestProgram_Marshal(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Address: 0, Codes: []isa.Code{0xdeadbeef, 0x1e}},
		},
	}

	var out strings.Builder
	err := prog.Marshal(&out)
	assert.NoError(err)
	assert.Equal(IMAGE_VERSION+"\ndeadbeef\n0000001e\n", out.String())

	words, err := cpu.ParseImage(strings.NewReader(out.String()))
	assert.NoError(err)
	assert.Equal([]uint32{0xdeadbeef, 0x1e}, words)
}
