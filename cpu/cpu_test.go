package cpu

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/run1920/io"
)

// stubInstruction records its execution.
type stubInstruction struct {
	cond    Cond
	word    uint32
	execute func(cpu *Cpu) error
	ran     *int
}

func (si *stubInstruction) Cond() Cond {
	return si.cond
}

func (si *stubInstruction) Execute(cpu *Cpu) error {
	*si.ran++
	if si.execute != nil {
		return si.execute(cpu)
	}
	return nil
}

func (si *stubInstruction) String() string {
	return "stub"
}

// stubDecoder uses the low nibble as the condition code. Word 0xFFFFFFFF
// halts.
type stubDecoder struct {
	decoded int
	ran     int
	pcSeen  []uint32
}

func (sd *stubDecoder) Decode(word uint32) Instruction {
	sd.decoded++
	inst := &stubInstruction{cond: Cond(word & 0xf), word: word, ran: &sd.ran}
	inst.execute = func(cpu *Cpu) error {
		sd.pcSeen = append(sd.pcSeen, cpu.Register.Get(REG_PC))
		if word == 0xffffffff {
			cpu.Halt(nil)
		}
		return nil
	}
	return inst
}

func TestNewCpu(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(MEMORY_DEFAULT_WORDS, &stubDecoder{})

	assert.Equal(MEMORY_DEFAULT_WORDS*4, len(cpu.Bus.Memory))
	assert.Equal(uint32(MEMORY_DEFAULT_WORDS*4), cpu.Register.Get(REG_SP))
	assert.Equal(uint32(0), cpu.Register.Get(REG_PC))
	assert.False(cpu.Halted)
}

func TestCpu_Defines(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(4, nil)
	defines := map[string]string{}
	for key, value := range cpu.Defines() {
		defines[key] = value
	}

	assert.Equal("-512", defines["IO_ADDRESS"])

	offset := int32(IO_OFFSET)
	assert.Equal(IO_ADDRESS, uint32(offset))
	assert.Equal("15", defines["REG_PC"])
	assert.Equal("14", defines["REG_SP"])
}

func TestCpu_TickAdvancesPc(t *testing.T) {
	assert := assert.New(t)

	dec := &stubDecoder{}
	cpu := NewCpu(4, dec)
	_, err := cpu.LoadWords([]uint32{0x100f, 0x100e, 0xffffffff})
	require.NoError(t, err)

	// Always: executes, and sees the advanced PC.
	assert.NoError(cpu.Tick())
	assert.Equal(uint32(4), cpu.Register.Get(REG_PC))
	assert.Equal(1, dec.ran)
	assert.Equal([]uint32{4}, dec.pcSeen)

	// Never: the PC still advances, but nothing runs.
	assert.NoError(cpu.Tick())
	assert.Equal(uint32(8), cpu.Register.Get(REG_PC))
	assert.Equal(1, dec.ran)
	assert.Equal(2, dec.decoded)
	assert.Equal(2, cpu.Ticks)

	assert.NoError(cpu.Tick())
	assert.True(cpu.Halted)
	assert.NoError(cpu.Fault)

	assert.ErrorIs(cpu.Tick(), ErrHalted)
	assert.Equal(3, dec.decoded)
}

func TestCpu_GuardLowValue(t *testing.T) {
	assert := assert.New(t)

	dec := &stubDecoder{}
	cpu := NewCpu(4, dec)
	_, err := cpu.LoadWords([]uint32{5})
	require.NoError(t, err)

	err = cpu.Tick()
	assert.ErrorIs(err, ErrMissingHalt)
	assert.True(cpu.Halted)
	assert.ErrorIs(cpu.Fault, ErrMissingHalt)
	assert.Equal(0, dec.decoded)
	assert.Equal(0, dec.ran)
	assert.Equal(uint32(0), cpu.Register.Get(REG_PC))
}

func TestCpu_GuardBlankMemory(t *testing.T) {
	assert := assert.New(t)

	dec := &stubDecoder{}
	cpu := NewCpu(4, dec)
	_, err := cpu.LoadWords([]uint32{0x100f})
	require.NoError(t, err)

	for !cpu.Halted {
		cpu.Tick()
	}
	assert.ErrorIs(cpu.Fault, ErrMissingHalt)
	assert.Equal(uint32(4), cpu.Register.Get(REG_PC))
}

func TestCpu_FetchFault(t *testing.T) {
	assert := assert.New(t)

	dec := &stubDecoder{}
	cpu := NewCpu(4, dec)

	cpu.Register.Set(REG_PC, 2)
	err := cpu.Tick()
	assert.ErrorIs(err, ErrAddressAlign)
	assert.True(cpu.Halted)
	assert.Equal(uint32(2), cpu.Register.Get(REG_PC))
	assert.Equal(0, dec.decoded)

	cpu.Reset()
	cpu.Register.Set(REG_PC, 16)
	err = cpu.Tick()
	assert.ErrorIs(err, ErrAddressRange)
	assert.True(cpu.Halted)
}

func TestCpu_MemoryFaultHalts(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(4, nil)

	_, err := cpu.ReadMemory(3)
	assert.ErrorIs(err, ErrAddressAlign)
	assert.True(cpu.Halted)
	assert.ErrorIs(cpu.Fault, ErrAddressAlign)

	// The first fault is kept.
	err = cpu.WriteMemory(64, 0)
	assert.ErrorIs(err, ErrAddressRange)
	assert.ErrorIs(cpu.Fault, ErrAddressAlign)
}

func TestCpu_NoDecoder(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(4, nil)
	assert.ErrorIs(cpu.Tick(), ErrDecoder)
	assert.True(cpu.Halted)
}

func TestCpu_Trace(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	cpu := NewCpu(4, &stubDecoder{})
	cpu.Bus.Console = &io.Console{Output: out, Verbose: true}
	_, err := cpu.LoadWords([]uint32{0x100f, 0x100e})
	require.NoError(t, err)

	assert.NoError(cpu.Tick())
	assert.NoError(cpu.Tick())
	assert.Equal("00000000: stub\n", out.String())
	assert.NotNil(cpu.Instruction)
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(4, nil)
	cpu.Register.Set(1, 0x12345678)

	text := cpu.String()
	assert.Contains(text, "   r1: 1234_5678\n")
	assert.Contains(text, "flags: nzco\n")
	assert.Equal(REG_COUNT+1, strings.Count(text, "\n"))
}

func TestCpu_HaltVerbose(t *testing.T) {
	assert := assert.New(t)

	var logged bytes.Buffer
	log.SetOutput(&logged)
	defer log.SetOutput(os.Stderr)

	cpu := NewCpu(4, nil)
	cpu.Verbose = true
	cpu.Register.Set(3, 0x12345678)

	cpu.Halt(ErrMissingHalt)
	assert.Contains(logged.String(), "cpu: halt: "+ErrMissingHalt.Error())
	assert.Contains(logged.String(), cpu.String())
	assert.Contains(logged.String(), "r3: 1234_5678")
}
