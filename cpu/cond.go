// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

// Flags are the condition flags, set by instructions.
type Flags struct {
	Negative bool
	Zero     bool
	Carry    bool
	Overflow bool
}

// Set all four flags.
func (fl *Flags) Set(n, z, c, o bool) {
	fl.Negative = n
	fl.Zero = z
	fl.Carry = c
	fl.Overflow = o
}

// String returns the flags as "NZCO", lower case when clear.
func (fl Flags) String() string {
	out := []byte("nzco")
	for n, set := range [4]bool{fl.Negative, fl.Zero, fl.Carry, fl.Overflow} {
		if set {
			out[n] -= 'a' - 'A'
		}
	}
	return string(out)
}

// Cond is a 4-bit condition code: a 3-bit selector in bits 3..1 and
// a negate bit in bit 0.
type Cond uint8

const (
	COND_EQ = Cond(0b000_0) // eq: Z
	COND_NE = Cond(0b000_1) // ne: !Z
	COND_CS = Cond(0b001_0) // cs: C
	COND_CC = Cond(0b001_1) // cc: !C
	COND_MI = Cond(0b010_0) // mi: N
	COND_PL = Cond(0b010_1) // pl: !N
	COND_VS = Cond(0b011_0) // vs: O
	COND_VC = Cond(0b011_1) // vc: !O
	COND_HI = Cond(0b100_0) // hi: C && !Z
	COND_LS = Cond(0b100_1) // ls: !(C && !Z)
	COND_GE = Cond(0b101_0) // ge: N == O
	COND_LT = Cond(0b101_1) // lt: N != O
	COND_GT = Cond(0b110_0) // gt: N == O && !Z
	COND_LE = Cond(0b110_1) // le: !(N == O && !Z)
	COND_NV = Cond(0b111_0) // nv: never
	COND_AL = Cond(0b111_1) // al: always

	COND_MASK = Cond(0xf)
)

var _cond_names = [16]string{
	"eq", "ne", "cs", "cc", "mi", "pl", "vs", "vc",
	"hi", "ls", "ge", "lt", "gt", "le", "nv", "al",
}

// String returns the condition mnemonic.
func (cond Cond) String() string {
	return _cond_names[cond&COND_MASK]
}

// ParseCond returns the condition for a mnemonic.
func ParseCond(name string) (cond Cond, ok bool) {
	for n, str := range _cond_names {
		if str == name {
			return Cond(n), true
		}
	}
	return
}

// Selector returns the base predicate selector, 0 to 7.
func (cond Cond) Selector() int {
	return int(cond&COND_MASK) >> 1
}

// Negated returns true if the base predicate is inverted.
func (cond Cond) Negated() bool {
	return (cond & 1) != 0
}

// Test evaluates the condition against the flags.
// Selector 7 is constant false, so COND_NV never passes and COND_AL
// always passes.
func (cond Cond) Test(fl Flags) bool {
	var pass bool

	switch cond.Selector() {
	case 0:
		pass = fl.Zero
	case 1:
		pass = fl.Carry
	case 2:
		pass = fl.Negative
	case 3:
		pass = fl.Overflow
	case 4:
		pass = fl.Carry && !fl.Zero
	case 5:
		pass = fl.Negative == fl.Overflow
	case 6:
		pass = fl.Negative == fl.Overflow && !fl.Zero
	case 7:
		pass = false
	}

	if cond.Negated() {
		return !pass
	}

	return pass
}
