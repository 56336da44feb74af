package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCond_Table(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		flags Flags
		cond  Cond
		pass  bool
	}){
		{"eq_z", Flags{Zero: true}, COND_EQ, true},
		{"ne_z", Flags{Zero: true}, COND_NE, false},
		{"eq_nz", Flags{}, COND_EQ, false},
		{"cs", Flags{Carry: true}, COND_CS, true},
		{"cc", Flags{Carry: true}, COND_CC, false},
		{"mi", Flags{Negative: true}, COND_MI, true},
		{"pl", Flags{Negative: true}, COND_PL, false},
		{"vs", Flags{Overflow: true}, COND_VS, true},
		{"vc", Flags{}, COND_VC, true},
		{"hi", Flags{Carry: true}, COND_HI, true},
		{"hi_z", Flags{Carry: true, Zero: true}, COND_HI, false},
		{"ls_z", Flags{Carry: true, Zero: true}, COND_LS, true},
		{"ge_no", Flags{Negative: true, Overflow: true}, COND_GE, true},
		{"lt_no", Flags{Negative: true, Overflow: true}, COND_LT, false},
		{"lt_n", Flags{Negative: true}, COND_LT, true},
		{"gt", Flags{}, COND_GT, true},
		{"gt_z", Flags{Zero: true}, COND_GT, false},
		{"le_z", Flags{Zero: true}, COND_LE, true},
	}

	for _, entry := range table {
		assert.Equal(entry.pass, entry.cond.Test(entry.flags), entry.name)
	}
}

func allFlags() (all []Flags) {
	for n := range 16 {
		all = append(all, Flags{
			Negative: (n & 1) != 0,
			Zero:     (n & 2) != 0,
			Carry:    (n & 4) != 0,
			Overflow: (n & 8) != 0,
		})
	}
	return
}

func TestCond_NeverAlways(t *testing.T) {
	assert := assert.New(t)

	for _, fl := range allFlags() {
		assert.False(COND_NV.Test(fl), fl.String())
		assert.True(COND_AL.Test(fl), fl.String())
	}
}

func TestCond_Negation(t *testing.T) {
	assert := assert.New(t)

	for _, fl := range allFlags() {
		for sel := range 8 {
			base := Cond(sel << 1)
			assert.NotEqual(base.Test(fl), (base | 1).Test(fl), "%v %v", base, fl)
		}
	}
}

func TestCond_Fields(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(7, COND_AL.Selector())
	assert.True(COND_AL.Negated())
	assert.Equal(5, COND_GE.Selector())
	assert.False(COND_GE.Negated())
}

func TestCond_String(t *testing.T) {
	assert := assert.New(t)

	for n := range 16 {
		cond := Cond(n)
		parsed, ok := ParseCond(cond.String())
		assert.True(ok)
		assert.Equal(cond, parsed)
	}

	_, ok := ParseCond("xx")
	assert.False(ok)
}

func TestFlags_String(t *testing.T) {
	assert := assert.New(t)

	var fl Flags
	assert.Equal("nzco", fl.String())

	fl.Set(true, false, true, false)
	assert.Equal("NzCo", fl.String())
}
