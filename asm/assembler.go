// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package asm assembles RUN1920 assembly language into machine code
// images.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/run1920/cpu"
	"github.com/ezrec/run1920/internal"
	"github.com/ezrec/run1920/isa"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// LinkKind is how a label is patched into an opcode.
type LinkKind int

const (
	LINK_NONE     = LinkKind(0) // No label.
	LINK_RELATIVE = LinkKind(1) // simm of the last code, relative to the next instruction.
	LINK_WORD     = LinkKind(2) // The code is the label address.
	LINK_LI       = LinkKind(3) // movhi + or pair loading the label address.
)

// Opcode represents a line of assembled code with its source location and generated instructions.
type Opcode struct {
	LineNo    int
	Address   int
	Words     []string
	Codes     []isa.Code
	LinkLabel string
	Link      LinkKind
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":  "0",
	"IMM_MIN": fmt.Sprintf("%d", isa.IMM_MIN),
	"IMM_MAX": fmt.Sprintf("%d", isa.IMM_MAX),
}

// Assembler is a single pass macro assembler for the RUN1920 system.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to byte addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// PredefineAll adds every define, such as those of a cpu.
func (asm *Assembler) PredefineAll(defines iter.Seq2[string, string]) {
	for equ, value := range defines {
		asm.Predefine(equ, value)
	}
}

// regMap is a map of register names to register numbers.
var regMap = map[string]int{
	"sp": cpu.REG_SP,
	"lr": cpu.REG_LR,
	"pc": cpu.REG_PC,
}

func init() {
	for n := range cpu.REG_COUNT {
		regMap[fmt.Sprintf("r%d", n)] = n
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) == 0 {
		err = ErrParseNumber("~")
		return
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word)
		return
	}
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil || v64 > 0xffffffff || v64 < -int64(0x80000000) {
		err = ErrParseNumber(word)
		return
	}

	value = uint32(v64)

	if invert {
		value = ^value
	}

	return
}

// register returns the register number for a word.
func (asm *Assembler) register(word string) (reg int, err error) {
	reg, ok := regMap[word]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// immediate returns a value that fits a 15-bit signed immediate.
func (asm *Assembler) immediate(word string) (simm int32, err error) {
	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	simm = int32(value)
	if simm < isa.IMM_MIN || simm > isa.IMM_MAX {
		err = ErrImmediateRange
	}

	return
}

// regOrImm encodes the last operand as either a register or an immediate.
func (asm *Assembler) regOrImm(cond cpu.Cond, op isa.CodeOp, rd, ra int, word string) (code isa.Code, err error) {
	rb, is_reg := regMap[word]
	if is_reg {
		code = isa.MakeCode(cond, op, rd, ra, rb)
		return
	}

	simm, err := asm.immediate(word)
	if err != nil {
		return
	}

	code = isa.MakeCodeImm(cond, op, rd, ra, simm)
	return
}

// isLabel returns true if word could name a label.
var isLabel = regexp.MustCompile(`^[A-Za-z_.@][A-Za-z0-9_.@]*$`).MatchString

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(int64(int32(value32)))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

var (
	reCharacter = regexp.MustCompile(`'\\?[^']'`)
	reParen     = regexp.MustCompile(`\$\([^\$]*\)`)
)

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "0":
				str = "\000"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", int32(value))
	})
	if err != nil {
		return
	}

	line = strings.ReplaceAll(line, ",", " ")
	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddress()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// @ labels are unique to each expansion.
		local := fmt.Sprintf("%v_%v_", name, lineno)
		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddress gets the byte address of the next opcode.
func (asm *Assembler) currentAddress() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Address + 4*len(last.Codes)
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = internal.Defines(maps.All(sysEquate), maps.All(asm.predefine))

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if op.Link == LINK_NONE {
			continue
		}

		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		err = asm.link(op)
		if err != nil {
			return
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// link patches the label address into an opcode.
func (asm *Assembler) link(op *Opcode) (err error) {
	target, ok := asm.Label[op.LinkLabel]
	if !ok {
		err = ErrLabelMissing(op.LinkLabel)
		return
	}

	last := len(op.Codes) - 1

	switch op.Link {
	case LINK_RELATIVE:
		code := op.Codes[last]
		offset := target - (op.Address + 4*last + 4)
		if offset < isa.IMM_MIN || offset > isa.IMM_MAX {
			err = ErrTargetRange
			return
		}
		op.Codes[last] = isa.MakeCodeImm(code.Cond(), code.Op(), code.Rd(), code.Ra(), int32(offset))
	case LINK_WORD:
		op.Codes[last] = isa.Code(uint32(target))
	case LINK_LI:
		hi, lo := op.Codes[0], op.Codes[1]
		op.Codes[0] = isa.MakeCodeMovhi(hi.Cond(), hi.Rd(), uint32(target)>>isa.HI_SHIFT)
		op.Codes[1] = isa.MakeCodeImm(lo.Cond(), isa.OP_OR, lo.Rd(), lo.Ra(), int32(uint32(target)&0xfff))
	}

	return
}

// loadImmediate returns the codes that load value into rd.
func loadImmediate(cond cpu.Cond, rd int, value uint32) (codes []isa.Code) {
	simm := int32(value)
	if simm >= isa.IMM_MIN && simm <= isa.IMM_MAX {
		return []isa.Code{isa.MakeCodeImm(cond, isa.OP_OR, rd, cpu.REG_ZERO, simm)}
	}

	return []isa.Code{
		isa.MakeCodeMovhi(cond, rd, value>>isa.HI_SHIFT),
		isa.MakeCodeImm(cond, isa.OP_OR, rd, rd, int32(value&0xfff)),
	}
}

// aluArgs maps ALU mnemonics to their operation.
var aluArgs = map[string]isa.CodeOp{
	"or":  isa.OP_OR,
	"and": isa.OP_AND,
	"xor": isa.OP_XOR,
	"add": isa.OP_ADD,
	"sub": isa.OP_SUB,
	"shl": isa.OP_SHL,
	"shr": isa.OP_SHR,
}

// argCount checks the number of operands.
func argCount(args []string, min, max int) (err error) {
	switch {
	case len(args) < min:
		err = ErrOpcodeValueMissing
	case len(args) > max:
		err = ErrOpcodeExtraArgs
	}
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []isa.Code
	var label string
	var link LinkKind

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Address: asm.currentAddress(), Words: initial_words, Codes: codes, LinkLabel: label, Link: link}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	// Condition suffix: add.eq, jump.ne, ...
	mnemonic, suffix, has_cond := strings.Cut(words[0], ".")
	cond := cpu.COND_AL
	if has_cond && len(mnemonic) > 0 {
		var ok bool
		cond, ok = cpu.ParseCond(suffix)
		if !ok {
			err = ErrConditionInvalid
			return
		}
	} else {
		mnemonic = words[0]
	}
	args := words[1:]

	// Alternate syntax substitutions
	switch {
	case mnemonic == "mov":
		// mov RD X => or RD r0 X
		mnemonic = "or"
		if len(args) > 0 {
			args = append([]string{args[0], "r0"}, args[1:]...)
		}
	case mnemonic == "not":
		// not RD RA => xor RD RA -1
		mnemonic = "xor"
		args = append(args, "-1")
	case mnemonic == "ret" && len(args) == 0:
		// ret => jump lr
		mnemonic = "jump"
		args = []string{"lr"}
	default:
		// unchanged
	}

	alu, is_alu := aluArgs[mnemonic]

	switch {
	case is_alu:
		err = argCount(args, 3, 3)
		if err != nil {
			return
		}
		var rd, ra int
		if rd, err = asm.register(args[0]); err != nil {
			return
		}
		if ra, err = asm.register(args[1]); err != nil {
			return
		}
		var code isa.Code
		code, err = asm.regOrImm(cond, alu, rd, ra, args[2])
		if err != nil {
			return
		}
		codes = append(codes, code)
	case mnemonic == "cmp":
		err = argCount(args, 2, 2)
		if err != nil {
			return
		}
		var ra int
		if ra, err = asm.register(args[0]); err != nil {
			return
		}
		var code isa.Code
		code, err = asm.regOrImm(cond, isa.OP_CMP, cpu.REG_ZERO, ra, args[1])
		if err != nil {
			return
		}
		codes = append(codes, code)
	case mnemonic == "load" || mnemonic == "store":
		err = argCount(args, 2, 3)
		if err != nil {
			return
		}
		op := isa.OP_LOAD
		if mnemonic == "store" {
			op = isa.OP_STORE
		}
		var rd, ra int
		if rd, err = asm.register(args[0]); err != nil {
			return
		}
		if ra, err = asm.register(args[1]); err != nil {
			return
		}
		offset := "0"
		if len(args) == 3 {
			offset = args[2]
		}
		var code isa.Code
		code, err = asm.regOrImm(cond, op, rd, ra, offset)
		if err != nil {
			return
		}
		codes = append(codes, code)
	case mnemonic == "jump" || mnemonic == "call":
		op := isa.OP_JUMP
		link_reg := cpu.REG_ZERO
		if mnemonic == "call" {
			op = isa.OP_CALL
			link_reg = cpu.REG_LR
			err = argCount(args, 1, 2)
			if err == nil && len(args) == 2 {
				link_reg, err = asm.register(args[1])
			}
		} else {
			err = argCount(args, 1, 1)
		}
		if err != nil {
			return
		}
		target := args[0]
		if ra, is_reg := regMap[target]; is_reg {
			codes = append(codes, isa.MakeCode(cond, op, link_reg, ra, 0))
			return
		}
		simm, num_err := asm.immediate(target)
		if num_err == nil {
			codes = append(codes, isa.MakeCodeImm(cond, op, link_reg, cpu.REG_ZERO, simm))
			return
		}
		if !isLabel(target) {
			err = num_err
			return
		}
		codes = append(codes, isa.MakeCodeImm(cond, op, link_reg, cpu.REG_ZERO, 0))
		label = target
		link = LINK_RELATIVE
	case mnemonic == "push" || mnemonic == "pop":
		err = argCount(args, 1, 1)
		if err != nil {
			return
		}
		op := isa.OP_PUSH
		if mnemonic == "pop" {
			op = isa.OP_POP
		}
		var rd int
		if rd, err = asm.register(args[0]); err != nil {
			return
		}
		codes = append(codes, isa.MakeCode(cond, op, rd, cpu.REG_ZERO, 0))
	case mnemonic == "movhi":
		err = argCount(args, 2, 2)
		if err != nil {
			return
		}
		var rd int
		if rd, err = asm.register(args[0]); err != nil {
			return
		}
		var value uint32
		value, err = asm.valueOf(args[1])
		if err != nil {
			return
		}
		if value > isa.IMM20_MAX {
			err = ErrImmediateRange
			return
		}
		codes = append(codes, isa.MakeCodeMovhi(cond, rd, value))
	case mnemonic == "li":
		err = argCount(args, 2, 2)
		if err != nil {
			return
		}
		var rd int
		if rd, err = asm.register(args[0]); err != nil {
			return
		}
		value, num_err := asm.valueOf(args[1])
		if num_err == nil {
			codes = loadImmediate(cond, rd, value)
			return
		}
		if !isLabel(args[1]) {
			err = num_err
			return
		}
		codes = append(codes,
			isa.MakeCodeMovhi(cond, rd, 0),
			isa.MakeCodeImm(cond, isa.OP_OR, rd, rd, 0),
		)
		label = args[1]
		link = LINK_LI
	case mnemonic == "halt":
		err = argCount(args, 0, 0)
		if err != nil {
			return
		}
		codes = append(codes, isa.MakeCodeHalt(cond))
	case mnemonic == "nop":
		err = argCount(args, 0, 0)
		if err != nil {
			return
		}
		codes = append(codes, isa.MakeCodeNop())
	case words[0] == ".word":
		err = argCount(args, 1, 1)
		if err != nil {
			return
		}
		value, num_err := asm.valueOf(args[0])
		if num_err == nil {
			codes = append(codes, isa.Code(value))
			return
		}
		if !isLabel(args[0]) {
			err = num_err
			return
		}
		codes = append(codes, isa.Code(0))
		label = args[0]
		link = LINK_WORD
	default:
		err = ErrInstructionInvalid
		return
	}

	return
}
