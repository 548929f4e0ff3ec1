package rv

import (
	"fmt"
	"strings"

	"github.com/lunixbochs/rvsim/go/models/cpu"
)

// Ins is one decoded instruction. Which operands are meaningful depends on Op:
//
//	add/sub: Rd, Rs1, Rs2
//	load:    Rd, Imm (address)
//	store:   Imm (address), Rs1 (source)
//	jump:    Imm (target index)
//
// Register indices are not validated until the instruction executes.
type Ins struct {
	Op  uint8
	Rd  int
	Rs1 int
	Rs2 int
	Imm uint64
}

func Add(dst, src1, src2 int) Ins   { return Ins{Op: OP_ADD, Rd: dst, Rs1: src1, Rs2: src2} }
func Sub(dst, src1, src2 int) Ins   { return Ins{Op: OP_SUB, Rd: dst, Rs1: src1, Rs2: src2} }
func Load(dst int, addr uint64) Ins { return Ins{Op: OP_LOAD, Rd: dst, Imm: addr} }
func Store(addr uint64, src int) Ins {
	return Ins{Op: OP_STORE, Rs1: src, Imm: addr}
}
func Jump(target uint64) Ins { return Ins{Op: OP_JUMP, Imm: target} }
func Halt() Ins              { return Ins{Op: OP_HALT} }

func (i Ins) Mnemonic() string {
	if data, ok := opData[i.Op]; ok {
		return data.name
	}
	return fmt.Sprintf(".op%#x", i.Op)
}

func (i Ins) OpStr() string {
	data, ok := opData[i.Op]
	if !ok {
		return ""
	}
	reg := cpu.RegName
	var args []string
	switch data.arg {
	case A_3REG:
		args = []string{reg(i.Rd), reg(i.Rs1), reg(i.Rs2)}
	case A_REG_IMM:
		args = []string{reg(i.Rd), fmt.Sprintf("%d", i.Imm)}
	case A_IMM_REG:
		args = []string{fmt.Sprintf("%d", i.Imm), reg(i.Rs1)}
	case A_IMM:
		args = []string{fmt.Sprintf("%d", i.Imm)}
	}
	return strings.Join(args, ", ")
}

func (i Ins) String() string {
	if ops := i.OpStr(); ops != "" {
		return i.Mnemonic() + " " + ops
	}
	return i.Mnemonic()
}

// regs returns the register operands read or written by the instruction.
func (i Ins) regs() []int {
	switch opData[i.Op].arg {
	case A_3REG:
		return []int{i.Rd, i.Rs1, i.Rs2}
	case A_REG_IMM:
		return []int{i.Rd}
	case A_IMM_REG:
		return []int{i.Rs1}
	}
	return nil
}

// Dis renders a program listing with instruction indices.
func Dis(program []Ins, start uint64, count int) []string {
	var out []string
	for pc := start; pc < uint64(len(program)) && len(out) < count; pc++ {
		out = append(out, fmt.Sprintf("%4d: %s", pc, program[pc]))
	}
	return out
}
