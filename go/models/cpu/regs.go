package cpu

import (
	"fmt"

	"github.com/pkg/errors"
)

// implements register and context methods conforming to cpu.Cpu
// if zero is set, x0 reads as zero and ignores writes like real RISC-V
type Regs struct {
	vals [NumRegs]Word
	pc   uint64
	zero bool
}

type RegContext struct {
	Vals [NumRegs]Word
	PC   uint64
}

func NewRegs(zero bool) *Regs {
	return &Regs{zero: zero}
}

func RegName(reg int) string {
	return fmt.Sprintf("x%d", reg)
}

// CheckReg validates a register index without touching state.
func CheckReg(reg int) error {
	if reg < 0 || reg >= NumRegs {
		return &RegError{Reg: reg}
	}
	return nil
}

func (r *Regs) RegRead(reg int) (Word, error) {
	if err := CheckReg(reg); err != nil {
		return 0, err
	}
	return r.vals[reg], nil
}

func (r *Regs) RegWrite(reg int, val Word) error {
	if err := CheckReg(reg); err != nil {
		return err
	}
	if reg == 0 && r.zero {
		return nil
	}
	r.vals[reg] = val
	return nil
}

func (r *Regs) PC() uint64 {
	return r.pc
}

func (r *Regs) Advance() {
	r.pc++
}

// JumpTo does not validate target, that is up to the interpreter.
func (r *Regs) JumpTo(target uint64) {
	r.pc = target
}

// Values returns a copy of the register file.
func (r *Regs) Values() [NumRegs]Word {
	return r.vals
}

func (r *Regs) ContextSave(reuse interface{}) (interface{}, error) {
	var ctx *RegContext
	if reuse != nil {
		var ok bool
		if ctx, ok = reuse.(*RegContext); !ok {
			return nil, errors.New("incorrect context type")
		}
	} else {
		ctx = &RegContext{}
	}
	ctx.Vals = r.vals
	ctx.PC = r.pc
	return ctx, nil
}

func (r *Regs) ContextRestore(ctx interface{}) error {
	if c, ok := ctx.(*RegContext); !ok {
		return errors.New("incorrect context type")
	} else {
		r.vals = c.Vals
		r.pc = c.PC
		return nil
	}
}
