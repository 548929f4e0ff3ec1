package rv

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/lunixbochs/rvsim/go/models/cpu"
)

var ErrStepLimit = errors.New("step limit reached")

type State int

const (
	Running State = iota
	Halted
)

func (s State) String() string {
	if s == Halted {
		return "halted"
	}
	return "running"
}

type HaltReason int

const (
	HALT_NONE HaltReason = iota
	// a halt instruction executed
	HALT_INS
	// the pc ran past the end of the program
	HALT_END
)

func (h HaltReason) String() string {
	switch h {
	case HALT_INS:
		return "halt instruction"
	case HALT_END:
		return "end of program"
	}
	return "none"
}

// StepError records where a failing instruction was.
// The underlying kind stays reachable through errors.Is / errors.Cause.
type StepError struct {
	PC  uint64
	Ins Ins
	Err error
}

func (s *StepError) Error() string {
	return fmt.Sprintf("pc=%d %s: %v", s.PC, s.Ins, s.Err)
}

func (s *StepError) Cause() error  { return s.Err }
func (s *StepError) Unwrap() error { return s.Err }

type RvCpu struct {
	*cpu.Hooks
	*cpu.Regs

	cache   *cpu.Cache
	program []Ins

	state  State
	reason HaltReason
	steps  uint64
	limit  uint64

	exitRequest bool
}

type Context struct {
	Regs   cpu.RegContext
	State  State
	Reason HaltReason
	Steps  uint64
}

// New builds a cpu over program, issuing every memory access to cache.
// If zeroReg is set x0 is hardwired to zero.
func New(program []Ins, cache *cpu.Cache, zeroReg bool) *RvCpu {
	c := &RvCpu{
		Regs:    cpu.NewRegs(zeroReg),
		cache:   cache,
		program: program,
	}
	c.Hooks = cpu.NewHooks(c, cache)
	return c
}

// SetStepLimit makes Run fail with ErrStepLimit after n instructions. Zero disables the limit.
func (c *RvCpu) SetStepLimit(n uint64) {
	c.limit = n
}

func (c *RvCpu) Cache() *cpu.Cache  { return c.cache }
func (c *RvCpu) Program() []Ins     { return c.program }
func (c *RvCpu) State() State       { return c.state }
func (c *RvCpu) Halted() bool       { return c.state == Halted }
func (c *RvCpu) Reason() HaltReason { return c.reason }
func (c *RvCpu) Steps() uint64      { return c.steps }

func (c *RvCpu) MemLoad(addr uint64) (cpu.Word, error) {
	return c.cache.Load(addr)
}

func (c *RvCpu) MemStore(addr uint64, val cpu.Word) error {
	return c.cache.Store(addr, val)
}

func (c *RvCpu) halt(reason HaltReason) {
	c.state = Halted
	c.reason = reason
}

// validate checks every operand so a failing instruction never mutates state.
func (c *RvCpu) validate(ins Ins) error {
	if _, ok := opData[ins.Op]; !ok {
		return errors.Errorf("invalid op: %#x", ins.Op)
	}
	for _, reg := range ins.regs() {
		if err := cpu.CheckReg(reg); err != nil {
			return err
		}
	}
	switch ins.Op {
	case OP_JUMP:
		if ins.Imm >= uint64(len(c.program)) {
			return &cpu.JumpError{Target: ins.Imm, Len: len(c.program)}
		}
	case OP_LOAD:
		return c.cache.CheckAddr(ins.Imm, cpu.MEM_READ)
	case OP_STORE:
		return c.cache.CheckAddr(ins.Imm, cpu.MEM_WRITE)
	}
	return nil
}

// Exec applies a single instruction to the cpu without fetching it.
// It is a no-op once the cpu has halted.
func (c *RvCpu) Exec(ins Ins) error {
	if c.state == Halted {
		return nil
	}
	if err := c.validate(ins); err != nil {
		return err
	}
	// operands are valid from here on, so register errors are impossible
	switch ins.Op {
	case OP_ADD, OP_SUB:
		a, _ := c.RegRead(ins.Rs1)
		b, _ := c.RegRead(ins.Rs2)
		// int32 arithmetic wraps, like rv32 add/sub
		if ins.Op == OP_ADD {
			a += b
		} else {
			a -= b
		}
		c.RegWrite(ins.Rd, a)
		c.Advance()
	case OP_LOAD:
		val, err := c.cache.Load(ins.Imm)
		if err != nil {
			return err
		}
		c.RegWrite(ins.Rd, val)
		c.Advance()
	case OP_STORE:
		val, _ := c.RegRead(ins.Rs1)
		if err := c.cache.Store(ins.Imm, val); err != nil {
			return err
		}
		c.Advance()
	case OP_JUMP:
		c.JumpTo(ins.Imm)
	case OP_HALT:
		c.halt(HALT_INS)
	}
	return nil
}

// Step fetches and executes the instruction at pc.
// Running past the end of the program halts the cpu instead of failing.
// Code hooks only fire for instructions that passed validation, so a failing
// step leaves no trace of hook side effects either.
func (c *RvCpu) Step() error {
	if c.state == Halted {
		return nil
	}
	pc := c.PC()
	if pc >= uint64(len(c.program)) {
		c.halt(HALT_END)
		return nil
	}
	ins := c.program[pc]
	if err := c.validate(ins); err != nil {
		return &StepError{PC: pc, Ins: ins, Err: err}
	}
	c.OnCode(pc, ins)
	if err := c.Exec(ins); err != nil {
		return &StepError{PC: pc, Ins: ins, Err: err}
	}
	c.steps++
	return nil
}

// Run steps until the cpu halts, an instruction fails, a hook calls Stop,
// or the step limit is reached.
func (c *RvCpu) Run() error {
	c.exitRequest = false
	for c.state == Running && !c.exitRequest {
		if c.limit > 0 && c.steps >= c.limit && c.PC() < uint64(len(c.program)) {
			return errors.Wrapf(ErrStepLimit, "after %d steps", c.steps)
		}
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (c *RvCpu) Stop() error {
	c.exitRequest = true
	return nil
}

func (c *RvCpu) ContextSave(reuse interface{}) (interface{}, error) {
	var ctx *Context
	if reuse != nil {
		var ok bool
		if ctx, ok = reuse.(*Context); !ok {
			return nil, errors.New("incorrect context type")
		}
	} else {
		ctx = &Context{}
	}
	if _, err := c.Regs.ContextSave(&ctx.Regs); err != nil {
		return nil, err
	}
	ctx.State, ctx.Reason, ctx.Steps = c.state, c.reason, c.steps
	return ctx, nil
}

func (c *RvCpu) ContextRestore(ctx interface{}) error {
	saved, ok := ctx.(*Context)
	if !ok {
		return errors.New("incorrect context type")
	}
	if err := c.Regs.ContextRestore(&saved.Regs); err != nil {
		return err
	}
	c.state, c.reason, c.steps = saved.State, saved.Reason, saved.Steps
	return nil
}
