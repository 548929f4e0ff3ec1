package trace

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/lunixbochs/rvsim/go/models"
	"github.com/lunixbochs/rvsim/go/models/cpu"
)

// Trace turns cpu hooks into a stream of ops.
type Trace struct {
	regs  [cpu.NumRegs]cpu.Word
	hooks []cpu.Hook

	cpu    cpu.Cpu
	w      io.WriteCloser
	tf     *TraceWriter
	config *models.TraceConfig
	err    error

	attached bool
}

func NewTrace(c cpu.Cpu, header *TraceHeader, config *models.TraceConfig) (*Trace, error) {
	t := &Trace{cpu: c, config: config}
	var err error
	t.w = config.TraceWriter
	if t.w == nil && config.Tracefile != "" {
		if t.w, err = os.Create(config.Tracefile); err != nil {
			return nil, errors.Wrapf(err, "failed to create tracefile '%s'", config.Tracefile)
		}
	}
	if t.w != nil {
		if t.tf, err = NewWriter(t.w, header); err != nil {
			t.w.Close()
			return nil, errors.Wrap(err, "failed to create trace writer")
		}
	}
	return t, nil
}

func (t *Trace) hook(enum int, f interface{}) error {
	hh, err := t.cpu.HookAdd(enum, f, 1, 0)
	if err != nil {
		return errors.Wrap(err, "HookAdd failed")
	}
	t.hooks = append(t.hooks, hh)
	return nil
}

func (t *Trace) Attach() error {
	if t.attached {
		return nil
	}
	t.attached = true
	// registers may be preset, so the trace starts with every nonzero value
	for i := range t.regs {
		t.regs[i] = 0
	}
	t.OnRegUpdate()

	if err := t.hook(cpu.HOOK_CODE, func(_ cpu.Cpu, pc uint64, ins cpu.Ins) {
		t.OnStep(pc, ins)
	}); err != nil {
		return err
	}
	if err := t.hook(cpu.HOOK_MEM_READ|cpu.HOOK_MEM_WRITE, func(_ cpu.Cpu, access int, addr uint64, val cpu.Word) {
		if access == cpu.MEM_WRITE {
			t.Send(&OpStore{Addr: addr, Val: int32(val)})
		} else {
			t.Send(&OpLoad{Addr: addr, Val: int32(val)})
		}
	}); err != nil {
		return err
	}
	return t.hook(cpu.HOOK_CACHE, func(_ cpu.Cpu, event int, addr uint64, slot int) {
		t.Send(&OpCache{Event: uint8(event), Addr: addr, Slot: int32(slot)})
	})
}

// Detach flushes pending register changes and finishes the trace with an exit op.
func (t *Trace) Detach(reason uint8, steps uint64) error {
	if !t.attached {
		return t.err
	}
	t.attached = false
	t.OnRegUpdate()
	t.Send(&OpExit{Reason: reason, Steps: steps})
	for _, hh := range t.hooks {
		t.cpu.HookDel(hh)
	}
	t.hooks = nil
	if t.tf != nil {
		if err := t.tf.Close(); err != nil && t.err == nil {
			t.err = errors.Wrap(err, "failed to close tracefile")
		}
		t.tf = nil
	}
	return t.err
}

// Send writes op to the tracefile and hands it to every callback.
// The first write error is kept and returned from Detach.
func (t *Trace) Send(op models.Op) {
	if t.tf != nil && t.err == nil {
		if err := t.tf.Pack(op); err != nil {
			t.err = errors.Wrap(err, "failed to write trace op")
		}
	}
	for _, cb := range t.config.OpCallback {
		cb(op)
	}
}

// OnRegUpdate emits an OpReg for every register that changed since the last call.
func (t *Trace) OnRegUpdate() {
	for i := range t.regs {
		val, err := t.cpu.RegRead(i)
		if err != nil {
			continue
		}
		if val != t.regs[i] {
			t.regs[i] = val
			t.Send(&OpReg{Num: uint8(i), Val: int32(val)})
		}
	}
}

func (t *Trace) OnStep(pc uint64, ins cpu.Ins) {
	// register changes belong to the previous instruction
	t.OnRegUpdate()
	t.Send(&OpStep{PC: pc, Text: ins.String()})
}
