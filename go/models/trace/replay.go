package trace

import (
	"github.com/lunixbochs/rvsim/go/models"
	"github.com/lunixbochs/rvsim/go/models/cpu"
)

// Replay rebuilds machine state from a stream of ops.
type Replay struct {
	Regs [cpu.NumRegs]int32
	// every memory cell the trace has observed
	Mem map[uint64]int32
	PC  uint64

	Inscount uint64
	Cache    cpu.CacheStats
	Exit     *OpExit

	// pending is an OpStep representing the last unflushed instruction. Cleared by Flush().
	pending   *OpStep
	effects   []models.Op
	callbacks []func(models.Op, []models.Op)
}

func NewReplay() *Replay {
	return &Replay{Mem: make(map[uint64]int32)}
}

// Listen registers cb to receive each instruction along with its effects, and the final exit op.
func (r *Replay) Listen(cb func(models.Op, []models.Op)) {
	r.callbacks = append(r.callbacks, cb)
}

func (r *Replay) emit(op models.Op, effects []models.Op) {
	for _, cb := range r.callbacks {
		cb(op, effects)
	}
}

// Flush sends the pending instruction to listeners.
func (r *Replay) Flush() {
	if r.pending != nil {
		r.emit(r.pending, r.effects)
	}
	r.pending = nil
	r.effects = nil
}

func (r *Replay) Feed(op models.Op) {
	switch o := op.(type) {
	case *OpStep:
		r.Flush()
		r.pending = o
		r.PC = o.PC
		r.Inscount++
		return
	case *OpReg:
		if int(o.Num) < len(r.Regs) {
			r.Regs[o.Num] = o.Val
		}
	case *OpLoad:
		r.Mem[o.Addr] = o.Val
	case *OpStore:
		r.Mem[o.Addr] = o.Val
	case *OpCache:
		switch int(o.Event) {
		case cpu.CACHE_HIT:
			r.Cache.Hits++
		case cpu.CACHE_MISS:
			r.Cache.Misses++
		case cpu.CACHE_EVICT:
			r.Cache.Evictions++
		}
	case *OpExit:
		r.Flush()
		r.Exit = o
		r.emit(o, nil)
		return
	}
	if r.pending != nil {
		r.effects = append(r.effects, op)
	}
}
