package ui

import (
	"fmt"
	"strings"

	"github.com/lunixbochs/vtclean"
	"github.com/mgutz/ansi"

	"github.com/lunixbochs/rvsim/go/models"
	"github.com/lunixbochs/rvsim/go/models/cpu"
	"github.com/lunixbochs/rvsim/go/models/trace"
)

var (
	colPC    = ansi.ColorCode("cyan")
	colReg   = ansi.ColorCode("default+b")
	colHit   = ansi.ColorCode("green")
	colMiss  = ansi.ColorCode("yellow")
	colEvict = ansi.ColorCode("red")
)

func pad(s string, to int) string {
	if len(s) >= to {
		return ""
	}
	return strings.Repeat(" ", to-len(s))
}

func color(s, code string) string {
	return code + s + ansi.Reset
}

// StreamUI prints replayed instructions as they arrive.
type StreamUI struct {
	replay *trace.Replay
	config *models.Config
	inscol int
}

func NewStreamUI(c *models.Config, r *trace.Replay) *StreamUI {
	return &StreamUI{
		replay: r,
		config: c,
		inscol: 28,
	}
}

func (s *StreamUI) Feed(op models.Op, effects []models.Op) {
	switch o := op.(type) {
	case *trace.OpStep:
		s.insPrint(o, effects)
	case *trace.OpExit:
		s.OnExit(o)
	}
}

// Printf writes to the configured output, dropping color codes unless color is on.
func (s *StreamUI) Printf(f string, args ...interface{}) {
	out := fmt.Sprintf(f, args...)
	if !s.config.Color {
		lines := strings.Split(out, "\n")
		for i, line := range lines {
			lines[i] = vtclean.Clean(line, false)
		}
		out = strings.Join(lines, "\n")
	}
	fmt.Fprint(s.config.Output, out)
}

func (s *StreamUI) OnExit(o *trace.OpExit) {
	if !s.config.Verbose {
		return
	}
	s.Printf("[exit after %d steps, reason %d]\n", o.Steps, o.Reason)
}

func cacheEvent(o *trace.OpCache) string {
	name := cpu.CacheEventName(int(o.Event))
	switch int(o.Event) {
	case cpu.CACHE_HIT:
		return color(name, colHit)
	case cpu.CACHE_MISS:
		return color(name, colMiss)
	}
	return color(name, colEvict)
}

// memEffects renders loads and stores with the cache event that served them.
func memEffects(effects []models.Op) []string {
	var out []string
	var event string
	for _, op := range effects {
		switch o := op.(type) {
		case *trace.OpCache:
			if int(o.Event) == cpu.CACHE_EVICT {
				out = append(out, fmt.Sprintf("%s [%d] slot %d", cacheEvent(o), o.Addr, o.Slot))
			} else {
				event = cacheEvent(o)
			}
		case *trace.OpLoad:
			out = append(out, fmt.Sprintf("R [%d] = %d (%s)", o.Addr, o.Val, event))
			event = ""
		case *trace.OpStore:
			out = append(out, fmt.Sprintf("W [%d] = %d (%s)", o.Addr, o.Val, event))
			event = ""
		}
	}
	return out
}

func regEffects(effects []models.Op) []string {
	var out []string
	for _, op := range effects {
		if o, ok := op.(*trace.OpReg); ok {
			out = append(out, color(fmt.Sprintf("%s = %d", cpu.RegName(int(o.Num)), o.Val), colReg))
		}
	}
	return out
}

// insPrint() takes an instruction and its side-effects to pretty-print
//
//	2: load x3, 0             | x3 = 5 | R [0] = 5 (hit)
func (s *StreamUI) insPrint(step *trace.OpStep, effects []models.Op) {
	tc := s.config.Trace
	var cols []string
	if tc.Exec {
		pc := fmt.Sprintf("%4d", step.PC)
		ins := pc + ": " + step.Text
		cols = append(cols, color(pc, colPC)+": "+step.Text+pad(ins, s.inscol))
	}
	if tc.Reg {
		if regs := regEffects(effects); len(regs) > 0 {
			cols = append(cols, strings.Join(regs, ", "))
		}
	}
	if tc.Mem {
		cols = append(cols, memEffects(effects)...)
	}
	if len(cols) > 0 {
		s.Printf("%s\n", strings.Join(cols, " | "))
	}
}
