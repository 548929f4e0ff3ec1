package sim

import (
	"fmt"

	"github.com/lunixbochs/vtclean"
	"github.com/pkg/errors"

	"github.com/lunixbochs/rvsim/go/cpu/rv"
	"github.com/lunixbochs/rvsim/go/lua"
	"github.com/lunixbochs/rvsim/go/models"
	"github.com/lunixbochs/rvsim/go/models/cpu"
	"github.com/lunixbochs/rvsim/go/models/trace"
	"github.com/lunixbochs/rvsim/go/ui"
)

// Sim owns one memory, its cache and the cpu running a program, plus whatever
// tracing and scripting the config asked for.
type Sim struct {
	*rv.RvCpu
	config *models.Config
	status models.StatusDiff

	trace  *trace.Trace
	replay *trace.Replay
	script *lua.LuaScript

	halted bool
}

func New(program []rv.Ins, config *models.Config) (*Sim, error) {
	config = config.Init()
	mem := cpu.NewMem(config.MemSize)
	cache := cpu.NewCache(mem, config.CacheSize)
	s := &Sim{
		RvCpu:  rv.New(program, cache, config.ZeroReg),
		config: config,
	}
	s.SetStepLimit(config.StepLimit)
	s.status = models.StatusDiff{Cpu: s.RvCpu}

	for enum, val := range config.Regs {
		if err := s.RegWrite(enum, cpu.Word(val)); err != nil {
			return nil, errors.Wrap(err, "bad register preset")
		}
	}
	// presets go straight to memory so the cache starts cold
	for addr, val := range config.Poke {
		if err := mem.Poke(addr, cpu.Word(val)); err != nil {
			return nil, errors.Wrap(err, "bad memory preset")
		}
	}
	// prime the diff so the first status shows what the presets changed
	s.status.Changes(true)

	if config.Trace.Any() {
		s.replay = trace.NewReplay()
		stream := ui.NewStreamUI(config, s.replay)
		s.replay.Listen(stream.Feed)
		tc := config.Trace
		tc.OpCallback = append([]func(models.Op){s.replay.Feed}, tc.OpCallback...)
		header := trace.NewHeader(config.MemSize, config.CacheSize, config.ZeroReg)
		var err error
		if s.trace, err = trace.NewTrace(s.RvCpu, header, &tc); err != nil {
			s.Close()
			return nil, err
		}
		if err := s.trace.Attach(); err != nil {
			s.Close()
			return nil, err
		}
	}
	if config.Script != "" {
		var err error
		if s.script, err = lua.NewScript(s.RvCpu, config.Output); err != nil {
			s.Close()
			return nil, err
		}
		if err := s.script.DoFile(config.Script); err != nil {
			s.Close()
			return nil, errors.Wrapf(err, "failed to run script '%s'", config.Script)
		}
		if err := s.script.Attach(); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Sim) Config() *models.Config {
	return s.config
}

func (s *Sim) Script() *lua.LuaScript {
	return s.script
}

// Lua returns the script state, creating one and running init.lua if no script was loaded.
func (s *Sim) Lua() (*lua.LuaScript, error) {
	if s.script == nil {
		script, err := lua.NewScript(s.RvCpu, s.config.Output)
		if err != nil {
			return nil, err
		}
		script.LoadInit()
		s.script = script
	}
	return s.script, nil
}

// Printf writes to the configured output, dropping color codes unless color is on.
func (s *Sim) Printf(f string, args ...interface{}) {
	out := fmt.Sprintf(f, args...)
	if !s.config.Color {
		out = vtclean.Clean(out, false)
	}
	fmt.Fprint(s.config.Output, out)
}

func (s *Sim) Println(args ...interface{}) {
	s.Printf("%s\n", fmt.Sprint(args...))
}

func (s *Sim) onHalt() error {
	if s.halted || !s.Halted() {
		return nil
	}
	s.halted = true
	if s.script != nil {
		return s.script.OnHalt()
	}
	return nil
}

func (s *Sim) scriptErr() error {
	if s.script != nil && s.script.Err() != nil {
		return errors.Wrap(s.script.Err(), "script error")
	}
	return nil
}

// syncTrace attributes pending register changes to the last step and prints it,
// so live trace output is never an instruction behind.
func (s *Sim) syncTrace() {
	if s.trace != nil {
		s.trace.OnRegUpdate()
		s.replay.Flush()
	}
}

func (s *Sim) Run() error {
	if s.config.Verbose {
		s.Printf("[running %d instructions, memory %d, cache %d]\n", len(s.Program()), s.config.MemSize, s.Cache().Capacity())
	}
	err := s.RvCpu.Run()
	s.syncTrace()
	if err != nil {
		return err
	}
	if err := s.scriptErr(); err != nil {
		return err
	}
	return s.onHalt()
}

func (s *Sim) Step() error {
	err := s.RvCpu.Step()
	s.syncTrace()
	if err != nil {
		return err
	}
	if err := s.scriptErr(); err != nil {
		return err
	}
	return s.onHalt()
}

// Status returns the registers that changed since the last call.
func (s *Sim) Status(onlyChanged bool) string {
	return s.status.Changes(onlyChanged).String(s.config.Color)
}

// Stats renders the cache counters.
func (s *Sim) Stats() string {
	st := s.Cache().Stats()
	loads, stores := s.Cache().MemCounts()
	return fmt.Sprintf("steps %d, cache hits %d, misses %d, evictions %d, memory loads %d, stores %d",
		s.Steps(), st.Hits, st.Misses, st.Evictions, loads, stores)
}

// Close finishes the trace and releases the script. It is safe to call more than once.
func (s *Sim) Close() error {
	var err error
	if s.trace != nil {
		err = s.trace.Detach(uint8(s.Reason()), s.Steps())
		s.trace = nil
	}
	if s.script != nil {
		s.script.Close()
		s.script = nil
	}
	return err
}
