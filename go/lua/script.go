package lua

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"
	lua "github.com/yuin/gopher-lua"

	"github.com/lunixbochs/rvsim/go/cpu/rv"
	"github.com/lunixbochs/rvsim/go/models/cpu"
)

// LuaScript runs user lua against a live cpu.
// A script may define on_step(pc, ins) and on_halt() to be called during a run.
type LuaScript struct {
	*lua.LState
	io.Writer

	cpu  *rv.RvCpu
	hook cpu.Hook
	err  error
}

// Return a new lua state bound to a cpu.
func NewScript(c *rv.RvCpu, o io.Writer) (*LuaScript, error) {
	s := &LuaScript{
		LState: lua.NewState(),
		Writer: o,
		cpu:    c,
	}
	if err := s.loadBindings(); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "failed to load lua bindings")
	}
	return s, nil
}

// LoadInit runs init.lua from every rvsim config folder that has one.
func (s *LuaScript) LoadInit() {
	configDirs := configdir.New("rvsim", "lua")
	for _, config := range configDirs.QueryFolders(configdir.All) {
		if data, err := config.ReadFile("init.lua"); err == nil {
			if err := s.DoString(string(data)); err != nil {
				s.Printf("error while reading init.lua: %v\n", err)
			}
		}
	}
}

func (s *LuaScript) Printf(f string, args ...interface{}) {
	fmt.Fprintf(s.Writer, f, args...)
}

func (s *LuaScript) callback(name string) *lua.LFunction {
	fn, _ := s.GetGlobal(name).(*lua.LFunction)
	return fn
}

func (s *LuaScript) call(fn *lua.LFunction, args ...lua.LValue) {
	if s.err != nil {
		return
	}
	if err := s.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...); err != nil {
		s.err = err
		s.cpu.Stop()
	}
}

// Attach installs a code hook if the script defined on_step.
// A lua error inside on_step stops the cpu and is reported by Err.
func (s *LuaScript) Attach() error {
	if s.hook != nil || s.callback("on_step") == nil {
		return nil
	}
	hh, err := s.cpu.HookAdd(cpu.HOOK_CODE, func(_ cpu.Cpu, pc uint64, ins cpu.Ins) {
		if fn := s.callback("on_step"); fn != nil {
			s.call(fn, lua.LNumber(pc), lua.LString(ins.String()))
		}
	}, 1, 0)
	if err != nil {
		return err
	}
	s.hook = hh
	return nil
}

// OnHalt calls on_halt if the script defined it.
func (s *LuaScript) OnHalt() error {
	if fn := s.callback("on_halt"); fn != nil {
		s.call(fn)
	}
	return s.err
}

// Err returns the first error raised by a callback.
func (s *LuaScript) Err() error {
	return s.err
}

func (s *LuaScript) Close() {
	if s.hook != nil {
		s.cpu.HookDel(s.hook)
		s.hook = nil
	}
	s.LState.Close()
}
