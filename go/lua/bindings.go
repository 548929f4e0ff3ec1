package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/lunixbochs/rvsim/go/models"
	"github.com/lunixbochs/rvsim/go/models/cpu"
)

func (s *LuaScript) printFunc(L *lua.LState) int {
	top := L.GetTop()
	args := make([]string, top)
	for i := 1; i <= top; i++ {
		args[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	s.Printf("%s\n", strings.Join(args, "\t"))
	return 0
}

// registers can be passed by number or by name
func regArg(L *lua.LState, n int) int {
	if name, ok := L.Get(n).(lua.LString); ok {
		enum, err := models.LookupReg(string(name))
		if err != nil {
			L.ArgError(n, err.Error())
		}
		return enum
	}
	enum := L.CheckInt(n)
	if err := cpu.CheckReg(enum); err != nil {
		L.ArgError(n, err.Error())
	}
	return enum
}

func (s *LuaScript) regFunc(L *lua.LState) int {
	val, _ := s.cpu.RegRead(regArg(L, 1))
	L.Push(lua.LNumber(val))
	return 1
}

func (s *LuaScript) setregFunc(L *lua.LState) int {
	enum := regArg(L, 1)
	val := L.CheckInt64(2)
	s.cpu.RegWrite(enum, cpu.Word(int32(val)))
	return 0
}

// peek reads backing memory without disturbing the cache
func (s *LuaScript) peekFunc(L *lua.LState) int {
	addr := L.CheckInt64(1)
	if addr < 0 {
		L.ArgError(1, "negative address")
	}
	val, err := s.cpu.Cache().Peek(uint64(addr))
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(val))
	return 1
}

func (s *LuaScript) pcFunc(L *lua.LState) int {
	L.Push(lua.LNumber(s.cpu.PC()))
	return 1
}

func (s *LuaScript) stopFunc(L *lua.LState) int {
	s.cpu.Stop()
	return 0
}

func (s *LuaScript) statsFunc(L *lua.LState) int {
	stats := s.cpu.Cache().Stats()
	tb := L.NewTable()
	L.SetField(tb, "hits", lua.LNumber(stats.Hits))
	L.SetField(tb, "misses", lua.LNumber(stats.Misses))
	L.SetField(tb, "evictions", lua.LNumber(stats.Evictions))
	L.SetField(tb, "steps", lua.LNumber(s.cpu.Steps()))
	L.Push(tb)
	return 1
}

func (s *LuaScript) loadBindings() error {
	funcs := map[string]lua.LGFunction{
		"print":  s.printFunc,
		"reg":    s.regFunc,
		"setreg": s.setregFunc,
		"peek":   s.peekFunc,
		"pc":     s.pcFunc,
		"stop":   s.stopFunc,
		"stats":  s.statsFunc,
	}
	for name, fn := range funcs {
		s.SetGlobal(name, s.NewFunction(fn))
	}
	return nil
}
