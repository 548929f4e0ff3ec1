package cpu

import (
	"github.com/pkg/errors"
)

// bunch of wrapper types
type Hook interface{}

// type CodeCb func(Cpu, uint64, Ins)
// type MemCb func(Cpu, int, uint64, Word)
// type CacheCb func(Cpu, int, uint64, int)

type hookInfo struct {
	htype int
	start uint64
	end   uint64
}

func (h *hookInfo) Type() int {
	return h.htype
}

// start > end hooks every address
func (h *hookInfo) Contains(addr uint64) bool {
	return h.start > h.end || addr >= h.start && addr <= h.end
}

type hinfo interface {
	Type() int
}

type codeHook struct {
	hookInfo
	cb func(Cpu, uint64, Ins)
}

type memHook struct {
	hookInfo
	cb func(Cpu, int, uint64, Word)
}

type cacheHook struct {
	hookInfo
	cb func(Cpu, int, uint64, int)
}

// real code starts here
type Hooks struct {
	cpu Cpu

	code  []*codeHook
	read  []*memHook
	write []*memHook
	cache []*cacheHook
}

// creates &Hooks{}, optionally attaching to a *Cache instance
func NewHooks(cpu Cpu, cache *Cache) *Hooks {
	h := &Hooks{cpu: cpu}
	if cache != nil {
		// the cache will dispatch memory and cache hooks automatically
		cache.hooks = h
	}
	return h
}

// code hooks match on pc, memory and cache hooks match on address
func (h *Hooks) HookAdd(htype int, cb interface{}, start uint64, end uint64) (Hook, error) {
	info := hookInfo{htype, start, end}
	var hook interface{}
	switch htype {
	case HOOK_CODE:
		fn, ok := cb.(func(Cpu, uint64, Ins))
		if !ok {
			return nil, errors.Errorf("bad code hook callback type: %T", cb)
		}
		hh := &codeHook{info, fn}
		h.code, hook = append(h.code, hh), hh

	case HOOK_MEM_READ, HOOK_MEM_WRITE, HOOK_MEM_READ | HOOK_MEM_WRITE:
		fn, ok := cb.(func(Cpu, int, uint64, Word))
		if !ok {
			return nil, errors.Errorf("bad memory hook callback type: %T", cb)
		}
		hh := &memHook{info, fn}
		if htype&HOOK_MEM_READ != 0 {
			h.read = append(h.read, hh)
		}
		if htype&HOOK_MEM_WRITE != 0 {
			h.write = append(h.write, hh)
		}
		hook = hh

	case HOOK_CACHE:
		fn, ok := cb.(func(Cpu, int, uint64, int))
		if !ok {
			return nil, errors.Errorf("bad cache hook callback type: %T", cb)
		}
		hh := &cacheHook{info, fn}
		h.cache, hook = append(h.cache, hh), hh

	default:
		return nil, errors.Errorf("unknown hook type: %d", htype)
	}
	return hook, nil
}

func (h *Hooks) HookDel(hh Hook) error {
	info, ok := hh.(hinfo)
	if !ok {
		return errors.Errorf("not a hook: %T", hh)
	}
	switch info.Type() {
	case HOOK_CODE:
		var tmp []*codeHook
		for _, v := range h.code {
			if v != hh {
				tmp = append(tmp, v)
			}
		}
		h.code = tmp
	case HOOK_MEM_READ, HOOK_MEM_WRITE, HOOK_MEM_READ | HOOK_MEM_WRITE:
		del := func(list []*memHook) []*memHook {
			var tmp []*memHook
			for _, v := range list {
				if v != hh {
					tmp = append(tmp, v)
				}
			}
			return tmp
		}
		h.read = del(h.read)
		h.write = del(h.write)
	case HOOK_CACHE:
		var tmp []*cacheHook
		for _, v := range h.cache {
			if v != hh {
				tmp = append(tmp, v)
			}
		}
		h.cache = tmp
	}
	return nil
}

func (h *Hooks) OnCode(pc uint64, ins Ins) {
	for _, v := range h.code {
		if v.Contains(pc) {
			v.cb(h.cpu, pc, ins)
		}
	}
}

func (h *Hooks) OnMem(access int, addr uint64, val Word) {
	list := h.read
	if access == MEM_WRITE {
		list = h.write
	}
	for _, v := range list {
		if v.Contains(addr) {
			v.cb(h.cpu, access, addr, val)
		}
	}
}

func (h *Hooks) OnCache(event int, addr uint64, slot int) {
	for _, v := range h.cache {
		if v.Contains(addr) {
			v.cb(h.cpu, event, addr, slot)
		}
	}
}
