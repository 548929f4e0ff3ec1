package cpu

import (
	"github.com/pkg/errors"
)

type cacheSlot struct {
	addr  uint64
	val   Word
	valid bool
}

type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache is a fully associative, write-through cache with LRU replacement.
// It owns the Mem it fronts: every cpu read and write goes through it.
type Cache struct {
	mem   *Mem
	slots []cacheSlot
	// address -> slot, valid slots only
	index map[uint64]int
	lru   *lru
	stats CacheStats
	// Cache.hooks is set when passing *Cache to NewHooks()
	hooks *Hooks
}

// NewCache takes ownership of mem. The caller must not use mem afterwards.
// A capacity of zero is allowed and turns every access into a miss.
func NewCache(mem *Mem, capacity int) *Cache {
	if capacity < 0 {
		capacity = 0
	}
	return &Cache{
		mem:   mem,
		slots: make([]cacheSlot, capacity),
		index: make(map[uint64]int, capacity),
		lru:   newLRU(capacity),
	}
}

func (c *Cache) Capacity() int {
	return len(c.slots)
}

func (c *Cache) MemSize() uint64 {
	return c.mem.Size()
}

func (c *Cache) lookup(addr uint64) (int, bool) {
	i, ok := c.index[addr]
	return i, ok
}

func (c *Cache) Load(addr uint64) (Word, error) {
	if i, ok := c.lookup(addr); ok {
		c.lru.touch(i)
		c.stats.Hits++
		c.onCache(CACHE_HIT, addr, i)
		val := c.slots[i].val
		c.onMem(MEM_READ, addr, val)
		return val, nil
	}
	val, err := c.mem.Load(addr)
	if err != nil {
		return 0, err
	}
	c.stats.Misses++
	c.onCache(CACHE_MISS, addr, -1)
	c.install(addr, val)
	c.onMem(MEM_READ, addr, val)
	return val, nil
}

// Store writes through to memory first. If memory rejects the address
// the cache is left untouched.
func (c *Cache) Store(addr uint64, val Word) error {
	if err := c.mem.Store(addr, val); err != nil {
		return err
	}
	if i, ok := c.lookup(addr); ok {
		c.slots[i].val = val
		c.lru.touch(i)
		c.stats.Hits++
		c.onCache(CACHE_HIT, addr, i)
	} else {
		c.stats.Misses++
		c.onCache(CACHE_MISS, addr, -1)
		c.install(addr, val)
	}
	c.onMem(MEM_WRITE, addr, val)
	return nil
}

// free returns the lowest invalid slot, or -1.
func (c *Cache) free() int {
	for i := range c.slots {
		if !c.slots[i].valid {
			return i
		}
	}
	return -1
}

// install maps addr into a free slot, evicting the least recently used one if needed.
// No write-back is required on eviction: memory is never behind the cache.
func (c *Cache) install(addr uint64, val Word) {
	if len(c.slots) == 0 {
		return
	}
	i := c.free()
	if i < 0 {
		var ok bool
		if i, ok = c.lru.victim(); !ok {
			panic("cache full with empty recency list")
		}
		old := c.slots[i].addr
		c.lru.remove(i)
		delete(c.index, old)
		c.slots[i].valid = false
		c.stats.Evictions++
		c.onCache(CACHE_EVICT, old, i)
	}
	c.slots[i] = cacheSlot{addr: addr, val: val, valid: true}
	c.index[addr] = i
	c.lru.touch(i)
}

// Flush invalidates every slot. Memory is unaffected.
func (c *Cache) Flush() {
	for i := range c.slots {
		c.slots[i] = cacheSlot{}
	}
	c.index = make(map[uint64]int, len(c.slots))
	c.lru.reset()
}

func (c *Cache) Contains(addr uint64) bool {
	_, ok := c.lookup(addr)
	return ok
}

// Resident returns the cached addresses from most to least recently used.
func (c *Cache) Resident() []uint64 {
	order := c.lru.slots()
	ret := make([]uint64, len(order))
	for i, slot := range order {
		ret[i] = c.slots[slot].addr
	}
	return ret
}

type CacheLine struct {
	Slot  int
	Addr  uint64
	Val   Word
	Valid bool
}

// Lines returns a copy of every slot in slot order.
func (c *Cache) Lines() []CacheLine {
	ret := make([]CacheLine, len(c.slots))
	for i, s := range c.slots {
		ret[i] = CacheLine{Slot: i, Addr: s.addr, Val: s.val, Valid: s.valid}
	}
	return ret
}

func (c *Cache) Stats() CacheStats {
	return c.stats
}

// MemCounts reports how many loads and stores reached backing memory.
func (c *Cache) MemCounts() (loads, stores uint64) {
	return c.mem.Counts()
}

// CheckAddr reports the error an access of the given kind to addr would fail with.
func (c *Cache) CheckAddr(addr uint64, access int) error {
	return c.mem.check(addr, access)
}

// Peek reads backing memory without touching the cache or access counters.
// Memory is always current, so this is also the value the cpu would see.
func (c *Cache) Peek(addr uint64) (Word, error) {
	return c.mem.Peek(addr)
}

// Check verifies the cache bookkeeping and returns the first inconsistency found.
func (c *Cache) Check() error {
	valid := 0
	seen := make(map[uint64]int)
	for i, s := range c.slots {
		if !s.valid {
			if c.lru.elems[i] != nil {
				return errors.Errorf("invalid slot %d is in the recency list", i)
			}
			continue
		}
		valid++
		if j, ok := seen[s.addr]; ok {
			return errors.Errorf("address %#x is mapped by slots %d and %d", s.addr, j, i)
		}
		seen[s.addr] = i
		if j, ok := c.index[s.addr]; !ok || j != i {
			return errors.Errorf("index does not map %#x to slot %d", s.addr, i)
		}
	}
	if len(c.index) != valid {
		return errors.Errorf("index has %d entries for %d valid slots", len(c.index), valid)
	}
	order := c.lru.slots()
	if len(order) != valid {
		return errors.Errorf("recency list has %d entries for %d valid slots", len(order), valid)
	}
	dup := make(map[int]bool, len(order))
	for _, slot := range order {
		if slot < 0 || slot >= len(c.slots) {
			return errors.Errorf("recency list holds bad slot %d", slot)
		}
		if dup[slot] {
			return errors.Errorf("recency list holds slot %d twice", slot)
		}
		dup[slot] = true
		if !c.slots[slot].valid {
			return errors.Errorf("recency list holds invalid slot %d", slot)
		}
	}
	return nil
}

func (c *Cache) onCache(event int, addr uint64, slot int) {
	if c.hooks != nil {
		c.hooks.OnCache(event, addr, slot)
	}
}

func (c *Cache) onMem(access int, addr uint64, val Word) {
	if c.hooks != nil {
		c.hooks.OnMem(access, addr, val)
	}
}
