package cmd

var MemCmd = cmd(&Command{
	Name: "mem",
	Desc: "Show SIZE memory cells starting at ADDR, without touching the cache.",
	Run: func(c *Context, addr, size uint64) error {
		cache := c.S.Cache()
		for i := uint64(0); i < size; i++ {
			val, err := cache.Peek(addr + i)
			if err != nil {
				return err
			}
			mark := " "
			if cache.Contains(addr + i) {
				mark = "*"
			}
			c.Printf("%s[%d] = %d\n", mark, addr+i, val)
		}
		return nil
	},
})

var CacheCmd = cmd(&Command{
	Name: "cache",
	Desc: "Show cache lines, most recently used first.",
	Run: func(c *Context) error {
		cache := c.S.Cache()
		lines := cache.Lines()
		for i, addr := range cache.Resident() {
			for _, l := range lines {
				if l.Valid && l.Addr == addr {
					c.Printf("%2d: slot %d [%d] = %d\n", i, l.Slot, l.Addr, l.Val)
				}
			}
		}
		c.Printf("%d/%d lines valid\n", len(cache.Resident()), cache.Capacity())
		return nil
	},
})
