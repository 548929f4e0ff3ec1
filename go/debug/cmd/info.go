package cmd

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/lunixbochs/rvsim/go/cpu/rv"
	"github.com/lunixbochs/rvsim/go/sim"
)

// disAt lists count instructions from start, marking the current pc.
func disAt(s *sim.Sim, start uint64, count int) []string {
	lines := rv.Dis(s.Program(), start, count)
	for i := range lines {
		prefix := "  "
		if start+uint64(i) == s.PC() {
			prefix = "> "
		}
		lines[i] = prefix + lines[i]
	}
	return lines
}

var DisCmd = cmd(&Command{
	Name: "dis",
	Desc: "Disassemble [ADDR [COUNT]] instructions, starting at pc by default.",
	Run: func(c *Context, args []string) error {
		start, count := c.S.PC(), uint64(8)
		var err error
		if len(args) > 0 {
			if start, err = strconv.ParseUint(args[0], 0, 64); err != nil {
				return errors.Errorf("bad address: %s", args[0])
			}
		}
		if len(args) > 1 {
			if count, err = strconv.ParseUint(args[1], 0, 32); err != nil {
				return errors.Errorf("bad count: %s", args[1])
			}
		}
		for _, line := range disAt(c.S, start, int(count)) {
			c.Printf("%s\n", line)
		}
		return nil
	},
})

var StatsCmd = cmd(&Command{
	Name: "stats",
	Desc: "Show step and cache counters.",
	Run: func(c *Context) error {
		c.Printf("%s\n", c.S.Stats())
		return nil
	},
})

var HelpCmd = cmd(&Command{
	Name: "help",
	Desc: "List commands.",
	Run: func(c *Context, args []string) error {
		for _, name := range Names() {
			c.Printf("  %-6s %s\n", name, Commands[name].Desc)
		}
		return nil
	},
})
