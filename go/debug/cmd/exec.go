package cmd

import (
	"strconv"

	"github.com/pkg/errors"
)

func (c *Context) showPC() {
	s := c.S
	if s.Halted() {
		c.Printf("halted (%s) at %d\n", s.Reason(), s.PC())
		return
	}
	for _, line := range disAt(s, s.PC(), 1) {
		c.Printf("%s\n", line)
	}
}

var StepCmd = cmd(&Command{
	Name: "step",
	Desc: "Execute N instructions (default 1).",
	Run: func(c *Context, args []string) error {
		n := uint64(1)
		if len(args) > 0 {
			var err error
			if n, err = strconv.ParseUint(args[0], 0, 64); err != nil {
				return errors.Errorf("bad step count: %s", args[0])
			}
		}
		for i := uint64(0); i < n && !c.S.Halted(); i++ {
			if err := c.S.Step(); err != nil {
				return err
			}
		}
		c.showPC()
		return nil
	},
})

var RunCmd = cmd(&Command{
	Name: "run",
	Desc: "Run until the program halts or fails.",
	Run: func(c *Context) error {
		if err := c.S.Run(); err != nil {
			return err
		}
		c.showPC()
		return nil
	},
})
