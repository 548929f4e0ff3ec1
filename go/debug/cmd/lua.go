package cmd

import (
	"strings"
)

var LuaCmd = cmd(&Command{
	Name: "lua",
	Desc: "Run lua code against the simulator, e.g. `lua 'setreg(1, 5)'`.",
	Run: func(c *Context, args []string) error {
		L, err := c.S.Lua()
		if err != nil {
			return err
		}
		// hooks defined here take effect on the next step
		if err := L.DoString(strings.Join(args, " ")); err != nil {
			return err
		}
		return L.Attach()
	},
})
