package repl

import (
	"github.com/lunixbochs/rvsim/go/cmd"
	"github.com/lunixbochs/rvsim/go/debug"
)

func Main(args []string) int {
	c := cmd.NewSimCmd()
	c.RunSim = func() error {
		r, err := debug.NewRepl(c.Sim)
		if err != nil {
			return err
		}
		return r.Run()
	}
	return c.Run(args)
}

func init() { cmd.Register("repl", "step through a program interactively", Main) }
