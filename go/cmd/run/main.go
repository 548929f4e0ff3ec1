package run

import (
	"github.com/lunixbochs/rvsim/go/cmd"
)

func Main(args []string) int {
	return cmd.NewSimCmd().Run(args)
}

func init() { cmd.Register("run", "execute a program", Main) }
