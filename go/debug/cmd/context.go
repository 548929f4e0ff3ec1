package cmd

import (
	"fmt"
	"io"

	"github.com/lunixbochs/rvsim/go/sim"
)

type Context struct {
	io.Writer
	S *sim.Sim
}

func (c *Context) Printf(format string, a ...interface{}) (n int, err error) {
	return fmt.Fprintf(c, format, a...)
}
