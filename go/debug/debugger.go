package debug

import (
	"fmt"
	"io"
	"net"
	"os"

	"github.com/chzyer/readline"

	"github.com/lunixbochs/rvsim/go/debug/cmd"
	"github.com/lunixbochs/rvsim/go/sim"
)

type Debugger struct {
	sim *sim.Sim
	// Interactive clients have a raw terminal (see RunClient) and get line editing.
	// Otherwise the client sends plain newline terminated commands.
	Interactive bool
}

func NewDebugger(s *sim.Sim) *Debugger {
	return &Debugger{sim: s, Interactive: true}
}

// Run serves the command prompt over c until the client disconnects.
func (d *Debugger) Run(c net.Conn) {
	fmt.Fprintf(os.Stderr, "Debug connection from %s\n", c.RemoteAddr())
	defer c.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:         "pc> ",
		Stdin:          c,
		Stdout:         c,
		Stderr:         c,
		FuncIsTerminal: func() bool { return d.Interactive },
		FuncMakeRaw:    func() error { return nil },
		FuncExitRaw:    func() error { return nil },
		FuncGetWidth:   func() int { return 80 },
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening readline for debugger: %v\n", err)
		return
	}
	defer rl.Close()
	context := &cmd.Context{Writer: rl.Stdout(), S: d.sim}
	for {
		line, err := rl.Readline()
		if err != nil {
			if err != io.EOF && err != readline.ErrInterrupt {
				fmt.Fprintf(os.Stderr, "error in readline: %v\n", err)
			}
			break
		}
		if err := cmd.Run(context, line); err != nil {
			fmt.Fprintf(os.Stderr, "error in command: %v\n", err)
			break
		}
	}
}
