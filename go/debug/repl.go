package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/shibukawa/configdir"

	"github.com/lunixbochs/rvsim/go/debug/cmd"
	"github.com/lunixbochs/rvsim/go/sim"
)

// Repl is the local interactive prompt. An empty line repeats the last command.
type Repl struct {
	sim *sim.Sim
	rl  *readline.Instance
	ctx *cmd.Context

	last string
}

type nullCloser struct{ io.Writer }

func (n *nullCloser) Close() error { return nil }

func NewRepl(s *sim.Sim) (*Repl, error) {
	// get history path
	configDirs := configdir.New("rvsim", "repl")
	cacheDir := configDirs.QueryCacheFolder()
	historyPath := ""
	if err := cacheDir.MkdirAll(); err == nil {
		historyPath = filepath.Join(cacheDir.Path, "history")
	}
	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		HistoryFile:     historyPath,
	})
	if err != nil {
		return nil, err
	}
	// route sim output through readline so the prompt is redrawn
	if s.Config().Output == os.Stderr {
		s.Config().Output = &nullCloser{rl.Stderr()}
	}
	return &Repl{sim: s, rl: rl, ctx: &cmd.Context{Writer: rl.Stdout(), S: s}}, nil
}

func (r *Repl) setPrompt() {
	if r.sim.Halted() {
		r.rl.SetPrompt("halted> ")
	} else {
		r.rl.SetPrompt(fmt.Sprintf("%d> ", r.sim.PC()))
	}
}

func (r *Repl) Run() error {
	defer r.rl.Close()
	for {
		r.setPrompt()
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if line == "" {
			line = r.last
		} else {
			r.last = line
		}
		if err := cmd.Run(r.ctx, line); err != nil {
			return err
		}
	}
}
