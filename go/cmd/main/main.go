package main

import (
	"github.com/lunixbochs/rvsim/go/cmd"

	_ "github.com/lunixbochs/rvsim/go/cmd/run"

	_ "github.com/lunixbochs/rvsim/go/cmd/asm"
	_ "github.com/lunixbochs/rvsim/go/cmd/repl"
	_ "github.com/lunixbochs/rvsim/go/cmd/trace"
)

func main() { cmd.Main() }
