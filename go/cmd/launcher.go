package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type command struct {
	name, desc string
	main       func(args []string) int
}

var commands = make(map[string]*command)
var order []string
var pad int

// Register adds a subcommand. main receives argv with the subcommand folded into argv[0]
// and returns the exit code.
func Register(name, desc string, main func(args []string) int) {
	if len(name) > pad {
		pad = len(name)
	}
	commands[name] = &command{name, desc, main}
	order = append(order, name)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	for _, name := range order {
		cmd := commands[name]
		fmt.Fprintf(w, "  %-*s | %s\n", pad, cmd.name, cmd.desc)
	}
	fmt.Fprintf(w, "\nExample: %s run -trace -reg x1=5 prog.s\n\n", os.Args[0])
}

// Dispatch runs the subcommand named by argv[1].
func Dispatch(argv []string) int {
	if len(argv) < 2 {
		usage(os.Stderr)
		return 2
	}
	cmd, ok := commands[argv[1]]
	if !ok {
		if argv[1] == "help" || argv[1] == "-h" {
			usage(os.Stdout)
			return 0
		}
		fmt.Fprintf(os.Stderr, "Command '%s' not found.\n\n", argv[1])
		usage(os.Stderr)
		return 2
	}
	args := append([]string{strings.Join(argv[:2], " ")}, argv[2:]...)
	return cmd.main(args)
}

func Main() {
	os.Exit(Dispatch(os.Args))
}
