package cmd

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/lunixbochs/argjoy"
	"github.com/mattn/go-shellwords"
)

// Command.Run is either func(*Context, []string) error, which receives the raw
// arguments, or any other func taking *Context first, whose remaining arguments
// are converted from strings with argjoy.
type Command struct {
	Name string
	Desc string
	Run  interface{}
}

var Commands = make(map[string]*Command)

func cmd(c *Command) *Command {
	fn := reflect.ValueOf(c.Run)
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		panic(fmt.Sprintf("Command.Run must be a func: got (%T) %#v\n", c.Run, c.Run))
	}
	Commands[c.Name] = c
	return c
}

var aj = argjoy.NewArgjoy()

func init() {
	aj.Register(strToNum)
}

// numbers may be written in any base strconv understands (0x10, 0b101, 16)
func strToNum(arg interface{}, vals []interface{}) error {
	s, ok := vals[0].(string)
	if !ok {
		return argjoy.NoMatch
	}
	switch v := arg.(type) {
	case *uint64:
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return err
		}
		*v = n
	case *int:
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return err
		}
		*v = int(n)
	default:
		return argjoy.NoMatch
	}
	return nil
}

func Names() []string {
	names := make([]string, 0, len(Commands))
	for name := range Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run parses and executes one command line. Command failures are printed, not returned.
func Run(c *Context, line string) error {
	args, err := shellwords.Parse(line)
	if err != nil {
		c.Printf("parse error: %v\n", err)
		return nil
	}
	if len(args) == 0 {
		return nil
	}
	name, args := args[0], args[1:]
	if cmd, ok := Commands[name]; ok {
		if raw, ok := cmd.Run.(func(*Context, []string) error); ok {
			if err := raw(c, args); err != nil {
				c.Printf("error: %v\n", err)
			}
			return nil
		}
		callArgs := []interface{}{c}
		for _, arg := range args {
			callArgs = append(callArgs, arg)
		}
		out, err := aj.Call(cmd.Run, callArgs...)
		if err != nil {
			c.Printf("error: %v\n", err)
		}
		if len(out) > 0 {
			if err, ok := out[0].(error); ok {
				c.Printf("error: %v\n", err)
			}
		}
	} else {
		c.Printf("command not found.\n")
	}
	return nil
}
