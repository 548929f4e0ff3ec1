package cmd

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lunixbochs/rvsim/go/models"
	"github.com/lunixbochs/rvsim/go/models/cpu"
)

// ParseRegSet parses NAME=VALUE, where NAME is anything models.LookupReg accepts.
func ParseRegSet(arg string) (int, int32, error) {
	parts := strings.SplitN(arg, "=", 2)
	if len(parts) != 2 {
		return 0, 0, errors.Errorf("expected reg=value, got %q", arg)
	}
	enum, err := models.LookupReg(parts[0])
	if err != nil {
		return 0, 0, err
	}
	val, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 0, 32)
	if err != nil {
		return 0, 0, errors.Errorf("bad register value %q", parts[1])
	}
	return enum, int32(val), nil
}

var RegCmd = cmd(&Command{
	Name: "reg",
	Desc: "Show registers. `reg x1 a0` shows some, `reg x1=5` sets one.",
	Run: func(c *Context, args []string) error {
		s := c.S
		if len(args) == 0 {
			c.Printf("%s", s.Status(false))
			c.Printf("  pc %d\n", s.PC())
			return nil
		}
		for _, arg := range args {
			if strings.Contains(arg, "=") {
				enum, val, err := ParseRegSet(arg)
				if err != nil {
					return err
				}
				if err := s.RegWrite(enum, cpu.Word(val)); err != nil {
					return err
				}
				continue
			}
			enum, err := models.LookupReg(arg)
			if err != nil {
				return err
			}
			val, _ := s.RegRead(enum)
			c.Printf("%s (%s) = %d\n", cpu.RegName(enum), models.AbiName(enum), val)
		}
		return nil
	},
})
