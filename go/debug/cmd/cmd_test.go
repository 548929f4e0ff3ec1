package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lunixbochs/rvsim/go/cpu/rv"
	"github.com/lunixbochs/rvsim/go/models"
	"github.com/lunixbochs/rvsim/go/sim"
)

type nopCloser struct {
	bytes.Buffer
}

func (n *nopCloser) Close() error { return nil }

func makeContext(t *testing.T) (*Context, *bytes.Buffer) {
	program := []rv.Ins{rv.Store(0, 1), rv.Store(1, 2), rv.Load(3, 0), rv.Load(4, 2)}
	s, err := sim.New(program, &models.Config{
		Output:    &nopCloser{},
		MemSize:   4,
		CacheSize: 2,
		Regs:      map[int]int32{1: 5, 2: 7},
	})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	return &Context{Writer: &out, S: s}, &out
}

func run(t *testing.T, c *Context, out *bytes.Buffer, line string) string {
	t.Helper()
	out.Reset()
	if err := Run(c, line); err != nil {
		t.Fatal(err)
	}
	return out.String()
}

func TestCmdStep(t *testing.T) {
	c, out := makeContext(t)
	if got := run(t, c, out, "step"); got != ">    1: store 1, x2\n" {
		t.Fatalf("step printed %q", got)
	}
	if got := run(t, c, out, "step 0x10"); got != "halted (end of program) at 4\n" {
		t.Fatalf("step 0x10 printed %q", got)
	}
	if got := run(t, c, out, "step nope"); !strings.HasPrefix(got, "error: bad step count") {
		t.Fatalf("bad count printed %q", got)
	}
}

func TestCmdReg(t *testing.T) {
	c, out := makeContext(t)
	run(t, c, out, "reg x3=-4")
	if v, _ := c.S.RegRead(3); v != -4 {
		t.Fatalf("x3 = %d after reg x3=-4", v)
	}
	if got := run(t, c, out, "reg gp"); got != "x3 (gp) = -4\n" {
		t.Fatalf("reg gp printed %q", got)
	}
	if got := run(t, c, out, "reg"); !strings.Contains(got, "x3 0xfffffffc") || !strings.HasSuffix(got, "  pc 0\n") {
		t.Fatalf("reg printed %q", got)
	}
	for _, line := range []string{"reg x32=1", "reg x1=", "reg pc", "reg x1=0x100000000"} {
		if got := run(t, c, out, line); !strings.HasPrefix(got, "error: ") {
			t.Fatalf("%q printed %q, expecting an error", line, got)
		}
	}
}

func TestCmdMem(t *testing.T) {
	c, out := makeContext(t)
	if err := c.S.Run(); err != nil {
		t.Fatal(err)
	}
	mem := MemCmd.Run.(func(*Context, uint64, uint64) error)
	if err := mem(c, 0, 2); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "*[0] = 5\n [1] = 7\n" {
		t.Fatalf("mem printed %q", got)
	}
	if err := mem(c, 3, 2); err == nil {
		t.Fatal("mem past the end did not fail")
	}

	out.Reset()
	if err := CacheCmd.Run.(func(*Context) error)(c); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 || !strings.Contains(lines[0], "[2] = 0") || !strings.Contains(lines[1], "[0] = 5") || lines[2] != "2/2 lines valid" {
		t.Fatalf("cache printed %q", out.String())
	}
}

func TestCmdInfo(t *testing.T) {
	c, out := makeContext(t)
	got := run(t, c, out, "dis 2 5")
	if got != "     2: load x3, 0\n     3: load x4, 2\n" {
		t.Fatalf("dis printed %q", got)
	}
	if got := run(t, c, out, "help"); !strings.Contains(got, "  step ") || !strings.Contains(got, "  mem ") {
		t.Fatalf("help printed %q", got)
	}
	out.Reset()
	if err := StatsCmd.Run.(func(*Context) error)(c); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "steps 0, cache hits 0") {
		t.Fatalf("stats printed %q", out.String())
	}
}

func TestCmdErrors(t *testing.T) {
	c, out := makeContext(t)
	if got := run(t, c, out, "bogus"); got != "command not found.\n" {
		t.Fatalf("got %q", got)
	}
	if got := run(t, c, out, `reg "x1`); !strings.HasPrefix(got, "parse error: ") {
		t.Fatalf("got %q", got)
	}
	if got := run(t, c, out, "   "); got != "" {
		t.Fatalf("empty line printed %q", got)
	}
}

func TestStrToNum(t *testing.T) {
	var u uint64
	if err := strToNum(&u, []interface{}{"0x10"}); err != nil || u != 16 {
		t.Fatalf("got %d, %v", u, err)
	}
	var i int
	if err := strToNum(&i, []interface{}{"-5"}); err != nil || i != -5 {
		t.Fatalf("got %d, %v", i, err)
	}
	var s string
	if err := strToNum(&s, []interface{}{"1"}); err == nil {
		t.Fatal("string destination should not match")
	}
	if err := strToNum(&u, []interface{}{"zz"}); err == nil {
		t.Fatal("bad number should fail")
	}
}

func TestCmdLua(t *testing.T) {
	c, out := makeContext(t)
	defer c.S.Close()
	run(t, c, out, `lua "setreg(3, 42)"`)
	if v, _ := c.S.RegRead(3); v != 42 {
		t.Fatalf("x3 = %d after lua setreg", v)
	}
	if got := run(t, c, out, `lua "error('boom')"`); !strings.Contains(got, "boom") {
		t.Fatalf("lua error printed %q", got)
	}
}
