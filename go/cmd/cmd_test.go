package cmd

import (
	"bytes"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/lunixbochs/rvsim/go/models"
)

const scenario = `
	store 0, x1
	store 1, x2
	load x3, 0
	load x4, 2
`

func TestSimCmdRun(t *testing.T) {
	dir, err := ioutil.TempDir("", "rvsim")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	src := filepath.Join(dir, "prog.s")
	out := filepath.Join(dir, "out.txt")
	if err := ioutil.WriteFile(src, []byte(scenario), 0644); err != nil {
		t.Fatal(err)
	}
	c := NewSimCmd()
	code := c.Run([]string{"rvsim run", "-o", out, "-nocolor", "-mem", "4", "-cache", "2", "-reg", "x1=5", "-reg", "sp=7", src})
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	data, err := ioutil.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{"+   x3 0x00000005", "pc 4, end of program", "steps 4, cache hits 1, misses 3, evictions 1"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if c.Program.Name != "prog.s" || c.Program.Len() != 4 {
		t.Fatalf("bad program %+v", c.Program)
	}
}

func TestSimCmdFailure(t *testing.T) {
	dir, err := ioutil.TempDir("", "rvsim")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	src := filepath.Join(dir, "prog.s")
	if err := ioutil.WriteFile(src, []byte("load x1, 100\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.txt")
	if code := NewSimCmd().Run([]string{"rvsim run", "-o", out, "-mem", "4", src}); code != 1 {
		t.Fatalf("out of bounds load exited %d, expecting 1", code)
	}
	if code := NewSimCmd().Run([]string{"rvsim run", "-o", out, "-reg", "x99=1", src}); code != 2 {
		t.Fatalf("bad preset exited %d, expecting 2", code)
	}
}

func TestParsePresets(t *testing.T) {
	config := (&models.Config{}).Init()
	if err := parsePresets(config, []string{"x1=5", "a0=-1"}, []string{"0x10=7", "3=-2"}); err != nil {
		t.Fatal(err)
	}
	if config.Regs[1] != 5 || config.Regs[10] != -1 {
		t.Fatalf("bad regs %v", config.Regs)
	}
	if config.Poke[16] != 7 || config.Poke[3] != -2 {
		t.Fatalf("bad pokes %v", config.Poke)
	}
	bad := [][2][]string{
		{{"x1"}, nil},
		{{"x1=zz"}, nil},
		{nil, {"7"}},
		{nil, {"x=1"}},
		{nil, {"1=0x100000000"}},
	}
	for _, b := range bad {
		if err := parsePresets((&models.Config{}).Init(), b[0], b[1]); err == nil {
			t.Fatalf("%v accepted", b)
		}
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, errors.Wrap(errors.New("inner"), "outer"))
	out := buf.String()
	if !strings.Contains(out, "Error: outer: inner\n") || !strings.Contains(out, "cmd_test.go:") {
		t.Fatalf("unexpected error output:\n%s", out)
	}
}

func TestPrintFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Int("cache", 8, "cache capacity")
	fs.String("to", "", strings.Repeat("word ", 30))
	var flags []*flag.Flag
	fs.VisitAll(func(f *flag.Flag) { flags = append(flags, f) })
	var buf bytes.Buffer
	PrintFlags(&buf, flags)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if !strings.HasPrefix(lines[0], "  -cache (8)") || len(lines) < 3 {
		t.Fatalf("bad usage:\n%s", buf.String())
	}
	for _, line := range lines {
		if len(line) > 80 {
			t.Fatalf("line too long: %q", line)
		}
	}
}

func TestDispatch(t *testing.T) {
	var got []string
	Register("echo-test", "test command", func(args []string) int {
		got = args
		return 3
	})
	if code := Dispatch([]string{"rvsim", "echo-test", "a"}); code != 3 {
		t.Fatalf("exit code %d", code)
	}
	if len(got) != 2 || got[0] != "rvsim echo-test" || got[1] != "a" {
		t.Fatalf("bad args %v", got)
	}
	if code := Dispatch([]string{"rvsim", "nope"}); code != 2 {
		t.Fatalf("unknown command exited %d", code)
	}
}
