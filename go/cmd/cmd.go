package cmd

import (
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/lunixbochs/rvsim/go/debug"
	dcmd "github.com/lunixbochs/rvsim/go/debug/cmd"
	"github.com/lunixbochs/rvsim/go/loader"
	"github.com/lunixbochs/rvsim/go/models"
	"github.com/lunixbochs/rvsim/go/sim"
)

type strslice []string

func (s *strslice) String() string {
	return fmt.Sprintf("%v", *s)
}

func (s *strslice) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// IsTerminal reports whether f is attached to a terminal, which turns color on by default.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

type SimCmd struct {
	Config *models.Config

	SetupFlags func() error
	SetupSim   func() error
	RunSim     func() error
	Teardown   func()

	Program *loader.Program
	Sim     *sim.Sim
	Flags   *flag.FlagSet
}

func NewSimCmd() *SimCmd {
	fs := flag.NewFlagSet("cli", flag.ExitOnError)
	return &SimCmd{Flags: fs}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// deepest returns the innermost error in the chain that recorded a stack.
func deepest(err error) stackTracer {
	var found stackTracer
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			found = st
		}
		cause, ok := err.(interface{ Cause() error })
		if !ok {
			break
		}
		err = cause.Cause()
	}
	return found
}

// PrintError prints err, and a stacktrace if one was recorded.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(w, "Error: %s\n", err)
	st := deepest(err)
	if st == nil {
		return
	}
	var frames [][2]string
	width := 0
	for _, f := range st.StackTrace() {
		fileline := fmt.Sprintf("%s:%d", f, f)
		method := fmt.Sprintf("%n", f)
		if len(fileline) > width {
			width = len(fileline)
		}
		frames = append(frames, [2]string{fileline, method})
		if method == "main" {
			break
		}
	}
	for _, f := range frames {
		fmt.Fprintf(w, "%s%s | %s()\n", f[0], strings.Repeat(" ", width-len(f[0])), f[1])
	}
}

// parsePresets turns -reg and -poke flag values into config presets.
func parsePresets(config *models.Config, regs, pokes []string) error {
	for _, v := range regs {
		enum, val, err := dcmd.ParseRegSet(v)
		if err != nil {
			return errors.Wrap(err, "-reg")
		}
		config.Regs[enum] = val
	}
	for _, v := range pokes {
		split := strings.SplitN(v, "=", 2)
		if len(split) != 2 {
			return errors.Errorf("-poke: expected addr=value, got %q", v)
		}
		addr, err := strconv.ParseUint(split[0], 0, 64)
		if err != nil {
			return errors.Errorf("-poke: bad address %q", split[0])
		}
		val, err := strconv.ParseInt(split[1], 0, 32)
		if err != nil {
			return errors.Errorf("-poke: bad value %q", split[1])
		}
		config.Poke[addr] = int32(val)
	}
	return nil
}

// Run parses argv, loads the program named by the first argument and runs it.
// It returns the process exit code.
func (c *SimCmd) Run(argv []string) int {
	fs := c.Flags
	// tracing flags
	trace := fs.Bool("trace", false, "shorthand for -etrace -mtrace -rtrace")
	etrace := fs.Bool("etrace", false, "trace execution")
	mtrace := fs.Bool("mtrace", false, "trace memory access and cache events")
	rtrace := fs.Bool("rtrace", false, "trace register modification")
	tracefile := fs.String("to", "", "binary trace output file")
	tnames := []string{"trace", "etrace", "mtrace", "rtrace", "to"}

	memSize := fs.Uint64("mem", models.DefaultMemSize, "memory size in cells")
	cacheSize := fs.Int("cache", models.DefaultCacheSize, "cache capacity in lines (0 disables caching)")
	limit := fs.Uint64("limit", 0, "fail after this many steps (0 for no limit)")
	zero := fs.Bool("zero", false, "hardwire x0 to zero")
	var regs, pokes strslice
	fs.Var(&regs, "reg", "preset a register, e.g. -reg x1=5 or -reg a0=-1")
	fs.Var(&pokes, "poke", "preset a memory cell, e.g. -poke 0x10=7")
	script := fs.String("script", "", "lua script to attach")

	color := fs.Bool("color", IsTerminal(os.Stderr), "colored output")
	nocolor := fs.Bool("nocolor", false, "disable colored output")
	verbose := fs.Bool("v", false, "verbose output")
	outfile := fs.String("o", "", "redirect output to file (default stderr)")

	listen := fs.Int("listen", -1, "serve the debugger on localhost:<port> instead of running")
	connect := fs.Int("connect", -1, "connect to a remote debugger on localhost:<port>")

	cpuprofile := fs.String("cpuprofile", "", "write cpu profile to <file>")
	memprofile := fs.String("memprofile", "", "write mem profile to <file>")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <program>\n\nOptions:\n", argv[0])
		var flags, tflags []*flag.Flag
		fs.VisitAll(func(f *flag.Flag) {
			for _, name := range tnames {
				if name == f.Name {
					tflags = append(tflags, f)
					return
				}
			}
			flags = append(flags, f)
		})
		PrintFlags(os.Stderr, flags)
		fmt.Fprintf(os.Stderr, "\nTrace Options:\n")
		PrintFlags(os.Stderr, tflags)
		fmt.Fprintf(os.Stderr, "\nDebug Client:\n  %s -connect <port>\n", argv[0])
	}
	if c.SetupFlags != nil {
		if err := c.SetupFlags(); err != nil {
			PrintError(os.Stderr, err)
			return 1
		}
	}
	fs.Parse(argv[1:])

	// connect to debug server (skips everything else)
	if *connect > 0 {
		addr := net.JoinHostPort("localhost", strconv.Itoa(*connect))
		if err := debug.RunClient(addr); err != nil {
			PrintError(os.Stderr, err)
			return 1
		}
		return 0
	}
	args := fs.Args()
	if len(args) < 1 {
		fs.Usage()
		return 2
	}

	config := &models.Config{
		MemSize:   *memSize,
		CacheSize: *cacheSize,
		StepLimit: *limit,
		ZeroReg:   *zero,
		Color:     *color && !*nocolor,
		Verbose:   *verbose,
		Script:    *script,
		Trace: models.TraceConfig{
			Exec:      *etrace || *trace,
			Mem:       *mtrace || *trace,
			Reg:       *rtrace || *trace,
			Tracefile: *tracefile,
		},
	}
	config.Init()
	c.Config = config
	if err := parsePresets(config, regs, pokes); err != nil {
		PrintError(os.Stderr, err)
		return 2
	}
	if *outfile != "" {
		out, err := os.OpenFile(*outfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			PrintError(os.Stderr, err)
			return 1
		}
		config.Output = out
		defer out.Close()
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			PrintError(os.Stderr, err)
			return 1
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}
	defer func() {
		if *memprofile != "" {
			f, err := os.Create(*memprofile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not write heap profile: %s\n", err)
				return
			}
			pprof.WriteHeapProfile(f)
			f.Close()
		}
		if c.Teardown != nil {
			c.Teardown()
		}
	}()

	prog, err := loader.LoadFile(args[0])
	if err != nil {
		PrintError(os.Stderr, err)
		return 1
	}
	c.Program = prog
	s, err := sim.New(prog.Ins, config)
	if err != nil {
		PrintError(os.Stderr, err)
		return 1
	}
	c.Sim = s
	defer func() {
		if err := s.Close(); err != nil {
			PrintError(os.Stderr, errors.Wrap(err, "closing trace"))
		}
	}()
	if c.SetupSim != nil {
		if err := c.SetupSim(); err != nil {
			PrintError(os.Stderr, err)
			return 1
		}
	}

	// the debugger drives the sim instead of RunSim
	if *listen > 0 {
		conn, err := debug.Accept("localhost", strconv.Itoa(*listen))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error accepting conn on port %d: %v\n", *listen, err)
			return 1
		}
		debug.NewDebugger(s).Run(conn)
		return 0
	}

	if c.RunSim != nil {
		err = c.RunSim()
	} else {
		err = c.run()
	}
	if err != nil {
		PrintError(os.Stderr, err)
		return 1
	}
	return 0
}

// run executes the whole program and prints the final registers and counters.
func (c *SimCmd) run() error {
	s := c.Sim
	err := s.Run()
	s.Printf("%s", s.Status(false))
	s.Printf("pc %d, %s\n", s.PC(), s.Reason())
	s.Printf("%s\n", s.Stats())
	return err
}
