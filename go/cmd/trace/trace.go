package trace

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/lunixbochs/rvsim/go/cmd"
	"github.com/lunixbochs/rvsim/go/models"
	"github.com/lunixbochs/rvsim/go/models/trace"
	"github.com/lunixbochs/rvsim/go/ui"
)

func PrintJson(tf *trace.TraceReader, w io.Writer) error {
	out, err := json.Marshal(&tf.Header)
	if err != nil {
		return errors.Wrap(err, "error printing header")
	}
	fmt.Fprintf(w, "%s\n", out)
	for {
		op, err := tf.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return errors.Wrap(err, "error reading next trace operation")
		}
		out, err := json.Marshal(op)
		if err != nil {
			return errors.Wrap(err, "error printing op")
		}
		fmt.Fprintf(w, "%s\n", out)
	}
	return nil
}

func PrintPretty(tf *trace.TraceReader, config *models.Config) error {
	replay := trace.NewReplay()
	defer replay.Flush()
	stream := ui.NewStreamUI(config, replay)
	replay.Listen(stream.Feed)
	for {
		op, err := tf.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return errors.Wrap(err, "error reading next trace operation")
		}
		replay.Feed(op)
	}
	return nil
}

func Main(args []string) int {
	fs := flag.NewFlagSet("args", flag.ExitOnError)
	jsonFlag := fs.Bool("json", false, "output trace as line-delimited JSON objects")
	color := fs.Bool("color", cmd.IsTerminal(os.Stdout), "colored output")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <tracefile>\n", args[0])
		fs.PrintDefaults()
	}
	fs.Parse(args[1:])
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open: %s %v\n", fs.Arg(0), err)
		return 1
	}
	tf, err := trace.NewReader(f)
	if err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "error opening trace file: %v\n", err)
		return 1
	}
	defer tf.Close()
	if *jsonFlag {
		err = PrintJson(tf, os.Stdout)
	} else {
		config := &models.Config{
			Output:  os.Stdout,
			Color:   *color,
			Verbose: true,
			Trace:   models.TraceConfig{Exec: true, Mem: true, Reg: true},
		}
		err = PrintPretty(tf, config.Init())
	}
	if err != nil {
		cmd.PrintError(os.Stderr, err)
		return 1
	}
	return 0
}

func init() { cmd.Register("trace", "print a saved trace file", Main) }
