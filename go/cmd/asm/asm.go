package asm

import (
	"bytes"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/lunixbochs/rvsim/go/cmd"
	"github.com/lunixbochs/rvsim/go/cpu/rv"
	"github.com/lunixbochs/rvsim/go/loader"
)

// outName replaces the source extension with .rvb
func outName(src string) string {
	if i := strings.LastIndex(src, "."); i > strings.LastIndex(src, "/") {
		src = src[:i]
	}
	return src + ".rvb"
}

func Main(args []string) int {
	fs := flag.NewFlagSet("args", flag.ExitOnError)
	out := fs.String("o", "", "output image (default <program>.rvb)")
	dis := fs.Bool("d", false, "print a listing instead of writing an image")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <program>\n", args[0])
		fs.PrintDefaults()
	}
	fs.Parse(args[1:])
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	prog, err := loader.LoadFile(fs.Arg(0))
	if err != nil {
		cmd.PrintError(os.Stderr, err)
		return 1
	}
	if *dis {
		for _, line := range rv.Dis(prog.Ins, 0, prog.Len()) {
			fmt.Println(line)
		}
		return 0
	}
	var buf bytes.Buffer
	if err := rv.Encode(&buf, prog.Ins); err != nil {
		cmd.PrintError(os.Stderr, err)
		return 1
	}
	if *out == "" {
		*out = outName(fs.Arg(0))
	}
	if err := ioutil.WriteFile(*out, buf.Bytes(), 0644); err != nil {
		cmd.PrintError(os.Stderr, err)
		return 1
	}
	return 0
}

func init() { cmd.Register("asm", "assemble a program into a binary image", Main) }
