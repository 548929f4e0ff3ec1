package debug

import (
	"io"
	"net"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// like go io.Copy(), but returns a channel to notify you upon completion
func copyNotify(dst io.Writer, src io.Reader) chan int {
	ret := make(chan int, 1)
	go func() {
		io.Copy(dst, src)
		ret <- 1
	}()
	return ret
}

// RunClient connects the local terminal to a Debugger listening on addr.
func RunClient(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "error connecting to debug server")
	}
	defer conn.Close()
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return errors.Wrap(err, "error placing stdin into raw mode")
	}
	defer term.Restore(fd, state)
	remoteEOF := copyNotify(os.Stdout, conn)
	localEOF := copyNotify(conn, os.Stdin)
	select {
	case <-remoteEOF:
		return nil
	case <-localEOF:
		return nil
	}
}
