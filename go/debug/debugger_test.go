package debug

import (
	"bytes"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/lunixbochs/rvsim/go/cpu/rv"
	"github.com/lunixbochs/rvsim/go/models"
	"github.com/lunixbochs/rvsim/go/sim"
)

type nopCloser struct {
	bytes.Buffer
}

func (n *nopCloser) Close() error { return nil }

func TestDebuggerConn(t *testing.T) {
	program := []rv.Ins{rv.Store(0, 1), rv.Store(1, 2), rv.Halt()}
	s, err := sim.New(program, &models.Config{
		Output:    &nopCloser{},
		MemSize:   4,
		CacheSize: 2,
		Regs:      map[int]int32{1: 5},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	server, client := net.Pipe()
	d := NewDebugger(s)
	d.Interactive = false
	done := make(chan struct{})
	go func() {
		d.Run(server)
		close(done)
	}()
	go client.Write([]byte("step\n"))

	// read until the step output shows up
	want := ">    1: store 1, x2"
	client.SetReadDeadline(time.Now().Add(5 * time.Second))
	var out bytes.Buffer
	buf := make([]byte, 256)
	for !strings.Contains(out.String(), want) {
		n, err := client.Read(buf)
		out.Write(buf[:n])
		if err != nil {
			t.Fatalf("read failed with %v, client saw %q", err, out.String())
		}
	}
	client.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("debugger did not exit after the client hung up")
	}
	if s.PC() != 1 {
		t.Fatalf("pc = %d after one step", s.PC())
	}
}
