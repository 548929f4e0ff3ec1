package models

import (
	"strings"
	"testing"

	"github.com/lunixbochs/rvsim/go/models/cpu"
)

func TestRegList(t *testing.T) {
	list := RegList()
	if len(list) != cpu.NumRegs {
		t.Fatalf("got %d registers", len(list))
	}
	// natural order, not x0 x1 x10 x11
	for i, r := range list {
		if r.Enum != i {
			t.Fatalf("register %d is %s", i, r.Name)
		}
	}
}

func TestLookupReg(t *testing.T) {
	good := map[string]int{"x0": 0, "r7": 7, "X31": 31, "zero": 0, "sp": 2, "a0": 10, "t6": 31, "fp": 8, "12": 12}
	for name, enum := range good {
		got, err := LookupReg(name)
		if err != nil {
			t.Fatal(err)
		}
		if got != enum {
			t.Fatalf("%s = %d, expecting %d", name, got, enum)
		}
	}
	for _, name := range []string{"x32", "r-1", "pc", ""} {
		if _, err := LookupReg(name); err == nil {
			t.Fatalf("%q resolved to a register", name)
		}
	}
}

func TestStatusDiff(t *testing.T) {
	regs := cpu.NewRegs(false)
	diff := &StatusDiff{Cpu: regs}
	if n := diff.Changes(true).Count(); n != 0 {
		t.Fatalf("fresh registers show %d changes", n)
	}
	regs.RegWrite(5, 0x1234)
	regs.RegWrite(10, -1)
	cs := diff.Changes(true)
	if cs.Count() != 2 || cs.Find(5) == nil || cs.Find(10) == nil {
		t.Fatalf("bad changes: %s", cs.String(false))
	}
	if c := cs.Find(10); c.String(false) != "+  x10 0xffffffff" {
		t.Fatalf("bad change line %q", c.String(false))
	}
	if n := diff.Changes(true).Count(); n != 0 {
		t.Fatalf("unchanged registers show %d changes", n)
	}
	all := diff.Changes(false)
	if len(all.Changes) != cpu.NumRegs {
		t.Fatalf("full dump has %d registers", len(all.Changes))
	}
	if lines := strings.Count(all.String(false), "\n"); lines != cpu.NumRegs/4 {
		t.Fatalf("full dump has %d rows", lines)
	}
}

func TestChangeMask(t *testing.T) {
	c := NewChange(1, "x1", 0x00001200, 0x00001300)
	masks := c.Mask()
	if len(masks) != 3 || masks[0].New != "00001" || !masks[1].Changed || masks[1].New != "2" || masks[2].New != "00" {
		t.Fatalf("bad masks: %+v", masks)
	}
}

func TestChangesLayout(t *testing.T) {
	var cs Changes
	for i := 1; i <= 5; i++ {
		cs.Changes = append(cs.Changes, NewChange(i, cpu.RegName(i), int32(i), 0))
	}
	rows := strings.Split(strings.TrimRight(cs.String(false), "\n"), "\n")
	if len(rows) != 2 {
		t.Fatalf("5 changes laid out in %d rows", len(rows))
	}
	// columns fill top to bottom
	if !strings.Contains(rows[0], "x1 ") || !strings.Contains(rows[0], "x3 ") || !strings.Contains(rows[0], "x5 ") || !strings.Contains(rows[1], "x4 ") {
		t.Fatalf("bad layout:\n%s", cs.String(false))
	}
	if (&Changes{}).String(false) != "" {
		t.Fatal("empty changes printed something")
	}
}
