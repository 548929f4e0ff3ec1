package rv

import (
	"strings"
	"testing"
)

var asmSrc = `
# sum x2 into x1 three times
start:
	add x1, x1, x2   ; accumulate
	sub r3, r3, r4
	sw 0, x1
	lw x5, 0x0
	store 0b11, x5
loop: end: halt
	j start
	jump loop
`

func TestAssemble(t *testing.T) {
	program, err := AssembleString(asmSrc)
	if err != nil {
		t.Fatal(err)
	}
	compare := []Ins{
		Add(1, 1, 2), Sub(3, 3, 4), Store(0, 1), Load(5, 0), Store(3, 5), Halt(), Jump(0), Jump(5),
	}
	if len(program) != len(compare) {
		t.Fatalf("assembled %d instructions, expecting %d", len(program), len(compare))
	}
	for i, ins := range program {
		if ins != compare[i] {
			t.Fatalf("instruction %d: %s != %s", i, ins, compare[i])
		}
	}
}

// the disassembly of a program assembles back to the same program
func TestAssembleDis(t *testing.T) {
	program, err := AssembleString(asmSrc)
	if err != nil {
		t.Fatal(err)
	}
	var lines []string
	for _, ins := range program {
		lines = append(lines, ins.String())
	}
	again, err := AssembleString(strings.Join(lines, "\n"))
	if err != nil {
		t.Fatal(err)
	}
	for i := range program {
		if program[i] != again[i] {
			t.Fatalf("%q reassembled to %q", program[i], again[i])
		}
	}
	dis := Dis(program, 6, 10)
	if len(dis) != 2 || dis[0] != "   6: jump 0" || dis[1] != "   7: jump 5" {
		t.Fatalf("bad listing: %q", dis)
	}
}

func TestAssembleErrors(t *testing.T) {
	bad := map[string]string{
		"nop":                 "unknown instruction",
		"add x1, x2":          "operands",
		"add x1, x2, y3":      "bad register",
		"add x1, x2, x256":    "bad register",
		"load x1, twelve":     "bad number",
		"jump nowhere":        "unknown jump target",
		"a: halt\na: halt":    "duplicate label",
		"bad label: halt":     "bad label",
		"halt\nhalt\nstore 1": "line 3",
	}
	for src, msg := range bad {
		_, err := AssembleString(src)
		if err == nil {
			t.Fatalf("%q assembled without error", src)
		}
		if !strings.Contains(err.Error(), msg) {
			t.Fatalf("%q: error %q does not mention %q", src, err, msg)
		}
	}
}

// register range is checked when the instruction runs, not when it is assembled
func TestAssembleWideRegister(t *testing.T) {
	program, err := AssembleString("add x40, x1, x2")
	if err != nil {
		t.Fatal(err)
	}
	if program[0].Rd != 40 {
		t.Fatalf("rd = %d, expecting 40", program[0].Rd)
	}
}
