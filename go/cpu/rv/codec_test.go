package rv

import (
	"bytes"
	"testing"
)

func TestCodec(t *testing.T) {
	program := []Ins{Add(1, 2, 3), Load(31, 0xffffffff), Store(7, 4), Jump(1), Halt()}
	data, err := EncodeBytes(program)
	if err != nil {
		t.Fatal(err)
	}
	if !MatchImage(data) {
		t.Fatal("encoded image is missing its magic")
	}
	if len(data) != 10+8*len(program) {
		t.Fatalf("image is %d bytes, expecting %d", len(data), 10+8*len(program))
	}
	// header and records are little endian
	if data[6] != byte(len(program)) || data[10] != OP_ADD || data[11] != 1 {
		t.Fatalf("bad image layout: % x", data[:12])
	}
	out, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(program) {
		t.Fatalf("decoded %d instructions, expecting %d", len(out), len(program))
	}
	for i := range program {
		if out[i] != program[i] {
			t.Fatalf("instruction %d: %s != %s", i, out[i], program[i])
		}
	}
}

func TestCodecEncodeErrors(t *testing.T) {
	for _, ins := range []Ins{Load(1, 1<<32), Add(256, 0, 0), Add(-1, 0, 0), {Op: 0x7f}} {
		if _, err := EncodeBytes([]Ins{ins}); err == nil {
			t.Fatalf("encoded %s without error", ins)
		}
	}
}

func TestCodecDecodeErrors(t *testing.T) {
	good, err := EncodeBytes([]Ins{Halt()})
	if err != nil {
		t.Fatal(err)
	}
	corrupt := func(i int, b byte) []byte {
		data := append([]byte(nil), good...)
		data[i] = b
		return data
	}
	cases := map[string][]byte{
		"magic":     corrupt(0, 'X'),
		"version":   corrupt(4, 9),
		"op":        corrupt(10, 0x7f),
		"truncated": good[:len(good)-1],
		"empty":     nil,
	}
	for name, data := range cases {
		if _, err := Decode(bytes.NewReader(data)); err == nil {
			t.Fatalf("%s: decoded without error", name)
		}
	}
}
