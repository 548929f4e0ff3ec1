package trace

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/lunixbochs/rvsim/go/models"
)

var allOps = []models.Op{
	&OpNop{},
	&OpReg{1, 5},
	&OpStep{PC: 0, Text: "store 0, x1"},
	&OpCache{2, 0, -1},
	&OpStore{0, 5},
	&OpStep{PC: 1, Text: "load x3, 0"},
	&OpCache{1, 0, 0},
	&OpLoad{0, 5},
	&OpReg{3, 5},
	&OpExit{2, 2},
}

func packAll(ops []models.Op) ([]byte, error) {
	var buf bytes.Buffer
	for _, op := range ops {
		if _, err := op.Pack(&buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func TestOpPack(t *testing.T) {
	buf, err := packAll(allOps)
	if err != nil {
		t.Fatal(err)
	}
	r := bytes.NewReader(buf)
	var out []models.Op
	total := 0
	for r.Len() > 0 {
		op, n, err := Unpack(r)
		if err != nil {
			t.Fatal(err)
		}
		total += n
		out = append(out, op)
	}
	if total != len(buf) {
		t.Fatalf("unpacked %d bytes of %d", total, len(buf))
	}
	buf2, err := packAll(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, buf2) {
		t.Error("encoded forms differ")
	}
	step := out[2].(*OpStep)
	if step.Text != "store 0, x1" {
		t.Fatalf("bad step text %q", step.Text)
	}
}

func TestOpUnknown(t *testing.T) {
	if _, _, err := Unpack(bytes.NewReader([]byte{0xff})); err == nil {
		t.Fatal("unpacked an unknown op")
	}
	if _, _, err := Unpack(bytes.NewReader([]byte{OP_REG, 1})); err == nil {
		t.Fatal("unpacked a truncated op")
	}
}

func TestOpJSON(t *testing.T) {
	for _, op := range allOps {
		data, err := json.Marshal(op)
		if err != nil {
			t.Fatal(err)
		}
		var m map[string]interface{}
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("%T produced bad json %s: %v", op, data, err)
		}
		if _, ok := m["op"]; !ok {
			t.Fatalf("%T json is missing its op: %s", op, data)
		}
	}
}

func BenchmarkPack(b *testing.B) {
	var buf bytes.Buffer
	for i := 0; i < b.N; i++ {
		buf.Reset()
		for _, op := range allOps {
			op.Pack(&buf)
		}
	}
}
