package trace

import (
	"encoding/binary"
	"io"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/lunixbochs/rvsim/go/models"
)

var order = binary.LittleEndian

const (
	OP_NOP   = 0
	OP_STEP  = 1
	OP_REG   = 2
	OP_LOAD  = 3
	OP_STORE = 4
	OP_CACHE = 5
	OP_EXIT  = 6
)

// packOp writes the type byte and a struc-packed body.
func packOp(w io.Writer, code uint8, body interface{}) (int, error) {
	if _, err := w.Write([]byte{code}); err != nil {
		return 0, err
	}
	size, err := struc.Sizeof(body)
	if err != nil {
		return 1, err
	}
	if err := struc.PackWithOrder(w, body, order); err != nil {
		return 1, err
	}
	return 1 + size, nil
}

func unpackOp(r io.Reader, body interface{}) (int, error) {
	if err := struc.UnpackWithOrder(r, body, order); err != nil {
		return 0, err
	}
	return struc.Sizeof(body)
}

// Unpack reads a single op, returning it with the number of bytes consumed.
func Unpack(r io.Reader) (models.Op, int, error) {
	var tmp [1]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return nil, 0, err
	}
	var op models.Op
	switch tmp[0] {
	case OP_NOP:
		op = &OpNop{}
	case OP_STEP:
		op = &OpStep{}
	case OP_REG:
		op = &OpReg{}
	case OP_LOAD:
		op = &OpLoad{}
	case OP_STORE:
		op = &OpStore{}
	case OP_CACHE:
		op = &OpCache{}
	case OP_EXIT:
		op = &OpExit{}
	default:
		return nil, 1, errors.Errorf("Unknown op: %d", tmp[0])
	}
	n, err := op.Unpack(r)
	if err != nil {
		err = errors.Wrapf(err, "unpacking op %d", tmp[0])
	}
	return op, n + 1, err
}

type OpNop struct{}

func (o *OpNop) Pack(w io.Writer) (int, error) {
	_, err := w.Write([]byte{OP_NOP})
	return 1, err
}

func (o *OpNop) Unpack(r io.Reader) (int, error) { return 0, nil }

// OpStep starts a new instruction. Every op after it up to the next OpStep is an effect of that instruction.
type OpStep struct {
	PC      uint64
	TextLen uint8 `struc:"uint8,sizeof=Text"`
	Text    string
}

func (o *OpStep) Pack(w io.Writer) (int, error)   { return packOp(w, OP_STEP, o) }
func (o *OpStep) Unpack(r io.Reader) (int, error) { return unpackOp(r, o) }

type OpReg struct {
	Num uint8
	Val int32
}

func (o *OpReg) Pack(w io.Writer) (int, error)   { return packOp(w, OP_REG, o) }
func (o *OpReg) Unpack(r io.Reader) (int, error) { return unpackOp(r, o) }

type OpLoad struct {
	Addr uint64
	Val  int32
}

func (o *OpLoad) Pack(w io.Writer) (int, error)   { return packOp(w, OP_LOAD, o) }
func (o *OpLoad) Unpack(r io.Reader) (int, error) { return unpackOp(r, o) }

type OpStore struct {
	Addr uint64
	Val  int32
}

func (o *OpStore) Pack(w io.Writer) (int, error)   { return packOp(w, OP_STORE, o) }
func (o *OpStore) Unpack(r io.Reader) (int, error) { return unpackOp(r, o) }

// OpCache records a hit, miss or eviction. Slot is -1 for a miss.
type OpCache struct {
	Event uint8
	Addr  uint64
	Slot  int32
}

func (o *OpCache) Pack(w io.Writer) (int, error)   { return packOp(w, OP_CACHE, o) }
func (o *OpCache) Unpack(r io.Reader) (int, error) { return unpackOp(r, o) }

// OpExit ends a run. Reason is the cpu halt reason, or 0 if the run stopped early.
type OpExit struct {
	Reason uint8
	Steps  uint64
}

func (o *OpExit) Pack(w io.Writer) (int, error)   { return packOp(w, OP_EXIT, o) }
func (o *OpExit) Unpack(r io.Reader) (int, error) { return unpackOp(r, o) }
