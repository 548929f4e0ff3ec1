package cpu

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. Concrete errors below match these with errors.Is.
var (
	ErrOutOfBounds       = errors.New("address out of bounds")
	ErrInvalidRegister   = errors.New("invalid register")
	ErrInvalidJumpTarget = errors.New("invalid jump target")
)

type MemError struct {
	Addr   uint64
	Size   uint64
	Access int
}

func (m *MemError) Error() string {
	reason := "memory access"
	switch m.Access {
	case MEM_READ:
		reason = "read"
	case MEM_WRITE:
		reason = "write"
	}
	return fmt.Sprintf("out of bounds %s at %#x (memory size %#x)", reason, m.Addr, m.Size)
}

func (m *MemError) Is(target error) bool { return target == ErrOutOfBounds }

type RegError struct {
	Reg int
}

func (r *RegError) Error() string {
	return fmt.Sprintf("invalid register: %d (want 0-%d)", r.Reg, NumRegs-1)
}

func (r *RegError) Is(target error) bool { return target == ErrInvalidRegister }

type JumpError struct {
	Target uint64
	Len    int
}

func (j *JumpError) Error() string {
	return fmt.Sprintf("invalid jump target: %d (program has %d instructions)", j.Target, j.Len)
}

func (j *JumpError) Is(target error) bool { return target == ErrInvalidJumpTarget }
