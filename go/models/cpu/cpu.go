package cpu

// Word is the width of a register and of a memory cell.
type Word int32

// Ins is the minimum an instruction needs to expose to hooks and tracers.
type Ins interface {
	Mnemonic() string
	OpStr() string
	String() string
}

// This interface abstracts the minimum functionality the simulator requires from a CPU model.
type Cpu interface {
	// memory IO, always through the cache
	MemLoad(addr uint64) (Word, error)
	MemStore(addr uint64, val Word) error

	// register IO
	RegRead(reg int) (Word, error)
	RegWrite(reg int, val Word) error
	PC() uint64

	// execution
	Step() error
	Run() error
	Stop() error

	// hooks
	HookAdd(htype int, cb interface{}, begin, end uint64) (Hook, error)
	HookDel(hook Hook) error

	// save/restore entire CPU state
	ContextSave(reuse interface{}) (interface{}, error)
	ContextRestore(ctx interface{}) error
}
