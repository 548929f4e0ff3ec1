package cpu

// Mem is flat word-addressed main memory. Addresses are cell indices.
// The cpu never touches Mem directly: it is owned by a Cache.
type Mem struct {
	cells []Word

	// number of successful Load/Store calls, for tests and diagnostics
	loads, stores uint64
}

// NewMem returns zeroed memory with size cells.
func NewMem(size uint64) *Mem {
	return &Mem{cells: make([]Word, size)}
}

func (m *Mem) Size() uint64 {
	return uint64(len(m.cells))
}

func (m *Mem) check(addr uint64, access int) error {
	if addr >= uint64(len(m.cells)) {
		return &MemError{Addr: addr, Size: uint64(len(m.cells)), Access: access}
	}
	return nil
}

func (m *Mem) Load(addr uint64) (Word, error) {
	if err := m.check(addr, MEM_READ); err != nil {
		return 0, err
	}
	m.loads++
	return m.cells[addr], nil
}

func (m *Mem) Store(addr uint64, val Word) error {
	if err := m.check(addr, MEM_WRITE); err != nil {
		return err
	}
	m.stores++
	m.cells[addr] = val
	return nil
}

// Peek reads a cell without counting it as an access. This exists to support debuggers.
func (m *Mem) Peek(addr uint64) (Word, error) {
	if err := m.check(addr, MEM_READ); err != nil {
		return 0, err
	}
	return m.cells[addr], nil
}

// Poke writes a cell without counting it as an access.
// Only valid before the memory is handed to a Cache, as it bypasses any cached copy.
func (m *Mem) Poke(addr uint64, val Word) error {
	if err := m.check(addr, MEM_WRITE); err != nil {
		return err
	}
	m.cells[addr] = val
	return nil
}

// Counts returns how many loads and stores have reached memory.
func (m *Mem) Counts() (loads, stores uint64) {
	return m.loads, m.stores
}
