package rv

const (
	OP_ADD   = 0x01
	OP_SUB   = 0x02
	OP_LOAD  = 0x03
	OP_STORE = 0x04
	OP_JUMP  = 0x05
	OP_HALT  = 0x06
)

// Operand layout
const (
	A_NONE    = iota
	A_3REG    // rd, rs1, rs2
	A_REG_IMM // rd, addr
	A_IMM_REG // addr, rs
	A_IMM     // target
)

type op struct {
	name string
	arg  int
}

var opData = map[uint8]op{
	OP_ADD:   {"add", A_3REG},
	OP_SUB:   {"sub", A_3REG},
	OP_LOAD:  {"load", A_REG_IMM},
	OP_STORE: {"store", A_IMM_REG},
	OP_JUMP:  {"jump", A_IMM},
	OP_HALT:  {"halt", A_NONE},
}

// assembler aliases
var opAlias = map[string]uint8{
	"lw": OP_LOAD,
	"sw": OP_STORE,
	"j":  OP_JUMP,
}
