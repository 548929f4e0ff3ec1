package rv

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type asmLine struct {
	num    int
	fields []string
}

func stripComment(line string) string {
	if i := strings.IndexAny(line, "#;"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

func parseNum(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, errors.Errorf("bad number %q", s)
	}
	return n, nil
}

// parseReg accepts x0-x255 or r0-r255. Range against the register file is checked at runtime.
func parseReg(s string) (int, error) {
	s = strings.ToLower(s)
	if len(s) < 2 || (s[0] != 'x' && s[0] != 'r') {
		return 0, errors.Errorf("bad register %q", s)
	}
	n, err := strconv.ParseUint(s[1:], 10, 8)
	if err != nil {
		return 0, errors.Errorf("bad register %q", s)
	}
	return int(n), nil
}

func isLabel(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || c == '.':
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Assemble parses the text form of a program. Labels may be used as jump targets:
//
//	loop:  add x1, x1, x2
//	       jump loop
func Assemble(r io.Reader) ([]Ins, error) {
	labels := make(map[string]uint64)
	var lines []asmLine
	scanner := bufio.NewScanner(r)
	for num := 1; scanner.Scan(); num++ {
		text := stripComment(scanner.Text())
		// peel off any number of leading labels
		for {
			i := strings.Index(text, ":")
			if i < 0 {
				break
			}
			name := strings.TrimSpace(text[:i])
			if !isLabel(name) {
				return nil, errors.Errorf("line %d: bad label %q", num, name)
			}
			if _, ok := labels[name]; ok {
				return nil, errors.Errorf("line %d: duplicate label %q", num, name)
			}
			labels[name] = uint64(len(lines))
			text = strings.TrimSpace(text[i+1:])
		}
		if text == "" {
			continue
		}
		fields := strings.FieldsFunc(text, func(c rune) bool {
			return c == ',' || c == ' ' || c == '\t'
		})
		lines = append(lines, asmLine{num: num, fields: fields})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading program")
	}
	program := make([]Ins, 0, len(lines))
	for _, line := range lines {
		ins, err := assembleLine(line.fields, labels)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line.num)
		}
		program = append(program, ins)
	}
	return program, nil
}

// AssembleString is Assemble for a string.
func AssembleString(src string) ([]Ins, error) {
	return Assemble(strings.NewReader(src))
}

func lookupOp(name string) (uint8, bool) {
	name = strings.ToLower(name)
	if op, ok := opAlias[name]; ok {
		return op, true
	}
	for op, data := range opData {
		if data.name == name {
			return op, true
		}
	}
	return 0, false
}

func assembleLine(fields []string, labels map[string]uint64) (Ins, error) {
	op, ok := lookupOp(fields[0])
	if !ok {
		return Ins{}, errors.Errorf("unknown instruction %q", fields[0])
	}
	args := fields[1:]
	want := map[int]int{A_NONE: 0, A_3REG: 3, A_REG_IMM: 2, A_IMM_REG: 2, A_IMM: 1}[opData[op].arg]
	if len(args) != want {
		return Ins{}, errors.Errorf("%s takes %d operands, got %d", opData[op].name, want, len(args))
	}
	ins := Ins{Op: op}
	var err error
	switch opData[op].arg {
	case A_3REG:
		if ins.Rd, err = parseReg(args[0]); err != nil {
			return ins, err
		}
		if ins.Rs1, err = parseReg(args[1]); err != nil {
			return ins, err
		}
		ins.Rs2, err = parseReg(args[2])
	case A_REG_IMM:
		if ins.Rd, err = parseReg(args[0]); err != nil {
			return ins, err
		}
		ins.Imm, err = parseNum(args[1])
	case A_IMM_REG:
		if ins.Imm, err = parseNum(args[0]); err != nil {
			return ins, err
		}
		ins.Rs1, err = parseReg(args[1])
	case A_IMM:
		if target, ok := labels[args[0]]; ok {
			ins.Imm = target
		} else if ins.Imm, err = parseNum(args[0]); err != nil {
			err = errors.Errorf("unknown jump target %q", args[0])
		}
	}
	return ins, err
}
