package models

import (
	"fmt"
	"strings"

	"github.com/mgutz/ansi"
)

// StatusDiff remembers register values between calls to Changes.
type StatusDiff struct {
	Cpu     RegReader
	oldRegs map[int]int32
}

var chSame = ansi.ColorCode("default:default")
var chNew = ansi.ColorCode("default+bu:default")

func colorPad(s, color string, pad int) string {
	length := len(s)
	s = color + s + ansi.Reset
	if length < pad {
		s = strings.Repeat(" ", pad-length) + s
	}
	return s
}

type ChangeMask struct {
	Old, New string
	Changed  bool
}

type Change struct {
	Old, New int32
	Enum     int
	Name     string
}

func NewChange(enum int, name string, val, oldVal int32) *Change {
	return &Change{
		Old:  oldVal,
		New:  val,
		Enum: enum,
		Name: name,
	}
}

func (c *Change) Changed() bool {
	return c.Old != c.New
}

func hex32(v int32) string {
	return fmt.Sprintf("%08x", uint32(v))
}

// Mask splits the hex form of the new value into runs of changed and unchanged digits.
func (c *Change) Mask() []ChangeMask {
	s1, s2 := hex32(c.New), hex32(c.Old)
	pos := 0
	matching := true
	masks := make([]ChangeMask, 0, len(s1))
	for i := range s1 {
		if (s1[i] == s2[i]) != matching {
			if i > pos {
				masks = append(masks, ChangeMask{
					New:     s1[pos:i],
					Old:     s2[pos:i],
					Changed: !matching,
				})
				pos = i
			}
			matching = !matching
		}
	}
	if pos < len(s1) {
		masks = append(masks, ChangeMask{
			New:     s1[pos:],
			Old:     s2[pos:],
			Changed: !matching,
		})
	}
	return masks
}

func (c *Change) String(color bool) string {
	var out []string
	lineStart := fmt.Sprintf(" %4s 0x", c.Name)
	if c.Changed() {
		if color {
			out = append(out, fmt.Sprintf(" %s 0x", colorPad(c.Name, chNew, 4)))
			for _, mask := range c.Mask() {
				col := chSame
				if mask.Changed {
					col = chNew
				}
				out = append(out, col+mask.New)
			}
			out = append(out, ansi.Reset)
		} else {
			out = append(out, "+"+lineStart+hex32(c.New))
		}
	} else {
		out = append(out, lineStart+hex32(c.New))
	}
	return strings.Join(out, "")
}

type Changes struct {
	Changes []*Change
}

// String lays the changes out in four columns, filled top to bottom.
func (cs *Changes) String(color bool) string {
	const cols = 4
	n := len(cs.Changes)
	rows := (n + cols - 1) / cols
	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			i := col*rows + row
			if i >= n {
				break
			}
			b.WriteString(cs.Changes[i].String(color))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (cs *Changes) Changed() []*Change {
	ret := make([]*Change, 0, cs.Count())
	for _, c := range cs.Changes {
		if c.Changed() {
			ret = append(ret, c)
		}
	}
	return ret
}

func (cs *Changes) Count() int {
	ret := 0
	for _, c := range cs.Changes {
		if c.Changed() {
			ret += 1
		}
	}
	return ret
}

func (cs *Changes) Find(enum int) *Change {
	for _, c := range cs.Changes {
		if c.Enum == enum {
			return c
		}
	}
	return nil
}

// Changes diffs the registers against the previous call.
// The first call compares against all zero, which is the reset state.
// With onlyChanged set, only registers whose value differs are returned;
// otherwise all 32 are, with changed ones marked.
func (s *StatusDiff) Changes(onlyChanged bool) *Changes {
	regs, _ := RegDump(s.Cpu)
	cs := make([]*Change, 0, len(regs))
	for _, reg := range regs {
		var oldReg int32
		if s.oldRegs != nil {
			oldReg = s.oldRegs[reg.Enum]
		}
		change := NewChange(reg.Enum, reg.Name, reg.Val, oldReg)
		if !onlyChanged || change.Changed() {
			cs = append(cs, change)
		}
	}
	s.oldRegs = make(map[int]int32, len(regs))
	for _, r := range regs {
		s.oldRegs[r.Enum] = r.Val
	}
	return &Changes{Changes: cs}
}
