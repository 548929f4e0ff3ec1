package models

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lunixbochs/fvbommel-util/sortorder"
	"github.com/pkg/errors"

	"github.com/lunixbochs/rvsim/go/models/cpu"
)

type Reg struct {
	Enum int
	Name string
}

type RegVal struct {
	Reg
	Val int32
}

type regList []Reg

func (r regList) Len() int           { return len(r) }
func (r regList) Swap(i, j int)      { r[i], r[j] = r[j], r[i] }
func (r regList) Less(i, j int) bool { return sortorder.NaturalLess(r[i].Name, r[j].Name) }

type regMap map[int]string

func (r regMap) Items() regList {
	ret := make(regList, 0, len(r))
	for e, n := range r {
		ret = append(ret, Reg{e, n})
	}
	return ret
}

// RISC-V calling convention names, accepted anywhere a register is parsed
var abiNames = regMap{
	0: "zero", 1: "ra", 2: "sp", 3: "gp", 4: "tp",
	5: "t0", 6: "t1", 7: "t2", 8: "s0", 9: "s1",
	10: "a0", 11: "a1", 12: "a2", 13: "a3", 14: "a4", 15: "a5", 16: "a6", 17: "a7",
	18: "s2", 19: "s3", 20: "s4", 21: "s5", 22: "s6", 23: "s7", 24: "s8", 25: "s9", 26: "s10", 27: "s11",
	28: "t3", 29: "t4", 30: "t5", 31: "t6",
}

var regNames regMap

func init() {
	regNames = make(regMap, cpu.NumRegs)
	for i := 0; i < cpu.NumRegs; i++ {
		regNames[i] = cpu.RegName(i)
	}
}

// RegList returns every register in natural name order (x0, x1, ... x10).
func RegList() []Reg {
	list := regNames.Items()
	sort.Sort(list)
	return list
}

func AbiName(enum int) string {
	return abiNames[enum]
}

// LookupReg parses x5, r5, t0 or a plain index.
func LookupReg(name string) (int, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for e, n := range abiNames {
		if n == name {
			return e, nil
		}
	}
	if name == "fp" {
		return 8, nil
	}
	num := name
	if strings.HasPrefix(name, "x") || strings.HasPrefix(name, "r") {
		num = name[1:]
	}
	enum, err := strconv.Atoi(num)
	if err != nil {
		return 0, errors.Errorf("unknown register: %s", name)
	}
	if err := cpu.CheckReg(enum); err != nil {
		return 0, err
	}
	return enum, nil
}

type RegReader interface {
	RegRead(reg int) (cpu.Word, error)
}

// RegDump reads every register in natural name order.
func RegDump(c RegReader) ([]RegVal, error) {
	list := RegList()
	ret := make([]RegVal, len(list))
	for i, r := range list {
		val, err := c.RegRead(r.Enum)
		if err != nil {
			return nil, err
		}
		ret[i] = RegVal{r, int32(val)}
	}
	return ret, nil
}
