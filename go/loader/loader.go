package loader

import (
	"github.com/lunixbochs/rvsim/go/cpu/rv"
)

const (
	FormatText  = "text"
	FormatImage = "image"
)

// Program is a loaded instruction sequence and where it came from.
type Program struct {
	Name   string
	Format string
	Ins    []rv.Ins
}

func (p *Program) Len() int {
	return len(p.Ins)
}
