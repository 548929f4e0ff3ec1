package models

import (
	"io"
	"os"
)

// TraceConfig selects what the tracer records and where it goes.
type TraceConfig struct {
	// print every executed instruction
	Exec bool
	// print loads, stores and cache events
	Mem bool
	// print register changes
	Reg bool

	// write a binary trace here (TraceWriter takes precedence over Tracefile)
	Tracefile   string
	TraceWriter io.WriteCloser

	// called with every op the tracer emits, after the op is written
	OpCallback []func(Op)
}

// Any reports whether any live tracing was requested.
func (t *TraceConfig) Any() bool {
	return t.Exec || t.Mem || t.Reg || t.Tracefile != "" || t.TraceWriter != nil
}

type Config struct {
	Output io.WriteCloser

	MemSize   uint64
	CacheSize int
	StepLimit uint64
	// hardwire x0 to zero
	ZeroReg bool

	Color   bool
	Verbose bool
	Trace   TraceConfig

	// lua script to attach before running
	Script string

	// initial register and memory values
	Regs map[int]int32
	Poke map[uint64]int32
}

const (
	DefaultMemSize   = 1024
	DefaultCacheSize = 8
)

// Init fills in the output and preset maps. Sizes are taken as given: a zero
// MemSize is an empty memory and a zero CacheSize disables caching.
// Returns c for chaining.
func (c *Config) Init() *Config {
	if c == nil {
		c = &Config{}
	}
	if c.Output == nil {
		c.Output = os.Stderr
	}
	if c.Regs == nil {
		c.Regs = make(map[int]int32)
	}
	if c.Poke == nil {
		c.Poke = make(map[uint64]int32)
	}
	return c
}
