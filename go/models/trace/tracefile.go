package trace

import (
	"io"

	"github.com/golang/snappy"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/lunixbochs/rvsim/go/models"
)

var TRACE_MAGIC = "RVTR"

const TRACE_VERSION = 1

type TraceHeader struct {
	// MAGIC ("RVTR")
	Magic string `struc:"[4]byte" json:"-"`
	// file format version
	Version uint32 `json:"version"`

	// machine shape the trace was recorded on
	MemSize   uint64 `json:"mem_size"`
	CacheSize uint32 `json:"cache_size"`
	ZeroReg   bool   `json:"zero_reg"`
}

func NewHeader(memSize uint64, cacheSize int, zeroReg bool) *TraceHeader {
	return &TraceHeader{
		Magic:     TRACE_MAGIC,
		Version:   TRACE_VERSION,
		MemSize:   memSize,
		CacheSize: uint32(cacheSize),
		ZeroReg:   zeroReg,
	}
}

type TraceWriter struct {
	w  io.WriteCloser
	zw *snappy.Writer
}

func NewWriter(w io.WriteCloser, header *TraceHeader) (*TraceWriter, error) {
	if err := struc.PackWithOrder(w, header, order); err != nil {
		return nil, errors.Wrap(err, "failed to pack header")
	}
	zw := snappy.NewBufferedWriter(w)
	return &TraceWriter{w: w, zw: zw}, nil
}

// write an op at a time
func (t *TraceWriter) Pack(op models.Op) error {
	_, err := op.Pack(t.zw)
	return err
}

func (t *TraceWriter) Close() error {
	if err := t.zw.Close(); err != nil {
		t.w.Close()
		return err
	}
	return t.w.Close()
}

type TraceReader struct {
	r      io.ReadCloser
	zr     *snappy.Reader
	Header TraceHeader
}

func NewReader(r io.ReadCloser) (*TraceReader, error) {
	t := &TraceReader{r: r}
	if err := struc.UnpackWithOrder(r, &t.Header, order); err != nil {
		return nil, errors.Wrap(err, "failed to unpack header")
	}
	if t.Header.Magic != TRACE_MAGIC {
		return nil, errors.New("invalid trace file magic")
	}
	if t.Header.Version != TRACE_VERSION {
		return nil, errors.Errorf("unsupported trace version: %d", t.Header.Version)
	}
	t.zr = snappy.NewReader(r)
	return t, nil
}

// Next returns io.EOF once the trace is exhausted.
func (t *TraceReader) Next() (models.Op, error) {
	op, _, err := Unpack(t.zr)
	return op, err
}

func (t *TraceReader) Close() {
	t.zr.Reset(nil)
	t.r.Close()
}
