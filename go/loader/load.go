package loader

import (
	"bytes"
	"io"
	"io/ioutil"
	"path/filepath"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/lunixbochs/rvsim/go/cpu/rv"
)

var UnknownMagic = errors.New("Could not identify program format.")

func MatchImage(r io.ReaderAt) bool {
	p := make([]byte, len(rv.ImageMagic))
	_, err := r.ReadAt(p, 0)
	return err == nil && rv.MatchImage(p)
}

// anything that isn't an image has to at least look like text
func MatchText(p []byte) bool {
	return utf8.Valid(p) && bytes.IndexByte(p, 0) < 0
}

func LoadFile(path string) (*Program, error) {
	p, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	prog, err := Load(p)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	prog.Name = filepath.Base(path)
	return prog, nil
}

// Load sniffs p for the binary image magic and falls back to assembly source.
func Load(p []byte) (*Program, error) {
	r := bytes.NewReader(p)
	if MatchImage(r) {
		ins, err := rv.Decode(r)
		if err != nil {
			return nil, err
		}
		return &Program{Format: FormatImage, Ins: ins}, nil
	} else if MatchText(p) {
		ins, err := rv.Assemble(r)
		if err != nil {
			return nil, err
		}
		return &Program{Format: FormatText, Ins: ins}, nil
	} else {
		return nil, errors.WithStack(UnknownMagic)
	}
}
