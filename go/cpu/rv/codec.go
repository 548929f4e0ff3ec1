package rv

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

var ImageMagic = "RVSM"

const imageVersion = 1

var order = binary.LittleEndian

type imageHeader struct {
	Magic   string `struc:"[4]byte"`
	Version uint16
	Count   uint32
}

// every instruction is a fixed 8 byte record
type insRecord struct {
	Op  uint8
	Rd  uint8
	Rs1 uint8
	Rs2 uint8
	Imm uint32
}

// MatchImage reports whether p starts with the binary image magic.
func MatchImage(p []byte) bool {
	return len(p) >= len(ImageMagic) && string(p[:len(ImageMagic)]) == ImageMagic
}

func fitsReg(reg int) bool { return reg >= 0 && reg <= 0xff }

// Encode writes program as a binary image.
func Encode(w io.Writer, program []Ins) error {
	header := &imageHeader{Magic: ImageMagic, Version: imageVersion, Count: uint32(len(program))}
	if err := struc.PackWithOrder(w, header, order); err != nil {
		return errors.Wrap(err, "failed to pack header")
	}
	for i, ins := range program {
		if _, ok := opData[ins.Op]; !ok {
			return errors.Errorf("instruction %d: invalid op %#x", i, ins.Op)
		}
		if !fitsReg(ins.Rd) || !fitsReg(ins.Rs1) || !fitsReg(ins.Rs2) {
			return errors.Errorf("instruction %d: register does not fit in a byte: %s", i, ins)
		}
		if ins.Imm > 0xffffffff {
			return errors.Errorf("instruction %d: immediate does not fit in 32 bits: %s", i, ins)
		}
		rec := &insRecord{
			Op:  ins.Op,
			Rd:  uint8(ins.Rd),
			Rs1: uint8(ins.Rs1),
			Rs2: uint8(ins.Rs2),
			Imm: uint32(ins.Imm),
		}
		if err := struc.PackWithOrder(w, rec, order); err != nil {
			return errors.Wrapf(err, "failed to pack instruction %d", i)
		}
	}
	return nil
}

// Decode reads a binary image written by Encode.
func Decode(r io.Reader) ([]Ins, error) {
	var header imageHeader
	if err := struc.UnpackWithOrder(r, &header, order); err != nil {
		return nil, errors.Wrap(err, "failed to unpack header")
	}
	if header.Magic != ImageMagic {
		return nil, errors.New("invalid image magic")
	}
	if header.Version != imageVersion {
		return nil, errors.Errorf("unsupported image version: %d", header.Version)
	}
	var program []Ins
	for i := uint32(0); i < header.Count; i++ {
		var rec insRecord
		if err := struc.UnpackWithOrder(r, &rec, order); err != nil {
			return nil, errors.Wrapf(err, "failed to unpack instruction %d", i)
		}
		if _, ok := opData[rec.Op]; !ok {
			return nil, errors.Errorf("instruction %d: invalid op %#x", i, rec.Op)
		}
		program = append(program, Ins{
			Op:  rec.Op,
			Rd:  int(rec.Rd),
			Rs1: int(rec.Rs1),
			Rs2: int(rec.Rs2),
			Imm: uint64(rec.Imm),
		})
	}
	return program, nil
}

// EncodeBytes is Encode into a byte slice.
func EncodeBytes(program []Ins) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, program); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
