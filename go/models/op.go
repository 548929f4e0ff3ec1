package models

import "io"

// Op is one record of an execution trace.
// Pack writes the op type byte followed by the body, Unpack reads only the body.
type Op interface {
	Pack(w io.Writer) (int, error)
	Unpack(r io.Reader) (int, error)
}
