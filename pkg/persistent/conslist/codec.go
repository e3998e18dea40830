package conslist

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Binary envelope of an encoded list:
//
//	magic "CONS" | version | flavor | length (8 bytes, big-endian) | elements
//
// Elements are written last to first, so that a decoder rebuilds the list by
// consing each element onto what it has read so far.
const (
	magic         = "CONS"
	formatVersion = 1
	headerLen     = len(magic) + 1 + 1 + 8
)

// Flavor identifies how the elements of an encoded list are represented.
type Flavor uint8

const (
	// FlavorCodec means elements were written by an ElementCodec of the
	// caller's choosing.
	FlavorCodec Flavor = iota
	// FlavorInt32 means 4-byte big-endian two's complement integers.
	FlavorInt32
	// FlavorInt64 means 8-byte big-endian two's complement integers.
	FlavorInt64
	// FlavorFloat64 means 8-byte big-endian IEEE-754 bits.
	FlavorFloat64
)

func (f Flavor) String() string {
	switch f {
	case FlavorCodec:
		return "codec"
	case FlavorInt32:
		return "int32"
	case FlavorInt64:
		return "int64"
	case FlavorFloat64:
		return "float64"
	default:
		return fmt.Sprintf("Flavor(%d)", uint8(f))
	}
}

func (f Flavor) kind() kind {
	switch f {
	case FlavorInt32:
		return kindInt32
	case FlavorInt64:
		return kindInt64
	case FlavorFloat64:
		return kindFloat64
	default:
		return kindBoxed
	}
}

func flavorOfKind(k kind) Flavor {
	switch k {
	case kindInt32:
		return FlavorInt32
	case kindInt64:
		return FlavorInt64
	case kindFloat64:
		return FlavorFloat64
	default:
		return FlavorCodec
	}
}

// Header is the fixed-size prefix of an encoded list.
type Header struct {
	Flavor Flavor
	Len    int64
}

// ReadHeader reads and validates the envelope header from r. Any stream that
// does not start with a valid header yields ErrUnsupportedFormat.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [headerLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, fmt.Errorf("%w: reading header: %w", ErrUnsupportedFormat, err)
	}
	if string(buf[:len(magic)]) != magic {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrUnsupportedFormat, buf[:len(magic)])
	}
	if v := buf[len(magic)]; v != formatVersion {
		return Header{}, fmt.Errorf("%w: version %d", ErrUnsupportedFormat, v)
	}
	f := Flavor(buf[len(magic)+1])
	if f > FlavorFloat64 {
		return Header{}, fmt.Errorf("%w: unknown flavor %d", ErrUnsupportedFormat, uint8(f))
	}
	n := binary.BigEndian.Uint64(buf[len(magic)+2:])
	if n > math.MaxInt64 {
		return Header{}, fmt.Errorf("%w: length %d out of range", ErrUnsupportedFormat, n)
	}
	return Header{f, int64(n)}, nil
}

func writeHeader(w io.Writer, h Header) error {
	var buf [headerLen]byte
	copy(buf[:], magic)
	buf[len(magic)] = formatVersion
	buf[len(magic)+1] = byte(h.Flavor)
	binary.BigEndian.PutUint64(buf[len(magic)+2:], uint64(h.Len))
	_, err := w.Write(buf[:])
	return err
}

// Encode writes l to w in the list envelope, using c for the elements. On a
// *SerializationError, whatever was written to w must be discarded.
//
// Encode does not buffer; wrap w in a bufio.Writer for efficient output.
func Encode[E any](w io.Writer, l List[E], c ElementCodec[E]) error {
	if w == nil || c == nil {
		return fmt.Errorf("%w: nil writer or codec", ErrInvalidArgument)
	}
	if f := flavorOf(c); f != FlavorCodec {
		return encodeChain(w, l.cell(), f, rawPut(w, f.kind()))
	}
	enc := c.NewElementEncoder(w)
	return encodeChain(w, l.cell(), FlavorCodec, func(c *cell) error {
		return enc.EncodeElement(elem[E](c))
	})
}

// Decode reads a list in the envelope from r, using c for the elements. The
// envelope must have been written with a codec of the same flavor.
func Decode[E any](r io.Reader, c ElementCodec[E]) (List[E], error) {
	if r == nil || c == nil {
		return Empty[E](), fmt.Errorf("%w: nil reader or codec", ErrInvalidArgument)
	}
	if f := flavorOf(c); f != FlavorCodec {
		l, err := decodeChain(r, f, rawGet(r, f.kind()))
		return List[E]{l}, err
	}
	dec := c.NewElementDecoder(r)
	l, err := decodeChain(r, FlavorCodec, func(tail *cell) (*cell, error) {
		v, err := dec.DecodeElement()
		if err != nil {
			return nil, err
		}
		return newCell(v, tail), nil
	})
	return List[E]{l}, err
}

// EncodeScalars writes l to w in the list envelope with the fixed-width raw
// encoding of S.
func EncodeScalars[S Scalar](w io.Writer, l ScalarList[S]) error {
	if w == nil {
		return fmt.Errorf("%w: nil writer", ErrInvalidArgument)
	}
	k := kindOf[S]()
	return encodeChain(w, l.cell(), flavorOfKind(k), rawPut(w, k))
}

// DecodeScalars reads a list written by EncodeScalars[S], or by Encode with
// the raw codec for S.
func DecodeScalars[S Scalar](r io.Reader) (ScalarList[S], error) {
	if r == nil {
		return ScalarList[S]{emptyCell}, fmt.Errorf("%w: nil reader", ErrInvalidArgument)
	}
	k := kindOf[S]()
	l, err := decodeChain(r, flavorOfKind(k), rawGet(r, k))
	return ScalarList[S]{l}, err
}

func encodeChain(w io.Writer, c *cell, f Flavor, put func(*cell) error) error {
	rev, n := reverse(c)
	if err := writeHeader(w, Header{f, n}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	var written int64
	for ; rev != emptyCell; rev = rev.tail {
		if err := put(rev); err != nil {
			return &SerializationError{Op: "encode", Pos: n - written - 1, Err: err}
		}
		written++
	}
	return nil
}

func decodeChain(r io.Reader, f Flavor, get func(tail *cell) (*cell, error)) (*cell, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return emptyCell, err
	}
	if h.Flavor != f {
		return emptyCell, fmt.Errorf("%w: stream holds %v elements, want %v", ErrUnsupportedFormat, h.Flavor, f)
	}
	acc := emptyCell
	for remaining := h.Len; remaining > 0; remaining-- {
		next, err := get(acc)
		if err != nil {
			return emptyCell, &SerializationError{Op: "decode", Pos: remaining - 1, Err: err}
		}
		acc = next
	}
	return acc, nil
}

func width(k kind) int {
	if k == kindInt32 {
		return 4
	}
	return 8
}

func rawPut(w io.Writer, k kind) func(*cell) error {
	var buf [8]byte
	n := width(k)
	return func(c *cell) error {
		if n == 4 {
			binary.BigEndian.PutUint32(buf[:4], uint32(c.bits))
		} else {
			binary.BigEndian.PutUint64(buf[:], c.bits)
		}
		_, err := w.Write(buf[:n])
		return err
	}
}

func rawGet(r io.Reader, k kind) func(*cell) (*cell, error) {
	var buf [8]byte
	n := width(k)
	return func(tail *cell) (*cell, error) {
		bits, err := readBits(r, buf[:n])
		if err != nil {
			return nil, err
		}
		return newScalarCell(k, bits, tail), nil
	}
}

func readBits(r io.Reader, buf []byte) (uint64, error) {
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}
	if len(buf) == 4 {
		return uint64(binary.BigEndian.Uint32(buf)), nil
	}
	return binary.BigEndian.Uint64(buf), nil
}
