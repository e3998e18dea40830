package conslist

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"math"
)

// ElementEncoder writes single elements to the stream it was created for.
type ElementEncoder[E any] interface {
	EncodeElement(v E) error
}

// ElementDecoder reads single elements from the stream it was created for.
type ElementDecoder[E any] interface {
	DecodeElement() (E, error)
}

// ElementCodec creates per-stream element encoders and decoders. Encoders and
// decoders may keep state across elements of one stream, as gob does.
type ElementCodec[E any] interface {
	NewElementEncoder(w io.Writer) ElementEncoder[E]
	NewElementDecoder(r io.Reader) ElementDecoder[E]
}

// flavored is implemented by the raw scalar codecs of this package.
type flavored interface {
	flavor() Flavor
}

func flavorOf(c any) Flavor {
	if f, ok := c.(flavored); ok {
		return f.flavor()
	}
	return FlavorCodec
}

// Raw fixed-width codecs. Lists encoded with them are byte-identical to the
// output of EncodeScalars for the same numbers.
var (
	Int32Codec   ElementCodec[int32]   = rawCodec[int32]{}
	Int64Codec   ElementCodec[int64]   = rawCodec[int64]{}
	Float64Codec ElementCodec[float64] = rawCodec[float64]{}
)

type rawCodec[S Scalar] struct{}

func (rawCodec[S]) flavor() Flavor { return flavorOfKind(kindOf[S]()) }

func (rawCodec[S]) NewElementEncoder(w io.Writer) ElementEncoder[S] {
	return &rawEncoder[S]{w: w}
}

func (rawCodec[S]) NewElementDecoder(r io.Reader) ElementDecoder[S] {
	return &rawDecoder[S]{r: r}
}

type rawEncoder[S Scalar] struct {
	w   io.Writer
	buf [8]byte
}

func (e *rawEncoder[S]) EncodeElement(v S) error {
	n := width(kindOf[S]())
	if n == 4 {
		binary.BigEndian.PutUint32(e.buf[:4], uint32(toBits(v)))
	} else {
		binary.BigEndian.PutUint64(e.buf[:], toBits(v))
	}
	_, err := e.w.Write(e.buf[:n])
	return err
}

type rawDecoder[S Scalar] struct {
	r   io.Reader
	buf [8]byte
}

func (d *rawDecoder[S]) DecodeElement() (S, error) {
	k := kindOf[S]()
	bits, err := readBits(d.r, d.buf[:width(k)])
	if err != nil {
		return 0, err
	}
	return fromBits[S](&cell{kind: k, bits: bits}), nil
}

// StringCodec writes each string as a 4-byte big-endian length followed by
// its bytes.
var StringCodec ElementCodec[string] = stringCodec{}

type stringCodec struct{}

func (stringCodec) NewElementEncoder(w io.Writer) ElementEncoder[string] {
	return stringEncoder{w}
}

func (stringCodec) NewElementDecoder(r io.Reader) ElementDecoder[string] {
	return stringDecoder{r}
}

type stringEncoder struct{ w io.Writer }

func (e stringEncoder) EncodeElement(s string) error {
	if uint64(len(s)) > math.MaxUint32 {
		return fmt.Errorf("string of %d bytes too long", len(s))
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(len(s)))
	if _, err := e.w.Write(buf[:]); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, s)
	return err
}

type stringDecoder struct{ r io.Reader }

func (d stringDecoder) DecodeElement() (string, error) {
	var buf [4]byte
	n, err := readBits(d.r, buf[:])
	if err != nil {
		return "", err
	}
	// Grow with the data actually present, so that a forged length cannot
	// force a huge allocation.
	var sb bytes.Buffer
	m, err := io.Copy(&sb, io.LimitReader(d.r, int64(n)))
	if err != nil {
		return "", err
	}
	if uint64(m) < n {
		return "", io.ErrUnexpectedEOF
	}
	return sb.String(), nil
}

// GobCodec returns a codec that writes elements with encoding/gob. One gob
// stream spans all elements of a list, so type information is sent once.
// Concrete types stored in interface-typed elements must be registered with
// gob.Register.
func GobCodec[E any]() ElementCodec[E] {
	return gobCodec[E]{}
}

type gobCodec[E any] struct{}

func (gobCodec[E]) NewElementEncoder(w io.Writer) ElementEncoder[E] {
	return gobEncoder[E]{gob.NewEncoder(w)}
}

func (gobCodec[E]) NewElementDecoder(r io.Reader) ElementDecoder[E] {
	return gobDecoder[E]{gob.NewDecoder(r)}
}

type gobEncoder[E any] struct{ enc *gob.Encoder }

func (e gobEncoder[E]) EncodeElement(v E) error {
	return e.enc.Encode(&v)
}

type gobDecoder[E any] struct{ dec *gob.Decoder }

func (d gobDecoder[E]) DecodeElement() (E, error) {
	var v E
	err := d.dec.Decode(&v)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return v, err
}
