package conslist

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScalarRoundTrip(t *testing.T) {
	testScalarRoundTrip(t, Int32Of(), Int32Of(1, -2, 3))
	testScalarRoundTrip(t, Int64Of(), Int64Of(1<<40, -2, 3))
	testScalarRoundTrip(t, Float64Of(), Float64Of(0.25, -2, 1e300))
}

func testScalarRoundTrip[S Scalar](t *testing.T, lists ...ScalarList[S]) {
	t.Helper()
	for _, l := range lists {
		var buf bytes.Buffer
		if err := EncodeScalars(&buf, l); err != nil {
			t.Fatalf("EncodeScalars(%v) -> %v", l, err)
		}
		got, err := DecodeScalars[S](&buf)
		if err != nil {
			t.Fatalf("DecodeScalars -> %v", err)
		}
		if !got.Equal(l) || got.Hash() != l.Hash() {
			t.Errorf("round trip of %v gives %v", l, got)
		}
	}
}

func TestCodecRoundTrip(t *testing.T) {
	strs := Of("", "a", "héllo", "multi\nline")
	var buf bytes.Buffer
	if err := Encode(&buf, strs, StringCodec); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf, StringCodec)
	if err != nil || !got.Equal(strs) {
		t.Errorf("StringCodec round trip = (%v, %v), want (%v, nil)", got, err, strs)
	}

	type point struct{ X, Y int }
	points := Of(point{1, 2}, point{3, 4}, point{})
	buf.Reset()
	if err := Encode(&buf, points, GobCodec[point]()); err != nil {
		t.Fatal(err)
	}
	gotPoints, err := Decode(&buf, GobCodec[point]())
	if err != nil || !gotPoints.Equal(points) {
		t.Errorf("GobCodec round trip = (%v, %v), want (%v, nil)", gotPoints, err, points)
	}
}

func TestRoundTrip_LongList(t *testing.T) {
	const n = 20000
	l := Empty[int32]()
	for i := int32(n); i >= 1; i-- {
		l = l.Cons(i)
	}
	for _, codec := range []ElementCodec[int32]{Int32Codec, GobCodec[int32]()} {
		var buf bytes.Buffer
		if err := Encode(&buf, l, codec); err != nil {
			t.Fatal(err)
		}
		got, err := Decode(&buf, codec)
		if err != nil {
			t.Fatal(err)
		}
		if got.Len() != n {
			t.Errorf("decoded %d elements, want %d", got.Len(), n)
		}
		if diff := cmp.Diff([]int32{1, 2, 3, 4}, got.Slice()[:4]); diff != "" {
			t.Errorf("decoded list starts with (-want +got):\n%s", diff)
		}
		if !got.Equal(l) || got.Hash() != l.Hash() {
			t.Errorf("decoded list differs from original")
		}
	}
}

func TestEncodeScalars_WireFormat(t *testing.T) {
	want := []byte{
		'C', 'O', 'N', 'S', 1, byte(FlavorInt32),
		0, 0, 0, 0, 0, 0, 0, 2,
		0, 0, 0, 2,
		0, 0, 0, 1,
	}
	var buf bytes.Buffer
	if err := EncodeScalars(&buf, Int32Of(1, 2)); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, buf.Bytes()); diff != "" {
		t.Errorf("EncodeScalars (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := Encode(&buf, Of[int32](1, 2), Int32Codec); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, buf.Bytes()); diff != "" {
		t.Errorf("Encode with Int32Codec (-want +got):\n%s", diff)
	}

	got, err := Decode(bytes.NewReader(want), Int32Codec)
	if err != nil || !got.Equal(Int32Of(1, 2)) {
		t.Errorf("Decode with Int32Codec = (%v, %v)", got, err)
	}
}

func TestReadHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeScalars(&buf, Float64Of(1, 2, 3)); err != nil {
		t.Fatal(err)
	}
	h, err := ReadHeader(&buf)
	if err != nil || h != (Header{FlavorFloat64, 3}) {
		t.Errorf("ReadHeader() = (%v, %v), want ({float64 3}, nil)", h, err)
	}
	if buf.Len() != 3*8 {
		t.Errorf("ReadHeader left %d bytes, want %d", buf.Len(), 3*8)
	}
}

// pickyCodec writes ints as 8-byte numbers and fails on one of them.
type pickyCodec struct{ bad int }

func (c pickyCodec) NewElementEncoder(w io.Writer) ElementEncoder[int] {
	return pickyEncoder{w, c.bad}
}

func (c pickyCodec) NewElementDecoder(r io.Reader) ElementDecoder[int] {
	return pickyDecoder{r, c.bad}
}

type pickyEncoder struct {
	w   io.Writer
	bad int
}

var errPicky = errors.New("picky")

func (e pickyEncoder) EncodeElement(v int) error {
	if v == e.bad {
		return errPicky
	}
	return binary.Write(e.w, binary.BigEndian, int64(v))
}

type pickyDecoder struct {
	r   io.Reader
	bad int
}

func (d pickyDecoder) DecodeElement() (int, error) {
	var v int64
	if err := binary.Read(d.r, binary.BigEndian, &v); err != nil {
		return 0, err
	}
	if int(v) == d.bad {
		return 0, errPicky
	}
	return int(v), nil
}

func TestEncode_ErrorPosition(t *testing.T) {
	l := Of(1, 2, 3, 4, 5, 6)
	err := Encode[int](io.Discard, l, pickyCodec{bad: 4})
	var serr *SerializationError
	if !errors.As(err, &serr) {
		t.Fatalf("Encode -> %v, want *SerializationError", err)
	}
	if serr.Op != "encode" || serr.Pos != 3 || !errors.Is(err, errPicky) {
		t.Errorf("Encode -> %+v, want encode error at position 3 wrapping errPicky", serr)
	}
	if want := "could not encode element at 0-based position 3: picky"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestDecode_ErrorPosition(t *testing.T) {
	l := Of(1, 2, 3, 4, 5, 6)
	var buf bytes.Buffer
	if err := Encode[int](&buf, l, pickyCodec{}); err != nil {
		t.Fatal(err)
	}
	_, err := Decode[int](&buf, pickyCodec{bad: 4})
	var serr *SerializationError
	if !errors.As(err, &serr) {
		t.Fatalf("Decode -> %v, want *SerializationError", err)
	}
	if serr.Op != "decode" || serr.Pos != 3 || !errors.Is(err, errPicky) {
		t.Errorf("Decode -> %+v, want decode error at position 3 wrapping errPicky", serr)
	}
}

func TestDecode_Truncated(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeScalars(&buf, Int32Of(1, 2, 3, 4, 5, 6)); err != nil {
		t.Fatal(err)
	}
	// Elements are stored last to first; keep 6 and 5 and half of 4.
	data := buf.Bytes()[:headerLen+2*4+2]
	_, err := DecodeScalars[int32](bytes.NewReader(data))
	var serr *SerializationError
	if !errors.As(err, &serr) || serr.Pos != 3 || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("DecodeScalars of truncated stream -> %v, want error at position 3", err)
	}

	// Nothing left after the header.
	_, err = DecodeScalars[int32](bytes.NewReader(buf.Bytes()[:headerLen]))
	if !errors.As(err, &serr) || serr.Pos != 5 {
		t.Errorf("DecodeScalars of header only -> %v, want error at position 5", err)
	}
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	var good bytes.Buffer
	if err := EncodeScalars(&good, Int64Of(1, 2)); err != nil {
		t.Fatal(err)
	}
	mutate := func(i int, b byte) []byte {
		data := bytes.Clone(good.Bytes())
		data[i] = b
		return data
	}
	legacy := binary.BigEndian.AppendUint64(nil, 2)
	legacy = binary.BigEndian.AppendUint64(legacy, 2)
	legacy = binary.BigEndian.AppendUint64(legacy, 1)

	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"empty stream", nil},
		{"short header", good.Bytes()[:5]},
		{"bad magic", mutate(0, 'X')},
		{"bad version", mutate(4, 9)},
		{"unknown flavor", mutate(5, 42)},
		{"negative length", mutate(6, 0x80)},
		{"legacy layout", legacy},
	} {
		_, err := DecodeScalars[int64](bytes.NewReader(tc.data))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: DecodeScalars -> %v, want ErrUnsupportedFormat", tc.name, err)
		}
	}

	// A well-formed envelope of another flavor.
	if _, err := DecodeScalars[int32](bytes.NewReader(good.Bytes())); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("DecodeScalars[int32] of int64 stream -> %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Decode(bytes.NewReader(good.Bytes()), StringCodec); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Decode with StringCodec of int64 stream -> %v, want ErrUnsupportedFormat", err)
	}
}

func TestCodec_InvalidArguments(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode[int](&buf, Of(1), nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Encode with nil codec -> %v", err)
	}
	if err := Encode(nil, Of("a"), StringCodec); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Encode to nil writer -> %v", err)
	}
	if _, err := Decode[int](&buf, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Decode with nil codec -> %v", err)
	}
	if _, err := DecodeScalars[int32](nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("DecodeScalars from nil reader -> %v", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEncode_HeaderWriteError(t *testing.T) {
	err := EncodeScalars(failingWriter{}, Int32Of(1))
	var serr *SerializationError
	if err == nil || errors.As(err, &serr) {
		t.Errorf("EncodeScalars to failing writer -> %v, want plain error", err)
	}
}

func TestFlavorString(t *testing.T) {
	for f, want := range map[Flavor]string{
		FlavorCodec: "codec", FlavorInt32: "int32", FlavorInt64: "int64",
		FlavorFloat64: "float64", Flavor(9): "Flavor(9)",
	} {
		if got := fmt.Sprint(f); got != want {
			t.Errorf("Flavor %d prints as %q, want %q", uint8(f), got, want)
		}
	}
}
