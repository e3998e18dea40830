package listtool

import (
	"fmt"
	"io"

	"github.com/elves/conslist/pkg/persistent/conslist"
	"github.com/elves/conslist/pkg/prog"
	"github.com/elves/conslist/pkg/store"
	"github.com/elves/conslist/pkg/store/storedefs"
	"gopkg.in/yaml.v3"
)

// elemKind binds the commands to the element type chosen with -kind. Text
// input is a YAML sequence; decoded lists are returned boxed for printing.
type elemKind interface {
	encode(w io.Writer, text []byte) error
	decode(r io.Reader) (conslist.List[any], error)
	put(s storedefs.Store, name string, text []byte) (int, error)
	get(s storedefs.Store, name string, seq int) (conslist.List[any], error)
}

// kindByName looks up the element type for -kind. Unknown names are reported
// as bad usage.
func kindByName(name string) (elemKind, error) {
	switch name {
	case "int32":
		return scalarKind[int32]{}, nil
	case "int64":
		return scalarKind[int64]{}, nil
	case "float64":
		return scalarKind[float64]{}, nil
	case "string":
		return codecKind[string]{conslist.StringCodec}, nil
	}
	return nil, prog.BadUsage(fmt.Sprintf("invalid -kind %q", name))
}

func parseYAML[E any](text []byte) ([]E, error) {
	var elems []E
	if err := yaml.Unmarshal(text, &elems); err != nil {
		return nil, fmt.Errorf("parsing input: %w", err)
	}
	return elems, nil
}

type scalarKind[S conslist.Scalar] struct{}

func (scalarKind[S]) parse(text []byte) (conslist.ScalarList[S], error) {
	elems, err := parseYAML[S](text)
	return conslist.ScalarOf(elems...), err
}

func (k scalarKind[S]) encode(w io.Writer, text []byte) error {
	l, err := k.parse(text)
	if err != nil {
		return err
	}
	return conslist.EncodeScalars(w, l)
}

func (scalarKind[S]) decode(r io.Reader) (conslist.List[any], error) {
	l, err := conslist.DecodeScalars[S](r)
	return l.Any(), err
}

func (k scalarKind[S]) put(s storedefs.Store, name string, text []byte) (int, error) {
	l, err := k.parse(text)
	if err != nil {
		return 0, err
	}
	return store.PutScalars(s, name, l)
}

func (scalarKind[S]) get(s storedefs.Store, name string, seq int) (conslist.List[any], error) {
	l, err := store.GetScalars[S](s, name, seq)
	return l.Any(), err
}

type codecKind[E any] struct{ c conslist.ElementCodec[E] }

func (codecKind[E]) parse(text []byte) (conslist.List[E], error) {
	elems, err := parseYAML[E](text)
	return conslist.Of(elems...), err
}

func (k codecKind[E]) encode(w io.Writer, text []byte) error {
	l, err := k.parse(text)
	if err != nil {
		return err
	}
	return conslist.Encode(w, l, k.c)
}

func (k codecKind[E]) decode(r io.Reader) (conslist.List[any], error) {
	l, err := conslist.Decode(r, k.c)
	return l.Any(), err
}

func (k codecKind[E]) put(s storedefs.Store, name string, text []byte) (int, error) {
	l, err := k.parse(text)
	if err != nil {
		return 0, err
	}
	return store.PutList(s, name, l, k.c)
}

func (k codecKind[E]) get(s storedefs.Store, name string, seq int) (conslist.List[any], error) {
	l, err := store.GetList(s, name, seq, k.c)
	return l.Any(), err
}
