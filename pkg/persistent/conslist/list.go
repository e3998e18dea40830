// Package conslist implements a persistent singly-linked list.
//
// A list is either empty or a cell holding one element and a reference to
// another, already built list. Cells are never modified after construction, so
// lists share suffixes freely and are safe for concurrent use without locking.
//
// All list views (List of any element type, and the ScalarList
// specializations for int32, int64 and float64) are backed by the same cell
// type and the same empty terminal. Two lists holding logically equal
// elements are equal and hash identically, whichever view built them.
//
// Operations that walk a list are iterative; lists of millions of elements do
// not grow the goroutine stack.
package conslist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"strings"
)

// List is a persistent list of elements of type E. The zero value is the
// empty list.
type List[E any] struct {
	c *cell
}

// Iterable is implemented by ordered sources that From accepts.
type Iterable[E any] interface {
	All() iter.Seq[E]
}

// backwardIterable is implemented by sources that can be walked from the end,
// which lets From build a list in a single pass.
type backwardIterable[E any] interface {
	Backward() iter.Seq[E]
}

// Empty returns the empty list. It does not allocate.
func Empty[E any]() List[E] {
	return List[E]{emptyCell}
}

// Cons returns a list with head in front of tail. The tail is shared, not
// copied.
func Cons[E any](head E, tail List[E]) List[E] {
	return List[E]{newCell(head, tail.cell())}
}

// Of returns a list of the given elements, in order.
func Of[E any](elems ...E) List[E] {
	c := emptyCell
	for i := len(elems) - 1; i >= 0; i-- {
		c = newCell(elems[i], c)
	}
	return List[E]{c}
}

// From returns a list of the elements of src, in order. If src is already a
// List[E], it is returned as is.
func From[E any](src Iterable[E]) (List[E], error) {
	switch src := src.(type) {
	case nil:
		return Empty[E](), fmt.Errorf("%w: nil source", ErrInvalidArgument)
	case List[E]:
		return src, nil
	case backwardIterable[E]:
		c := emptyCell
		for v := range src.Backward() {
			c = newCell(v, c)
		}
		return List[E]{c}, nil
	}
	return FromSeq(src.All())
}

// FromSeq returns a list of the elements produced by seq, in order.
func FromSeq[E any](seq iter.Seq[E]) (List[E], error) {
	if seq == nil {
		return Empty[E](), fmt.Errorf("%w: nil sequence", ErrInvalidArgument)
	}
	return Collect(seq), nil
}

// Collect is like FromSeq, but treats a nil seq as empty.
func Collect[E any](seq iter.Seq[E]) List[E] {
	if seq == nil {
		return Empty[E]()
	}
	rev := emptyCell
	for v := range seq {
		rev = newCell(v, rev)
	}
	c, _ := reverse(rev)
	return List[E]{c}
}

// Concat returns a list with the elements of all arguments, in order. The
// last argument is shared by the result; every other argument is copied.
func Concat[E any](first List[E], rest ...List[E]) List[E] {
	if len(rest) == 0 {
		return first
	}
	acc := rest[len(rest)-1].cell()
	for i := len(rest) - 2; i >= -1; i-- {
		l := first
		if i >= 0 {
			l = rest[i]
		}
		rev, _ := reverse(l.cell())
		acc = prependAll(rev, acc)
	}
	return List[E]{acc}
}

// Map returns a list with f applied to every element of l. The result is
// fully built before Map returns; for a lazy transformation, range over
// l.All() instead.
func Map[E, R any](l List[E], f func(E) R) List[R] {
	rev := emptyCell
	for c := l.cell(); c != emptyCell; c = c.tail {
		rev = newCell(f(elem[E](c)), rev)
	}
	c, _ := reverse(rev)
	return List[R]{c}
}

func (l List[E]) cell() *cell { return orEmpty(l.c) }

func elem[E any](c *cell) E {
	v := c.boxed()
	if v == nil {
		var zero E
		return zero
	}
	return v.(E)
}

// Cons returns a list with head in front of l.
func (l List[E]) Cons(head E) List[E] {
	return Cons(head, l)
}

// IsEmpty reports whether l is empty.
func (l List[E]) IsEmpty() bool {
	return l.cell() == emptyCell
}

// Len returns the number of elements in l. It saturates at math.MaxInt.
func (l List[E]) Len() int {
	return l.cell().count
}

// Head returns the first element of l, or ErrEmpty.
func (l List[E]) Head() (E, error) {
	c := l.cell()
	if c == emptyCell {
		var zero E
		return zero, fmt.Errorf("head: %w", ErrEmpty)
	}
	return elem[E](c), nil
}

// Tail returns l without its first element, or ErrEmpty.
func (l List[E]) Tail() (List[E], error) {
	c := l.cell()
	if c == emptyCell {
		return l, fmt.Errorf("tail: %w", ErrEmpty)
	}
	return List[E]{c.tail}, nil
}

// Uncons splits l into its head and tail. The last return value is false if l
// is empty.
func (l List[E]) Uncons() (E, List[E], bool) {
	c := l.cell()
	if c == emptyCell {
		var zero E
		return zero, l, false
	}
	return elem[E](c), List[E]{c.tail}, true
}

// Reverse returns a list with the elements of l in opposite order.
func (l List[E]) Reverse() List[E] {
	c := l.cell()
	if c.count <= 1 {
		return List[E]{c}
	}
	r, _ := reverse(c)
	return List[E]{r}
}

// Contains reports whether l has an element equal to v.
func (l List[E]) Contains(v E) bool {
	return containsValue(l.cell(), newCell(v, emptyCell))
}

// Equal reports whether other is a list of any flavor with the same elements
// as l, in the same order.
func (l List[E]) Equal(other any) bool {
	o, ok := other.(viewer)
	return ok && equalChains(l.cell(), o.view())
}

// Hash returns the ordered hash of the elements of l. Equal lists have equal
// hashes.
func (l List[E]) Hash() uint32 {
	return hashChain(l.cell())
}

// Any returns the same list viewed with element type any.
func (l List[E]) Any() List[any] {
	return List[any]{l.cell()}
}

// Iterator returns a new iterator positioned at the first element of l.
func (l List[E]) Iterator() *Iterator[E] {
	return &Iterator[E]{l.cell()}
}

// All returns a sequence of the elements of l. Each call starts from the
// head.
func (l List[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		for c := l.cell(); c != emptyCell; c = c.tail {
			if !yield(elem[E](c)) {
				return
			}
		}
	}
}

// Slice returns the elements of l in a new slice.
func (l List[E]) Slice() []E {
	c := l.cell()
	s := make([]E, 0, c.count)
	for ; c != emptyCell; c = c.tail {
		s = append(s, elem[E](c))
	}
	return s
}

// String renders l as "[e1, e2, ..., en]".
func (l List[E]) String() string {
	return render(l.cell())
}

// MarshalJSON encodes l as a JSON array.
func (l List[E]) MarshalJSON() ([]byte, error) {
	return marshalJSON(l.cell())
}

// Iterator walks a list once. It can be used like this:
//
//	for it := l.Iterator(); it.HasElem(); it.Next() {
//	    elem := it.Elem()
//	    // do something with elem...
//	}
type Iterator[E any] struct {
	c *cell
}

// HasElem returns whether the iterator is pointing to an element.
func (it *Iterator[E]) HasElem() bool { return it.c != emptyCell }

// Elem returns the element at the current position.
func (it *Iterator[E]) Elem() E { return elem[E](it.c) }

// Next moves the iterator to the next position.
func (it *Iterator[E]) Next() {
	if it.c != emptyCell {
		it.c = it.c.tail
	}
}

// viewer is implemented by every list view.
type viewer interface {
	view() *cell
}

func (l List[E]) view() *cell { return l.cell() }

func sprint(v any) string { return fmt.Sprint(v) }

func render(c *cell) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for first := true; c != emptyCell; c, first = c.tail, false {
		if !first {
			sb.WriteString(", ")
		}
		sb.WriteString(sprint(c.boxed()))
	}
	sb.WriteByte(']')
	return sb.String()
}

type marshalError struct {
	index int
	cause error
}

func (err *marshalError) Error() string {
	return fmt.Sprintf("element %d: %s", err.index, err.cause)
}

func marshalJSON(c *cell) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for index := 0; c != emptyCell; c, index = c.tail, index+1 {
		if index > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := json.Marshal(c.boxed())
		if err != nil {
			return nil, &marshalError{index, err}
		}
		buf.Write(elemBytes)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
