package conslist

import (
	"fmt"
	"iter"
	"math"
)

// Scalar is the set of element types with an unboxed list specialization.
type Scalar interface {
	int32 | int64 | float64
}

// ScalarList is a persistent list of unboxed scalars. It shares its cells and
// its empty terminal with List, so a ScalarList[S] and a List[S] (or List[any])
// holding the same numbers are equal and hash identically. The zero value is
// the empty list.
type ScalarList[S Scalar] struct {
	c *cell
}

type (
	Int32List   = ScalarList[int32]
	Int64List   = ScalarList[int64]
	Float64List = ScalarList[float64]
)

func kindOf[S Scalar]() kind {
	var zero S
	switch any(zero).(type) {
	case int32:
		return kindInt32
	case int64:
		return kindInt64
	default:
		return kindFloat64
	}
}

func toBits[S Scalar](v S) uint64 {
	switch v := any(v).(type) {
	case int32:
		return uint64(uint32(v))
	case int64:
		return uint64(v)
	default:
		return math.Float64bits(v.(float64))
	}
}

func fromBits[S Scalar](c *cell) S {
	switch c.kind {
	case kindInt32:
		return S(int32(uint32(c.bits)))
	case kindInt64:
		return S(int64(c.bits))
	default:
		return S(math.Float64frombits(c.bits))
	}
}

// ScalarCons returns a list with head in front of tail.
func ScalarCons[S Scalar](head S, tail ScalarList[S]) ScalarList[S] {
	return ScalarList[S]{newScalarCell(kindOf[S](), toBits(head), tail.cell())}
}

// ScalarOf returns a list of the given scalars, in order.
func ScalarOf[S Scalar](elems ...S) ScalarList[S] {
	k := kindOf[S]()
	c := emptyCell
	for i := len(elems) - 1; i >= 0; i-- {
		c = newScalarCell(k, toBits(elems[i]), c)
	}
	return ScalarList[S]{c}
}

// ScalarFrom returns a list of the elements of src, in order. A ScalarList[S]
// or List[S] source is reused without copying.
func ScalarFrom[S Scalar](src Iterable[S]) (ScalarList[S], error) {
	switch src := src.(type) {
	case nil:
		return ScalarList[S]{emptyCell}, fmt.Errorf("%w: nil source", ErrInvalidArgument)
	case ScalarList[S]:
		return src, nil
	case List[S]:
		return Scalars(src), nil
	case backwardIterable[S]:
		k := kindOf[S]()
		c := emptyCell
		for v := range src.Backward() {
			c = newScalarCell(k, toBits(v), c)
		}
		return ScalarList[S]{c}, nil
	}
	k := kindOf[S]()
	rev := emptyCell
	for v := range src.All() {
		rev = newScalarCell(k, toBits(v), rev)
	}
	c, _ := reverse(rev)
	return ScalarList[S]{c}, nil
}

// Scalars returns l viewed as a ScalarList. It does not copy.
func Scalars[S Scalar](l List[S]) ScalarList[S] {
	return ScalarList[S]{l.cell()}
}

// ScalarConcat is like Concat, for scalar lists.
func ScalarConcat[S Scalar](first ScalarList[S], rest ...ScalarList[S]) ScalarList[S] {
	gs := make([]List[S], len(rest))
	for i, l := range rest {
		gs[i] = l.Generic()
	}
	return Scalars(Concat(first.Generic(), gs...))
}

// Int32Cons is ScalarCons for int32.
func Int32Cons(head int32, tail Int32List) Int32List { return ScalarCons(head, tail) }

// Int32Of is ScalarOf for int32.
func Int32Of(elems ...int32) Int32List { return ScalarOf(elems...) }

// Int64Cons is ScalarCons for int64.
func Int64Cons(head int64, tail Int64List) Int64List { return ScalarCons(head, tail) }

// Int64Of is ScalarOf for int64.
func Int64Of(elems ...int64) Int64List { return ScalarOf(elems...) }

// Float64Cons is ScalarCons for float64.
func Float64Cons(head float64, tail Float64List) Float64List { return ScalarCons(head, tail) }

// Float64Of is ScalarOf for float64.
func Float64Of(elems ...float64) Float64List { return ScalarOf(elems...) }

func (l ScalarList[S]) cell() *cell { return orEmpty(l.c) }

func (l ScalarList[S]) view() *cell { return l.cell() }

// Cons returns a list with head in front of l.
func (l ScalarList[S]) Cons(head S) ScalarList[S] {
	return ScalarCons(head, l)
}

// Generic returns the same list viewed as a List[S].
func (l ScalarList[S]) Generic() List[S] {
	return List[S]{l.cell()}
}

// Any returns the same list viewed as a List[any].
func (l ScalarList[S]) Any() List[any] {
	return List[any]{l.cell()}
}

func (l ScalarList[S]) IsEmpty() bool {
	return l.cell() == emptyCell
}

// Len returns the number of elements in l. It saturates at math.MaxInt.
func (l ScalarList[S]) Len() int {
	return l.cell().count
}

// Head returns the first element of l without boxing it, or ErrEmpty.
func (l ScalarList[S]) Head() (S, error) {
	c := l.cell()
	if c == emptyCell {
		return 0, fmt.Errorf("head: %w", ErrEmpty)
	}
	return fromBits[S](c), nil
}

// Tail returns l without its first element, or ErrEmpty.
func (l ScalarList[S]) Tail() (ScalarList[S], error) {
	c := l.cell()
	if c == emptyCell {
		return l, fmt.Errorf("tail: %w", ErrEmpty)
	}
	return ScalarList[S]{c.tail}, nil
}

// Uncons splits l into its head and tail. The last return value is false if l
// is empty.
func (l ScalarList[S]) Uncons() (S, ScalarList[S], bool) {
	c := l.cell()
	if c == emptyCell {
		return 0, l, false
	}
	return fromBits[S](c), ScalarList[S]{c.tail}, true
}

func (l ScalarList[S]) Reverse() ScalarList[S] {
	return Scalars(l.Generic().Reverse())
}

// Map returns a list with f applied to every element of l. Like the generic
// Map, it is eager.
func (l ScalarList[S]) Map(f func(S) S) ScalarList[S] {
	k := kindOf[S]()
	rev := emptyCell
	for c := l.cell(); c != emptyCell; c = c.tail {
		rev = newScalarCell(k, toBits(f(fromBits[S](c))), rev)
	}
	c, _ := reverse(rev)
	return ScalarList[S]{c}
}

func (l ScalarList[S]) Contains(v S) bool {
	return containsValue(l.cell(), &cell{kind: kindOf[S](), bits: toBits(v)})
}

// Equal reports whether other is a list of any flavor with the same elements
// as l, in the same order.
func (l ScalarList[S]) Equal(other any) bool {
	o, ok := other.(viewer)
	return ok && equalChains(l.cell(), o.view())
}

func (l ScalarList[S]) Hash() uint32 {
	return hashChain(l.cell())
}

// Iterator returns a new iterator positioned at the first element of l.
func (l ScalarList[S]) Iterator() *ScalarIterator[S] {
	return &ScalarIterator[S]{l.cell()}
}

// All returns a sequence of the elements of l. Each call starts from the
// head.
func (l ScalarList[S]) All() iter.Seq[S] {
	return func(yield func(S) bool) {
		for c := l.cell(); c != emptyCell; c = c.tail {
			if !yield(fromBits[S](c)) {
				return
			}
		}
	}
}

func (l ScalarList[S]) Slice() []S {
	c := l.cell()
	s := make([]S, 0, c.count)
	for ; c != emptyCell; c = c.tail {
		s = append(s, fromBits[S](c))
	}
	return s
}

func (l ScalarList[S]) String() string {
	return render(l.cell())
}

func (l ScalarList[S]) MarshalJSON() ([]byte, error) {
	return marshalJSON(l.cell())
}

// ScalarIterator is the unboxed counterpart of Iterator.
type ScalarIterator[S Scalar] struct {
	c *cell
}

func (it *ScalarIterator[S]) HasElem() bool { return it.c != emptyCell }

func (it *ScalarIterator[S]) Elem() S { return fromBits[S](it.c) }

func (it *ScalarIterator[S]) Next() {
	if it.c != emptyCell {
		it.c = it.c.tail
	}
}
