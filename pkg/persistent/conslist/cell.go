package conslist

import (
	"math"
	"reflect"

	"github.com/elves/conslist/pkg/persistent/hash"
)

// kind tags the payload of a cell.
type kind uint8

const (
	kindEmpty kind = iota
	kindBoxed
	kindInt32
	kindInt64
	kindFloat64
)

func (k kind) String() string {
	switch k {
	case kindEmpty:
		return "empty"
	case kindBoxed:
		return "boxed"
	case kindInt32:
		return "int32"
	case kindInt64:
		return "int64"
	case kindFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// cell is the node shared by all list flavors. Scalars live unboxed in bits;
// everything else lives in value. A cell is never modified after newCell or
// newScalarCell returns it.
type cell struct {
	kind  kind
	bits  uint64
	value any
	tail  *cell
	// Number of cells from this one to the empty terminal, saturating at
	// math.MaxInt.
	count int
}

// The empty terminal. Every list view of every element type that is empty
// points here.
var emptyCell = &cell{kind: kindEmpty}

func orEmpty(c *cell) *cell {
	if c == nil {
		return emptyCell
	}
	return c
}

func succ(n int) int {
	if n == math.MaxInt {
		return n
	}
	return n + 1
}

// newCell builds a cell from a dynamic value. Values of the scalar kinds are
// always unboxed, no matter which view they come from.
func newCell(v any, tail *cell) *cell {
	c := &cell{tail: tail, count: succ(tail.count)}
	switch v := v.(type) {
	case int32:
		c.kind, c.bits = kindInt32, uint64(uint32(v))
	case int64:
		c.kind, c.bits = kindInt64, uint64(v)
	case float64:
		c.kind, c.bits = kindFloat64, math.Float64bits(v)
	default:
		c.kind, c.value = kindBoxed, v
	}
	return c
}

func newScalarCell(k kind, bits uint64, tail *cell) *cell {
	return &cell{kind: k, bits: bits, tail: tail, count: succ(tail.count)}
}

// boxed returns the payload as an interface value.
func (c *cell) boxed() any {
	switch c.kind {
	case kindInt32:
		return int32(uint32(c.bits))
	case kindInt64:
		return int64(c.bits)
	case kindFloat64:
		return math.Float64frombits(c.bits)
	default:
		return c.value
	}
}

// sameValue reports whether the payloads of c and d are logically equal.
func (c *cell) sameValue(d *cell) bool {
	if c.kind != d.kind {
		return false
	}
	switch c.kind {
	case kindBoxed:
		return equalValues(c.value, d.value)
	case kindFloat64:
		return hash.CanonicalBits(math.Float64frombits(c.bits)) ==
			hash.CanonicalBits(math.Float64frombits(d.bits))
	default:
		return c.bits == d.bits
	}
}

func (c *cell) hashValue() uint32 {
	switch c.kind {
	case kindInt32:
		return hash.Int32(int32(uint32(c.bits)))
	case kindInt64:
		return hash.Int64(int64(c.bits))
	case kindFloat64:
		return hash.Float64(math.Float64frombits(c.bits))
	default:
		return hashValue(c.value)
	}
}

// reverse builds a reversed copy of the chain starting at c, iteratively. It
// also returns the number of cells copied as a 64-bit count.
func reverse(c *cell) (*cell, int64) {
	r := emptyCell
	var n int64
	for ; c != emptyCell; c = c.tail {
		r = &cell{kind: c.kind, bits: c.bits, value: c.value, tail: r, count: succ(r.count)}
		n++
	}
	return r, n
}

// prependAll conses the elements of rev, in order, onto acc.
func prependAll(rev, acc *cell) *cell {
	for ; rev != emptyCell; rev = rev.tail {
		acc = &cell{kind: rev.kind, bits: rev.bits, value: rev.value, tail: acc, count: succ(acc.count)}
	}
	return acc
}

func equalChains(a, b *cell) bool {
	if a == b {
		return true
	}
	for a != emptyCell && b != emptyCell {
		if a == b {
			return true
		}
		if !a.sameValue(b) {
			return false
		}
		a, b = a.tail, b.tail
	}
	return a == emptyCell && b == emptyCell
}

func hashChain(c *cell) uint32 {
	acc := hash.FoldInit
	for ; c != emptyCell; c = c.tail {
		acc = hash.FoldCombine(acc, c.hashValue())
	}
	return acc
}

func containsValue(c *cell, probe *cell) bool {
	for ; c != emptyCell; c = c.tail {
		if c.sameValue(probe) {
			return true
		}
	}
	return false
}

// Equaler is implemented by element types with their own notion of equality.
// Lists implement it, so nested lists compare by value.
type Equaler interface {
	Equal(other any) bool
}

// Hasher is implemented by element types with their own hash. It must agree
// with Equal, or with == for types without an Equal method.
type Hasher interface {
	Hash() uint32
}

// equalValues compares boxed payloads. Floats compare by canonical bits, like
// unboxed ones. Other values compare with == when both are comparable, so
// pointers compare by identity, and with reflect.DeepEqual otherwise.
// hashValue follows the same rules.
func equalValues(a, b any) bool {
	if a, ok := a.(Equaler); ok {
		return a.Equal(b)
	}
	switch a := a.(type) {
	case float32:
		b, ok := b.(float32)
		return ok && hash.CanonicalBits(float64(a)) == hash.CanonicalBits(float64(b))
	case float64:
		b, ok := b.(float64)
		return ok && hash.CanonicalBits(a) == hash.CanonicalBits(b)
	}
	if isComparable(a) && isComparable(b) {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func isComparable(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.IsValid() && rv.Comparable()
}

func hashValue(v any) uint32 {
	switch v := v.(type) {
	case nil:
		return 0
	case Hasher:
		return v.Hash()
	case string:
		return hash.String(v)
	case bool:
		return hash.Bool(v)
	case int:
		return hash.Int64(int64(v))
	case int8:
		return hash.Int32(int32(v))
	case int16:
		return hash.Int32(int32(v))
	case int32:
		return hash.Int32(v)
	case int64:
		return hash.Int64(v)
	case uint:
		return hash.UInt64(uint64(v))
	case uint8:
		return hash.UInt32(uint32(v))
	case uint16:
		return hash.UInt32(uint32(v))
	case uint32:
		return hash.UInt32(v)
	case uint64:
		return hash.UInt64(v)
	case uintptr:
		return hash.UInt64(uint64(v))
	case float32:
		return hash.Float64(float64(v))
	case float64:
		return hash.Float64(v)
	default:
		return hashReflect(reflect.ValueOf(v), !isComparable(v), 0)
	}
}

// Equal values agree to any depth, so cutting the walk off keeps hashes
// consistent and stops it on cyclic values.
const maxHashDepth = 16

// hashReflect hashes v consistently with == when deep is false, and with
// reflect.DeepEqual when deep is true. The two differ in how pointers are
// treated.
func hashReflect(v reflect.Value, deep bool, depth int) uint32 {
	if depth > maxHashDepth {
		return 0
	}
	switch v.Kind() {
	case reflect.Bool:
		return hash.Bool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return hash.Int64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return hash.UInt64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return hashFloat(v.Float())
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		return hash.Fold(hashFloat(real(c)), hashFloat(imag(c)))
	case reflect.String:
		return hash.String(v.String())
	case reflect.Array, reflect.Slice:
		acc := hash.FoldInit
		for i := 0; i < v.Len(); i++ {
			acc = hash.FoldCombine(acc, hashReflect(v.Index(i), deep, depth+1))
		}
		return acc
	case reflect.Struct:
		acc := hash.FoldInit
		for i := 0; i < v.NumField(); i++ {
			acc = hash.FoldCombine(acc, hashReflect(v.Field(i), deep, depth+1))
		}
		return acc
	case reflect.Map:
		// Entries are visited in random order; summing is order-independent.
		// Keys are looked up with ==.
		var sum uint32
		it := v.MapRange()
		for it.Next() {
			sum += hash.Fold(
				hashReflect(it.Key(), false, depth+1),
				hashReflect(it.Value(), deep, depth+1))
		}
		return sum
	case reflect.Interface:
		if v.IsNil() {
			return 0
		}
		return hashReflect(v.Elem(), deep, depth+1)
	case reflect.Pointer:
		if !deep {
			return hash.UInt64(uint64(v.Pointer()))
		}
		if v.IsNil() {
			return 0
		}
		return hashReflect(v.Elem(), deep, depth+1)
	case reflect.Chan, reflect.UnsafePointer:
		return hash.UInt64(uint64(v.Pointer()))
	default:
		// Invalid, and funcs, which are only equal when both are nil.
		return 0
	}
}

// hashFloat hashes a float nested in a composite value, where it compares
// with ==: 0 and -0 are equal, and NaN equals nothing.
func hashFloat(f float64) uint32 {
	if f == 0 {
		f = 0
	}
	return hash.Float64(f)
}
