package conslist

import (
	"errors"
	"iter"
	"math"
	"slices"
	"testing"

	"github.com/elves/conslist/pkg/tt"
	"github.com/google/go-cmp/cmp"
)

func TestScalarBasics(t *testing.T) {
	l := Int32Cons(42, Int32List{})
	if l.Len() != 1 || l.IsEmpty() {
		t.Errorf("Len() = %d, IsEmpty() = %v; want 1, false", l.Len(), l.IsEmpty())
	}
	if head, err := l.Head(); head != 42 || err != nil {
		t.Errorf("Head() = (%v, %v), want (42, nil)", head, err)
	}
	if tail, err := l.Tail(); !tail.IsEmpty() || err != nil {
		t.Errorf("Tail() = (%v, %v), want ([], nil)", tail, err)
	}

	var empty Float64List
	if _, err := empty.Head(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Head of empty list returns error %v, want ErrEmpty", err)
	}
	if _, err := empty.Tail(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Tail of empty list returns error %v, want ErrEmpty", err)
	}
	if _, _, ok := empty.Uncons(); ok {
		t.Errorf("Uncons of empty list returns ok")
	}
}

func TestScalarRoundTripValues(t *testing.T) {
	ints := Int32Of(math.MinInt32, -1, 0, 1, math.MaxInt32)
	if diff := cmp.Diff([]int32{math.MinInt32, -1, 0, 1, math.MaxInt32}, ints.Slice()); diff != "" {
		t.Errorf("Int32Of (-want +got):\n%s", diff)
	}
	longs := Int64Of(math.MinInt64, -1, math.MaxInt64)
	if diff := cmp.Diff([]int64{math.MinInt64, -1, math.MaxInt64}, longs.Slice()); diff != "" {
		t.Errorf("Int64Of (-want +got):\n%s", diff)
	}
	floats := Float64Of(-1.5, math.Inf(-1), math.SmallestNonzeroFloat64)
	if diff := cmp.Diff([]float64{-1.5, math.Inf(-1), math.SmallestNonzeroFloat64}, floats.Slice()); diff != "" {
		t.Errorf("Float64Of (-want +got):\n%s", diff)
	}
}

func TestScalarReverseAndMap(t *testing.T) {
	tt.Test(t, tt.Fn("Reverse", Int64List.Reverse), tt.Table{
		tt.Args(Int64Of()).Rets(Int64Of()),
		tt.Args(Int64Of(1, 2, 3)).Rets(Int64Of(3, 2, 1)),
	})
	double := func(x float64) float64 { return 2 * x }
	tt.Test(t, tt.Fn("Map", Float64List.Map), tt.Table{
		tt.Args(Float64Of(), double).Rets(Float64Of()),
		tt.Args(Float64Of(0.5, 1, 1.5), double).Rets(Float64Of(1, 2, 3)),
	})
}

func TestScalarConcat(t *testing.T) {
	got := ScalarConcat(Int32Of(1), Int32Of(1, 1), Int32Of(1, 2, 1), Int32Of(1, 3, 3, 1))
	if !got.Equal(Int32Of(1, 1, 1, 1, 2, 1, 1, 3, 3, 1)) {
		t.Errorf("ScalarConcat() = %v", got)
	}
	x := Int32Of(5)
	if ScalarConcat(x).c != x.c {
		t.Errorf("ScalarConcat(x) copied x")
	}
}

func TestScalarContains(t *testing.T) {
	tt.Test(t, tt.Fn("Contains", Float64List.Contains), tt.Table{
		tt.Args(Float64Of(), 1.0).Rets(false),
		tt.Args(Float64Of(1, 2), 2.0).Rets(true),
		tt.Args(Float64Of(1, math.NaN()), math.NaN()).Rets(true),
		tt.Args(Float64Of(0), math.Copysign(0, -1)).Rets(false),
	})
}

func TestScalarIteration(t *testing.T) {
	l := Int64Of(3, 2, 1)
	var got []int64
	for it := l.Iterator(); it.HasElem(); it.Next() {
		got = append(got, it.Elem())
	}
	if diff := cmp.Diff([]int64{3, 2, 1}, got); diff != "" {
		t.Errorf("Iterator (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{3, 2, 1}, slices.Collect(l.All())); diff != "" {
		t.Errorf("All (-want +got):\n%s", diff)
	}
}

func TestBoxingAdapters(t *testing.T) {
	l := Int32Of(1, 2, 3)
	g := l.Generic()
	if g.c != l.c || l.Any().c != l.c {
		t.Errorf("Generic() or Any() copied the list")
	}
	if head, _ := g.Head(); head != 1 {
		t.Errorf("Generic().Head() = %v, want 1", head)
	}
	back := Scalars(Of[int32](4, 5))
	if head, _ := back.Head(); head != 4 {
		t.Errorf("Scalars().Head() = %v, want 4", head)
	}
	if got, _ := ScalarFrom[int32](g); got.c != l.c {
		t.Errorf("ScalarFrom(List[int32]) copied the list")
	}
	if got, _ := ScalarFrom[int32](l); got.c != l.c {
		t.Errorf("ScalarFrom(ScalarList) copied the list")
	}
	if _, err := ScalarFrom[int64](nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ScalarFrom(nil) returns error %v, want ErrInvalidArgument", err)
	}
}

type int64Source []int64

func (s int64Source) All() iter.Seq[int64] { return slices.Values(s) }

func TestScalarFrom(t *testing.T) {
	got, err := ScalarFrom[int64](int64Source{7, 8, 9})
	if !got.Equal(Int64Of(7, 8, 9)) || err != nil {
		t.Errorf("ScalarFrom() = (%v, %v), want ([7, 8, 9], nil)", got, err)
	}
}

func TestCrossFlavorEquality(t *testing.T) {
	type pair struct {
		name string
		a, b any
	}
	for _, p := range []pair{
		{"int32", Int32Of(1, 2, 3), Of[int32](1, 2, 3)},
		{"int32/any", Int32Of(1, 2, 3), Of[any](int32(1), int32(2), int32(3))},
		{"int64", Int64Of(1, -2, 3), Of[int64](1, -2, 3)},
		{"float64", Float64Of(1.5, -2), Of[any](1.5, -2.0)},
		{"NaN", Float64Of(math.NaN()), Of(math.NaN())},
		{"empty", Int32Of(), Of[string]()},
		{"consed", Int64Cons(1, Int64Of(2)), Cons[any](int64(1), Of[any](int64(2)))},
	} {
		a, b := p.a.(viewer), p.b.(viewer)
		if !equalChains(a.view(), b.view()) || !equalChains(b.view(), a.view()) {
			t.Errorf("%s: %v and %v are not equal", p.name, p.a, p.b)
		}
		if ha, hb := hashChain(a.view()), hashChain(b.view()); ha != hb {
			t.Errorf("%s: hashes %d and %d differ", p.name, ha, hb)
		}
		if !p.a.(Equaler).Equal(p.b) || !p.b.(Equaler).Equal(p.a) {
			t.Errorf("%s: Equal is not symmetric", p.name)
		}
		if p.a.(Hasher).Hash() != p.b.(Hasher).Hash() {
			t.Errorf("%s: Hash differs", p.name)
		}
	}

	if Int32Of(1).Equal(Int64Of(1)) {
		t.Errorf("int32 and int64 lists are equal")
	}
	if Float64Of(0).Equal(Float64Of(math.Copysign(0, -1))) {
		t.Errorf("0 and -0 lists are equal")
	}
}

func TestCrossFlavorHashValues(t *testing.T) {
	tt.Test(t, tt.Fn("Hash", Hasher.Hash), tt.Table{
		tt.Args(Int32Of(11, 11)).Rets(uint32(1313)),
		tt.Args(Int64Of(11, 11)).Rets(uint32(1313)),
		tt.Args(Int64Of(-1)).Rets(uint32(31)),
		tt.Args(Float64Of()).Rets(uint32(1)),
	})
}

func TestScalarString(t *testing.T) {
	tt.Test(t, tt.Fn("String", Float64List.String), tt.Table{
		tt.Args(Float64Of()).Rets("[]"),
		tt.Args(Float64Of(1, 2.5)).Rets("[1, 2.5]"),
	})
}
