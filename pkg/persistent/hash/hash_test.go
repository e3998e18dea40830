package hash

import (
	"math"
	"testing"

	"github.com/elves/conslist/pkg/tt"
)

func TestFold(t *testing.T) {
	tt.Test(t, tt.Fn("Fold", Fold), tt.Table{
		tt.Args().Rets(uint32(1)),
		tt.Args(uint32(11), uint32(11)).Rets(uint32(1313)),
		tt.Args(uint32(0)).Rets(uint32(31)),
	})
}

func TestScalars(t *testing.T) {
	tt.Test(t, tt.Fn("Int32", Int32), tt.Table{
		tt.Args(int32(11)).Rets(uint32(11)),
		tt.Args(int32(-1)).Rets(uint32(math.MaxUint32)),
	})
	tt.Test(t, tt.Fn("Int64", Int64), tt.Table{
		tt.Args(int64(11)).Rets(uint32(11)),
		tt.Args(int64(-1)).Rets(uint32(0)),
		tt.Args(int64(1) << 32).Rets(uint32(1)),
	})
	tt.Test(t, tt.Fn("Float64", Float64), tt.Table{
		tt.Args(0.0).Rets(uint32(0)),
		tt.Args(1.0).Rets(uint32(0x3ff00000)),
	})
	if Float64(math.NaN()) != Float64(-math.NaN()) {
		t.Errorf("NaNs hash differently")
	}
	if Float64(0) == Float64(math.Copysign(0, -1)) {
		t.Errorf("0 and -0 hash the same")
	}
}

func TestDJB(t *testing.T) {
	tt.Test(t, tt.Fn("String", String), tt.Table{
		tt.Args("").Rets(DJBInit),
		tt.Args("a").Rets(DJBCombine(DJBInit, 'a')),
		tt.Args("ab").Rets(DJBCombine(DJBCombine(DJBInit, 'a'), 'b')),
	})
}
