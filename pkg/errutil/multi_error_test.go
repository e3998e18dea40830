package errutil

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	err1 = errors.New("error 1")
	err2 = errors.New("error 2")
	err3 = errors.New("error 3")
)

func TestMulti(t *testing.T) {
	if err := Multi(); err != nil {
		t.Errorf("Multi() -> %v, want nil", err)
	}
	if err := Multi(nil, nil); err != nil {
		t.Errorf("Multi(nil, nil) -> %v, want nil", err)
	}
	if err := Multi(nil, err1, nil); err != err1 {
		t.Errorf("Multi(nil, err1, nil) -> %v, want err1", err)
	}

	flat, ok := Multi(Multi(err1, err2), nil, err3).(multiError)
	if !ok {
		t.Fatalf("Multi of three errors is not a multiError")
	}
	if diff := cmp.Diff([]error{err1, err2, err3}, []error(flat), cmp.Comparer(func(a, b error) bool { return a == b })); diff != "" {
		t.Errorf("Multi did not flatten (-want +got):\n%s", diff)
	}
	if want := "multiple errors: error 1; error 2; error 3"; flat.Error() != want {
		t.Errorf("Error() = %q, want %q", flat.Error(), want)
	}
}

func TestMulti_Is(t *testing.T) {
	err := Multi(err1, err2)
	if !errors.Is(err, err2) || errors.Is(err, err3) {
		t.Errorf("errors.Is does not see through Multi")
	}
}
