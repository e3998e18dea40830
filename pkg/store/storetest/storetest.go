// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/elves/conslist/pkg/persistent/conslist"
	"github.com/elves/conslist/pkg/store/storedefs"
	"github.com/google/go-cmp/cmp"
)

func encoded(elems ...int64) []byte {
	var buf bytes.Buffer
	if err := conslist.EncodeScalars(&buf, conslist.Int64Of(elems...)); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// TestSnapshots tests the snapshot functionality of a Store.
func TestSnapshots(t *testing.T, store storedefs.Store) {
	t.Helper()

	if names, err := store.Names(); len(names) != 0 || err != nil {
		t.Errorf("Names() on fresh store -> (%v, %v), want ([], nil)", names, err)
	}

	v1, v2, other := encoded(1, 2, 3), encoded(), encoded(42)
	for i, add := range []struct {
		name string
		data []byte
		seq  int
	}{
		{"nums", v1, 1},
		{"nums", v2, 2},
		{"other", other, 1},
	} {
		seq, err := store.AddSnapshot(add.name, add.data)
		if seq != add.seq || err != nil {
			t.Errorf("AddSnapshot #%d -> (%d, %v), want (%d, nil)", i, seq, err, add.seq)
		}
	}

	if data, err := store.Snapshot("nums", 1); !bytes.Equal(data, v1) || err != nil {
		t.Errorf("Snapshot(nums, 1) -> (%v, %v), want (%v, nil)", data, err, v1)
	}
	last, err := store.LastSnapshot("nums")
	if last.Seq != 2 || !bytes.Equal(last.Data, v2) || err != nil {
		t.Errorf("LastSnapshot(nums) -> (%v, %v), want seq 2", last, err)
	}

	infos, err := store.Snapshots("nums")
	wantInfos := []storedefs.SnapshotInfo{
		{Seq: 1, Flavor: conslist.FlavorInt64, Len: 3},
		{Seq: 2, Flavor: conslist.FlavorInt64, Len: 0},
	}
	if diff := cmp.Diff(wantInfos, infos); diff != "" || err != nil {
		t.Errorf("Snapshots(nums) error %v, (-want +got):\n%s", err, diff)
	}

	names, err := store.Names()
	if diff := cmp.Diff([]string{"nums", "other"}, names); diff != "" || err != nil {
		t.Errorf("Names() error %v, (-want +got):\n%s", err, diff)
	}

	// Deletion; sequence numbers are not reused.
	if err := store.DelSnapshot("nums", 2); err != nil {
		t.Errorf("DelSnapshot(nums, 2) -> %v", err)
	}
	if _, err := store.Snapshot("nums", 2); !errors.Is(err, storedefs.ErrNoSnapshot) {
		t.Errorf("Snapshot of deleted snapshot -> %v, want ErrNoSnapshot", err)
	}
	if last, _ := store.LastSnapshot("nums"); last.Seq != 1 {
		t.Errorf("LastSnapshot after deletion has seq %d, want 1", last.Seq)
	}
	if seq, _ := store.AddSnapshot("nums", v2); seq != 3 {
		t.Errorf("AddSnapshot after deletion -> %d, want 3", seq)
	}

	// Lists that are empty after deletion still exist.
	store.DelSnapshot("other", 1)
	if _, err := store.LastSnapshot("other"); !errors.Is(err, storedefs.ErrNoSnapshot) {
		t.Errorf("LastSnapshot of emptied list -> %v, want ErrNoSnapshot", err)
	}

	// Errors.
	if _, err := store.Snapshot("missing", 1); !errors.Is(err, storedefs.ErrNoList) {
		t.Errorf("Snapshot(missing, 1) -> %v, want ErrNoList", err)
	}
	if _, err := store.LastSnapshot("missing"); !errors.Is(err, storedefs.ErrNoList) {
		t.Errorf("LastSnapshot(missing) -> %v, want ErrNoList", err)
	}
	if _, err := store.Snapshots("missing"); !errors.Is(err, storedefs.ErrNoList) {
		t.Errorf("Snapshots(missing) -> %v, want ErrNoList", err)
	}
	if err := store.DelSnapshot("missing", 1); !errors.Is(err, storedefs.ErrNoList) {
		t.Errorf("DelSnapshot(missing, 1) -> %v, want ErrNoList", err)
	}
	if _, err := store.AddSnapshot("", v1); !errors.Is(err, storedefs.ErrBadName) {
		t.Errorf("AddSnapshot with empty name -> %v, want ErrBadName", err)
	}
	if _, err := store.AddSnapshot("bad", []byte("not a list")); !errors.Is(err, conslist.ErrUnsupportedFormat) {
		t.Errorf("AddSnapshot of garbage -> %v, want ErrUnsupportedFormat", err)
	}
	if _, err := store.Snapshots("bad"); !errors.Is(err, storedefs.ErrNoList) {
		t.Errorf("rejected AddSnapshot created a list")
	}
}
