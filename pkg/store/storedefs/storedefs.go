// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// does not need to depend on the concrete implementation.
package storedefs

import (
	"errors"

	"github.com/elves/conslist/pkg/persistent/conslist"
)

// ErrNoList is returned when no snapshot was ever stored under a name.
var ErrNoList = errors.New("no such list")

// ErrNoSnapshot is returned when a list has no snapshot with the requested
// sequence number, or no snapshot at all.
var ErrNoSnapshot = errors.New("no such snapshot")

// ErrBadName is returned when a list name is empty.
var ErrBadName = errors.New("list name must not be empty")

// Store is an interface satisfied by the storage service.
//
// A Store keeps named lists as a series of snapshots. Each snapshot is the
// encoded form of a list and is identified by a sequence number, starting
// from 1, that is never reused for the same name.
type Store interface {
	AddSnapshot(name string, data []byte) (int, error)
	DelSnapshot(name string, seq int) error
	Snapshot(name string, seq int) ([]byte, error)
	LastSnapshot(name string) (Snapshot, error)
	Snapshots(name string) ([]SnapshotInfo, error)
	Names() ([]string, error)
}

// Snapshot is a stored encoding of a list.
type Snapshot struct {
	Seq  int
	Data []byte
}

// SnapshotInfo describes a stored snapshot without its elements.
type SnapshotInfo struct {
	Seq    int
	Flavor conslist.Flavor
	Len    int64
}
