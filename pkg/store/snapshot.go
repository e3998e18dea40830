package store

import (
	"bytes"
	"encoding/binary"

	"github.com/elves/conslist/pkg/persistent/conslist"
	. "github.com/elves/conslist/pkg/store/storedefs"
	bolt "go.etcd.io/bbolt"
)

func init() {
	initDB["initialize list table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketLists))
		return err
	}
}

// AddSnapshot stores an encoded list under the given name and returns its
// sequence number. The data must start with a valid list envelope; otherwise
// an error wrapping conslist.ErrUnsupportedFormat is returned and nothing is
// stored.
func (s *dbStore) AddSnapshot(name string, data []byte) (int, error) {
	if name == "" {
		return 0, ErrBadName
	}
	h, err := conslist.ReadHeader(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	var seq uint64
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket([]byte(bucketLists)).CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), data)
	})
	if err != nil {
		return 0, err
	}
	logger.Printf("stored %v list %q of %d elements as #%d", h.Flavor, name, h.Len, seq)
	return int(seq), nil
}

// DelSnapshot deletes the snapshot of a list with the given sequence number.
// Deleting a snapshot that does not exist is not an error, but deleting from
// an unknown list is.
func (s *dbStore) DelSnapshot(name string, seq int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := listBucket(tx, name)
		if b == nil {
			return ErrNoList
		}
		return b.Delete(marshalSeq(uint64(seq)))
	})
}

// Snapshot returns the snapshot of a list with the given sequence number.
func (s *dbStore) Snapshot(name string, seq int) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := listBucket(tx, name)
		if b == nil {
			return ErrNoList
		}
		v := b.Get(marshalSeq(uint64(seq)))
		if v == nil {
			return ErrNoSnapshot
		}
		data = bytes.Clone(v)
		return nil
	})
	return data, err
}

// LastSnapshot returns the snapshot of a list with the highest sequence
// number.
func (s *dbStore) LastSnapshot(name string) (Snapshot, error) {
	var snapshot Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		b := listBucket(tx, name)
		if b == nil {
			return ErrNoList
		}
		k, v := b.Cursor().Last()
		if k == nil {
			return ErrNoSnapshot
		}
		snapshot = Snapshot{Seq: int(unmarshalSeq(k)), Data: bytes.Clone(v)}
		return nil
	})
	return snapshot, err
}

// Snapshots describes all snapshots of a list, in the order they were added.
func (s *dbStore) Snapshots(name string) ([]SnapshotInfo, error) {
	var infos []SnapshotInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		b := listBucket(tx, name)
		if b == nil {
			return ErrNoList
		}
		return b.ForEach(func(k, v []byte) error {
			h, err := conslist.ReadHeader(bytes.NewReader(v))
			if err != nil {
				return err
			}
			infos = append(infos, SnapshotInfo{
				Seq: int(unmarshalSeq(k)), Flavor: h.Flavor, Len: h.Len})
			return nil
		})
	})
	return infos, err
}

// Names returns the names of all lists, sorted bytewise.
func (s *dbStore) Names() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketLists)).ForEach(func(k, v []byte) error {
			// Nested buckets have nil values.
			if v == nil {
				names = append(names, string(k))
			}
			return nil
		})
	})
	return names, err
}

func listBucket(tx *bolt.Tx, name string) *bolt.Bucket {
	if name == "" {
		return nil
	}
	return tx.Bucket([]byte(bucketLists)).Bucket([]byte(name))
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
