// Package store implements the storage of list snapshots on top of bbolt.
package store

import (
	"fmt"
	"time"

	"github.com/elves/conslist/pkg/errutil"
	"github.com/elves/conslist/pkg/logutil"
	"github.com/elves/conslist/pkg/store/storedefs"
	bolt "go.etcd.io/bbolt"
)

var logger = logutil.GetLogger("[store] ")

// The top-level bucket. Each list lives in a nested bucket named after it.
const bucketLists = "lists"

var initDB = map[string](func(*bolt.Tx) error){}

// DBStore is the permanent storage backend for lists.
type DBStore interface {
	storedefs.Store
	Close() error
}

// dbStore is the permanent storage backend for lists.
type dbStore struct {
	db *bolt.DB
}

func dbWithDefaultOptions(dbname string) (*bolt.DB, error) {
	db, err := bolt.Open(dbname, 0644, &bolt.Options{
		Timeout: time.Second,
	})
	return db, err
}

// NewStore creates a new Store from the given file.
func NewStore(dbname string) (DBStore, error) {
	db, err := dbWithDefaultOptions(dbname)
	if err != nil {
		return nil, err
	}
	return NewStoreFromDB(db)
}

// NewStoreFromDB creates a new Store from a bolt DB. If initialization fails,
// the DB is closed.
func NewStoreFromDB(db *bolt.DB) (DBStore, error) {
	logger.Println("initializing store")
	defer logger.Println("initialized store")
	st := &dbStore{db: db}

	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			err := fn(tx)
			if err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errutil.Multi(err, db.Close())
	}
	return st, nil
}

// Close closes the underlying database.
func (s *dbStore) Close() error {
	logger.Println("closing store")
	return s.db.Close()
}
