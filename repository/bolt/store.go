package bolt

import (
	"os"
	"path/filepath"
	"time"

	boltdb "go.etcd.io/bbolt"
)

var (
	bucketTasks     = []byte("tasks")
	bucketUsers     = []byte("users")
	bucketUsernames = []byte("usernames")
)

// Store wraps a bbolt database file used as the embedded storage driver.
type Store struct {
	db *boltdb.DB
}

// Open initializes the bbolt file and ensures all buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := boltdb.Open(path, 0o600, &boltdb.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *boltdb.Tx) error {
		for _, bucket := range [][]byte{bucketTasks, bucketUsers, bucketUsernames} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database file is still usable.
func (s *Store) Ping() error {
	if s == nil || s.db == nil {
		return boltdb.ErrDatabaseNotOpen
	}
	return s.db.View(func(tx *boltdb.Tx) error {
		if tx.Bucket(bucketTasks) == nil {
			return boltdb.ErrBucketNotFound
		}
		return nil
	})
}
