// pkg/bplus/objectstore_leveldb.go
package bplus

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
)

// LevelDBObjectStore implements ObjectStore over a LevelDB database,
// giving the object store a real persistent backend under a flat
// name→bytes namespace.
type LevelDBObjectStore struct {
	db *leveldb.DB
}

// NewLevelDBObjectStore opens (or creates) a LevelDB database at path,
// recovering automatically from a corrupted manifest.
func NewLevelDBObjectStore(path string) (*LevelDBObjectStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if errors.IsCorrupted(err) {
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("bplus: open leveldb store: %w", err)
	}
	return &LevelDBObjectStore{db: db}, nil
}

// Get returns the bytes stored under name, and whether it was present.
func (s *LevelDBObjectStore) Get(name string) ([]byte, bool, error) {
	data, err := s.db.Get([]byte(name), nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrIOError, err)
	}
	return data, true, nil
}

// Put stores data under name, replacing any previous value.
func (s *LevelDBObjectStore) Put(name string, data []byte) error {
	if err := s.db.Put([]byte(name), data, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrIOError, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *LevelDBObjectStore) Close() error {
	return s.db.Close()
}
