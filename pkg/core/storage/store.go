/*
Package storage provides byte stores trie nodes are persisted into. Stores are
shared between trie instances, so every implementation takes care of its own
synchronization.
*/
package storage

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/mptrie/pkg/core/storage/dbconfig"
)

//go:generate mockgen -source store.go -destination store_mocks.go -package storage

// ErrKeyNotFound is an error returned by Store implementations
// when a certain key is not found.
var ErrKeyNotFound = errors.New("key not found")

// Store is the underlying KV backend for the trie data. A successful Put must
// be visible to subsequent Get calls on the same instance.
type Store interface {
	// Get returns the value stored under the key or ErrKeyNotFound.
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	// PutChangeSet allows to push prepared changeset to the Store, nil
	// values are deletions. Disk-backed stores apply it atomically.
	PutChangeSet(puts map[string][]byte) error
	Close() error
}

// NewStore creates storage with preselected in configuration database type.
func NewStore(cfg dbconfig.DBConfiguration) (Store, error) {
	var store Store
	var err error
	switch cfg.Type {
	case dbconfig.LevelDB:
		store, err = NewLevelDBStore(cfg.LevelDBOptions)
	case dbconfig.InMemoryDB:
		store = NewMemoryStore()
	case dbconfig.BoltDB:
		store, err = NewBoltDBStore(cfg.BoltDBOptions)
	case dbconfig.BadgerDB:
		store, err = NewBadgerDBStore(cfg.BadgerDBOptions)
	default:
		return nil, fmt.Errorf("unknown storage: %s", cfg.Type)
	}
	return store, err
}
