package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/nspcc-dev/mptrie/pkg/core/storage/dbconfig"
)

// BadgerDBStore is the implementation of Store on top of BadgerDB.
type BadgerDBStore struct {
	db *badger.DB
}

// NewBadgerDBStore returns a new BadgerDBStore object that will
// initialize the database found at the given path.
func NewBadgerDBStore(cfg dbconfig.BadgerDBOptions) (*BadgerDBStore, error) {
	opts := badger.DefaultOptions(cfg.Dir).
		WithReadOnly(cfg.ReadOnly).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB instance: %w", err)
	}

	return &BadgerDBStore{db: db}, nil
}

// Get implements the Store interface.
func (b *BadgerDBStore) Get(key []byte) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	return val, err
}

// Put implements the Store interface.
func (b *BadgerDBStore) Put(key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete implements the Store interface.
func (b *BadgerDBStore) Delete(key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// PutChangeSet implements the Store interface.
func (b *BadgerDBStore) PutChangeSet(puts map[string][]byte) error {
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()

	for k, v := range puts {
		var err error
		if v != nil {
			err = wb.Set([]byte(k), v)
		} else {
			err = wb.Delete([]byte(k))
		}
		if err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Close releases all db resources.
func (b *BadgerDBStore) Close() error {
	return b.db.Close()
}
