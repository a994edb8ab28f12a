package storage

import (
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/nspcc-dev/mptrie/pkg/core/storage/dbconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dbSetup struct {
	name   string
	create func(testing.TB) Store
}

type dbTestFunction func(*testing.T, Store)

func newMemoryStoreForTesting(t testing.TB) Store {
	return NewMemoryStore()
}

func newMemCachedStoreForTesting(t testing.TB) Store {
	return NewMemCachedStore(NewMemoryStore())
}

func newLevelDBForTesting(t testing.TB) Store {
	s, err := NewLevelDBStore(dbconfig.LevelDBOptions{DataDirectoryPath: t.TempDir()})
	require.NoError(t, err)
	return s
}

func newBoltStoreForTesting(t testing.TB) Store {
	s, err := NewBoltDBStore(dbconfig.BoltDBOptions{FilePath: filepath.Join(t.TempDir(), "test_bolt_db")})
	require.NoError(t, err)
	return s
}

func newBadgerDBForTesting(t testing.TB) Store {
	s, err := NewBadgerDBStore(dbconfig.BadgerDBOptions{Dir: t.TempDir()})
	require.NoError(t, err)
	return s
}

func testStoreGetNonExistent(t *testing.T, s Store) {
	key := []byte("sparse")

	_, err := s.Get(key)
	assert.Equal(t, err, ErrKeyNotFound)
}

func testStorePutGetDelete(t *testing.T, s Store) {
	key := []byte("foo")
	value := []byte("bar")

	require.NoError(t, s.Put(key, value))
	result, err := s.Get(key)
	require.NoError(t, err)
	require.Equal(t, value, result)

	// Overwrite.
	require.NoError(t, s.Put(key, []byte("baz")))
	result, err = s.Get(key)
	require.NoError(t, err)
	require.Equal(t, []byte("baz"), result)

	require.NoError(t, s.Delete(key))
	_, err = s.Get(key)
	require.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting a missing key is not an error.
	require.NoError(t, s.Delete(key))
}

func testStorePutChangeSet(t *testing.T, s Store) {
	require.NoError(t, s.Put([]byte("del"), []byte{1}))
	require.NoError(t, s.PutChangeSet(map[string][]byte{
		"k1":  {1},
		"k2":  {2},
		"del": nil,
	}))

	for k, v := range map[string][]byte{"k1": {1}, "k2": {2}} {
		res, err := s.Get([]byte(k))
		require.NoError(t, err)
		require.Equal(t, v, res)
	}
	_, err := s.Get([]byte("del"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestAllDBs(t *testing.T) {
	var DBs = []dbSetup{
		{"BoltDB", newBoltStoreForTesting},
		{"LevelDB", newLevelDBForTesting},
		{"BadgerDB", newBadgerDBForTesting},
		{"MemCached", newMemCachedStoreForTesting},
		{"Memory", newMemoryStoreForTesting},
	}
	var tests = []dbTestFunction{testStoreGetNonExistent, testStorePutGetDelete,
		testStorePutChangeSet}
	for _, db := range DBs {
		for _, test := range tests {
			s := db.create(t)
			twrapper := func(t *testing.T) {
				test(t, s)
			}
			fname := runtime.FuncForPC(reflect.ValueOf(test).Pointer()).Name()
			t.Run(db.name+"/"+fname, twrapper)
			require.NoError(t, s.Close())
		}
	}
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()
	for _, cfg := range []dbconfig.DBConfiguration{
		{Type: dbconfig.InMemoryDB},
		{Type: dbconfig.LevelDB, LevelDBOptions: dbconfig.LevelDBOptions{DataDirectoryPath: filepath.Join(dir, "level")}},
		{Type: dbconfig.BoltDB, BoltDBOptions: dbconfig.BoltDBOptions{FilePath: filepath.Join(dir, "bolt", "db")}},
		{Type: dbconfig.BadgerDB, BadgerDBOptions: dbconfig.BadgerDBOptions{Dir: filepath.Join(dir, "badger")}},
	} {
		t.Run(cfg.Type, func(t *testing.T) {
			s, err := NewStore(cfg)
			require.NoError(t, err)
			require.NoError(t, s.Put([]byte{1}, []byte{2}))
			require.NoError(t, s.Close())
		})
	}

	_, err := NewStore(dbconfig.DBConfiguration{Type: "unknown"})
	require.Error(t, err)
}

func TestLevelDBReadOnly(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLevelDBStore(dbconfig.LevelDBOptions{DataDirectoryPath: dir})
	require.NoError(t, err)
	require.NoError(t, s.Put([]byte{1}, []byte{2}))
	require.NoError(t, s.Close())

	ro, err := NewLevelDBStore(dbconfig.LevelDBOptions{DataDirectoryPath: dir, ReadOnly: true})
	require.NoError(t, err)
	v, err := ro.Get([]byte{1})
	require.NoError(t, err)
	require.Equal(t, []byte{2}, v)
	require.NoError(t, ro.Close())
}
