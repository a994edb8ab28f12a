package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemCachedPersist(t *testing.T) {
	ps := NewMemoryStore()
	ts := NewMemCachedStore(ps)

	// Persisting nothing should do nothing.
	c, err := ts.Persist()
	require.NoError(t, err)
	require.Equal(t, 0, c)

	require.NoError(t, ps.Put([]byte("old"), []byte("value")))
	require.NoError(t, ts.Put([]byte("key"), []byte("value")))
	require.NoError(t, ts.Delete([]byte("old")))
	require.Equal(t, 2, ts.Len())

	// Changes are visible through the cache only.
	_, err = ps.Get([]byte("key"))
	require.ErrorIs(t, err, ErrKeyNotFound)
	_, err = ts.Get([]byte("old"))
	require.ErrorIs(t, err, ErrKeyNotFound)
	v, err := ts.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), v)

	c, err = ts.Persist()
	require.NoError(t, err)
	require.Equal(t, 2, c)
	require.Equal(t, 0, ts.Len())

	v, err = ps.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), v)
	_, err = ps.Get([]byte("old"))
	require.ErrorIs(t, err, ErrKeyNotFound)

	// Lower level values are still reachable.
	v, err = ts.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), v)
}

func TestMemCachedPutIsolation(t *testing.T) {
	ts := NewMemCachedStore(NewMemoryStore())
	val := []byte{1, 2, 3}
	require.NoError(t, ts.Put([]byte("k"), val))
	val[0] = 42

	v, err := ts.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, v)

	// Empty values are values, not deletions.
	require.NoError(t, ts.Put([]byte("empty"), nil))
	v, err = ts.Get([]byte("empty"))
	require.NoError(t, err)
	require.Equal(t, []byte{}, v)
}

type failingStore struct {
	MemoryStore
}

var errFail = errors.New("fail")

func (f *failingStore) PutChangeSet(map[string][]byte) error {
	return errFail
}

func TestMemCachedPersistFail(t *testing.T) {
	ts := NewMemCachedStore(&failingStore{MemoryStore: *NewMemoryStore()})
	require.NoError(t, ts.Put([]byte("k"), []byte("v")))

	_, err := ts.Persist()
	require.ErrorIs(t, err, errFail)

	// Changes are kept for the next attempt.
	require.Equal(t, 1, ts.Len())
	v, err := ts.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}
