package keyring

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/BackendStack21/tricipher-go/key"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "keyring.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func generate(t *testing.T, n int) *key.Key {
	t.Helper()
	k, err := key.Generate(n)
	require.NoError(t, err)
	return k
}

func TestPutGet(t *testing.T) {
	s := openTestStore(t)
	k := generate(t, 10)

	rec, err := s.Put("alice", k)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "alice", rec.Name)
	assert.Len(t, rec.Fingerprint, 64)

	got, err := s.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	restored, err := got.Key()
	require.NoError(t, err)
	assert.True(t, k.Equal(restored))
}

func TestPutNilKey(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Put("", nil)
	assert.True(t, errors.Is(err, ErrNilKey))
}

func TestDuplicateName(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Put("bob", generate(t, 4))
	require.NoError(t, err)

	_, err = s.Put("bob", generate(t, 4))
	assert.True(t, errors.Is(err, ErrDuplicateName))

	// Unnamed keys never collide.
	_, err = s.Put("", generate(t, 4))
	require.NoError(t, err)
	_, err = s.Put("", generate(t, 4))
	require.NoError(t, err)
}

func TestResolve(t *testing.T) {
	s := openTestStore(t)
	a, err := s.Put("first", generate(t, 6))
	require.NoError(t, err)
	b, err := s.Put("", generate(t, 8))
	require.NoError(t, err)

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"by id", a.ID, a.ID},
		{"by name", "first", a.ID},
		{"by fingerprint prefix", b.Fingerprint[:12], b.ID},
		{"by id prefix", b.ID[:13], b.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := s.Resolve(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.ID)
		})
	}

	_, err = s.Resolve("no-such-key")
	assert.True(t, errors.Is(err, ErrKeyNotFound))
	_, err = s.Resolve("  ")
	assert.True(t, errors.Is(err, ErrKeyNotFound))
}

func TestResolveAmbiguous(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 40; i++ {
		_, err := s.Put("", generate(t, 2))
		require.NoError(t, err)
	}
	// With 40 keys, some pair of hex fingerprints shares a first character.
	records, err := s.List()
	require.NoError(t, err)
	seen := map[byte]bool{}
	var shared string
	for _, r := range records {
		if seen[r.Fingerprint[0]] {
			shared = r.Fingerprint[:1]
			break
		}
		seen[r.Fingerprint[0]] = true
	}
	require.NotEmpty(t, shared)

	_, err = s.Resolve(shared)
	assert.True(t, errors.Is(err, ErrAmbiguousRef))
}

func TestListAndDelete(t *testing.T) {
	s := openTestStore(t)
	a, err := s.Put("a", generate(t, 2))
	require.NoError(t, err)
	b, err := s.Put("b", generate(t, 2))
	require.NoError(t, err)

	records, err := s.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, []string{records[0].ID, records[1].ID})
	assert.False(t, records[1].CreatedAt.Before(records[0].CreatedAt))

	require.NoError(t, s.Delete(a.ID))
	_, err = s.Get(a.ID)
	assert.True(t, errors.Is(err, ErrKeyNotFound))

	// The name is released with the key.
	_, err = s.Put("a", generate(t, 2))
	require.NoError(t, err)

	err = s.Delete(a.ID)
	assert.True(t, errors.Is(err, ErrKeyNotFound))
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyring.db")
	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())
	rec, err := s.Put("persist", generate(t, 4))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Resolve("persist")
	require.NoError(t, err)
	assert.Equal(t, rec.MasterKey, got.MasterKey)
}

func TestCorruptRecord(t *testing.T) {
	s := openTestStore(t)
	rec, err := s.Put("", generate(t, 4))
	require.NoError(t, err)

	// Tamper with the stored master key behind the store's back.
	rec.MasterKey[0], rec.MasterKey[1] = rec.MasterKey[1], rec.MasterKey[0]
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketKeys).Put([]byte(rec.ID), data)
	}))

	got, err := s.Get(rec.ID)
	require.NoError(t, err)
	_, err = got.Key()
	assert.True(t, errors.Is(err, ErrCorruptRecord))
}

func TestCorruptRecordWideValue(t *testing.T) {
	s := openTestStore(t)
	rec, err := s.Put("", generate(t, 4))
	require.NoError(t, err)

	// Same low 32 bits, different value.
	shift := 32
	rec.MasterKey[0] += 1 << shift
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketKeys).Put([]byte(rec.ID), data)
	}))

	got, err := s.Get(rec.ID)
	require.NoError(t, err)
	_, err = got.Key()
	assert.ErrorIs(t, err, ErrCorruptRecord)
}
