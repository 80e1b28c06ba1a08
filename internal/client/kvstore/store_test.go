package kvstore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) Store {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newRedis(t *testing.T) Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, "test:")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newMemory(t *testing.T) Store {
	t.Helper()
	return NewMemoryStore()
}

var backends = map[string]func(t *testing.T) Store{
	"sqlite": newSQLite,
	"redis":  newRedis,
	"memory": newMemory,
}

// runContract exercises the behavior every backend must share.
func runContract(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("get missing is absent not error", func(t *testing.T) {
		s := open(t)
		v, ok, err := s.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Set(ctx, "k", "old"))
		require.NoError(t, s.Set(ctx, "k", "new"))
		v, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "new", v)
	})

	t.Run("multi set and get all keys", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.MultiSet(ctx, []Pair{{"a", "1"}, {"b", "2"}, {"c", ""}}))
		keys, err := s.GetAllKeys(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b", "c"}, keys)

		v, ok, err := s.Get(ctx, "c")
		require.NoError(t, err)
		assert.True(t, ok, "empty value is still present")
		assert.Empty(t, v)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Set(ctx, "x", "1"))
		require.NoError(t, s.Remove(ctx, "x"))
		require.NoError(t, s.Remove(ctx, "x"))
		_, ok, err := s.Get(ctx, "x")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("multi remove leaves other keys", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.MultiSet(ctx, []Pair{{"a", "1"}, {"b", "2"}, {"keep", "3"}}))
		require.NoError(t, s.MultiRemove(ctx, []string{"a", "b", "missing"}))
		keys, err := s.GetAllKeys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"keep"}, keys)
	})

	t.Run("empty batches are no-ops", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.MultiSet(ctx, nil))
		require.NoError(t, s.MultiRemove(ctx, nil))
		keys, err := s.GetAllKeys(ctx)
		require.NoError(t, err)
		assert.Empty(t, keys)
	})
}

func TestStoreContract(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) { runContract(t, open) })
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "authToken", "abc"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='kv'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLite_ErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, _, err = s.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get kv[k]")

	err = s.Set(ctx, "k", "v")
	require.ErrorContains(t, err, "failed to set kv[k]")

	err = s.MultiSet(ctx, []Pair{{"k", "v"}})
	require.ErrorContains(t, err, "failed to multi-set")

	_, err = s.GetAllKeys(ctx)
	require.ErrorContains(t, err, "failed to list keys")
}

func TestSQLite_InMemoryDSN(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.MultiSet(ctx, []Pair{{"a", "1"}, {"b", "2"}}))
	keys, err := s.GetAllKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestRedis_NamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	a := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "device-a:")
	b := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "device-b:")
	defer a.Close()
	defer b.Close()

	require.NoError(t, a.Set(ctx, "authToken", "A"))
	require.NoError(t, b.Set(ctx, "authToken", "B"))

	keys, err := a.GetAllKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"authToken"}, keys)

	v, _, err := b.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.Equal(t, "B", v)

	raw, err := mr.Get("device-a:authToken")
	require.NoError(t, err)
	assert.Equal(t, "A", raw)
}

func TestOpenRedis_PingFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := OpenRedis(context.Background(), addr, "")
	require.ErrorContains(t, err, "ping redis")
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Options{Backend: BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "nested", "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	mr := miniredis.RunT(t)
	s, err = Open(ctx, Options{Backend: BackendRedis, RedisAddr: "redis://" + mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Options{Backend: "etcd"})
	require.ErrorContains(t, err, "unknown store backend")
}

func TestMemoryStore_Closed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Close())

	_, _, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, s.Set(ctx, "k", "v"), ErrClosed)
	_, err = s.GetAllKeys(ctx)
	require.ErrorIs(t, err, ErrClosed)
}
