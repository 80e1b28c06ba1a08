package offline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/recipekeeper/internal/client/kvstore"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct {
	*kvstore.MemoryStore
}

func (brokenStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("io error")
}

func newStore(t *testing.T, opts ...Option) (*CredentialStore, *kvstore.MemoryStore) {
	t.Helper()
	kv := kvstore.NewMemoryStore()
	return NewCredentialStore(kv, logging.NewNop(), opts...), kv
}

func TestRememberVerify_RoundTripNormalizesIdentifier(t *testing.T) {
	c, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, c.Remember(ctx, "User@Example.com", []byte("secret123")))

	assert.True(t, c.Verify(ctx, "user@example.com ", []byte("secret123")))
	assert.True(t, c.Verify(ctx, "  USER@EXAMPLE.COM", []byte("secret123")))
	assert.False(t, c.Verify(ctx, "user@example.com", []byte("wrongpass")))
	assert.False(t, c.Verify(ctx, "other@example.com", []byte("secret123")))
}

func TestVerify_NothingRememberedIsFalse(t *testing.T) {
	c, _ := newStore(t)
	assert.False(t, c.Verify(context.Background(), "user@example.com", []byte("secret123")))
	assert.False(t, c.HasRemembered(context.Background()))
}

func TestVerify_PartialCredentialIsFalse(t *testing.T) {
	c, kv := newStore(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, IdentifierKey, "user@example.com"))

	assert.False(t, c.Verify(ctx, "user@example.com", []byte("")))
	assert.False(t, c.HasRemembered(ctx))
}

func TestVerify_BlankRememberedIdentifierIsFalse(t *testing.T) {
	c, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, c.Remember(ctx, "", []byte("pw")))

	assert.False(t, c.Verify(ctx, "   ", []byte("pw")))
	assert.False(t, c.Verify(ctx, "", []byte("pw")))
}

func TestRemember_StoresDigestNotPlaintext(t *testing.T) {
	c, kv := newStore(t)
	ctx := context.Background()
	require.NoError(t, c.Remember(ctx, "a@b.c", []byte("secret123")))

	digest, ok, err := kv.Get(ctx, DigestKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, digest, "secret")
	// sha256("secret123")
	assert.Equal(t, "fcf730b6d95236ecd3c9fc2d92d7b6b2bb061514961aec041d6c7a7192f592e4", digest)
}

func TestRemember_ReplacesPreviousPair(t *testing.T) {
	c, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, c.Remember(ctx, "first@example.com", []byte("one")))
	require.NoError(t, c.Remember(ctx, "second@example.com", []byte("two")))

	assert.False(t, c.Verify(ctx, "first@example.com", []byte("one")))
	assert.True(t, c.Verify(ctx, "second@example.com", []byte("two")))

	id, ok := c.StoredIdentifier(ctx)
	assert.True(t, ok)
	assert.Equal(t, "second@example.com", id)
}

func TestForget(t *testing.T) {
	c, kv := newStore(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "authToken", "keep-me"))
	require.NoError(t, c.Remember(ctx, "a@b.c", []byte("pw")))
	require.True(t, c.HasRemembered(ctx))

	require.NoError(t, c.Forget(ctx))

	assert.False(t, c.HasRemembered(ctx))
	assert.False(t, c.Verify(ctx, "a@b.c", []byte("pw")))
	_, ok := c.StoredIdentifier(ctx)
	assert.False(t, ok)

	keys, err := kv.GetAllKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"authToken"}, keys)
}

func TestVerify_StoreFailureIsFalse(t *testing.T) {
	c := NewCredentialStore(brokenStore{kvstore.NewMemoryStore()}, logging.NewNop())
	assert.False(t, c.Verify(context.Background(), "a@b.c", []byte("pw")))
	_, ok := c.StoredIdentifier(context.Background())
	assert.False(t, ok)
}

func TestArgon2Digester(t *testing.T) {
	fast := Argon2Digester{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32}
	c, kv := newStore(t, WithDigester(fast))
	ctx := context.Background()

	require.NoError(t, c.Remember(ctx, "a@b.c", []byte("pw")))
	digest, _, err := kv.Get(ctx, DigestKey)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "argon2id$"))

	assert.True(t, c.Verify(ctx, "a@b.c", []byte("pw")))
	assert.False(t, c.Verify(ctx, "a@b.c", []byte("PW")))

	second, err := fast.Digest([]byte("pw"))
	require.NoError(t, err)
	assert.NotEqual(t, digest, second, "salt must differ per digest")
}

func TestVerify_RecognisesSchemeOfStoredDigest(t *testing.T) {
	fast := Argon2Digester{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32}
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()

	legacy := NewCredentialStore(kv, logging.NewNop())
	require.NoError(t, legacy.Remember(ctx, "a@b.c", []byte("pw")))

	upgraded := NewCredentialStore(kv, logging.NewNop(), WithDigester(fast))
	assert.True(t, upgraded.Verify(ctx, "a@b.c", []byte("pw")))
}

func TestArgon2Digester_MalformedDigest(t *testing.T) {
	d := DefaultArgon2
	for _, bad := range []string{"", "argon2id$", "argon2id$!!$xx", "argon2id$c2FsdA$", "plain"} {
		assert.False(t, d.Matches(bad, []byte("pw")), bad)
	}
}
