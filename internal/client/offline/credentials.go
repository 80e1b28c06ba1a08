// Package offline keeps a single remembered credential on the device so a
// user can be authenticated with no network. Only a one-way digest of the
// password is ever written.
package offline

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipekeeper/internal/client/kvstore"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

var (
	IdentifierKey = common.AuthKeyPrefix + "offline_email"
	DigestKey     = common.AuthKeyPrefix + "offline_password_hash"
)

// NormalizeIdentifier lowercases and trims an email.
func NormalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// CredentialStore is a single-slot store: remembering a new identity
// replaces the previous one.
type CredentialStore struct {
	store    kvstore.Store
	digester Digester
	argon    Argon2Digester
	log      logging.Logger
}

type Option func(*CredentialStore)

// WithDigester selects the scheme used by Remember. Verify recognises both
// built-in schemes regardless.
func WithDigester(d Digester) Option {
	return func(c *CredentialStore) {
		c.digester = d
		if a, ok := d.(Argon2Digester); ok {
			c.argon = a
		}
	}
}

func NewCredentialStore(store kvstore.Store, log logging.Logger, opts ...Option) *CredentialStore {
	c := &CredentialStore{
		store:    store,
		digester: SHA256Digester{},
		argon:    DefaultArgon2,
		log:      log.With("component", "offline-credentials"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Remember stores the normalized identifier and the digest of password,
// replacing any prior pair.
func (c *CredentialStore) Remember(ctx context.Context, identifier string, password []byte) error {
	digest, err := c.digester.Digest(password)
	if err != nil {
		return fmt.Errorf("digest password: %w", err)
	}

	err = c.store.MultiSet(ctx, []kvstore.Pair{
		{Key: IdentifierKey, Value: NormalizeIdentifier(identifier)},
		{Key: DigestKey, Value: digest},
	})
	if err != nil {
		return fmt.Errorf("save offline credential: %w", err)
	}
	return nil
}

// Verify reports whether identifier and password match the remembered pair.
// A missing credential or an unreadable store yields false.
func (c *CredentialStore) Verify(ctx context.Context, identifier string, password []byte) bool {
	storedID, ok := c.read(ctx, IdentifierKey)
	if !ok || storedID == "" {
		return false
	}
	storedDigest, ok := c.read(ctx, DigestKey)
	if !ok || storedDigest == "" {
		return false
	}

	if NormalizeIdentifier(identifier) != storedID {
		return false
	}
	return digesterFor(storedDigest, c.argon).Matches(storedDigest, password)
}

// Forget removes the remembered pair.
func (c *CredentialStore) Forget(ctx context.Context) error {
	if err := c.store.MultiRemove(ctx, []string{IdentifierKey, DigestKey}); err != nil {
		return fmt.Errorf("clear offline credential: %w", err)
	}
	return nil
}

func (c *CredentialStore) HasRemembered(ctx context.Context) bool {
	_, okID := c.read(ctx, IdentifierKey)
	_, okDigest := c.read(ctx, DigestKey)
	return okID && okDigest
}

// StoredIdentifier returns the remembered email for pre-filling a login
// prompt. The digest is never exposed.
func (c *CredentialStore) StoredIdentifier(ctx context.Context) (string, bool) {
	id, ok := c.read(ctx, IdentifierKey)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func (c *CredentialStore) read(ctx context.Context, key string) (string, bool) {
	v, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Error(ctx, "offline credential read failed", "key", key, "error", err)
		return "", false
	}
	return v, ok
}
