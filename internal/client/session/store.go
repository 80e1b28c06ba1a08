package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/recipekeeper/internal/client/kvstore"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

// Store persists the session state under common.AuthTokenKey.
type Store struct {
	kv  kvstore.Store
	log logging.Logger
}

func NewStore(kv kvstore.Store, log logging.Logger) *Store {
	return &Store{kv: kv, log: log.With("component", "session")}
}

// Current reads the persisted state. A read failure is logged and treated as
// Unauthenticated so no credential is attached.
func (s *Store) Current(ctx context.Context) State {
	raw, ok, err := s.kv.Get(ctx, common.AuthTokenKey)
	if err != nil {
		s.log.Error(ctx, "session read failed", "error", err)
		return NewUnauthenticated()
	}
	if !ok {
		return NewUnauthenticated()
	}
	return Decode(raw)
}

// Save persists st. Saving Unauthenticated removes the slot.
func (s *Store) Save(ctx context.Context, st State) error {
	if st.Kind() == Unauthenticated {
		return s.Clear(ctx)
	}
	if err := s.kv.Set(ctx, common.AuthTokenKey, st.Encode()); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, common.AuthTokenKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
