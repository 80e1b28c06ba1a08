package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/cache"
	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/kvstore"
	"github.com/dmitrijs2005/recipekeeper/internal/client/offline"
	"github.com/dmitrijs2005/recipekeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/recipekeeper/internal/client/session"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

// harness wires the real pipeline and stores against an httptest server.
type harness struct {
	kv       kvstore.Store
	cache    *cache.Service
	sessions *session.Store
	creds    *offline.CredentialStore
	feed     *reconcile.Feed
	api      *client.Pipeline
}

func newHarness(t *testing.T, h http.Handler) *harness {
	t.Helper()
	return newHarnessWithStore(t, h, kvstore.NewMemoryStore())
}

// newHarnessWithStore points the pipeline at a closed server when h is nil,
// so every call fails without a response.
func newHarnessWithStore(t *testing.T, h http.Handler, kv kvstore.Store) *harness {
	t.Helper()
	log := logging.NewNop()

	srv := httptest.NewServer(h)
	if h == nil {
		srv.Close()
	} else {
		t.Cleanup(srv.Close)
	}

	sessions := session.NewStore(kv, log)
	api, err := client.NewPipeline(client.Options{BaseURL: srv.URL, RequestTimeout: 2 * time.Second}, sessions, log)
	require.NoError(t, err)

	feed, err := reconcile.NewFeed(32)
	require.NoError(t, err)

	return &harness{
		kv:       kv,
		cache:    cache.NewService(kv, log),
		sessions: sessions,
		creds:    offline.NewCredentialStore(kv, log),
		feed:     feed,
		api:      api,
	}
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// failingWrites rejects batched writes.
type failingWrites struct {
	kvstore.Store
}

func (failingWrites) MultiSet(context.Context, []kvstore.Pair) error {
	return io.ErrClosedPipe
}
