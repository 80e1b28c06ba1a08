package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/client/session"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(h *harness) AuthService {
	return NewAuthService(h.api, h.sessions, h.creds, h.cache, logging.NewNop())
}

// authServer answers /auth/login for one account and echoes the bearer
// header of every other request into lastAuth.
func authServer(t *testing.T, lastAuth *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			var req credentialsRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				jsonHandler(http.StatusBadRequest, `{"success":false}`)(w, r)
				return
			}
			if req.Email != "User@Example.com" || req.Password != "secret123" {
				jsonHandler(http.StatusUnauthorized, `{"success":false,"message":"invalid credentials"}`)(w, r)
				return
			}
			jsonHandler(http.StatusOK, `{"success":true,"data":{"token":"tok-1","user":{"_id":"u1","email":"user@example.com","name":"Ann"}}}`)(w, r)
		case "/auth/register":
			jsonHandler(http.StatusCreated, `{"success":true,"data":{"user":{"_id":"u2","email":"new@example.com"}}}`)(w, r)
		default:
			*lastAuth = r.Header.Get(common.AuthorizationHeaderName)
			jsonHandler(http.StatusOK, `{"success":true}`)(w, r)
		}
	})
}

func TestLogin_SavesTokenAndRemembersCredential(t *testing.T) {
	var lastAuth string
	h := newHarness(t, authServer(t, &lastAuth))
	auth := newAuth(h)
	ctx := context.Background()

	user, err := auth.Login(ctx, "User@Example.com", []byte("secret123"))
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: "u1", Email: "user@example.com", DisplayName: "Ann"}, user)

	st := auth.Session(ctx)
	assert.Equal(t, session.Authenticated, st.Kind())
	require.NoError(t, auth.Ping(ctx))
	assert.Equal(t, "Bearer tok-1", lastAuth)

	assert.True(t, h.creds.Verify(ctx, "user@example.com ", []byte("secret123")))
	email, ok := auth.RememberedEmail(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user@example.com", email)
}

func TestLogin_RejectedKeepsStateUntouched(t *testing.T) {
	var lastAuth string
	h := newHarness(t, authServer(t, &lastAuth))
	auth := newAuth(h)
	ctx := context.Background()

	_, err := auth.Login(ctx, "User@Example.com", []byte("wrong"))
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.True(t, strings.HasPrefix(err.Error(), "login error:"))
	assert.Equal(t, session.Unauthenticated, auth.Session(ctx).Kind())
	assert.False(t, h.creds.HasRemembered(ctx))
}

func TestLogin_TokenlessResponseFails(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusOK, `{"success":true,"data":{"user":{"_id":"u1"}}}`))
	_, err := newAuth(h).Login(context.Background(), "a@b.c", []byte("p"))
	require.Error(t, err)

	h = newHarness(t, jsonHandler(http.StatusOK, `{"success":true,"data":{"token":"offline"}}`))
	_, err = newAuth(h).Login(context.Background(), "a@b.c", []byte("p"))
	require.ErrorIs(t, err, client.ErrMalformedResponse)
}

func TestOfflineLogin(t *testing.T) {
	h := newHarness(t, nil)
	auth := newAuth(h)
	ctx := context.Background()

	require.ErrorIs(t, auth.OfflineLogin(ctx, "user@example.com", []byte("secret123")), client.ErrLocalDataNotAvailable)

	require.NoError(t, h.creds.Remember(ctx, "User@Example.com", []byte("secret123")))
	require.ErrorIs(t, auth.OfflineLogin(ctx, "user@example.com", []byte("nope")), client.ErrUnauthorized)
	require.ErrorIs(t, auth.OfflineLogin(ctx, "other@example.com", []byte("secret123")), client.ErrUnauthorized)

	require.NoError(t, auth.OfflineLogin(ctx, " USER@example.com", []byte("secret123")))
	st := auth.Session(ctx)
	assert.Equal(t, session.OfflineTrusted, st.Kind())
	_, ok := st.BearerToken()
	assert.False(t, ok)

	raw, _, err := h.kv.Get(ctx, common.AuthTokenKey)
	require.NoError(t, err)
	assert.Equal(t, common.OfflineTokenSentinel, raw)
}

func TestLoginWithFallback_Unreachable(t *testing.T) {
	h := newHarness(t, nil)
	auth := newAuth(h)
	ctx := context.Background()

	online, err := auth.LoginWithFallback(ctx, "user@example.com", []byte("secret123"))
	assert.False(t, online)
	require.ErrorIs(t, err, client.ErrUnavailable)
	require.ErrorIs(t, err, client.ErrLocalDataNotAvailable)

	require.NoError(t, h.creds.Remember(ctx, "user@example.com", []byte("secret123")))

	_, err = auth.LoginWithFallback(ctx, "user@example.com", []byte("bad"))
	require.ErrorIs(t, err, client.ErrUnauthorized)

	online, err = auth.LoginWithFallback(ctx, "user@example.com", []byte("secret123"))
	require.NoError(t, err)
	assert.False(t, online)
	assert.Equal(t, session.OfflineTrusted, auth.Session(ctx).Kind())
}

func TestLoginWithFallback_ServerErrorDoesNotGoOffline(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusInternalServerError, `{"success":false,"message":"down"}`))
	auth := newAuth(h)
	ctx := context.Background()
	require.NoError(t, h.creds.Remember(ctx, "user@example.com", []byte("secret123")))

	online, err := auth.LoginWithFallback(ctx, "user@example.com", []byte("secret123"))
	require.Error(t, err)
	assert.False(t, online)
	assert.Equal(t, http.StatusInternalServerError, client.StatusOf(err))
	assert.Equal(t, session.Unauthenticated, auth.Session(ctx).Kind())
}

func TestLoginWithFallback_Online(t *testing.T) {
	var lastAuth string
	h := newHarness(t, authServer(t, &lastAuth))
	online, err := newAuth(h).LoginWithFallback(context.Background(), "User@Example.com", []byte("secret123"))
	require.NoError(t, err)
	assert.True(t, online)
}

func TestRegister(t *testing.T) {
	var lastAuth string
	h := newHarness(t, authServer(t, &lastAuth))
	u, err := newAuth(h).Register(context.Background(), "new@example.com", "New", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "u2", u.ID)
	assert.Equal(t, session.Unauthenticated, h.sessions.Current(context.Background()).Kind())
}

func TestLogout_ClearsAccountStateOnly(t *testing.T) {
	h := newHarness(t, nil)
	auth := newAuth(h)
	ctx := context.Background()

	require.NoError(t, h.sessions.Save(ctx, session.NewAuthenticated("tok")))
	require.NoError(t, h.creds.Remember(ctx, "a@b.c", []byte("pw")))
	require.NoError(t, h.cache.Store(ctx, RecipesCollection, []models.Recipe{{ID: "r1"}}))
	require.NoError(t, h.kv.Set(ctx, "settings:theme", "dark"))

	require.NoError(t, auth.Logout(ctx))

	assert.Equal(t, session.Unauthenticated, auth.Session(ctx).Kind())
	assert.False(t, h.creds.HasRemembered(ctx))
	assert.False(t, h.cache.HasSnapshot(ctx, RecipesCollection))

	v, ok, err := h.kv.Get(ctx, "settings:theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}
