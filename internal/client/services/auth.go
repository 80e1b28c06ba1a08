package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipekeeper/internal/client/cache"
	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/client/normalize"
	"github.com/dmitrijs2005/recipekeeper/internal/client/offline"
	"github.com/dmitrijs2005/recipekeeper/internal/client/session"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

// AuthService defines authentication operations.
//
// Contract:
//   - Login: authenticate against the server, persist the token and
//     remember the credential for later offline use.
//   - OfflineLogin: verify against the remembered credential only; on
//     success the session becomes offline-trusted and carries no token.
//   - LoginWithFallback: Login, falling back to OfflineLogin only when the
//     server could not be reached.
//   - Logout: clear the token, the remembered credential and the cache.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (models.User, error)
	OfflineLogin(ctx context.Context, email string, password []byte) error
	LoginWithFallback(ctx context.Context, email string, password []byte) (online bool, err error)
	Register(ctx context.Context, email, displayName string, password []byte) (models.User, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Session(ctx context.Context) session.State
	RememberedEmail(ctx context.Context) (string, bool)
}

type authService struct {
	api         API
	sessions    *session.Store
	credentials *offline.CredentialStore
	cache       *cache.Service
	log         logging.Logger
}

func NewAuthService(api API, sessions *session.Store, credentials *offline.CredentialStore, cacheSvc *cache.Service, log logging.Logger) AuthService {
	return &authService{
		api:         api,
		sessions:    sessions,
		credentials: credentials,
		cache:       cacheSvc,
		log:         log.With("component", "auth"),
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (models.User, error) {
	env, err := a.api.Post(ctx, "/auth/login", credentialsRequest{
		Email:    strings.TrimSpace(email),
		Password: string(password),
	})
	if err != nil {
		return models.User{}, fmt.Errorf("login error: %w", err)
	}

	token, user, err := decodeAuth(env)
	if err != nil {
		return models.User{}, fmt.Errorf("login error: %w", err)
	}

	st := session.NewAuthenticated(token)
	if st.Kind() != session.Authenticated {
		return models.User{}, fmt.Errorf("login error: server returned no usable token: %w", client.ErrMalformedResponse)
	}
	if err := a.sessions.Save(ctx, st); err != nil {
		return models.User{}, fmt.Errorf("session saving error: %w", err)
	}

	// offline login is optional; a failure here must not undo the online login
	if err := a.credentials.Remember(ctx, email, password); err != nil {
		a.log.Warn(ctx, "offline credential not saved", "error", err)
	}
	return user, nil
}

// OfflineLogin returns client.ErrLocalDataNotAvailable when nothing was
// remembered and client.ErrUnauthorized when verification fails.
func (a *authService) OfflineLogin(ctx context.Context, email string, password []byte) error {
	if !a.credentials.HasRemembered(ctx) {
		return client.ErrLocalDataNotAvailable
	}
	if !a.credentials.Verify(ctx, email, password) {
		return client.ErrUnauthorized
	}
	if err := a.sessions.Save(ctx, session.NewOfflineTrusted()); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

func (a *authService) LoginWithFallback(ctx context.Context, email string, password []byte) (bool, error) {
	_, err := a.Login(ctx, email, password)
	if err == nil {
		return true, nil
	}
	if !client.IsNetworkUnreachable(err) {
		return false, err
	}

	a.log.Info(ctx, "server unreachable, trying offline login", "error", err)
	if offErr := a.OfflineLogin(ctx, email, password); offErr != nil {
		if errors.Is(offErr, client.ErrLocalDataNotAvailable) {
			return false, errors.Join(err, offErr)
		}
		return false, offErr
	}
	return false, nil
}

func (a *authService) Register(ctx context.Context, email, displayName string, password []byte) (models.User, error) {
	env, err := a.api.Post(ctx, "/auth/register", credentialsRequest{
		Email:    strings.TrimSpace(email),
		Password: string(password),
		Name:     displayName,
	})
	if err != nil {
		return models.User{}, err
	}
	if len(env.Data) == 0 {
		return models.User{Email: email, DisplayName: displayName}, nil
	}
	_, user, err := decodeAuth(env)
	if err != nil && !errors.Is(err, errNoToken) {
		return models.User{}, err
	}
	return user, nil
}

// Logout clears every piece of local state tied to the account. All steps
// are attempted even when one fails.
func (a *authService) Logout(ctx context.Context) error {
	var errs []error
	if err := a.sessions.Clear(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.credentials.Forget(ctx); err != nil {
		errs = append(errs, err)
	}
	if n, err := a.cache.ClearAll(ctx); err != nil {
		errs = append(errs, err)
	} else {
		a.log.Debug(ctx, "cache cleared", "keys", n)
	}
	return errors.Join(errs...)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.api.Ping(ctx)
}

func (a *authService) Session(ctx context.Context) session.State {
	return a.sessions.Current(ctx)
}

func (a *authService) RememberedEmail(ctx context.Context) (string, bool) {
	return a.credentials.StoredIdentifier(ctx)
}

var errNoToken = errors.New("no token in response")

// decodeAuth reads the token ("token" or "accessToken") and the user, which
// may sit under "user" or be the data object itself.
func decodeAuth(env *client.Envelope) (string, models.User, error) {
	var fields map[string]json.RawMessage
	if err := env.DecodeData(&fields); err != nil {
		return "", models.User{}, err
	}

	var user models.User
	if raw, ok := fields["user"]; ok {
		u, err := normalize.UserJSON(raw)
		if err == nil {
			user = u
		}
	} else if len(env.Data) > 0 {
		if u, err := normalize.UserJSON(env.Data); err == nil {
			user = u
		}
	}

	for _, key := range []string{"token", "accessToken"} {
		var token string
		if raw, ok := fields[key]; ok && json.Unmarshal(raw, &token) == nil && strings.TrimSpace(token) != "" {
			return token, user, nil
		}
	}
	return "", user, errNoToken
}
