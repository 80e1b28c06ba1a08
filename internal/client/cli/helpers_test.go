package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/config"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/client/session"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

// captureOutput replaces printlnFn and returns the collected lines.
func captureOutput(t *testing.T) *outputLog {
	t.Helper()
	out := &outputLog{}
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out.add(strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return out
}

type outputLog struct {
	mu    sync.Mutex
	lines []string
}

func (o *outputLog) add(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = append(o.lines, s)
}

func (o *outputLog) reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = nil
}

func (o *outputLog) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return strings.Join(o.lines, "\n")
}

func stubInputs(t *testing.T, text string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return text, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return append([]byte(nil), password...), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

// newTestApp wires a real App against h with an in-memory store.
func newTestApp(t *testing.T, h http.Handler) *App {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ServerBaseURL = srv.URL
	cfg.StoreBackend = "memory"
	cfg.RequestTimeout = 2 * time.Second

	app, err := NewApp(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.store.Close() })

	app.reader = bufio.NewReader(strings.NewReader(""))
	app.out = io.Discard
	return app
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// fakeAuth implements services.AuthService for CLI tests.
type fakeAuth struct {
	mu sync.Mutex

	regEmail, regName string
	regPass           []byte
	regErr            error

	loginEmail string
	loginPass  []byte
	online     bool
	loginErr   error

	remembered string

	state     session.State
	logoutErr error
	logouts   int

	pingErr error
}

func (f *fakeAuth) Login(context.Context, string, []byte) (models.User, error) {
	return models.User{}, f.loginErr
}
func (f *fakeAuth) OfflineLogin(context.Context, string, []byte) error { return f.loginErr }
func (f *fakeAuth) LoginWithFallback(_ context.Context, email string, password []byte) (bool, error) {
	f.loginEmail, f.loginPass = email, append([]byte(nil), password...)
	if f.loginErr != nil {
		return false, f.loginErr
	}
	if f.online {
		f.state = session.NewAuthenticated("tok")
	} else {
		f.state = session.NewOfflineTrusted()
	}
	return f.online, nil
}
func (f *fakeAuth) Register(_ context.Context, email, name string, password []byte) (models.User, error) {
	f.regEmail, f.regName, f.regPass = email, name, append([]byte(nil), password...)
	return models.User{Email: email}, f.regErr
}
func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	if f.logoutErr == nil {
		f.state = session.NewUnauthenticated()
	}
	return f.logoutErr
}
func (f *fakeAuth) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}
func (f *fakeAuth) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}
func (f *fakeAuth) Session(context.Context) session.State { return f.state }
func (f *fakeAuth) RememberedEmail(context.Context) (string, bool) {
	return f.remembered, f.remembered != ""
}
