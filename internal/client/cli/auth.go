package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/session"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for email, display name and password and creates the
// account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.authService.Register(ctx, email, name, password); err != nil {
		printlnFn("Registration failed:", describe(err))
		return err
	}

	printlnFn("Success! You can now log in.")
	return nil
}

// Login prompts for credentials, pre-filling the remembered email, and
// authenticates online with an offline fallback when the server cannot be
// reached. The resulting Mode is:
//   - ModeOnline if online login succeeds,
//   - ModeOffline if offline login succeeds,
//   - ModeDisabled if the server is unreachable and offline login fails.
//
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	prompt := "Enter email"
	remembered, hasRemembered := a.authService.RememberedEmail(ctx)
	if hasRemembered {
		prompt = fmt.Sprintf("Enter email [%s]", remembered)
	}

	email, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if email == "" && hasRemembered {
		email = remembered
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	online, err := a.authService.LoginWithFallback(ctx, email, password)
	if err != nil {
		printlnFn("Login unsuccessful:", describe(err))
		if client.IsNetworkUnreachable(err) {
			a.setMode(ModeDisabled)
		}
		return err
	}

	a.userName = email
	a.applySession(ctx)
	if online {
		printlnFn("Login successful")
		a.setMode(ModeOnline)
	} else {
		printlnFn("Server unavailable, logged in offline with saved credentials")
		a.setMode(ModeOffline)
	}
	return nil
}

// Logout clears the token, the remembered credential, the offline cache and
// the in-memory feed.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		printlnFn("Logout incomplete:", err)
		return err
	}
	a.feed.Purge()
	a.session = session.NewUnauthenticated()
	a.userName, a.userID = "", ""
	printlnFn("Logged out")
	return nil
}

// restoreSession resumes a persisted session. It reports whether one was found.
func (a *App) restoreSession(ctx context.Context) bool {
	a.applySession(ctx)
	if !a.session.LoggedIn() {
		return false
	}
	if a.session.Kind() == session.OfflineTrusted {
		a.setMode(ModeOffline)
	} else {
		a.setMode(ModeOnline)
	}
	if email, ok := a.authService.RememberedEmail(ctx); ok {
		a.userName = email
	}
	printlnFn("Resumed session", a.getStatus())
	return true
}

// applySession reloads the session and the user id carried by its token.
func (a *App) applySession(ctx context.Context) {
	a.session = a.authService.Session(ctx)
	a.userID = ""
	if token, ok := a.session.BearerToken(); ok {
		if claims, err := session.ClaimsOf(token); err == nil {
			a.userID = claims.UserID
		}
	}
}

// describe turns an error into a short user-facing message.
func describe(err error) string {
	var re *client.ResponseError
	switch {
	case err == nil:
		return ""
	case client.IsNetworkUnreachable(err) && errors.Is(err, client.ErrLocalDataNotAvailable):
		return "you're offline and no saved credentials are available"
	case client.IsNetworkUnreachable(err):
		return "you're offline, check your connection"
	case errors.Is(err, client.ErrLocalDataNotAvailable):
		return "no saved credentials for offline use"
	case errors.As(err, &re):
		if re.Status == 401 || re.Status == 403 {
			if re.Message != "" {
				return re.Message
			}
			return "not authorized"
		}
		return re.Message
	case errors.Is(err, client.ErrUnauthorized):
		return "invalid email or password"
	default:
		return err.Error()
	}
}
