// Package session models the client's authentication state and persists it
// in the key/value store.
//
// A State is one of three kinds. Only Authenticated carries a credential that
// may be sent to the server; OfflineTrusted means the user was verified
// against the remembered offline credential and the server must not be
// contacted with any token.
package session

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/common"
)

type Kind int

const (
	Unauthenticated Kind = iota
	Authenticated
	OfflineTrusted
)

func (k Kind) String() string {
	switch k {
	case Authenticated:
		return "authenticated"
	case OfflineTrusted:
		return "offline"
	default:
		return "unauthenticated"
	}
}

// State is immutable; build it with the constructors below.
type State struct {
	kind  Kind
	token string
}

func NewUnauthenticated() State { return State{kind: Unauthenticated} }

func NewOfflineTrusted() State { return State{kind: OfflineTrusted} }

// NewAuthenticated returns an Authenticated state, or Unauthenticated when
// token is not a usable credential.
func NewAuthenticated(token string) State {
	return Decode(token)
}

func (s State) Kind() Kind { return s.kind }

// BearerToken returns the credential to attach to outbound requests.
func (s State) BearerToken() (string, bool) {
	if s.kind != Authenticated {
		return "", false
	}
	return s.token, true
}

// LoggedIn is true for both Authenticated and OfflineTrusted.
func (s State) LoggedIn() bool { return s.kind != Unauthenticated }

// Expired reports whether an Authenticated JWT has passed its exp claim.
// Opaque tokens and the other kinds never expire.
func (s State) Expired(now time.Time) bool {
	if s.kind != Authenticated {
		return false
	}
	claims, err := ClaimsOf(s.token)
	if err != nil || claims.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(claims.ExpiresAt)
}

// Encode is the persisted form: the raw token, the offline sentinel, or "".
func (s State) Encode() string {
	switch s.kind {
	case Authenticated:
		return s.token
	case OfflineTrusted:
		return common.OfflineTokenSentinel
	default:
		return ""
	}
}

// Decode parses a persisted value. Empty, whitespace-only and the literal
// string "null" are Unauthenticated; the offline sentinel is OfflineTrusted.
func Decode(raw string) State {
	v := strings.TrimSpace(raw)
	switch {
	case v == "" || v == "null" || v == "undefined":
		return State{kind: Unauthenticated}
	case v == common.OfflineTokenSentinel:
		return State{kind: OfflineTrusted}
	default:
		return State{kind: Authenticated, token: v}
	}
}
