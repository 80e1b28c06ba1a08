package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNotJWT = errors.New("token is not a JWT")

// Claims is the display-level view of a bearer token.
type Claims struct {
	Subject   string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID  string `json:"userId,omitempty"`
	PlainID string `json:"id,omitempty"`
	Email   string `json:"email,omitempty"`
}

// ClaimsOf reads claims from token without verifying its signature. The
// client has no key to verify with; the values are used for display and
// expiry hints only, never for trust decisions.
func ClaimsOf(token string) (Claims, error) {
	var tc tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &tc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	c := Claims{Subject: tc.Subject, Email: tc.Email}
	switch {
	case tc.UserID != "":
		c.UserID = tc.UserID
	case tc.PlainID != "":
		c.UserID = tc.PlainID
	default:
		c.UserID = tc.Subject
	}
	if tc.ExpiresAt != nil {
		c.ExpiresAt = tc.ExpiresAt.Time
	}
	return c, nil
}
