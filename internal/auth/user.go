// Package auth implements the OIDC authorization-code sign-in lifecycle and
// the per-browser session that records the signed-in user.
package auth

import (
	"errors"
	"net/http"
	"time"
)

var (
	// ErrSignIn is wrapped by every failure to complete a sign-in.
	ErrSignIn = errors.New("sign-in failed")

	// ErrStateMismatch is returned when the callback state does not match
	// the state stored when the sign-in started.
	ErrStateMismatch = errors.New("state mismatch")

	// ErrNoPendingSignIn is returned when a callback arrives without a
	// sign-in having been started in this browser.
	ErrNoPendingSignIn = errors.New("no pending sign-in")

	// ErrNoSession is returned by operations that need a signed-in user.
	ErrNoSession = errors.New("no session")

	// ErrDiscovery is returned when the provider metadata cannot be loaded.
	ErrDiscovery = errors.New("oidc discovery failed")
)

// User is the signed-in principal derived from the ID token.
type User struct {
	Subject   string
	ExpiresAt time.Time
	IDToken   string
}

// Expired reports whether the user's tokens have expired at now.
func (u *User) Expired(now time.Time) bool {
	return !u.ExpiresAt.IsZero() && !now.Before(u.ExpiresAt)
}

// SessionProvider reports the user signed in on the requesting browser.
type SessionProvider interface {
	CurrentUser(r *http.Request) (*User, bool)
}
