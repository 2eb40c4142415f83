package auth

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

// Cookie and value names used in the session store.
const (
	userSessionName = "appshell_session"
	flowSessionName = "appshell_oidc"

	keySubject   = "sub"
	keyExpiresAt = "exp"
	keyIDToken   = "id_token"

	keyState      = "state"
	keyNonce      = "nonce"
	keyVerifier   = "verifier"
	keyReturnPath = "return_path"
	keySilent     = "silent"
)

// flowMaxAge bounds how long a started sign-in may take to complete.
const flowMaxAge = 10 * time.Minute

// NewCookieStore creates the signed cookie store that holds sessions.
func NewCookieStore(secret string, maxAge time.Duration, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(int(maxAge.Seconds()))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}
