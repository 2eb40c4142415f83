// Package authtest provides an in-process OpenID provider for tests.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/jwk"
	"github.com/stretchr/testify/require"
)

// KeyID is the kid of the provider's signing key.
const KeyID = "authtest-key"

type grant struct {
	subject     string
	nonce       string
	challenge   string
	redirectURI string
}

// IdP is a minimal OpenID provider served by httptest. It supports
// discovery, JWKS, the authorization-code grant with PKCE and end-session.
type IdP struct {
	Server   *httptest.Server
	ClientID string

	// TokenTTL is the lifetime of issued ID tokens.
	TokenTTL time.Duration

	// DisableEndSession omits end_session_endpoint from discovery.
	DisableEndSession bool

	key *rsa.PrivateKey

	mu     sync.Mutex
	codes  map[string]grant
	issued int
}

// New starts a provider that issues tokens for clientID. It is closed when
// the test ends.
func New(t testing.TB, clientID string) *IdP {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	p := &IdP{
		ClientID: clientID,
		TokenTTL: time.Hour,
		key:      key,
		codes:    make(map[string]grant),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/openid-configuration", p.handleDiscovery)
	mux.HandleFunc("GET /jwks", p.handleJWKS)
	mux.HandleFunc("POST /token", p.handleToken)
	mux.HandleFunc("GET /authorize", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "interactive login is not served", http.StatusNotImplemented)
	})
	mux.HandleFunc("GET /logout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	p.Server = httptest.NewServer(mux)
	t.Cleanup(p.Server.Close)
	return p
}

// URL returns the provider's issuer URL.
func (p *IdP) URL() string {
	return p.Server.URL
}

// Client returns an HTTP client that talks to the provider.
func (p *IdP) Client() *http.Client {
	return p.Server.Client()
}

// TokensIssued returns how many token responses the provider has sent.
func (p *IdP) TokensIssued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.issued
}

// IssueCode plays the user's part at the authorization endpoint: it accepts
// authorizeURL as if subject had authenticated and returns the callback URL
// the browser would be redirected to.
func (p *IdP) IssueCode(t testing.TB, subject, authorizeURL string) *url.URL {
	t.Helper()

	u, err := url.Parse(authorizeURL)
	require.NoError(t, err)
	q := u.Query()
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, p.ClientID, q.Get("client_id"))
	require.Equal(t, "S256", q.Get("code_challenge_method"))

	code := uuid.NewString()
	p.mu.Lock()
	p.codes[code] = grant{
		subject:     subject,
		nonce:       q.Get("nonce"),
		challenge:   q.Get("code_challenge"),
		redirectURI: q.Get("redirect_uri"),
	}
	p.mu.Unlock()

	callback, err := url.Parse(q.Get("redirect_uri"))
	require.NoError(t, err)
	cq := callback.Query()
	cq.Set("code", code)
	cq.Set("state", q.Get("state"))
	callback.RawQuery = cq.Encode()
	return callback
}

// SignIDToken signs an ID token with the provider key. It lets tests craft
// tokens with arbitrary claims.
func (p *IdP) SignIDToken(t testing.TB, claims jwt.Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = KeyID
	signed, err := token.SignedString(p.key)
	require.NoError(t, err)
	return signed
}

func (p *IdP) handleDiscovery(w http.ResponseWriter, _ *http.Request) {
	doc := map[string]string{
		"issuer":                 p.Server.URL,
		"authorization_endpoint": p.Server.URL + "/authorize",
		"token_endpoint":         p.Server.URL + "/token",
		"jwks_uri":               p.Server.URL + "/jwks",
	}
	if !p.DisableEndSession {
		doc["end_session_endpoint"] = p.Server.URL + "/logout"
	}
	writeJSON(w, http.StatusOK, doc)
}

func (p *IdP) handleJWKS(w http.ResponseWriter, _ *http.Request) {
	key, err := jwk.New(&p.key.PublicKey)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = key.Set(jwk.KeyIDKey, KeyID)
	_ = key.Set(jwk.AlgorithmKey, "RS256")
	_ = key.Set(jwk.KeyUsageKey, "sig")

	set := jwk.NewSet()
	set.Add(key)
	writeJSON(w, http.StatusOK, set)
}

func (p *IdP) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		tokenError(w, "invalid_request")
		return
	}
	if r.PostForm.Get("grant_type") != "authorization_code" {
		tokenError(w, "unsupported_grant_type")
		return
	}
	if r.PostForm.Get("client_id") != p.ClientID {
		tokenError(w, "invalid_client")
		return
	}

	code := r.PostForm.Get("code")
	p.mu.Lock()
	g, ok := p.codes[code]
	delete(p.codes, code)
	p.mu.Unlock()
	if !ok {
		tokenError(w, "invalid_grant")
		return
	}
	if r.PostForm.Get("redirect_uri") != g.redirectURI {
		tokenError(w, "invalid_grant")
		return
	}
	sum := sha256.Sum256([]byte(r.PostForm.Get("code_verifier")))
	if base64.RawURLEncoding.EncodeToString(sum[:]) != g.challenge {
		tokenError(w, "invalid_grant")
		return
	}

	now := time.Now()
	claims := struct {
		Nonce string `json:"nonce,omitempty"`
		jwt.RegisteredClaims
	}{
		Nonce: g.nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Server.URL,
			Subject:   g.subject,
			Audience:  jwt.ClaimStrings{p.ClientID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = KeyID
	idToken, err := token.SignedString(p.key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	p.mu.Lock()
	p.issued++
	p.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": uuid.NewString(),
		"token_type":   "Bearer",
		"expires_in":   int(p.TokenTTL.Seconds()),
		"id_token":     idToken,
	})
}

func tokenError(w http.ResponseWriter, code string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
