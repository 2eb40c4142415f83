package auth_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leapstack-labs/appshell/internal/auth"
	"github.com/leapstack-labs/appshell/internal/auth/authtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover_CachesDocument(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{
			"authorization_endpoint": "https://id.test/authorize",
			"token_endpoint": "https://id.test/token",
			"jwks_uri": "https://id.test/jwks"
		}`))
	}))
	t.Cleanup(srv.Close)

	p := auth.NewProvider(srv.URL+"/", srv.Client())
	doc, err := p.Discover(t.Context())
	require.NoError(t, err)
	assert.Equal(t, srv.URL, doc.Issuer, "issuer defaults to the authority")

	_, err = p.Discover(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestDiscover_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`},
		{name: "bad json", status: http.StatusOK, body: `{`},
		{name: "missing endpoints", status: http.StatusOK, body: `{"issuer": "https://id.test"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			_, err := auth.NewProvider(srv.URL, srv.Client()).Discover(t.Context())
			assert.ErrorIs(t, err, auth.ErrDiscovery)
		})
	}
}

func TestVerifyIDToken(t *testing.T) {
	idp := authtest.New(t, "appshell")
	p := auth.NewProvider(idp.URL(), idp.Client())
	now := time.Now()

	raw := idp.SignIDToken(t, auth.IDTokenClaims{
		Nonce: "n-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    idp.URL(),
			Subject:   "alice",
			Audience:  jwt.ClaimStrings{"appshell"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})

	claims, err := p.VerifyIDToken(t.Context(), raw, "appshell", "n-1", time.Now)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)

	_, err = p.VerifyIDToken(t.Context(), raw, "other-client", "n-1", time.Now)
	assert.Error(t, err)

	_, err = p.VerifyIDToken(t.Context(), raw, "appshell", "n-2", time.Now)
	assert.ErrorContains(t, err, "nonce mismatch")

	later := func() time.Time { return now.Add(2 * time.Hour) }
	_, err = p.VerifyIDToken(t.Context(), raw, "appshell", "n-1", later)
	assert.Error(t, err)
}
