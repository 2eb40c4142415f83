package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/jwk"
)

// DiscoveryDocument is the subset of the OpenID provider metadata we use.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	JWKSURI               string `json:"jwks_uri"`
	EndSessionEndpoint    string `json:"end_session_endpoint,omitempty"`
}

// IDTokenClaims are the ID token claims checked during sign-in.
type IDTokenClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// Provider caches the discovery document and signing keys of an OpenID
// provider and verifies ID tokens issued by it.
type Provider struct {
	authority  string
	httpClient *http.Client

	mu   sync.Mutex
	doc  *DiscoveryDocument
	keys jwk.Set
}

// NewProvider creates a Provider for the given authority URL.
func NewProvider(authority string, httpClient *http.Client) *Provider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Provider{
		authority:  strings.TrimRight(authority, "/"),
		httpClient: httpClient,
	}
}

// HTTPClient returns the client used for provider requests.
func (p *Provider) HTTPClient() *http.Client {
	return p.httpClient
}

// Discover returns the provider metadata, fetching it on first use.
func (p *Provider) Discover(ctx context.Context) (*DiscoveryDocument, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.doc != nil {
		return p.doc, nil
	}

	url := p.authority + "/.well-known/openid-configuration"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscovery, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscovery, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrDiscovery, url, resp.StatusCode)
	}

	var doc DiscoveryDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode metadata: %v", ErrDiscovery, err)
	}
	if doc.AuthorizationEndpoint == "" || doc.TokenEndpoint == "" || doc.JWKSURI == "" {
		return nil, fmt.Errorf("%w: metadata is missing required endpoints", ErrDiscovery)
	}
	if doc.Issuer == "" {
		doc.Issuer = p.authority
	}

	p.doc = &doc
	return p.doc, nil
}

// publicKey returns the verification key for kid. An unknown kid triggers a
// single refetch of the key set to pick up rotated keys.
func (p *Provider) publicKey(ctx context.Context, kid string) (interface{}, error) {
	doc, err := p.Discover(ctx)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for attempt := 0; attempt < 2; attempt++ {
		if p.keys == nil || attempt > 0 {
			set, err := jwk.Fetch(ctx, doc.JWKSURI, jwk.WithHTTPClient(p.httpClient))
			if err != nil {
				return nil, fmt.Errorf("fetch jwks: %w", err)
			}
			p.keys = set
		}

		key, ok := p.lookupKey(kid)
		if !ok {
			continue
		}

		var raw interface{}
		if err := key.Raw(&raw); err != nil {
			return nil, fmt.Errorf("decode jwk %q: %w", kid, err)
		}
		return raw, nil
	}

	return nil, fmt.Errorf("no signing key found for kid %q", kid)
}

func (p *Provider) lookupKey(kid string) (jwk.Key, bool) {
	if kid != "" {
		return p.keys.LookupKeyID(kid)
	}
	if p.keys.Len() == 1 {
		return p.keys.Get(0)
	}
	return nil, false
}

// VerifyIDToken checks the signature, issuer, audience, expiry and nonce of
// an ID token and returns its claims.
func (p *Provider) VerifyIDToken(ctx context.Context, raw, clientID, nonce string, now func() time.Time) (*IDTokenClaims, error) {
	doc, err := p.Discover(ctx)
	if err != nil {
		return nil, err
	}

	claims := &IDTokenClaims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		return p.publicKey(ctx, kid)
	},
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512", "ES256", "ES384", "ES512"}),
		jwt.WithIssuer(doc.Issuer),
		jwt.WithAudience(clientID),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(time.Minute),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("verify id_token: missing sub claim")
	}
	if claims.Nonce != nonce {
		return nil, fmt.Errorf("verify id_token: nonce mismatch")
	}

	return claims, nil
}
