package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/appshell/internal/config"
	"github.com/leapstack-labs/appshell/internal/metrics"
	"golang.org/x/oauth2"
)

// Options configures a Service.
type Options struct {
	Settings config.ClientSettings
	Store    sessions.Store
	Provider *Provider
	Logger   *slog.Logger

	// Now overrides the clock used for token expiry checks.
	Now func() time.Time
}

// Service is the OIDC user manager. It starts and completes sign-ins and
// records the signed-in user in the browser session.
type Service struct {
	settings config.ClientSettings
	store    sessions.Store
	provider *Provider
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new Service.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	provider := opts.Provider
	if provider == nil {
		provider = NewProvider(opts.Settings.Authority, nil)
	}

	return &Service{
		settings: opts.Settings,
		store:    opts.Store,
		provider: provider,
		logger:   logger,
		now:      now,
	}
}

// Settings returns the client settings the service was built with.
func (s *Service) Settings() config.ClientSettings {
	return s.settings
}

// SignIn redirects the browser to the identity provider. returnPath is
// handed back by EndSignIn once the sign-in completes; anything that is not
// a local path is dropped.
func (s *Service) SignIn(w http.ResponseWriter, r *http.Request, returnPath string) error {
	return s.startFlow(w, r, SafeReturnPath(returnPath), false)
}

// SignInSilent starts a background renewal with prompt=none. It is meant to
// be loaded in a hidden iframe.
func (s *Service) SignInSilent(w http.ResponseWriter, r *http.Request) error {
	return s.startFlow(w, r, "", true)
}

// EndSignIn consumes the authorization-code redirect, exchanges the code for
// tokens and stores the user in the session. It returns the post-login path
// stored by SignIn, or "" if none was stored.
func (s *Service) EndSignIn(w http.ResponseWriter, r *http.Request) (string, error) {
	returnPath, err := s.completeFlow(w, r, false)
	if err != nil {
		metrics.RecordSignIn("interactive", "failure")
		s.logger.Warn("sign-in failed", "error", err)
		return "", err
	}
	metrics.RecordSignIn("interactive", "success")
	return returnPath, nil
}

// EndSignInSilent completes a background renewal. It never navigates.
func (s *Service) EndSignInSilent(w http.ResponseWriter, r *http.Request) error {
	if _, err := s.completeFlow(w, r, true); err != nil {
		metrics.RecordSignIn("silent", "failure")
		s.logger.Debug("silent renew failed", "error", err)
		return err
	}
	metrics.RecordSignIn("silent", "success")
	return nil
}

// SignOut destroys the session and redirects to the provider's end-session
// endpoint, or to the logged-out page when the provider has none.
func (s *Service) SignOut(w http.ResponseWriter, r *http.Request) {
	var idToken string
	if sess, err := s.store.Get(r, userSessionName); err == nil {
		idToken, _ = sess.Values[keyIDToken].(string)
		if sub, _ := sess.Values[keySubject].(string); sub != "" {
			s.logger.Info("signing out", "sub", sub)
		}
		sess.Values = map[interface{}]interface{}{}
		sess.Options.MaxAge = -1
		if err := sess.Save(r, w); err != nil {
			s.logger.Error("failed to clear session", "error", err)
		}
	}
	metrics.RecordSignOut()

	target := config.LoggedOutPath
	doc, err := s.provider.Discover(r.Context())
	switch {
	case err != nil:
		s.logger.Warn("end-session endpoint unavailable", "error", err)
	case doc.EndSessionEndpoint != "":
		if u, err := url.Parse(doc.EndSessionEndpoint); err == nil {
			q := u.Query()
			q.Set("client_id", s.settings.ClientID)
			q.Set("post_logout_redirect_uri", s.settings.PostLogoutRedirectURI)
			if idToken != "" {
				q.Set("id_token_hint", idToken)
			}
			u.RawQuery = q.Encode()
			target = u.String()
		}
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// CurrentUser returns the signed-in user of the requesting browser. Expired
// users read as no session.
func (s *Service) CurrentUser(r *http.Request) (*User, bool) {
	sess, err := s.store.Get(r, userSessionName)
	if err != nil {
		return nil, false
	}

	sub, _ := sess.Values[keySubject].(string)
	if sub == "" {
		return nil, false
	}

	user := &User{Subject: sub}
	if exp, ok := sess.Values[keyExpiresAt].(int64); ok && exp > 0 {
		user.ExpiresAt = time.Unix(exp, 0)
	}
	user.IDToken, _ = sess.Values[keyIDToken].(string)

	if user.Expired(s.now()) {
		return nil, false
	}
	return user, true
}

func flowName(silent bool) string {
	if silent {
		return flowSessionName + "_silent"
	}
	return flowSessionName
}

func (s *Service) redirectURI(silent bool) string {
	if silent {
		return s.settings.SilentRedirectURI
	}
	return s.settings.RedirectURI
}

func (s *Service) oauthConfig(doc *DiscoveryDocument, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.settings.ClientID,
		ClientSecret: s.settings.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   doc.AuthorizationEndpoint,
			TokenURL:  doc.TokenEndpoint,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: redirectURI,
		Scopes:      s.settings.Scopes,
	}
}

func (s *Service) startFlow(w http.ResponseWriter, r *http.Request, returnPath string, silent bool) error {
	doc, err := s.provider.Discover(r.Context())
	if err != nil {
		return err
	}

	state := uuid.NewString()
	nonce := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	// A decode error only means a stale cookie; New still returns a fresh session.
	flow, _ := s.store.New(r, flowName(silent))
	flow.Options.MaxAge = int(flowMaxAge.Seconds())
	flow.Values[keyState] = state
	flow.Values[keyNonce] = nonce
	flow.Values[keyVerifier] = verifier
	flow.Values[keyReturnPath] = returnPath
	flow.Values[keySilent] = silent
	if err := flow.Save(r, w); err != nil {
		return fmt.Errorf("save sign-in state: %w", err)
	}

	opts := []oauth2.AuthCodeOption{
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("nonce", nonce),
	}
	if silent {
		opts = append(opts, oauth2.SetAuthURLParam("prompt", "none"))
	}

	authURL := s.oauthConfig(doc, s.redirectURI(silent)).AuthCodeURL(state, opts...)
	s.logger.Debug("redirecting to identity provider", "silent", silent, "return_path", returnPath)
	http.Redirect(w, r, authURL, http.StatusFound)
	return nil
}

func (s *Service) completeFlow(w http.ResponseWriter, r *http.Request, silent bool) (string, error) {
	flow, err := s.store.Get(r, flowName(silent))
	if err != nil || flow.IsNew {
		return "", fmt.Errorf("%w: %w", ErrSignIn, ErrNoPendingSignIn)
	}

	expectedState, _ := flow.Values[keyState].(string)
	nonce, _ := flow.Values[keyNonce].(string)
	verifier, _ := flow.Values[keyVerifier].(string)
	returnPath, _ := flow.Values[keyReturnPath].(string)

	// The flow state is single use whatever the outcome.
	flow.Options.MaxAge = -1
	if err := flow.Save(r, w); err != nil {
		s.logger.Error("failed to clear sign-in state", "error", err)
	}

	q := r.URL.Query()
	if providerErr := q.Get("error"); providerErr != "" {
		if desc := q.Get("error_description"); desc != "" {
			return "", fmt.Errorf("%w: %s: %s", ErrSignIn, providerErr, desc)
		}
		return "", fmt.Errorf("%w: %s", ErrSignIn, providerErr)
	}
	if expectedState == "" || q.Get("state") != expectedState {
		return "", fmt.Errorf("%w: %w", ErrSignIn, ErrStateMismatch)
	}
	code := q.Get("code")
	if code == "" {
		return "", fmt.Errorf("%w: missing authorization code", ErrSignIn)
	}

	doc, err := s.provider.Discover(r.Context())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSignIn, err)
	}

	ctx := context.WithValue(r.Context(), oauth2.HTTPClient, s.provider.HTTPClient())
	token, err := s.oauthConfig(doc, s.redirectURI(silent)).Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", fmt.Errorf("%w: token exchange: %w", ErrSignIn, err)
	}

	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken == "" {
		return "", fmt.Errorf("%w: token response has no id_token", ErrSignIn)
	}

	claims, err := s.provider.VerifyIDToken(ctx, rawIDToken, s.settings.ClientID, nonce, s.now)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSignIn, err)
	}

	user := &User{Subject: claims.Subject, IDToken: rawIDToken}
	if claims.ExpiresAt != nil {
		user.ExpiresAt = claims.ExpiresAt.Time
	}
	if err := s.saveUser(w, r, user); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSignIn, err)
	}

	s.logger.Info("sign-in completed", "sub", user.Subject, "silent", silent, "expires_at", user.ExpiresAt)
	return returnPath, nil
}

func (s *Service) saveUser(w http.ResponseWriter, r *http.Request, user *User) error {
	// A decode error only means a stale cookie; Get still returns a usable session.
	sess, _ := s.store.Get(r, userSessionName)
	sess.Values[keySubject] = user.Subject
	sess.Values[keyExpiresAt] = user.ExpiresAt.Unix()
	sess.Values[keyIDToken] = user.IDToken
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SafeReturnPath returns p if it is a local absolute path, "" otherwise.
// The result is rebuilt from the parsed path and query.
func SafeReturnPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return ""
	}
	if strings.ContainsFunc(p, func(r rune) bool { return r == '\\' || unicode.IsControl(r) }) {
		return ""
	}

	u, err := url.Parse(p)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return ""
	}

	local := u.EscapedPath()
	if !strings.HasPrefix(local, "/") || strings.HasPrefix(local, "//") {
		return ""
	}
	if u.RawQuery != "" {
		local += "?" + u.RawQuery
	}
	return local
}
