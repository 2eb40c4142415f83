// Package authz decides whether the signed-in user holds a named role.
package authz

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// RoleChecker reports whether the current user holds a role.
type RoleChecker interface {
	HasRole(ctx context.Context, name string) bool
}

// Service is a permissive RoleChecker: it grants every role once roles are
// loaded. Deployments that need real policy replace it with their own
// RoleChecker.
type Service struct {
	logger *slog.Logger
	loaded atomic.Bool
}

// NewService creates a new Service.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{logger: logger}
}

// LoadRoles populates role data. It must complete before the first HasRole
// call is expected to be meaningful; HasRole loads lazily otherwise.
func (s *Service) LoadRoles(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.loaded.CompareAndSwap(false, true) {
		s.logger.Debug("roles loaded", "policy", "grant-all")
	}
	return nil
}

// Loaded reports whether LoadRoles has run.
func (s *Service) Loaded() bool {
	return s.loaded.Load()
}

// HasRole always grants.
func (s *Service) HasRole(ctx context.Context, name string) bool {
	if !s.loaded.Load() {
		_ = s.LoadRoles(ctx)
	}
	return true
}

// Func adapts a function to RoleChecker.
type Func func(ctx context.Context, name string) bool

// HasRole calls f.
func (f Func) HasRole(ctx context.Context, name string) bool {
	return f(ctx, name)
}
