// Package ui provides the web server of the application shell.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/appshell/internal/auth"
	"github.com/leapstack-labs/appshell/internal/authz"
	"github.com/leapstack-labs/appshell/internal/config"
	"github.com/leapstack-labs/appshell/internal/metrics"
	"github.com/leapstack-labs/appshell/internal/ui/notifier"
	"github.com/leapstack-labs/appshell/internal/ui/resources"
	"github.com/leapstack-labs/appshell/internal/ui/router"
	"golang.org/x/sync/errgroup"
)

// Server is the main UI server.
type Server struct {
	app          config.AppConfig
	port         int
	watch        bool
	logger       *slog.Logger
	notifier     *notifier.Notifier
	sessionStore *sessions.CookieStore
	provider     *auth.Provider
	auth         *auth.Service
	roles        *authz.Service
}

// Config holds configuration for the UI server.
type Config struct {
	App           config.AppConfig
	Origin        string
	Port          int
	Watch         bool
	SessionSecret string
	SessionMaxAge time.Duration
	SecureCookies bool
	HTTPTimeout   time.Duration
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sessionStore := auth.NewCookieStore(cfg.SessionSecret, cfg.SessionMaxAge, cfg.SecureCookies)
	settings := cfg.App.ClientSettings(cfg.Origin)
	provider := auth.NewProvider(settings.Authority, &http.Client{Timeout: cfg.HTTPTimeout})

	return &Server{
		app:          cfg.App,
		port:         cfg.Port,
		watch:        cfg.Watch,
		logger:       logger,
		notifier:     notifier.New(),
		sessionStore: sessionStore,
		provider:     provider,
		auth: auth.NewService(auth.Options{
			Settings: settings,
			Store:    sessionStore,
			Provider: provider,
			Logger:   logger.With("component", "auth"),
		}),
		roles: authz.NewService(logger.With("component", "authz")),
	}
}

// Handler builds the HTTP handler with all middleware and routes.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		requestLogger(s.logger),
		middleware.Recoverer,
		metrics.InstrumentHandler,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, router.Deps{
		Config:   &s.app,
		Auth:     s.auth,
		Roles:    s.roles,
		Notifier: s.notifier,
		Logger:   s.logger,
		IsDev:    s.IsDev(),
	}); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}

	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.roles.LoadRoles(ctx); err != nil {
		return fmt.Errorf("load roles: %w", err)
	}
	if _, err := s.provider.Discover(ctx); err != nil {
		// Sign-in retries discovery on demand.
		s.logger.Warn("identity provider not reachable yet", "authority", s.app.IdentityServer.URL, "error", err)
	}

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port), "dev", s.IsDev())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start asset watcher if enabled
	if s.watch && resources.StaticDir() != "" {
		eg.Go(func() error {
			return s.watchFiles(egctx, resources.StaticDir())
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev returns true if running in development mode.
func (s *Server) IsDev() bool {
	return resources.IsDev
}

// Notifier returns the server's notifier for reload events.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchFiles watches the static asset directory and asks browsers to reload
// when an asset changes.
func (s *Server) watchFiles(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, dir); err != nil {
		s.logger.Error("failed to watch static directory", "error", err)
		// Don't fail - continue without watching
	}

	// Debounce timer
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			switch filepath.Ext(event.Name) {
			case ".css", ".js", ".svg", ".png":
			default:
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("asset changed, reloading browsers", "file", event.Name)
				s.notifier.Broadcast(notifier.Event{Kind: notifier.AssetsChanged, Path: event.Name})
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// requestLogger tags each request with an id and logs it once served.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(middleware.RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(middleware.RequestIDHeader, id)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, id)))

			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", id,
			)
		})
	}
}
