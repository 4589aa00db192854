// Package server provides the leapreq web server: a REST API over the
// document tree plus a small HTML UI, with optional live reload while
// item files are being edited.
package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapreq/internal/tree"
)

// Server serves one project tree over HTTP.
type Server struct {
	host     string
	port     int
	watch    bool
	treeCfg  tree.Config
	sessions *sessions.CookieStore
	logger   *slog.Logger
	reload   *notifier

	mu   sync.RWMutex
	tree *tree.Tree

	numMu   sync.Mutex
	numbers map[string]int
}

// Config holds configuration for the server.
type Config struct {
	// Tree is the initial corpus snapshot.
	Tree *tree.Tree

	// TreeConfig rebuilds the snapshot when watch mode sees a change.
	TreeConfig tree.Config

	Host string
	Port int

	// Watch rebuilds the tree on item file changes and pushes a reload
	// to connected browsers.
	Watch bool

	// SessionSecret signs the browser session cookie.
	SessionSecret string

	Logger *slog.Logger
}

// New creates a server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		host:     cfg.Host,
		port:     cfg.Port,
		watch:    cfg.Watch,
		treeCfg:  cfg.TreeConfig,
		sessions: sessionStore,
		logger:   logger,
		reload:   newNotifier(),
		tree:     cfg.Tree,
		numbers:  make(map[string]int),
	}
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	s.logger.Info("starting server", "addr", fmt.Sprintf("http://%s", addr))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Handler builds the HTTP handler carrying all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
		middleware.StripSlashes,
		allowAnyOrigin,
	)
	s.routes(r)
	return r
}

// allowAnyOrigin lets tooling served from other local ports read the API.
func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

// snapshot returns the tree currently served.
func (s *Server) snapshot() *tree.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

func (s *Server) setTree(t *tree.Tree) {
	s.mu.Lock()
	s.tree = t
	s.mu.Unlock()
}

// watchFiles watches the project tree for item file changes.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, s.snapshot().Root()); err != nil {
		s.logger.Error("failed to watch project tree", "error", err)
		// Keep serving the initial snapshot without watching.
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			ext := filepath.Ext(event.Name)
			if ext != ".yml" && ext != ".yaml" {
				continue
			}

			// Debounce
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.rebuild(ctx, event.Name)
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// rebuild loads a fresh snapshot and tells connected browsers to reload.
func (s *Server) rebuild(ctx context.Context, changed string) {
	s.logger.Debug("item files changed, rebuilding", "file", changed)

	t, err := tree.Build(ctx, s.treeCfg)
	if err != nil {
		s.logger.Error("rebuild failed", "error", err)
		return
	}
	s.setTree(t)
	s.reload.broadcast()
}

// watchDirRecursive adds a directory and all non-hidden subdirectories
// to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			return fs.SkipDir
		}
		return watcher.Add(path)
	})
}
