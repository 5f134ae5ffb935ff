// Package pubcontent is the content layer of a static blog. It discovers post
// files, validates their front matter against the post schema and keeps the
// last valid collection in SQLite, from where it feeds the RSS and sitemap
// integrations and a read-only content API for local inspection.
//
// Rendering, templating and routing stay with the site framework; pubcontent
// hands it validated metadata and untouched markdown bodies.
package pubcontent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eringen/pubcontent/content"
)

// App wires together the loader, store, cache, and content API.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Logger zerolog.Logger

	reloadMu sync.Mutex
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Logger: zerolog.Nop(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Open validates the configuration and opens the store and cache.
func (a *App) Open() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}
	if a.Store == nil {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("pubcontent: init store: %w", err)
		}
		a.Store = store
	}
	if a.Cache == nil {
		a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	}
	return nil
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// NewLoader returns a loader for the configured content directory.
func (a *App) NewLoader(opts ...content.LoaderOption) (*content.Loader, error) {
	base := []content.LoaderOption{content.WithLogger(a.Logger)}
	if a.Config.CollectAll {
		base = append(base, content.WithCollectAll())
	}
	return content.NewLoader(a.Config.ContentBase, a.Config.Pattern, append(base, opts...)...)
}

// Check validates every post file without touching the store.
func (a *App) Check(ctx context.Context) (*content.Collection, error) {
	loader, err := a.NewLoader()
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx)
}

// Reload validates the content directory and, on success, replaces the
// stored collection and invalidates the cache. Files whose digest matches
// the stored entry are not validated again. On failure the previous
// collection stays in place.
func (a *App) Reload(ctx context.Context) (*content.Collection, error) {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	start := time.Now()
	loader, err := a.NewLoader(content.WithEntryCache(a.Store))
	if err != nil {
		return nil, err
	}
	coll, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.Store.ReplaceCollection(ctx, coll); err != nil {
		return nil, fmt.Errorf("pubcontent: store collection: %w", err)
	}
	a.Cache.Invalidate()

	a.Logger.Info().
		Int("entries", coll.Len()).
		Dur("took", time.Since(start)).
		Msg("Content collection synced")
	return coll, nil
}

// Export writes the enabled integrations (rss.xml, sitemap.xml) for coll to
// the output directory and returns the written paths.
func (a *App) Export(coll *content.Collection) ([]string, error) {
	posts := make([]Post, 0, coll.Len())
	for _, e := range coll.Published() {
		posts = append(posts, PostFromEntry(e))
	}

	if err := os.MkdirAll(a.Config.OutputDir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	write := func(name string, fn func(f *os.File) error) error {
		p := filepath.Join(a.Config.OutputDir, name)
		f, err := os.Create(p)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", p, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		written = append(written, p)
		return nil
	}

	if a.Config.HasIntegration("rss") {
		if err := write("rss.xml", func(f *os.File) error { return WriteFeed(f, a.Config, posts) }); err != nil {
			return written, err
		}
	}
	if a.Config.HasIntegration("sitemap") {
		if err := write("sitemap.xml", func(f *os.File) error { return WriteSitemap(f, a.Config, posts) }); err != nil {
			return written, err
		}
	}
	return written, nil
}

// Serve loads the collection, starts the content API and watches the content
// directory until ctx is cancelled. The initial load must succeed.
func (a *App) Serve(ctx context.Context) error {
	if err := a.Open(); err != nil {
		return err
	}
	if _, err := a.Reload(ctx); err != nil {
		return fmt.Errorf("pubcontent: initial load: %w", err)
	}

	a.setupMiddleware()
	a.setupRoutes()

	watcher, err := NewWatcher(a)
	if err != nil {
		return err
	}
	defer watcher.Close()
	go watcher.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.Config.Addr).Msg("Serving content API")
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}
