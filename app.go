// Package blog serves the PagRico blog: home, listing and post pages built
// from Sanity content, plus feeds, the embeddable widget and a newsletter
// signup. Pages are rendered by package views; content comes through the
// typed query catalog in package content.
package blog

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pagrico/blog/content"
	"github.com/pagrico/blog/imageurl"
	"github.com/pagrico/blog/internal/logger"
	"github.com/pagrico/blog/sanity"
	"github.com/pagrico/blog/views"
	"github.com/pagrico/blog/widget"
)

// App wires together the content client, views, widget, subscriber store,
// middleware and handlers.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Sanity  *sanity.Client
	Catalog *content.Catalog
	Views   *views.Views
	Widget  *widget.Widget
	Store   *Store

	newsletterLimiter *RateLimiter
	revalidateLimiter *RateLimiter
	customRoutes      []func(*App)
	staticDir         string
	httpClient        *http.Client
	ready             bool

	ogOnce  sync.Once
	ogImage []byte
	ogErr   error
}

// New builds an App. Nothing is opened or fetched until Setup or Start.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
	}
	for _, opt := range opts {
		opt(a)
	}

	var clientOpts []sanity.Option
	if a.httpClient != nil {
		clientOpts = append(clientOpts, sanity.WithHTTPClient(a.httpClient))
	}
	client, err := sanity.New(sanity.Config{
		ProjectID:  cfg.Sanity.ProjectID,
		Dataset:    cfg.Sanity.Dataset,
		APIVersion: cfg.Sanity.APIVersion,
		UseCDN:     cfg.Sanity.UseCDN,
		Token:      cfg.Sanity.Token,
		CacheTTL:   cfg.CacheTTL,
		BaseURL:    cfg.Sanity.BaseURL,
	}, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("blog: init sanity client: %w", err)
	}
	a.Sanity = client
	a.Catalog = content.NewCatalog(client)
	a.Views = views.New(cfg.viewSite(), imageurl.New(cfg.Sanity.ProjectID, cfg.Sanity.Dataset))
	a.Widget = widget.New(widget.Config{
		ProjectID:  cfg.Sanity.ProjectID,
		Dataset:    cfg.Sanity.Dataset,
		APIVersion: cfg.Sanity.APIVersion,
		UseCDN:     cfg.Sanity.UseCDN,
		SiteURL:    cfg.URL,
		BaseURL:    cfg.Sanity.BaseURL,

		FallbackImage: cfg.FallbackImage,
	}, a.httpClient)
	return a, nil
}

// Setup opens the subscriber store and registers middleware and routes.
// It is idempotent.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("blog: SessionSecret is required")
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("blog: init store: %w", err)
	}
	a.Store = store

	a.newsletterLimiter = NewRateLimiter(5, time.Minute)
	a.revalidateLimiter = NewRateLimiter(30, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start runs Setup and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	logger.InfoWithFields("server starting", logger.Fields{
		"addr":    a.Config.Addr,
		"project": a.Config.Sanity.ProjectID,
		"dataset": a.Config.Sanity.Dataset,
	})
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/widget.js", echo.WrapHandler(embeddedHandler))

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/og-blog-default.jpg", a.handleFallbackImage)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleList)
	e.GET("/blog/:slug/", a.handlePost)

	e.GET("/embed/section", a.handleEmbedSection)
	e.GET("/embed/posts", a.handleEmbedPosts)

	e.POST("/newsletter/", a.handleNewsletter)
	e.GET("/newsletter/unsubscribe/:token/", a.handleUnsubscribe)
	e.POST("/api/revalidate", a.handleRevalidate)
}

// Close stops the limiters and releases the store. Call it when the app
// shuts down.
func (a *App) Close() error {
	for _, l := range []*RateLimiter{a.newsletterLimiter, a.revalidateLimiter} {
		if l != nil {
			l.Stop()
		}
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
