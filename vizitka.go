// Package vizitka serves a business card designer built with Go, Echo and
// templ. Each browser session edits one card in memory, sees the front and
// back rendered live, and can ask Gemini for a short slogan for the front.
package vizitka

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/eringen/vizitka/slogan"
	"github.com/eringen/vizitka/views"
)

// ViewFuncs holds the templ components the server renders. Callers may
// replace any of them with WithViews.
type ViewFuncs struct {
	Page        func(p views.PageData) templ.Component
	Refresh     func(p views.PageData) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App is the central vizitka application. It wires together the session
// workspaces, the slogan provider, handlers, middleware and views.
type App struct {
	Config     Config
	Echo       *echo.Echo
	Workspaces *Workspaces
	Views      ViewFuncs

	log           zerolog.Logger
	generator     slogan.Generator
	sloganLimiter *RateLimiter
	sessionSecret []byte
	customRoutes  []func(*App)
	initialized   bool
}

// New creates a vizitka App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config: cfg,
		Echo:   e,
		Views:  DefaultViews(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init prepares workspaces, the slogan provider, middleware and routes
// without starting the listener. It is called by Start and may be called
// directly to obtain a ready http.Handler in a.Echo.
func (a *App) Init(ctx context.Context) error {
	if a.initialized {
		return nil
	}

	secret := []byte(a.Config.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("vizitka: generate session secret: %w", err)
		}
		a.log.Warn().Msg("SESSION_SECRET not set, sessions will not survive a restart")
	}
	a.sessionSecret = secret

	if a.generator == nil {
		if a.Config.APIKey == "" {
			a.generator = slogan.Disabled
			a.log.Info().Msg("no API key configured, slogan generation disabled")
		} else {
			g, err := slogan.NewGenAI(ctx, a.Config.APIKey, a.Config.Model)
			if err != nil {
				return fmt.Errorf("vizitka: init slogan generator: %w", err)
			}
			a.generator = g
		}
	}

	a.Workspaces = NewWorkspaces(a.Config.WorkspaceTTL, a.Config.MaxWorkspaces, a.Config.SloganPolicy)
	a.sloganLimiter = NewRateLimiter(a.Config.SloganLimit, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.initialized = true
	return nil
}

// Start initializes the app and serves until ctx is cancelled or the
// listener fails.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.Config.Addr).Bool("slogans", a.SloganEnabled()).Msg("listening")
		errCh <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.log.Info().Msg("shutting down")
		return a.Echo.Shutdown(shutdownCtx)
	}
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET(views.StylesheetPath, echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.GET("/", a.handleIndex)
	e.GET("/healthz", handleHealth)
	e.GET("/preview/", a.handlePreview)
	e.POST(views.LogoPath, a.handleLogoUpload,
		middleware.BodyLimit(fmt.Sprintf("%dB", a.Config.MaxLogoBytes+uploadSlack)))
	e.POST("/card/:field/", a.handleEdit)
	e.POST(views.SloganPath, a.handleSlogan)
}

// SloganEnabled reports whether a real slogan provider is configured.
func (a *App) SloganEnabled() bool {
	return a.generator != nil && a.generator != slogan.Disabled
}

// Close stops background work. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Workspaces != nil {
		a.Workspaces.Close()
	}
	if a.sloganLimiter != nil {
		a.sloganLimiter.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
