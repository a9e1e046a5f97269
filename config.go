package vizitka

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/vizitka/slogan"
	"github.com/eringen/vizitka/views"
)

// Config holds all configuration for a vizitka server.
type Config struct {
	Title string // Page title (default "Vizitka Majster")
	Addr  string // Listen address (default ":3000")

	APIKey        string        // Gemini API key; empty disables slogans
	Model         string        // Gemini model (default slogan.DefaultModel)
	SloganTimeout time.Duration // Upper bound for one slogan request (default none)
	SloganPolicy  slogan.Policy // Which overlapping response wins (default LastResolved)
	SloganLimit   int           // Slogan requests per IP per minute (default 10, negative disables)

	SessionSecret string // Cookie signing secret; random per process when empty
	CookieSecure  bool   // Set true for HTTPS

	WorkspaceTTL  time.Duration // Idle time before a session's card is dropped (default 12h)
	MaxWorkspaces int           // Live workspace cap (default 10000)
	MaxLogoBytes  int64         // Upload size cap (default 10MB)
	MaxLogoPixels int           // Decoded size cap for raster logos (default 40MP)
	LogoMaxWidth  int           // Wider raster logos are scaled down (default 600)
}

func (c *Config) setDefaults() {
	if c.Title == "" {
		c.Title = "Vizitka Majster"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Model == "" {
		c.Model = slogan.DefaultModel
	}
	if c.SloganLimit == 0 {
		c.SloganLimit = 10
	}
	if c.WorkspaceTTL == 0 {
		c.WorkspaceTTL = 12 * time.Hour
	}
	if c.MaxWorkspaces == 0 {
		c.MaxWorkspaces = 10000
	}
	if c.MaxLogoBytes == 0 {
		c.MaxLogoBytes = 10 << 20
	}
	if c.MaxLogoPixels == 0 {
		c.MaxLogoPixels = 40_000_000
	}
	if c.LogoMaxWidth == 0 {
		c.LogoMaxWidth = 600
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger sets the logger used by the server and its middleware.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.log = l
	}
}

// WithGenerator replaces the slogan provider. Mainly useful in tests and for
// pointing the server at another backend.
func WithGenerator(g slogan.Generator) Option {
	return func(a *App) {
		a.generator = g
	}
}

// WithViews overrides the templ components used to render pages.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// DefaultViews returns the built-in page components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Page:        views.Page,
		Refresh:     views.Refresh,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}
