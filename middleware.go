package vizitka

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	sessionName  = "card_session"
	workspaceKey = "workspace"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := a.log.Info()
			if v.Status >= 500 || v.Error != nil {
				ev = a.log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; connect-src 'self'",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:     middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return c.Request().Method != http.MethodGet ||
				strings.HasPrefix(path, "/public/") ||
				path == "/healthz"
		},
	}))

	e.Use(cacheControlMiddleware)
}

// cacheControlMiddleware lets browsers keep the static assets for a day and
// keeps every card response out of shared caches.
func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if strings.HasPrefix(c.Request().URL.Path, "/public/") {
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		} else {
			c.Response().Header().Set("Cache-Control", "no-store")
		}
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore(a.sessionSecret)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(a.Config.WorkspaceTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// errNoWorkspace answers a card change from a session that never loaded
// the designer or whose workspace was evicted.
var errNoWorkspace = echo.NewHTTPError(http.StatusBadRequest, "Relácia vypršala, obnovte stránku")

func (a *App) loadSession(c echo.Context) (*sessions.Session, error) {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		// A cookie signed with an old secret decodes to an error but still
		// yields a fresh session we can use.
		if sess == nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		a.log.Debug().Err(err).Msg("discarding unreadable session")
	}
	return sess, nil
}

// workspace returns the workspace bound to the request's session. It never
// opens one, so card changes need a session started by openWorkspace.
func (a *App) workspace(c echo.Context) (*Workspace, error) {
	sess, err := a.loadSession(c)
	if err != nil {
		return nil, err
	}
	if id, ok := sess.Values[workspaceKey].(string); ok {
		if ws, found := a.Workspaces.Get(id); found {
			return ws, nil
		}
	}
	return nil, errNoWorkspace
}

// openWorkspace returns the session's workspace, opening a new one when the
// session has none or its workspace was evicted.
func (a *App) openWorkspace(c echo.Context) (*Workspace, error) {
	sess, err := a.loadSession(c)
	if err != nil {
		return nil, err
	}
	if id, ok := sess.Values[workspaceKey].(string); ok {
		if ws, found := a.Workspaces.Get(id); found {
			return ws, nil
		}
	}

	ws, err := a.Workspaces.Create()
	if errors.Is(err, ErrTooManyWorkspaces) {
		a.log.Warn().Int("open", a.Workspaces.Len()).Msg("workspace limit reached")
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "Server je preťažený, skúste to neskôr").SetInternal(err)
	}
	if err != nil {
		return nil, err
	}
	sess.Values[workspaceKey] = ws.ID
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	a.log.Debug().Str("workspace", ws.ID).Msg("workspace opened")
	return ws, nil
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
