package vizitka

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/vizitka/card"
	"github.com/eringen/vizitka/views"
)

func (a *App) pageData(c echo.Context, ws *Workspace) views.PageData {
	text, pending := ws.Slogan.Snapshot()
	return views.PageData{
		Title:         a.Config.Title,
		Card:          ws.Card.Current(),
		Slogan:        text,
		Pending:       pending,
		SloganEnabled: a.SloganEnabled(),
		CSRFToken:     CsrfToken(c),
	}
}

// renderRefresh answers an edit with the current preview and the editor
// fragments that depend on the card.
func (a *App) renderRefresh(c echo.Context, ws *Workspace) error {
	return Render(c, a.Views.Refresh(a.pageData(c, ws)))
}

func (a *App) handleIndex(c echo.Context) error {
	ws, err := a.openWorkspace(c)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Page(a.pageData(c, ws)))
}

func (a *App) handlePreview(c echo.Context) error {
	ws, err := a.openWorkspace(c)
	if err != nil {
		return err
	}
	return a.renderRefresh(c, ws)
}

func (a *App) handleEdit(c echo.Context) error {
	field, err := card.ParseField(c.Param("field"))
	if err != nil {
		return c.String(http.StatusBadRequest, "Neznáme pole")
	}
	ws, err := a.workspace(c)
	if err != nil {
		return err
	}

	value := c.FormValue("value")
	if _, err := ws.Card.Update(func(d card.Data) (card.Data, error) {
		return card.Edit(d, field, value)
	}); err != nil {
		a.log.Debug().Err(err).Str("workspace", ws.ID).Str("field", field.String()).Msg("edit rejected")
		return c.String(http.StatusBadRequest, "Neplatná hodnota")
	}
	return a.renderRefresh(c, ws)
}

// handleSlogan asks the provider for a slogan built from the card's current
// company and title. The call is detached from the request so a closed tab
// still lets the response land in the workspace.
func (a *App) handleSlogan(c echo.Context) error {
	if !a.SloganEnabled() {
		return echo.ErrNotFound
	}
	if !a.sloganLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Príliš veľa požiadaviek, skúste to o chvíľu")
	}
	ws, err := a.workspace(c)
	if err != nil {
		return err
	}

	d := ws.Card.Current()
	ctx := context.WithoutCancel(c.Request().Context())
	if a.Config.SloganTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.SloganTimeout)
		defer cancel()
	}

	applied, err := ws.Slogan.Generate(ctx, a.generator, d.Company, d.Title)
	switch {
	case err != nil:
		a.log.Warn().Err(err).Str("workspace", ws.ID).Msg("slogan generation failed")
	case !applied:
		a.log.Debug().Str("workspace", ws.ID).Msg("stale slogan response ignored")
	default:
		a.log.Debug().Str("workspace", ws.ID).Msg("slogan updated")
	}
	return a.renderRefresh(c, ws)
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
