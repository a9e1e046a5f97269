package vizitka

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/vizitka/slogan"
	"github.com/eringen/vizitka/views"
)

// browser keeps the cookies a real client would send back.
type browser struct {
	t       *testing.T
	app     *App
	cookies map[string]*http.Cookie
}

func newTestApp(t *testing.T, cfg Config, gen slogan.Generator) *App {
	t.Helper()
	cfg.SessionSecret = "test-secret-test-secret-test-sec"
	app := New(cfg, WithGenerator(gen))
	require.NoError(t, app.Init(context.Background()))
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func newBrowser(t *testing.T, app *App) *browser {
	return &browser{t: t, app: app, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.app.Echo.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) csrf() string {
	if c, ok := b.cookies["_csrf"]; ok {
		return c.Value
	}
	return ""
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-CSRF-Token", b.csrf())
	return b.do(req)
}

func (b *browser) edit(field, value string) *httptest.ResponseRecorder {
	return b.postForm("/card/"+field+"/", url.Values{"value": {value}})
}

func (b *browser) upload(filename string, content []byte) *httptest.ResponseRecorder {
	b.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if content != nil {
		part, err := w.CreateFormFile("logo", filename)
		require.NoError(b.t, err)
		_, err = part.Write(content)
		require.NoError(b.t, err)
	}
	require.NoError(b.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/card/logo/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-CSRF-Token", b.csrf())
	return b.do(req)
}

type recordingGenerator struct {
	mu     sync.Mutex
	calls  [][2]string
	answer string
	err    error
}

func (g *recordingGenerator) Generate(_ context.Context, company, title string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, [2]string{company, title})
	return g.answer, g.err
}

func TestIndexOpensWorkspace(t *testing.T) {
	app := newTestApp(t, Config{}, slogan.Disabled)
	b := newBrowser(t, app)

	rec := b.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="preview"`)
	assert.Contains(t, body, "PVA Solutions s.r.o.")
	assert.Contains(t, body, b.csrf())
	assert.Contains(t, b.cookies, sessionName)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, 1, app.Workspaces.Len())

	b.get("/")
	assert.Equal(t, 1, app.Workspaces.Len(), "the session cookie reuses the workspace")
}

func TestEditUpdatesPreview(t *testing.T) {
	app := newTestApp(t, Config{}, slogan.Disabled)
	b := newBrowser(t, app)
	b.get("/")

	rec := b.edit("company", "Acme & Co")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme &amp; Co")
	assert.NotContains(t, rec.Body.String(), "<html")

	rec = b.get("/preview/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme &amp; Co")
	assert.NotContains(t, rec.Body.String(), "PVA Solutions")
}

func TestEditRequiresCSRFToken(t *testing.T) {
	app := newTestApp(t, Config{}, slogan.Disabled)
	b := newBrowser(t, app)
	b.get("/")

	req := httptest.NewRequest(http.MethodPost, "/card/name/", strings.NewReader("value=Mallory"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := b.do(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = b.get("/preview/")
	assert.NotContains(t, rec.Body.String(), "Mallory")
}

func TestEditRejectsUnknownFieldAndBadValues(t *testing.T) {
	app := newTestApp(t, Config{}, slogan.Disabled)
	b := newBrowser(t, app)
	b.get("/")

	assert.Equal(t, http.StatusBadRequest, b.edit("nickname", "x").Code)
	assert.Equal(t, http.StatusBadRequest, b.edit("template", "gothic").Code)
	assert.Equal(t, http.StatusBadRequest, b.edit("primaryColor", "red;}").Code)

	rec := b.get("/preview/")
	assert.Contains(t, rec.Body.String(), `data-template="modern"`)
	assert.Contains(t, rec.Body.String(), "#e63f14")

	rec = b.edit("template", "sidebar")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-template="sidebar"`)
}

func TestSessionsAreIsolated(t *testing.T) {
	app := newTestApp(t, Config{}, slogan.Disabled)
	alice, bob := newBrowser(t, app), newBrowser(t, app)
	alice.get("/")
	bob.get("/")

	require.Equal(t, http.StatusOK, alice.edit("name", "Alica Krásna").Code)

	assert.Contains(t, alice.get("/preview/").Body.String(), "Alica Krásna")
	assert.NotContains(t, bob.get("/preview/").Body.String(), "Alica Krásna")
	assert.Equal(t, 2, app.Workspaces.Len())
}

func TestLogoUpload(t *testing.T) {
	app := newTestApp(t, Config{}, slogan.Disabled)
	b := newBrowser(t, app)
	b.get("/")

	rec := b.upload("logo.png", testPNG(t, 32, 32))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `src="data:image/png;base64,`)
	assert.Contains(t, rec.Body.String(), `id="logo-thumb"`)
}

func TestLogoUploadWithoutFileIsNoop(t *testing.T) {
	app := newTestApp(t, Config{}, slogan.Disabled)
	b := newBrowser(t, app)
	b.get("/")

	rec := b.upload("", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://i.ibb.co/Lz0D6V6/pva-logo.png")
}

func TestLogoUploadRejectsNonImage(t *testing.T) {
	app := newTestApp(t, Config{}, slogan.Disabled)
	b := newBrowser(t, app)
	b.get("/")

	rec := b.upload("notes.txt", []byte("not an image at all"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, b.get("/preview/").Body.String(), "https://i.ibb.co/Lz0D6V6/pva-logo.png")
}

func TestLogoUploadTooLarge(t *testing.T) {
	app := newTestApp(t, Config{MaxLogoBytes: 64}, slogan.Disabled)
	b := newBrowser(t, app)
	b.get("/")

	rec := b.upload("big.png", bytes.Repeat([]byte{0x89}, 1024))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestLogoUploadRejectsHugeDimensions(t *testing.T) {
	app := newTestApp(t, Config{}, slogan.Disabled)
	b := newBrowser(t, app)
	b.get("/")

	rec := b.upload("bomb.png", hugePNGHeader(8000, 8000))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, b.get("/preview/").Body.String(), "https://i.ibb.co/Lz0D6V6/pva-logo.png")
}

func TestLogoUploadBodyLimit(t *testing.T) {
	app := newTestApp(t, Config{MaxLogoBytes: 1024}, slogan.Disabled)
	b := newBrowser(t, app)
	b.get("/")

	rec := b.upload("big.png", bytes.Repeat([]byte{0x89}, 200<<10))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCardChangesNeedOpenWorkspace(t *testing.T) {
	app := newTestApp(t, Config{}, &recordingGenerator{answer: "Motto"})
	b := newBrowser(t, app)

	// healthz hands out a CSRF cookie but never opens a workspace.
	require.Equal(t, http.StatusOK, b.get("/healthz").Code)
	require.NotEmpty(t, b.csrf())

	assert.Equal(t, http.StatusBadRequest, b.edit("name", "Mallory").Code)
	assert.Equal(t, http.StatusBadRequest, b.upload("logo.png", testPNG(t, 8, 8)).Code)
	assert.Equal(t, http.StatusBadRequest, b.postForm("/slogan/", nil).Code)
	assert.Equal(t, 0, app.Workspaces.Len())

	b.get("/")
	assert.Equal(t, http.StatusOK, b.edit("name", "Mallory").Code)
	assert.Equal(t, 1, app.Workspaces.Len())
}

func TestWorkspaceLimit(t *testing.T) {
	app := newTestApp(t, Config{MaxWorkspaces: 1}, slogan.Disabled)
	alice, bob := newBrowser(t, app), newBrowser(t, app)

	require.Equal(t, http.StatusOK, alice.get("/").Code)
	assert.Equal(t, http.StatusServiceUnavailable, bob.get("/").Code)
	assert.Equal(t, 1, app.Workspaces.Len())

	assert.Equal(t, http.StatusOK, alice.get("/preview/").Code, "existing sessions keep working")
}

func TestSloganUsesCurrentCard(t *testing.T) {
	gen := &recordingGenerator{answer: "  Rastieme spolu.\n"}
	app := newTestApp(t, Config{}, gen)
	b := newBrowser(t, app)

	page := b.get("/").Body.String()
	assert.Contains(t, page, `id="slogan-button"`)

	b.edit("company", "Acme")
	b.edit("title", "Director")

	rec := b.postForm("/slogan/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<p class="card-slogan"`)
	assert.Contains(t, rec.Body.String(), ">Rastieme spolu.</p>")
	assert.Contains(t, rec.Body.String(), `data-pending="false"`)

	require.Len(t, gen.calls, 1)
	assert.Equal(t, [2]string{"Acme", "Director"}, gen.calls[0])

	// Editing the card later keeps the slogan until a new one is requested.
	rec = b.edit("company", "Beta")
	assert.Contains(t, rec.Body.String(), "Rastieme spolu.")
}

func TestSloganFailureKeepsPrevious(t *testing.T) {
	gen := &recordingGenerator{answer: "Prvé motto"}
	app := newTestApp(t, Config{}, gen)
	b := newBrowser(t, app)
	b.get("/")

	require.Equal(t, http.StatusOK, b.postForm("/slogan/", nil).Code)

	gen.mu.Lock()
	gen.err = errors.New("quota exceeded")
	gen.mu.Unlock()

	rec := b.postForm("/slogan/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Prvé motto")
	assert.Contains(t, rec.Body.String(), `data-pending="false"`)
}

func TestSloganDisabledWithoutProvider(t *testing.T) {
	app := newTestApp(t, Config{}, slogan.Disabled)
	b := newBrowser(t, app)

	page := b.get("/").Body.String()
	assert.NotContains(t, page, `id="slogan-button"`)

	rec := b.postForm("/slogan/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSloganRateLimited(t *testing.T) {
	gen := &recordingGenerator{answer: "Motto"}
	app := newTestApp(t, Config{SloganLimit: 1}, gen)
	b := newBrowser(t, app)
	b.get("/")

	assert.Equal(t, http.StatusOK, b.postForm("/slogan/", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, b.postForm("/slogan/", nil).Code)
	assert.Len(t, gen.calls, 1)
}

func TestHealthAndNotFound(t *testing.T) {
	app := newTestApp(t, Config{}, slogan.Disabled)
	b := newBrowser(t, app)

	rec := b.get("/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = b.get("/missing/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Stránka neexistuje")
}

func TestSloganEnabled(t *testing.T) {
	assert.False(t, newTestApp(t, Config{}, slogan.Disabled).SloganEnabled())
	assert.True(t, newTestApp(t, Config{}, &recordingGenerator{}).SloganEnabled())
}

func TestStylesheetServedFromEmbeddedAssets(t *testing.T) {
	app := newTestApp(t, Config{}, slogan.Disabled)
	b := newBrowser(t, app)

	css, err := EmbeddedAssets.ReadFile("embedded/vizitka.css")
	require.NoError(t, err)
	assert.Contains(t, string(css), "@page{size:90mm 50mm")

	rec := b.get(views.StylesheetPath)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
	assert.Equal(t, string(css), rec.Body.String())

	assert.Equal(t, http.StatusNotFound, b.get("/public/missing.css").Code)
}
