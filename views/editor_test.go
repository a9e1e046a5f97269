package views

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eringen/vizitka/card"
)

var optionValue = regexp.MustCompile(`<option value="([^"]*)"`)

func TestEditorTemplateSelectOffersOnlyKnownTemplates(t *testing.T) {
	out := renderString(t, Editor(card.Default()))
	var got []string
	for _, m := range optionValue.FindAllStringSubmatch(out, -1) {
		got = append(got, m[1])
	}
	assert.Equal(t, []string{"modern", "minimalist", "classic", "sidebar"}, got)
	assert.Contains(t, out, `<option value="modern" selected>`)
}

func TestEditorBindsEveryField(t *testing.T) {
	out := renderString(t, Editor(card.Default()))
	for _, f := range card.Fields {
		assert.Contains(t, out, `hx-post="`+FieldPath(f)+`"`, f.String())
	}
	assert.Contains(t, out, `hx-post="`+LogoPath+`"`)
	assert.Contains(t, out, `accept="image/*"`)
}

func TestEditorShowsCurrentValues(t *testing.T) {
	d := card.Default()
	d.Company = `Tom & Jerry "s.r.o."`
	out := renderString(t, Editor(d))
	assert.Contains(t, out, `value="Tom &amp; Jerry &#34;s.r.o.&#34;"`)
	assert.Contains(t, out, ">#E63F14<")
	assert.Contains(t, out, `value="#70737a"`)
}

func TestRefreshCarriesOutOfBandUpdates(t *testing.T) {
	p := PageData{Card: card.Default(), Slogan: "Motto", SloganEnabled: true}
	out := renderString(t, Refresh(p))
	assert.True(t, strings.HasPrefix(out, `<div id="preview"`))
	assert.Contains(t, out, `<style id="accent" hx-swap-oob="true">:root{--primary:#e63f14;--secondary:#70737a}</style>`)
	assert.Contains(t, out, `id="primaryColor-code" class="color-code" hx-swap-oob="true"`)
	assert.Contains(t, out, `id="logo-thumb" class="logo-thumb" hx-swap-oob="true"`)
	assert.Contains(t, out, `id="slogan-button"`)
}

func TestSloganButtonHiddenWhenDisabled(t *testing.T) {
	out := renderString(t, Page(PageData{Card: card.Default()}))
	assert.NotContains(t, out, "slogan-button\"")
	assert.NotContains(t, out, `hx-post="`+SloganPath+`"`)

	out = renderString(t, Page(PageData{Card: card.Default(), SloganEnabled: true, Pending: true}))
	assert.Contains(t, out, `data-pending="true" disabled`)
}

func TestPageIncludesCSRFHeader(t *testing.T) {
	out := renderString(t, Page(PageData{Card: card.Default(), CSRFToken: "tok123"}))
	assert.Contains(t, out, `hx-headers="{&#34;X-CSRF-Token&#34;:&#34;tok123&#34;}"`)
	assert.Contains(t, out, "window.print()")
	assert.Contains(t, out, `<link rel="stylesheet" href="`+StylesheetPath+`">`)
}

func TestErrorPagesUseStylesheet(t *testing.T) {
	out := renderString(t, NotFound())
	assert.Contains(t, out, "<title>Stránka neexistuje</title>")
	assert.Contains(t, out, `href="`+StylesheetPath+`"`)
	assert.Contains(t, renderString(t, ServerError()), "<h1>Chyba servera</h1>")
}
