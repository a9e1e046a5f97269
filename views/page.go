package views

import (
	"fmt"

	"github.com/a-h/templ"

	"github.com/eringen/vizitka/card"
)

// SloganPath is the slogan generation endpoint.
const SloganPath = "/slogan/"

// StylesheetPath is where the server exposes the embedded stylesheet.
const StylesheetPath = "/public/vizitka.css"

// PageData is everything the full page needs.
type PageData struct {
	Title         string
	Card          card.Data
	Slogan        string
	Pending       bool
	SloganEnabled bool
	CSRFToken     string
}

// accent publishes the card colors as page-wide custom properties. templ
// does not interpolate inside <style>, so the element is written raw; both
// colors come from paletteOf and are plain hex values.
func accent(d card.Data, oob bool) templ.Component {
	pal := paletteOf(d)
	swap := ""
	if oob {
		swap = ` hx-swap-oob="true"`
	}
	return templ.Raw(fmt.Sprintf(`<style id="accent"%s>:root{%s}</style>`, swap, pal.vars()))
}
