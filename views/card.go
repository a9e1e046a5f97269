package views

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/vizitka/card"
)

const (
	defaultPrimary   = "#e63f14"
	defaultSecondary = "#70737a"
)

// palette is the pair of colors a layout paints with, already checked.
type palette struct {
	primary   string
	secondary string
}

func paletteOf(d card.Data) palette {
	return palette{
		primary:   cssColor(d.PrimaryColor, defaultPrimary),
		secondary: cssColor(d.SecondaryColor, defaultSecondary),
	}
}

// vars exposes the palette as the custom properties the stylesheet reads.
func (p palette) vars() string {
	return "--primary:" + p.primary + ";--secondary:" + p.secondary
}

type contactLine struct {
	label string
	value string
}

func contactsOf(d card.Data) []contactLine {
	return nonEmpty(
		contactLine{"T", d.Phone},
		contactLine{"E", d.Email},
		contactLine{"W", d.Website},
		contactLine{"A", d.Address},
	)
}

type layout struct {
	front func(d card.Data, slogan string) templ.Component
	back  func(d card.Data) templ.Component
}

var layouts = map[card.Template]layout{
	card.Modern:     {front: modernFront, back: modernBack},
	card.Minimalist: {front: minimalistFront, back: minimalistBack},
	card.Classic:    {front: classicFront, back: classicBack},
	card.Sidebar:    {front: sidebarFront, back: sidebarBack},
}

// layoutFor picks the layout for t. Unknown templates fall back to modern.
func layoutFor(t card.Template) (card.Template, layout) {
	if l, ok := layouts[t]; ok {
		return t, l
	}
	return card.Modern, layouts[card.Modern]
}

func templateName(d card.Data) string {
	t, _ := layoutFor(d.Template)
	return string(t)
}

func sideName(side card.Side) string {
	if side == card.Back {
		return string(card.Back)
	}
	return string(card.Front)
}

// face renders the inside of one side. Only the front gets the slogan.
func face(d card.Data, side card.Side, slogan string) templ.Component {
	_, l := layoutFor(d.Template)
	if side == card.Back {
		return l.back(d)
	}
	return l.front(d, strings.TrimSpace(slogan))
}
