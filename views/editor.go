package views

import (
	"github.com/eringen/vizitka/card"
)

type textControl struct {
	field card.Field
	label string
	kind  string
	wide  bool
}

var textControls = []textControl{
	{card.FieldName, "Celé meno a tituly", "text", true},
	{card.FieldTitle, "Pracovná pozícia", "text", false},
	{card.FieldCompany, "Názov spoločnosti", "text", false},
	{card.FieldPhone, "Telefón", "text", false},
	{card.FieldEmail, "E-mail", "email", false},
	{card.FieldWebsite, "Webová stránka", "text", true},
	{card.FieldAddress, "Adresa sídla", "text", true},
}

var colorControls = []struct {
	field card.Field
	label string
}{
	{card.FieldPrimaryColor, "Hlavná farba (Brand)"},
	{card.FieldSecondaryColor, "Sekundárna farba"},
}

// FieldPath is the edit endpoint of f.
func FieldPath(f card.Field) string {
	return "/card/" + f.String() + "/"
}

// LogoPath is the logo upload endpoint.
const LogoPath = "/card/logo/"
