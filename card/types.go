// Package card holds the business card data model, the store that owns the
// current card, and the field editor that produces new card values.
package card

// Template selects one of the fixed card layouts.
type Template string

const (
	Modern     Template = "modern"
	Minimalist Template = "minimalist"
	Classic    Template = "classic"
	Sidebar    Template = "sidebar"
)

// Templates lists every layout in the order the editor offers them.
var Templates = []Template{Modern, Minimalist, Classic, Sidebar}

var templateLabels = map[Template]string{
	Modern:     "Moderná (PVA Exclusive)",
	Minimalist: "Minimalistická",
	Classic:    "Klasická centrovaná",
	Sidebar:    "S farebným pruhom",
}

// ParseTemplate reports whether s names one of the known templates.
func ParseTemplate(s string) (Template, bool) {
	t := Template(s)
	_, ok := templateLabels[t]
	return t, ok
}

// Label returns the human-readable name shown in the template picker.
func (t Template) Label() string {
	if l, ok := templateLabels[t]; ok {
		return l
	}
	return string(t)
}

// Side is the face of the card being rendered.
type Side string

const (
	Front Side = "front"
	Back  Side = "back"
)

// Data is the complete set of editable card fields. A Data value is always
// fully populated; edits produce a new value instead of changing one in place.
type Data struct {
	Name           string   `json:"name"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Phone          string   `json:"phone"`
	Email          string   `json:"email"`
	Website        string   `json:"website"`
	Address        string   `json:"address"`
	LogoURL        string   `json:"logoUrl"`
	PrimaryColor   string   `json:"primaryColor" validate:"hexcolor,len=7"`
	SecondaryColor string   `json:"secondaryColor" validate:"hexcolor,len=7"`
	Template       Template `json:"template" validate:"template"`
}

// Default returns the card every new session starts with.
func Default() Data {
	return Data{
		Name:           "Ing. Peter Novák",
		Title:          "Projektový Manažér",
		Company:        "PVA Solutions s.r.o.",
		Phone:          "+421 900 000 000",
		Email:          "novak@pva.sk",
		Website:        "www.pva.sk",
		Address:        "Mlynské Nivy 1, 811 09 Bratislava",
		LogoURL:        "https://i.ibb.co/Lz0D6V6/pva-logo.png",
		PrimaryColor:   "#e63f14",
		SecondaryColor: "#70737a",
		Template:       Modern,
	}
}
