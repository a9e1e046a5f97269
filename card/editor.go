package card

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrUnknownField is returned by ParseField for a name no control is bound to.
var ErrUnknownField = errors.New("card: unknown field")

// Field identifies one editable Data field. The set is closed: every value
// has exactly one setter below.
type Field int

const (
	FieldName Field = iota
	FieldTitle
	FieldCompany
	FieldPhone
	FieldEmail
	FieldWebsite
	FieldAddress
	FieldPrimaryColor
	FieldSecondaryColor
	FieldTemplate
)

// Fields lists every field the editor binds a control to.
var Fields = []Field{
	FieldName, FieldTitle, FieldCompany, FieldPhone, FieldEmail,
	FieldWebsite, FieldAddress, FieldPrimaryColor, FieldSecondaryColor, FieldTemplate,
}

var fieldNames = [...]string{
	FieldName:           "name",
	FieldTitle:          "title",
	FieldCompany:        "company",
	FieldPhone:          "phone",
	FieldEmail:          "email",
	FieldWebsite:        "website",
	FieldAddress:        "address",
	FieldPrimaryColor:   "primaryColor",
	FieldSecondaryColor: "secondaryColor",
	FieldTemplate:       "template",
}

// String returns the control name of f, which matches the JSON key of Data.
func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField maps a control name to its Field.
func ParseField(name string) (Field, error) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// rule is the validator tag applied to values for f. Text fields have none.
func (f Field) rule() string {
	switch f {
	case FieldPrimaryColor, FieldSecondaryColor:
		return "hexcolor,len=7"
	case FieldTemplate:
		return "template"
	}
	return ""
}

// Value reads the current value of f from d.
func (f Field) Value(d Data) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldTitle:
		return d.Title
	case FieldCompany:
		return d.Company
	case FieldPhone:
		return d.Phone
	case FieldEmail:
		return d.Email
	case FieldWebsite:
		return d.Website
	case FieldAddress:
		return d.Address
	case FieldPrimaryColor:
		return d.PrimaryColor
	case FieldSecondaryColor:
		return d.SecondaryColor
	case FieldTemplate:
		return string(d.Template)
	}
	return ""
}

// Edit returns a copy of d with field f set to value. Every other field is
// carried over unchanged. Color and template values are checked first; a
// rejected value returns d as is together with the error.
func Edit(d Data, f Field, value string) (Data, error) {
	if tag := f.rule(); tag != "" {
		if err := validatorInstance().Var(value, tag); err != nil {
			return d, fmt.Errorf("card: invalid %s %q: %w", f, value, err)
		}
	}
	switch f {
	case FieldName:
		d.Name = value
	case FieldTitle:
		d.Title = value
	case FieldCompany:
		d.Company = value
	case FieldPhone:
		d.Phone = value
	case FieldEmail:
		d.Email = value
	case FieldWebsite:
		d.Website = value
	case FieldAddress:
		d.Address = value
	case FieldPrimaryColor:
		d.PrimaryColor = value
	case FieldSecondaryColor:
		d.SecondaryColor = value
	case FieldTemplate:
		d.Template = Template(value)
	default:
		return d, fmt.Errorf("%w: %d", ErrUnknownField, int(f))
	}
	return d, nil
}

// WithLogo returns a copy of d using uri as the logo source.
func WithLogo(d Data, uri string) Data {
	d.LogoURL = uri
	return d
}

// Validate checks the enumerated fields of d.
func Validate(d Data) error {
	return validatorInstance().Struct(d)
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("template", func(fl validator.FieldLevel) bool {
			_, ok := ParseTemplate(fl.Field().String())
			return ok
		})
		validateInst = v
	})
	return validateInst
}
