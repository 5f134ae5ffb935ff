package content

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// Validator checks struct-level constraints and reports them by their
// front matter (json tag) names.
type Validator struct {
	v *validator.Validate
	t ut.Translator
}

var defaultValidator = mustValidator()

func mustValidator() *Validator {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// NewValidator builds a validator with English messages. Field names are
// taken from the json, yaml or mapstructure tag, in that order.
func NewValidator() (*Validator, error) {
	enLoc := en.New()
	uni := ut.New(enLoc, enLoc)
	translate, _ := uni.GetTranslator("en")
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := entranslations.RegisterDefaultTranslations(validate, translate); err != nil {
		return nil, err
	}

	if err := validate.RegisterTranslation(
		"required",
		translate,
		func(ut ut.Translator) error {
			return ut.Add("required", "must not be empty", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, err := ut.T(fe.Tag())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	); err != nil {
		return nil, err
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tagName := range []string{"json", "yaml", "mapstructure"} {
			if val := fld.Tag.Get(tagName); val != "" {
				if name := strings.SplitN(val, ",", 2)[0]; name != "" && name != "-" {
					return name
				}
			}
		}
		return fld.Name
	})

	return &Validator{v: validate, t: translate}, nil
}

// Issues validates s and returns one issue per failed field. Non
// validation errors (such as passing a non-struct) are returned as is.
func (v *Validator) Issues(s any) ([]Issue, error) {
	err := v.v.Struct(s)
	if err == nil {
		return nil, nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}
	issues := make([]Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, Issue{Field: fieldPath(fe), Message: fe.Translate(v.t)})
	}
	return issues, nil
}

// fieldPath strips the top-level struct name from the namespace so nested
// fields read "markdown.themes.light" rather than "SiteConfig.markdown...".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

