package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"

	apierrors "mcainsights/internal/errors"
)

const queryTag = "query"

// QueryValidator binds URL query parameters into structs tagged with
// `query:"name"` and validates them with go-playground/validator.
type QueryValidator struct {
	decoder  *form.Decoder
	validate *validator.Validate
}

// NewQueryValidator creates a decoder and validator with the custom rules
// registered.
func NewQueryValidator() *QueryValidator {
	d := form.NewDecoder()
	d.SetTagName(queryTag)
	d.SetMode(form.ModeExplicit)

	v := validator.New()

	v.RegisterValidation("nocontrol", noControlChars)

	// Report query parameter names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get(queryTag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &QueryValidator{decoder: d, validate: v}
}

// Bind fills dst (a pointer to struct) from r's query string and validates
// it. Values are bound verbatim: option values may carry significant
// whitespace. Fields without a query tag are left untouched. A value that
// cannot be converted to its field type is reported as a validation error
// for that parameter.
func (v *QueryValidator) Bind(r *http.Request, dst interface{}) error {
	if err := v.decoder.Decode(dst, r.URL.Query()); err != nil {
		var decodeErrs form.DecodeErrors
		if !errors.As(err, &decodeErrs) {
			return fmt.Errorf("failed to decode query: %w", err)
		}
		name := firstField(decodeErrs)
		return apierrors.ErrValidation(name, fmt.Sprintf("%s must be a valid value", name))
	}

	return v.validate.Struct(dst)
}

// Var validates a single value against a tag expression.
func (v *QueryValidator) Var(value interface{}, tag string) error {
	return v.validate.Var(value, tag)
}

// firstField picks the lexically first failing parameter so the reported
// field is stable across requests.
func firstField(errs form.DecodeErrors) string {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0]
}

// noControlChars rejects strings containing control characters.
func noControlChars(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
