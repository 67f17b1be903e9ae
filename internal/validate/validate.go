// Package validate is the single declarative validation layer: request
// structs carry `validate` tags, free-text fields are sanitized before
// persistence, and query parameters go through the typed helpers below.
package validate

import (
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	reID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

	v = newValidator()
)

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// report json field names, not Go names
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// model year window: 1900 .. next year
	_ = val.RegisterValidation("caryear", func(fl validator.FieldLevel) bool {
		y := fl.Field().Int()
		return y >= 1900 && y <= int64(time.Now().Year()+1)
	})
	return val
}

// FieldError is one entry of the `details` array in a 400 response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Struct runs tag validation and translates failures into field-level
// detail entries.
func Struct(s any) []FieldError {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Please provide a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return "Each image must be a valid URL"
	case "caryear":
		return "Year must be a valid year"
	case "dive":
		return fmt.Sprintf("%s has an invalid entry", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// ID checks a path/body identifier; malformed ids are a 400, never a 404.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Escape trims and HTML-escapes a free-text field (description, comment,
// notes) the same way the API's clients expect stored values back.
func Escape(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// Password enforces the registration policy: 8+ chars with lower, upper,
// digit and symbol.
func Password(s string) bool {
	if len(s) < 8 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

var reName = regexp.MustCompile(`^[a-zA-Z ]+$`)

// PersonName allows letters and spaces, 2-50 chars.
func PersonName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 50 {
		return "", false
	}
	return s, reName.MatchString(s)
}

// Page parses a page query param, clamping to >= 1.
func Page(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Limit parses a page-size query param, clamped to 1..100 (default 12).
func Limit(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 12
	}
	if n > 100 {
		return 100
	}
	return n
}

var sortColumns = map[string]string{
	"createdAt":     "created_at",
	"price":         "price",
	"year":          "year",
	"mileage":       "mileage",
	"averageRating": "average_rating",
}

// SortBy maps an API sort field to its column, defaulting to created_at.
// Unknown fields fall back to the default rather than erroring.
func SortBy(s string) string {
	if col, ok := sortColumns[strings.TrimSpace(s)]; ok {
		return col
	}
	return "created_at"
}

// SortOrder returns ASC only for an explicit "asc"; anything else is DESC.
func SortOrder(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "asc") {
		return "ASC"
	}
	return "DESC"
}

// IntFilter parses an optional numeric query filter. ok is false when the
// param is present but not a number.
func IntFilter(s string) (n int, present, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, true, false
	}
	return v, true, true
}

// FloatFilter parses an optional float query filter.
func FloatFilter(s string) (f float64, present, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true, false
	}
	return v, true, true
}
