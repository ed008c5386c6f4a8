// Package validation envuelve go-playground/validator para devolver
// errores por campo (nombre JSON) con mensajes legibles.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors: campo -> mensaje. Ausencia de key = campo válido.
type FieldErrors map[string]string

var ErrInvalid = errors.New("invalid input")

// Error lleva los errores por campo; errors.Is(err, ErrInvalid) es true.
type Error struct {
	Fields FieldErrors
}

func (e *Error) Error() string { return fmt.Sprintf("invalid input: %d field(s)", len(e.Fields)) }
func (e *Error) Unwrap() error { return ErrInvalid }

// FieldsOf extrae los errores por campo si err es *Error.
func FieldsOf(err error) (FieldErrors, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}

// Messages: campo -> tag -> mensaje. La tag "*" es el default del campo.
type Messages map[string]map[string]string

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// "email" de validator es RFC 5322; acá solo queremos local@domain.tld.
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Check valida s y traduce cada error con msgs. Nunca devuelve nil.
func (v *Validator) Check(s any, msgs Messages) FieldErrors {
	out := FieldErrors{}

	err := v.v.Struct(s)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_"] = err.Error()
		return out
	}

	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = lookup(msgs, field, fe.Tag())
	}
	return out
}

func lookup(msgs Messages, field, tag string) string {
	if byTag, ok := msgs[field]; ok {
		if m, ok := byTag[tag]; ok {
			return m
		}
		if m, ok := byTag["*"]; ok {
			return m
		}
	}
	return field + " is invalid"
}

// ParseInt convierte texto de formulario a entero.
// "" => (nil, true): ausente. Texto no entero => (nil, false).
func ParseInt(s string) (*int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// IsEmail expone la misma regla que la tag "emailshape".
func IsEmail(s string) bool { return emailShape.MatchString(strings.TrimSpace(s)) }
