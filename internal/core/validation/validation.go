// Package validation checks form input before any write is dispatched.
// A rejected form never reaches the network.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/emailportal/portal-client/internal/core/domain"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool { return emailPattern.MatchString(s) }

// Form is implemented by every validated input.
type Form interface {
	FormName() string
}

// Validator wraps go-playground/validator with the portal's rules.
type Validator struct {
	v        *validator.Validate
	onReject func(form string)
}

// Option configures a Validator.
type Option func(*Validator)

// WithRejectHook calls fn with the form name of every rejected form.
func WithRejectHook(fn func(form string)) Option {
	return func(v *Validator) { v.onReject = fn }
}

// New builds a Validator with the custom tags registered.
func New(opts ...Option) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "simple_email", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	mustRegister(v, "trimmed_min", func(fl validator.FieldLevel) bool {
		return trimmedLen(fl) >= paramInt(fl)
	})
	mustRegister(v, "trimmed_max", func(fl validator.FieldLevel) bool {
		return trimmedLen(fl) <= paramInt(fl)
	})
	v.RegisterStructValidation(smtpStructLevel, SMTPForm{})

	out := &Validator{v: v}
	for _, o := range opts {
		o(out)
	}
	return out
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

func trimmedLen(fl validator.FieldLevel) int {
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String()))
}

func paramInt(fl validator.FieldLevel) int {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("%s: bad parameter %q", fl.GetTag(), fl.Param()))
	}
	return n
}

// Check validates f and returns a *domain.ValidationError listing every
// failing field.
func (v *Validator) Check(f Form) error {
	return v.check(f.FormName(), f)
}

// Validate satisfies echo.Validator. Structs that are not a Form are checked
// under the name "request".
func (v *Validator) Validate(i any) error {
	if f, ok := i.(Form); ok {
		return v.Check(f)
	}
	return v.check("request", i)
}

func (v *Validator) check(form string, s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		if _, ok := fields[fe.Field()]; !ok {
			fields[fe.Field()] = fieldError(fe)
		}
	}
	return v.reject(form, fields)
}

func (v *Validator) reject(form string, fields map[string]string) error {
	if v.onReject != nil {
		v.onReject(form)
	}
	return &domain.ValidationError{Form: form, Fields: fields}
}

func fieldError(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "simple_email":
		return field + " must be a valid email address"
	case "trimmed_min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "trimmed_max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min", "max":
		if fe.Kind() == reflect.Int || fe.Kind() == reflect.Int64 {
			return fmt.Sprintf("%s must be between %d and %d", field, MinPort, MaxPort)
		}
		return fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param())
	case "gt":
		return field + " is required"
	case "http_url":
		return field + " must be an absolute http or https URL"
	case "tls_ssl_exclusive":
		return "use TLS and use SSL cannot both be enabled"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
