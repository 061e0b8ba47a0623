// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validation checks inbound request payloads before they are
// converted into store inputs.
//
// Request types carry go-playground/validator struct tags. Validate runs
// them and reports every failing field at once as Errors, keyed by the JSON
// field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/olegiv/airdrops-hunter/internal/model"
)

// FieldError describes a single failing field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the aggregate validation failure.
type Errors []FieldError

// Error joins entries as "field: message, field: message".
func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, ", ")
}

// Has reports whether a field failed.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// Nullable fields validate as their inner value; absent and null skip.
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		n := f.Interface().(model.Nullable[string])
		if n.Value == nil {
			return nil
		}
		return *n.Value
	}, model.Nullable[string]{})
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		n := f.Interface().(model.Nullable[int64])
		if n.Value == nil {
			return nil
		}
		return *n.Value
	}, model.Nullable[int64]{})
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		return f.Interface().(Count).raw
	}, Count{})

	mustRegister(v, "date", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "count", func(fl validator.FieldLevel) bool {
		_, err := parseCount(fl.Field().String())
		return err == nil
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: registering %q: %v", tag, err))
	}
}

// Validate checks s and returns Errors when any field fails.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	out := make(Errors, 0, len(ves))
	for _, fe := range ves {
		out = append(out, FieldError{Field: fieldPath(fe), Message: message(fe)})
	}
	return out
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "eqfield":
		return "must match " + lowerFirst(fe.Param())
	case "date":
		return "must be an RFC 3339 timestamp or a YYYY-MM-DD date"
	case "count":
		return "must be a non-negative whole number"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// ParseDate accepts an RFC 3339 timestamp or a calendar date and returns
// the instant in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// Count is a non-negative integer that arrives as a JSON number or a
// numeric string.
type Count struct {
	raw string
}

// UnmarshalJSON keeps the raw token; Validate checks it.
func (c *Count) UnmarshalJSON(b []byte) error {
	s := string(b)
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	c.raw = strings.TrimSpace(s)
	return nil
}

// MarshalJSON writes a valid count as a number and anything else as the
// original string, so the server reports the same error.
func (c Count) MarshalJSON() ([]byte, error) {
	if n, err := parseCount(c.raw); err == nil {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return []byte(strconv.Quote(c.raw)), nil
}

// CountOf builds a Count from an integer.
func CountOf(n int64) Count {
	return Count{raw: strconv.FormatInt(n, 10)}
}

// Int64 returns the parsed value. Call after Validate.
func (c Count) Int64() int64 {
	n, _ := parseCount(c.raw)
	return n
}

func parseCount(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, fmt.Errorf("invalid count %q", s)
		}
		n = int64(f)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}
