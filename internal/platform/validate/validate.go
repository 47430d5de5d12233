// Copyright (c) 2026 Qumran. All rights reserved.

// Package validate checks catalog input before it reaches a repository.
//
// A [Validator] records every failed rule and [Validator.Err] turns them into
// one VALIDATION_ERROR whose message is the first violation, for example
// "title: This field is required". Details carries the full list so the
// dashboard can highlight every field at once.
//
// # Optional fields
//
// Book fields such as isbn, year or external_link may be absent (nil) or sent
// blank. The Optional* rules skip both cases and only check a real value.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/pkg/isbn"
	"github.com/qumran/qumran/pkg/slug"
)

// ErrInvalidJSON is returned when a request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field errors. Use a new one per operation.
type Validator struct {
	errs []apperr.FieldError
}

// # Text

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen counts runes, so accented names are measured as the reader sees them.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MinLen fails if the rune count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// Nameable fails when a non-blank name would produce an empty slug, such as
// a name made only of punctuation. Blank names are left to [Validator.Required].
func (v *Validator) Nameable(field, value string) *Validator {
	if strings.TrimSpace(value) != "" && slug.From(value) == "" {
		v.add(field, "Must contain at least one letter or digit")
	}
	return v
}

// Email fails if the value is not a valid RFC 5322 address.
func (v *Validator) Email(field, value string) *Validator {
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// URL fails if the value is not an absolute http(s) URL.
func (v *Validator) URL(field, value string) *Validator {
	parsed, err := url.ParseRequestURI(value)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		v.add(field, "Must be a valid http(s) URL")
	}
	return v
}

// ISBN fails unless the value, without hyphens and spaces, has ISBN-10 or
// ISBN-13 shape.
func (v *Validator) ISBN(field, value string) *Validator {
	if !isbn.Valid(value) {
		v.add(field, "Must be a valid ISBN-10 or ISBN-13")
	}
	return v
}

// # Numbers

// Range fails if value is outside [min, max].
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return v
}

// Positive fails for zero and negative ids.
func (v *Validator) Positive(field string, value int) *Validator {
	if value <= 0 {
		v.add(field, "This field is required")
	}
	return v
}

// # Optional fields

// OptionalRange checks value only when present.
func (v *Validator) OptionalRange(field string, value *int, min, max int) *Validator {
	if value != nil {
		v.Range(field, *value, min, max)
	}
	return v
}

// OptionalURL checks value only when present and not blank.
func (v *Validator) OptionalURL(field string, value *string) *Validator {
	if value != nil && strings.TrimSpace(*value) != "" {
		v.URL(field, strings.TrimSpace(*value))
	}
	return v
}

// OptionalISBN checks value only when present and not blank.
func (v *Validator) OptionalISBN(field string, value *string) *Validator {
	if value != nil && strings.TrimSpace(*value) != "" {
		v.ISBN(field, *value)
	}
	return v
}

// OptionalMaxLen checks value only when present.
func (v *Validator) OptionalMaxLen(field string, value *string, max int) *Validator {
	if value != nil {
		v.MaxLen(field, *value, max)
	}
	return v
}

// Tags limits both the number of tags and the length of each trimmed tag.
// Only the first offending tag is reported.
func (v *Validator) Tags(field string, tags []string, maxCount, maxLength int) *Validator {
	if len(tags) > maxCount {
		v.add(field, fmt.Sprintf("Maximum %d tags", maxCount))
	}
	for _, tag := range tags {
		if utf8.RuneCountInString(strings.TrimSpace(tag)) > maxLength {
			v.add(field, fmt.Sprintf("Each tag has at most %d characters", maxLength))
			break
		}
	}
	return v
}

// # Sets

// OneOf fails if value is not in allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if !slices.Contains(allowed, value) {
		v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	}
	return v
}

// Sort is [Validator.OneOf] for listing sort keys; an empty key selects the
// default order and passes.
func (v *Validator) Sort(field, value string, allowed ...string) *Validator {
	if value != "" {
		v.OneOf(field, value, allowed...)
	}
	return v
}

// Custom records message when failed is true.
//
//	v.Custom("author", ref.IsZero(), "Provide an author id or last name")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// # Result

// Err returns nil when every rule passed. Otherwise the VALIDATION_ERROR
// message is "<field>: <message>" of the first violation and Details lists
// them all.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	first := v.errs[0]
	return apperr.ValidationError(first.Field+": "+first.Message, v.errs...)
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}
