// Package isbn normalizes the operator's raw identifier input into a clean
// ordered list of lookup codes.
package isbn

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrNoISBNs is returned when the input contains no usable identifiers.
var ErrNoISBNs = errors.New("no ISBNs found in input")

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("isbn", validateISBN)
}

var (
	isbn10Pattern = regexp.MustCompile(`^\d{9}[\dX]$`)
	isbn13Pattern = regexp.MustCompile(`^\d{13}$`)
)

func validateISBN(fl validator.FieldLevel) bool {
	isbn := fl.Field().String()
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")

	if len(isbn) == 10 {
		return isbn10Pattern.MatchString(isbn)
	}
	if len(isbn) == 13 {
		return isbn13Pattern.MatchString(isbn)
	}
	return false
}

// Normalize splits a raw block of comma or newline separated identifiers into
// trimmed unique tokens, preserving first-occurrence order. Identifiers are
// opaque: nothing is dropped for failing the ISBN shape check.
func Normalize(raw string) ([]string, error) {
	parts := strings.Split(strings.ReplaceAll(raw, "\n", ","), ",")

	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, ErrNoISBNs
	}
	return out, nil
}

// Check reports whether a token looks like a 10 or 13 digit ISBN. Callers use
// it to warn about odd input, never to filter.
func Check(token string) bool {
	return validate.Var(token, "isbn") == nil
}
