// Package numparse parses numbers typed by people who may use either a comma
// or a period as the decimal separator.
//
// Rules:
//
//   - If both ',' and '.' appear, whichever appears last is the decimal
//     separator and every occurrence of the other one is a thousands
//     separator ("1.234,56" and "1,234.56" are both 1234.56).
//   - If only ',' appears, it is the decimal separator ("1234,5" is 1234.5).
//   - Otherwise the string is parsed as is.
package numparse

import (
	"errors"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrEmpty is returned for blank input.
	ErrEmpty = errors.New("empty number")
	// ErrSyntax is returned when the normalized text is not a number.
	ErrSyntax = errors.New("invalid number")
)

// Normalize rewrites s into the form strconv.ParseFloat accepts.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}
	return s
}

// ParseFloat parses a locale-flexible number.
func ParseFloat(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, ErrEmpty
	}
	n := Normalize(s)
	f, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return 0, pkgerrors.Wrapf(ErrSyntax, "%q", s)
	}
	return f, nil
}

// ParseFloats parses every field, reporting the 1-based position of the first bad one.
func ParseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := ParseFloat(f)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "value %d", i+1)
		}
		out[i] = v
	}
	return out, nil
}
