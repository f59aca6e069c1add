package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateSameLength checks that two parallel inputs have the same length.
// Legends pair names with colours index by index, so a mismatch is rejected
// instead of truncated.
func ValidateSameLength(aName string, a int, bName string, b int) error {
	if a != b {
		return New(ErrCodeInvalidInput, "%s and %s differ in length: %d != %d", aName, bName, a, b)
	}
	return nil
}

// ValidateRange checks that both ends of a stretch range are finite. The
// order is not checked: an equal range stretches to a flat colour and an
// inverted one runs the palette backwards.
func ValidateRange(min, max float64) error {
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return New(ErrCodeInvalidInput, "range must be finite: [%g, %g]", min, max)
	}
	return nil
}

// ValidatePositive checks that a named quantity is strictly positive.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %g", name, v)
	}
	return nil
}

// ValidateName validates a layer or band name.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 128 characters
//   - No control characters
//   - No angle brackets or quotes (names are written into SVG/HTML output)
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	const maxNameLength = 128
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "<>\"'") {
		return New(ErrCodeInvalidInput, "name contains invalid characters: %q", name)
	}

	return nil
}
