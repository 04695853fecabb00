package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxSequenceLength bounds the input sequences of a shared computation.
// DP tables grow quadratically, so anything larger is not meant to be rendered.
const maxSequenceLength = 2000

// ValidateSequence checks an input sequence before it labels grid rows or columns.
//
// Sequences may be empty (a 1x1 table is a valid computation), but must not
// contain control characters or separators that would break the CSV export.
func ValidateSequence(name, seq string) error {
	if utf8.RuneCountInString(seq) > maxSequenceLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", name, maxSequenceLength)
	}
	for _, r := range seq {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "%s contains whitespace or control characters", name)
		}
		if r == ',' || r == '"' {
			return New(ErrCodeInvalidInput, "%s contains a CSV separator: %q", name, r)
		}
	}
	return nil
}

// ValidateExportFilename validates the configured export filename.
// It must be a simple basename without path components.
func ValidateExportFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidConfig, "export filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidConfig, "export filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidConfig, "export filename cannot be a hidden file")
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "export filename contains invalid control characters")
		}
	}

	return nil
}

// ValidateFraction checks that a geometry fraction lies in [0, 1].
func ValidateFraction(name string, f float64) error {
	if f < 0 || f > 1 {
		return New(ErrCodeInvalidConfig, "%s must be within [0, 1], got %g", name, f)
	}
	return nil
}
