package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// UID identifies a single requirement item, e.g. "REQ001" or "SRD-042".
//
// A UID is a document prefix followed by an item number, with an optional
// single-character separator between them. The original spelling is
// preserved; prefix comparison is case-insensitive.
type UID struct {
	text   string
	prefix string
	sep    string
	number int
}

// NewUID assembles a UID from its parts, zero-padding the number to the
// given digit count.
func NewUID(prefix, sep string, number, digits int) UID {
	text := fmt.Sprintf("%s%s%0*d", prefix, sep, digits, number)
	return UID{text: text, prefix: prefix, sep: sep, number: number}
}

// ParseUID splits a UID string into its prefix and number. The number is
// the trailing run of digits; a single "-", "." or "_" directly before it
// is treated as the separator and belongs to neither part.
func ParseUID(text string) (UID, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return UID{}, fmt.Errorf("empty UID")
	}
	i := len(trimmed)
	for i > 0 && unicode.IsDigit(rune(trimmed[i-1])) {
		i--
	}
	if i == len(trimmed) {
		return UID{}, fmt.Errorf("UID %q has no number", text)
	}
	number, err := strconv.Atoi(trimmed[i:])
	if err != nil {
		return UID{}, fmt.Errorf("UID %q: %w", text, err)
	}
	prefix, sep := trimmed[:i], ""
	if last := prefix[len(prefix)-1]; last == '-' || last == '.' || last == '_' {
		sep = string(last)
		prefix = prefix[:len(prefix)-1]
	}
	if prefix == "" {
		return UID{}, fmt.Errorf("UID %q has no prefix", text)
	}
	return UID{text: trimmed, prefix: prefix, sep: sep, number: number}, nil
}

// Prefix returns the document prefix portion.
func (u UID) Prefix() string { return u.prefix }

// Number returns the item number portion.
func (u UID) Number() int { return u.number }

// String returns the UID exactly as written.
func (u UID) String() string { return u.text }

// IsZero reports whether the UID is the zero value.
func (u UID) IsZero() bool { return u.text == "" }

// SamePrefix reports whether the UID belongs to the document with the
// given prefix, ignoring case.
func (u UID) SamePrefix(prefix string) bool {
	return strings.EqualFold(u.prefix, prefix)
}
