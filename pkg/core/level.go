package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is the dotted outline position of an item within its document,
// such as "1", "1.2" or "2.0". A trailing zero marks a heading item.
type Level struct {
	parts []int
	text  string
}

// DefaultLevel is where items without an explicit level sort.
var DefaultLevel = Level{parts: []int{1}, text: "1"}

// ParseLevel converts a dotted string such as "2.1.0" into a Level.
func ParseLevel(text string) (Level, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Level{}, fmt.Errorf("empty level")
	}
	fields := strings.Split(trimmed, ".")
	parts := make([]int, 0, len(fields))
	for _, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return Level{}, fmt.Errorf("level %q: %w", text, err)
		}
		if n < 0 {
			return Level{}, fmt.Errorf("level %q: negative part", text)
		}
		parts = append(parts, n)
	}
	return Level{parts: parts, text: trimmed}, nil
}

// Heading reports whether the level marks a heading item (trailing zero).
func (l Level) Heading() bool {
	return len(l.parts) > 0 && l.parts[len(l.parts)-1] == 0
}

// Depth returns the outline depth, ignoring trailing zeros. A level of
// "2.0" has depth 1, "1.1.0" has depth 2.
func (l Level) Depth() int {
	n := len(l.parts)
	for n > 1 && l.parts[n-1] == 0 {
		n--
	}
	return n
}

// Compare orders levels part by part. On a common prefix the shorter
// level sorts first. Returns -1, 0 or 1.
func (l Level) Compare(other Level) int {
	for i := 0; i < len(l.parts) && i < len(other.parts); i++ {
		if l.parts[i] != other.parts[i] {
			if l.parts[i] < other.parts[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(l.parts) < len(other.parts):
		return -1
	case len(l.parts) > len(other.parts):
		return 1
	default:
		return 0
	}
}

// IsZero reports whether the level is the zero value.
func (l Level) IsZero() bool { return len(l.parts) == 0 }

// String returns the level exactly as written.
func (l Level) String() string { return l.text }
