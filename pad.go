package flatrecord

import (
	"strings"
)

// PadDirection selects the side(s) of a fixed-width field that receive padding
// when a value is shorter than the field, and the side(s) that are cut when a
// value is longer and truncation is enabled.
type PadDirection int

const (
	// PadRight left-aligns the value: padding is appended, and truncation
	// keeps the leftmost characters.
	PadRight PadDirection = iota
	// PadLeft right-aligns the value: padding is prepended, and truncation
	// keeps the rightmost characters.
	PadLeft
	// PadBoth centers the value. Truncation keeps a centered window.
	PadBoth
)

const defaultPadChar = ' '

func (d PadDirection) Valid() bool {
	switch d {
	case PadRight, PadLeft, PadBoth:
		return true
	default:
		return false
	}
}

func (d PadDirection) String() string {
	switch d {
	case PadRight:
		return "right"
	case PadLeft:
		return "left"
	case PadBoth:
		return "both"
	default:
		return "invalid"
	}
}

// ParsePadDirection returns the PadDirection named by s ("left", "right" or
// "both"). An empty string selects PadRight.
func ParsePadDirection(s string) (PadDirection, bool) {
	switch strings.ToLower(s) {
	case "", "right":
		return PadRight, true
	case "left":
		return PadLeft, true
	case "both":
		return PadBoth, true
	default:
		return PadDirection(-1), false
	}
}

// pad extends s to length using padChar. Strings that are already long enough
// are returned unchanged. With PadBoth the left side gets the smaller half.
func (d PadDirection) pad(s string, length int, padChar byte) string {
	n := length - len(s)
	if n <= 0 {
		return s
	}
	switch d {
	case PadLeft:
		return repeat(padChar, n) + s
	case PadBoth:
		l := n / 2
		return repeat(padChar, l) + s + repeat(padChar, n-l)
	default:
		return s + repeat(padChar, n)
	}
}

// unpad removes padChar from the side(s) selected by d.
func (d PadDirection) unpad(s string, padChar byte) string {
	cut := string(padChar)
	switch d {
	case PadLeft:
		return strings.TrimLeft(s, cut)
	case PadBoth:
		return strings.Trim(s, cut)
	default:
		return strings.TrimRight(s, cut)
	}
}

// truncate shortens s to length, cutting from the side(s) selected by d.
func (d PadDirection) truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	switch d {
	case PadLeft:
		return s[len(s)-length:]
	case PadBoth:
		start := (len(s) - length) / 2
		return s[start : start+length]
	default:
		return s[:length]
	}
}

func repeat(c byte, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(string(c), n)
}

// firstByte returns the first byte of s, or def if s is empty. Only the first
// character of a configured pad, delimiter, enclosure or escape string is
// significant.
func firstByte(s string, def byte) byte {
	if s == "" {
		return def
	}
	return s[0]
}
