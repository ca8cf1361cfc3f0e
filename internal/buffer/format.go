package buffer

import (
	"math"
	"strconv"
	"strings"
)

// Notation selects how results are rendered.
type Notation int

const (
	// Plain prints the shortest decimal that round-trips, switching to
	// exponent form for very large or very small magnitudes.
	Plain Notation = iota
	// Scientific always prints exponent form with 9 fractional digits.
	Scientific
)

// String returns the string representation of a Notation.
func (n Notation) String() string {
	switch n {
	case Plain:
		return "plain"
	case Scientific:
		return "scientific"
	default:
		return "unknown"
	}
}

// ParseNotation parses a string into a Notation.
func ParseNotation(s string) (Notation, bool) {
	switch strings.ToLower(s) {
	case "plain", "decimal", "":
		return Plain, true
	case "scientific", "sci":
		return Scientific, true
	default:
		return Plain, false
	}
}

// Format renders v for display and for re-entry into the buffer.
func Format(v float64, n Notation) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	if n == Scientific {
		return trimExponent(strconv.FormatFloat(v, 'e', 9, 64))
	}
	if v == 0 {
		return "0"
	}
	if a := math.Abs(v); a >= 1e21 || a < 1e-7 {
		return trimExponent(strconv.FormatFloat(v, 'e', -1, 64))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// trimExponent drops zero padding from the exponent: 1e-07 becomes 1e-7.
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 > len(s) {
		return s
	}
	mant, sign, digits := s[:i], s[i+1:i+2], s[i+2:]
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}
