package grading

import (
	"math"
	"strconv"
	"strings"
)

// ParseLenient coerces raw user input into a number. Everything except
// digits, commas and dots is dropped; a comma is read as the decimal
// separator when no dot is present. Unparseable input yields 0.
func ParseLenient(text string) float64 {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return parseNumericPrefix(s)
}

// parseNumericPrefix reads the longest leading run of digits with at most
// one decimal point, the way a browser's parseFloat would.
func parseNumericPrefix(s string) float64 {
	end := 0
	seenDot := false
	digits := 0
	for end < len(s) {
		c := s[end]
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else if c >= '0' && c <= '9' {
			digits++
		} else {
			break
		}
		end++
	}
	if digits == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Clamp bounds n to [lo, hi]. NaN collapses to lo.
func Clamp(n, lo, hi float64) float64 {
	if math.IsNaN(n) || n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// ClampPercent bounds n to the 0-100 percentage scale.
func ClampPercent(n float64) float64 {
	return Clamp(n, 0, 100)
}

// Percent is the pipeline every raw weight or grade goes through before use.
func Percent(raw string) float64 {
	return ClampPercent(ParseLenient(raw))
}

// HasValue reports whether raw input counts as entered. Any non-empty text
// does, even whitespace, which then parses as 0.
func HasValue(raw string) bool {
	return raw != ""
}

// hasDigit reports whether raw input carries any number at all.
func hasDigit(raw string) bool {
	return strings.ContainsAny(raw, "0123456789")
}

// FormatGrade renders a solved grade the way it is written back into an item.
func FormatGrade(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
