// internal/scraper/subscribers.go
package scraper

import (
	"regexp"
	"strings"
)

var (
	plainDigitsPattern = regexp.MustCompile(`^\d+$`)
	scaledCountPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([KkMm]?)`)
)

// ConvertSubscriberCount turns a display count such as "1.5K" or "2.3M" into
// a plain integer string. K multiplies by one thousand and M by one million,
// truncating toward zero with exact decimal arithmetic. Empty input yields an
// empty string and input that is not a count is returned unchanged.
func ConvertSubscriberCount(display string) string {
	s := strings.TrimSpace(display)
	if s == "" {
		return ""
	}
	if plainDigitsPattern.MatchString(s) {
		return s
	}

	m := scaledCountPattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}

	shift := 0
	switch strings.ToUpper(m[2]) {
	case "K":
		shift = 3
	case "M":
		shift = 6
	}
	return shiftDecimal(m[1], shift)
}

// shiftDecimal multiplies a non-negative decimal literal by 10^shift and
// drops whatever fraction remains.
func shiftDecimal(number string, shift int) string {
	whole, frac, _ := strings.Cut(number, ".")
	if len(frac) < shift {
		frac += strings.Repeat("0", shift-len(frac))
	}
	digits := strings.TrimLeft(whole+frac[:shift], "0")
	if digits == "" {
		return "0"
	}
	return digits
}

// IsPlainCount reports whether s is a non-empty run of ASCII digits
func IsPlainCount(s string) bool {
	return plainDigitsPattern.MatchString(s)
}
