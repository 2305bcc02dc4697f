// internal/utils/utils.go
package utils

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// TruncateRunes truncates a string to at most maxLen runes without adding an ellipsis
func TruncateRunes(s string, maxLen int) string {
	if maxLen < 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen])
}

// CollapseWhitespace replaces every whitespace run with a single space
func CollapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}

// Percentage returns part/total as a percentage, 0 when total is 0
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
