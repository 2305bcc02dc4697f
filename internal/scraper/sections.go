// internal/scraper/sections.go
package scraper

import "regexp"

// A section runs from the renderer's opening tag to the first closing tag
// after it. Renderers are never nested in the saved page.
var sectionPattern = regexp.MustCompile(`(?s)ytd-channel-renderer[^>]*>.*?</ytd-channel-renderer>`)

// SplitSections returns the markup fragment of every channel renderer in
// document order.
func SplitSections(text string) []string {
	return sectionPattern.FindAllString(text, -1)
}
