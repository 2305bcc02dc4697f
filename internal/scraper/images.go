// internal/scraper/images.go
package scraper

import "regexp"

// Profile images are served from yt3.googleusercontent.com; the s176 size
// token marks the avatar rendition used on the subscriptions page.
var (
	catalogPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Content-Location: (https://yt3\.googleusercontent\.com/\S+s176\S*)`),
		regexp.MustCompile(`(?i)src="(https://yt3\.googleusercontent\.com/[^"]*s176[^"]*)"`),
		regexp.MustCompile(`(?i)"url":"(https://yt3\.googleusercontent\.com/[^"]*s176[^"]*)"`),
	}

	inlineImagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`src="(https://yt3\.googleusercontent\.com/[^"]*s176[^"]*)"`),
		regexp.MustCompile(`"url":"(https://yt3\.googleusercontent\.com/[^"]*s176[^"]*)"`),
	}
)

// CollectImages returns every profile image URL in text. Matches of the
// transfer-header, src attribute and JSON literal searches are concatenated
// in that order, then reduced to the first occurrence of each URL.
func CollectImages(text string) []string {
	var all []string
	for _, pattern := range catalogPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			all = append(all, m[1])
		}
	}

	unique := make([]string, 0, len(all))
	seen := make(map[string]struct{}, len(all))
	for _, url := range all {
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		unique = append(unique, url)
	}
	return unique
}

// findInlineImage returns the first profile image referenced inside a fragment
func findInlineImage(fragment string) (string, bool) {
	for _, pattern := range inlineImagePatterns {
		if m := pattern.FindStringSubmatch(fragment); m != nil {
			return m[1], true
		}
	}
	return "", false
}
