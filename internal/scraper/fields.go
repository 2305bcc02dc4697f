// internal/scraper/fields.go
package scraper

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/valpere/SubScrapexter/internal/pipeline"
	"github.com/valpere/SubScrapexter/internal/utils"
)

// DefaultDescriptionMaxLength caps descriptions, counted in runes
const DefaultDescriptionMaxLength = 500

var (
	identityPattern = regexp.MustCompile(`href="(https://www\.youtube\.com/@([^"]+))"`)

	nameClassPattern = regexp.MustCompile(`(?i)<yt-formatted-string[^>]*class="[^"]*ytd-channel-name[^"]*"[^>]*>([^<]+)</yt-formatted-string>`)

	subscriberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<span[^>]*id="video-count"[^>]*>([^<]*subscribers?[^<]*)</span>`),
		regexp.MustCompile(`(?i)(\d+(?:\.\d+)?[KM]?)\s+subscribers?`),
		regexp.MustCompile(`(?i)subscribers?[^0-9]*(\d+(?:\.\d+)?[KM]?)`),
	}
	countTokenPattern = regexp.MustCompile(`(?i)\d+(?:\.\d+)?[KM]?`)

	descriptionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<yt-formatted-string[^>]*id="description"[^>]*>([^<]+(?:\s+[^<]+)*)</yt-formatted-string>`),
		regexp.MustCompile(`(?is)id="description"[^>]*>([^<]*(?-i:[A-Z])[^<]*\.[^<]*)</[^>]*>`),
	}
	bareCountPattern = regexp.MustCompile(`^\d+[KM]?$`)

	derivedNameRules = pipeline.TransformList{
		pipeline.Replace("_", " "),
		pipeline.Replace("-", " "),
		{Type: pipeline.TransformWordTitle},
	}
)

// candidate is one pattern of an ordered fallback family. It returns the raw
// captured text, or false when the pattern does not match.
type candidate func(fragment string) (string, bool)

func submatch(pattern *regexp.Regexp) candidate {
	return func(fragment string) (string, bool) {
		m := pattern.FindStringSubmatch(fragment)
		if m == nil {
			return "", false
		}
		return m[1], true
	}
}

// Identity is the mandatory anchor of a channel entry
type Identity struct {
	Link   string
	Handle string
}

// FindIdentity returns the channel link and handle of a fragment
func FindIdentity(fragment string) (Identity, bool) {
	m := identityPattern.FindStringSubmatch(fragment)
	if m == nil {
		return Identity{}, false
	}
	return Identity{Link: m[1], Handle: m[2]}, true
}

// nameCandidates builds the name family for one handle. The attribute
// patterns embed the handle, so compiling them can fail.
func nameCandidates(handle string) ([]candidate, error) {
	quoted := regexp.QuoteMeta(handle)
	title, err := regexp.Compile(`(?i)title="([^"]*` + quoted + `[^"]*)"`)
	if err != nil {
		return nil, fmt.Errorf("title pattern for %q: %w", handle, err)
	}
	aria, err := regexp.Compile(`(?i)aria-label="([^"]*` + quoted + `[^"]*)"`)
	if err != nil {
		return nil, fmt.Errorf("aria-label pattern for %q: %w", handle, err)
	}
	return []candidate{submatch(nameClassPattern), submatch(title), submatch(aria)}, nil
}

func acceptName(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) <= 1 {
		return "", false
	}
	if strings.Contains(strings.ToLower(name), "subscriber") {
		return "", false
	}
	return name, true
}

// FindName returns the display name for handle, deriving one from the handle
// when no candidate is acceptable.
func FindName(fragment, handle string) (string, error) {
	candidates, err := nameCandidates(handle)
	if err != nil {
		return "", err
	}
	for _, find := range candidates {
		raw, ok := find(fragment)
		if !ok {
			continue
		}
		if name, ok := acceptName(raw); ok {
			return name, nil
		}
	}
	return DeriveName(handle), nil
}

// DeriveName turns a handle into a readable name: "tom_scott-archive"
// becomes "Tom Scott Archive".
func DeriveName(handle string) string {
	return derivedNameRules.MustApply(handle)
}

// FindSubscribers returns the display count and its raw integer form. The
// first pattern whose captured text holds a count token wins.
func FindSubscribers(fragment string) (display, raw string) {
	for _, pattern := range subscriberPatterns {
		m := pattern.FindStringSubmatch(fragment)
		if m == nil {
			continue
		}
		token := countTokenPattern.FindString(m[1])
		if token == "" {
			continue
		}
		return token, ConvertSubscriberCount(token)
	}
	return "", ""
}

// FindDescription returns the first acceptable description, capped at
// maxLength runes. Non-positive maxLength means DefaultDescriptionMaxLength.
func FindDescription(fragment string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultDescriptionMaxLength
	}
	for _, pattern := range descriptionPatterns {
		raw, ok := submatch(pattern)(fragment)
		if !ok {
			continue
		}
		if desc, ok := acceptDescription(raw); ok {
			return utils.TruncateRunes(desc, maxLength)
		}
	}
	return ""
}

func acceptDescription(raw string) (string, bool) {
	desc := utils.CollapseWhitespace(strings.TrimSpace(raw))
	desc = strings.NewReplacer("\n", " ", "\r", " ").Replace(desc)
	if utf8.RuneCountInString(desc) <= 10 {
		return "", false
	}
	if strings.Contains(strings.ToLower(desc), "subscriber") {
		return "", false
	}
	if bareCountPattern.MatchString(desc) {
		return "", false
	}
	return desc, true
}

// fieldRecoverer applies the fallback families to single fragments. It holds
// no mutable state and is safe for concurrent use.
type fieldRecoverer struct {
	quality              Quality
	descriptionMaxLength int
}

// outcome is the result of recovering one fragment. When found is true the
// record carries at least Link and Handle, even if err is set.
type outcome struct {
	record ChannelRecord
	found  bool
	err    error
}

func (r fieldRecoverer) process(fragment string) (out outcome) {
	defer func() {
		if p := recover(); p != nil {
			out.err = fmt.Errorf("%w: panic: %v", ErrFragmentFailed, p)
		}
	}()

	id, ok := FindIdentity(fragment)
	if !ok {
		return outcome{}
	}
	out.found = true
	out.record = ChannelRecord{Link: id.Link, Handle: id.Handle}

	name, err := FindName(fragment, id.Handle)
	if err != nil {
		out.err = fmt.Errorf("%w: %v", ErrFragmentFailed, err)
		return out
	}
	out.record.Name = name
	out.record.SubscriberCount, out.record.SubscriberCountRaw = FindSubscribers(fragment)

	if r.quality == QualityComprehensive {
		out.record.Description = FindDescription(fragment, r.descriptionMaxLength)
	}

	if url, ok := findInlineImage(fragment); ok {
		out.record.ImageURL = url
	}
	return out
}

// RecoverFragment extracts one channel record from a section fragment. It
// returns nil and no error when the fragment has no channel identity.
// Deduplication across fragments is the caller's concern.
func RecoverFragment(fragment string, quality Quality) (*ChannelRecord, error) {
	out := fieldRecoverer{quality: quality, descriptionMaxLength: DefaultDescriptionMaxLength}.process(fragment)
	if out.err != nil {
		return nil, out.err
	}
	if !out.found {
		return nil, nil
	}
	return &out.record, nil
}
