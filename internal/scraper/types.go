// internal/scraper/types.go
package scraper

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common errors
var (
	ErrInvalidQuality = errors.New("invalid quality mode")
	ErrFragmentFailed = errors.New("fragment recovery failed")
)

// Quality trades extraction completeness for speed.
type Quality string

const (
	// QualityFast skips descriptions and image back-fill.
	QualityFast Quality = "fast"
	// QualityComprehensive recovers every field and back-fills images.
	QualityComprehensive Quality = "comprehensive"
)

// DefaultQuality is used when no quality mode is configured
const DefaultQuality = QualityComprehensive

// ValidQualities returns all valid quality modes
func ValidQualities() []Quality {
	return []Quality{QualityFast, QualityComprehensive}
}

// IsValid checks if the quality mode is known
func (q Quality) IsValid() bool {
	for _, valid := range ValidQualities() {
		if q == valid {
			return true
		}
	}
	return false
}

// ParseQuality converts a user-supplied mode name. Empty means DefaultQuality.
func ParseQuality(s string) (Quality, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultQuality, nil
	}
	q := Quality(s)
	if !q.IsValid() {
		return "", fmt.Errorf("%w: %q (expected fast or comprehensive)", ErrInvalidQuality, s)
	}
	return q, nil
}

// ChannelRecord is one extracted channel.
type ChannelRecord struct {
	Name               string `json:"ChannelName" yaml:"ChannelName"`
	Link               string `json:"ChannelLink" yaml:"ChannelLink"`
	Handle             string `json:"-" yaml:"-"`
	ImageURL           string `json:"ChannelImage" yaml:"ChannelImage"`
	SubscriberCount    string `json:"SubscriberCount" yaml:"SubscriberCount"`
	SubscriberCountRaw string `json:"SubsCountRaw" yaml:"SubsCountRaw"`
	Description        string `json:"ChannelDescription" yaml:"ChannelDescription"`
}

// Stats describes what happened during one extraction run
type Stats struct {
	Sections         int           `json:"sections"`
	MissingIdentity  int           `json:"missing_identity"`
	Duplicates       int           `json:"duplicates"`
	FailedFragments  int           `json:"failed_fragments"`
	CatalogImages    int           `json:"catalog_images"`
	InlineImages     int           `json:"inline_images"`
	BackfilledImages int           `json:"backfilled_images"`
	LinkDuplicates   int           `json:"link_duplicates"`
	Duration         time.Duration `json:"duration"`
}

// Result is the outcome of one extraction run
type Result struct {
	Source   string          `json:"source,omitempty"`
	Quality  Quality         `json:"quality"`
	Channels []ChannelRecord `json:"channels"`
	Stats    Stats           `json:"stats"`
}

// Empty reports whether the run produced no channels. This is a valid outcome,
// not an error.
func (r *Result) Empty() bool {
	return r == nil || len(r.Channels) == 0
}

// Coverage counts how many records carry each optional field
type Coverage struct {
	Total            int `json:"total_channels" yaml:"total_channels"`
	WithSubscribers  int `json:"channels_with_subscribers" yaml:"channels_with_subscribers"`
	WithImages       int `json:"channels_with_images" yaml:"channels_with_images"`
	WithDescriptions int `json:"channels_with_descriptions" yaml:"channels_with_descriptions"`
}

// Summarize computes field coverage for a record list
func Summarize(channels []ChannelRecord) Coverage {
	c := Coverage{Total: len(channels)}
	for _, ch := range channels {
		if ch.SubscriberCount != "" {
			c.WithSubscribers++
		}
		if ch.ImageURL != "" {
			c.WithImages++
		}
		if ch.Description != "" {
			c.WithDescriptions++
		}
	}
	return c
}
