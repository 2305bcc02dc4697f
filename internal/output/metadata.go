// internal/output/metadata.go
package output

import (
	"time"

	"github.com/valpere/SubScrapexter/internal/scraper"
)

// ExtractorVersion is reported in export metadata when no version is configured
const ExtractorVersion = "1.1.0"

// exportDateLayout matches an ISO 8601 local timestamp with microseconds
const exportDateLayout = "2006-01-02T15:04:05.000000"

// Metadata describes an export. It is embedded in the json, yaml, xml and
// sql formats.
type Metadata struct {
	ExportDate               string `json:"export_date" yaml:"export_date" xml:"export_date"`
	ExtractorVersion         string `json:"extractor_version" yaml:"extractor_version" xml:"extractor_version"`
	TotalChannels            int    `json:"total_channels" yaml:"total_channels" xml:"total_channels"`
	ChannelsWithSubscribers  int    `json:"channels_with_subscribers" yaml:"channels_with_subscribers" xml:"channels_with_subscribers"`
	ChannelsWithImages       int    `json:"channels_with_images" yaml:"channels_with_images" xml:"channels_with_images"`
	ChannelsWithDescriptions int    `json:"channels_with_descriptions" yaml:"channels_with_descriptions" xml:"channels_with_descriptions"`
}

// NewMetadata builds export metadata for records
func NewMetadata(records []scraper.ChannelRecord, version string, now time.Time) Metadata {
	if version == "" {
		version = ExtractorVersion
	}
	coverage := scraper.Summarize(records)
	return Metadata{
		ExportDate:               now.Format(exportDateLayout),
		ExtractorVersion:         version,
		TotalChannels:            coverage.Total,
		ChannelsWithSubscribers:  coverage.WithSubscribers,
		ChannelsWithImages:       coverage.WithImages,
		ChannelsWithDescriptions: coverage.WithDescriptions,
	}
}

// document is the shape of the json and yaml exports
type document struct {
	Metadata Metadata                `json:"metadata" yaml:"metadata"`
	Channels []scraper.ChannelRecord `json:"channels" yaml:"channels"`
}

// WriterOptions carries the export metadata settings of a writer
type WriterOptions struct {
	Version string
	Now     func() time.Time
}

func (o WriterOptions) metadata(records []scraper.ChannelRecord) Metadata {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	return NewMetadata(records, o.Version, now())
}
