// internal/archive/inspect.go
package archive

import (
	"bytes"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"

	apperrors "github.com/valpere/SubScrapexter/internal/errors"
)

const (
	rendererSelector    = "ytd-channel-renderer"
	channelLinkSelector = `a[href^="https://www.youtube.com/@"]`
	profileImageHost    = "yt3.googleusercontent.com"
)

// PartSummary counts MIME parts sharing a content type.
type PartSummary struct {
	ContentType string
	Count       int
}

// Report describes the structure of a saved archive. It is diagnostic only;
// extraction never depends on it.
type Report struct {
	Path             string
	Size             int64
	Subject          string
	SnapshotLocation string
	Date             string
	TotalParts       int
	Parts            []PartSummary
	ProfileImages    int
	HTMLBytes        int
	PageTitle        string
	Renderers        int
	ChannelLinks     int
	Warnings         []string
}

// LooksLikeSubscriptions reports whether the archive has the markers the
// extractor relies on.
func (r *Report) LooksLikeSubscriptions() bool {
	return r.Renderers > 0 && r.ChannelLinks > 0
}

// Inspect parses the archive at path as a MIME document and summarizes it.
func Inspect(path string) (*Report, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	report, err := InspectBytes(raw)
	if err != nil {
		return nil, apperrors.Input(err, "failed to parse archive: %s", path)
	}
	report.Path = path
	return report, nil
}

// InspectBytes summarizes an in-memory archive.
func InspectBytes(raw []byte) (*Report, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	report := &Report{
		Size:             int64(len(raw)),
		Subject:          env.GetHeader("Subject"),
		SnapshotLocation: env.GetHeader("Snapshot-Content-Location"),
		Date:             env.GetHeader("Date"),
		HTMLBytes:        len(env.HTML),
	}

	for _, perr := range env.Errors {
		report.Warnings = append(report.Warnings, perr.String())
	}

	counts := make(map[string]int)
	if env.Root != nil {
		for _, part := range env.Root.BreadthMatchAll(func(*enmime.Part) bool { return true }) {
			if part.ContentType == "" || strings.HasPrefix(part.ContentType, "multipart/") {
				continue
			}
			counts[part.ContentType]++
			report.TotalParts++
			if strings.Contains(part.Header.Get("Content-Location"), profileImageHost) {
				report.ProfileImages++
			}
		}
	}
	report.Parts = summarizeParts(counts)

	if env.HTML != "" {
		if err := inspectHTML(report, env.HTML); err != nil {
			report.Warnings = append(report.Warnings, "root HTML part could not be parsed: "+err.Error())
		}
	}

	return report, nil
}

func inspectHTML(report *Report, html string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return err
	}

	report.PageTitle = strings.TrimSpace(doc.Find("title").First().Text())
	report.Renderers = doc.Find(rendererSelector).Length()

	seen := make(map[string]bool)
	doc.Find(channelLinkSelector).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		seen[href] = true
	})
	report.ChannelLinks = len(seen)
	return nil
}

func summarizeParts(counts map[string]int) []PartSummary {
	parts := make([]PartSummary, 0, len(counts))
	for ct, n := range counts {
		parts = append(parts, PartSummary{ContentType: ct, Count: n})
	}
	sort.Slice(parts, func(i, j int) bool {
		if parts[i].Count != parts[j].Count {
			return parts[i].Count > parts[j].Count
		}
		return parts[i].ContentType < parts[j].ContentType
	})
	return parts
}
