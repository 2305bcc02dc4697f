// cmd/subscrapexter/report.go
package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/valpere/SubScrapexter/internal/archive"
	"github.com/valpere/SubScrapexter/internal/output"
	"github.com/valpere/SubScrapexter/internal/scraper"
	"github.com/valpere/SubScrapexter/internal/utils"
)

// sampleChannels is how many channels verbose mode lists after a run
const sampleChannels = 3

// renderSummary prints the results table of a completed run
func renderSummary(w io.Writer, result *scraper.Result, written *output.Result, verbose bool) {
	coverage := scraper.Summarize(result.Channels)

	t := newTable(w, "Extraction Results")
	t.AppendHeader(table.Row{"Metric", "Count", "Share"})
	t.AppendRow(table.Row{"Total channels", coverage.Total, ""})
	t.AppendRow(table.Row{"With subscriber counts", coverage.WithSubscribers, percent(coverage.WithSubscribers, coverage.Total)})
	t.AppendRow(table.Row{"With images", coverage.WithImages, percent(coverage.WithImages, coverage.Total)})
	t.AppendRow(table.Row{"With descriptions", coverage.WithDescriptions, percent(coverage.WithDescriptions, coverage.Total)})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Output", written.Path, string(written.Format)})
	t.AppendRow(table.Row{"Duration", utils.FormatDuration(result.Stats.Duration + written.Duration), ""})
	t.Render()

	if !verbose {
		return
	}

	stats := result.Stats
	s := newTable(w, "Run Statistics")
	s.AppendHeader(table.Row{"Stage", "Count"})
	s.AppendRows([]table.Row{
		{"Sections found", stats.Sections},
		{"Skipped: no channel link", stats.MissingIdentity},
		{"Skipped: duplicate handle", stats.Duplicates},
		{"Skipped: duplicate link", stats.LinkDuplicates},
		{"Failed fragments", stats.FailedFragments},
		{"Images catalogued", stats.CatalogImages},
		{"Images found inline", stats.InlineImages},
		{"Images back-filled", stats.BackfilledImages},
	})
	s.Render()

	n := min(sampleChannels, len(result.Channels))
	c := newTable(w, fmt.Sprintf("First %d Channels", n))
	c.AppendHeader(table.Row{"Name", "Subscribers", "Link"})
	for _, ch := range result.Channels[:n] {
		subs := ch.SubscriberCount
		if subs == "" {
			subs = "n/a"
		}
		c.AppendRow(table.Row{ch.Name, subs, ch.Link})
	}
	c.Render()
}

// renderInspection prints an archive diagnostics report
func renderInspection(w io.Writer, report *archive.Report) {
	t := newTable(w, "Archive")
	t.AppendRows([]table.Row{
		{"Path", report.Path},
		{"Size", fmt.Sprintf("%d bytes", report.Size)},
		{"Subject", report.Subject},
		{"Snapshot location", report.SnapshotLocation},
		{"Date", report.Date},
		{"MIME parts", report.TotalParts},
		{"Profile images", report.ProfileImages},
		{"Root HTML", fmt.Sprintf("%d bytes", report.HTMLBytes)},
		{"Page title", report.PageTitle},
		{"Channel renderers", report.Renderers},
		{"Channel links", report.ChannelLinks},
	})
	t.Render()

	if len(report.Parts) > 0 {
		p := newTable(w, "Parts")
		p.AppendHeader(table.Row{"Content type", "Count"})
		for _, part := range report.Parts {
			p.AppendRow(table.Row{part.ContentType, part.Count})
		}
		p.Render()
	}

	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "⚠ %s\n", warning)
	}
	if report.LooksLikeSubscriptions() {
		fmt.Fprintln(w, "✓ Archive looks like a YouTube subscriptions page")
	} else {
		fmt.Fprintln(w, "⚠ No channel renderers found; extraction will likely find no channels")
	}
}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	t.Style().Title.Align = text.AlignLeft
	return t
}

func percent(part, total int) string {
	return fmt.Sprintf("%.1f%%", utils.Percentage(part, total))
}
