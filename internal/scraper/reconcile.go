// internal/scraper/reconcile.go
package scraper

import (
	"slices"

	"golang.org/x/text/cases"
)

// ReconcileStats counts the changes made by the post-pass
type ReconcileStats struct {
	Backfilled     int
	LinkDuplicates int
}

// Reconcile finishes a run: back-fills missing images from unused catalog
// entries in comprehensive mode, drops links already claimed on state and
// sorts by case-folded name. The input slice is not modified.
func Reconcile(records []ChannelRecord, catalog []string, state *RunState, quality Quality) []ChannelRecord {
	out, _ := reconcile(records, catalog, state, quality)
	return out
}

func reconcile(records []ChannelRecord, catalog []string, state *RunState, quality Quality) ([]ChannelRecord, ReconcileStats) {
	var stats ReconcileStats
	if state == nil {
		state = NewRunState()
	}
	working := slices.Clone(records)

	if quality == QualityComprehensive {
		stats.Backfilled = backfillImages(working, state.UnusedImages(catalog), state)
	}

	unique := make([]ChannelRecord, 0, len(working))
	for _, rec := range working {
		if !state.ClaimLink(rec.Link) {
			stats.LinkDuplicates++
			continue
		}
		unique = append(unique, rec)
	}

	sortByName(unique)
	return unique, stats
}

// backfillImages assigns unused images one-for-one to records without one,
// in record order, until either list runs out.
func backfillImages(records []ChannelRecord, unused []string, state *RunState) int {
	next := 0
	for i := range records {
		if next >= len(unused) {
			break
		}
		if records[i].ImageURL != "" {
			continue
		}
		records[i].ImageURL = unused[next]
		state.MarkImageUsed(unused[next])
		next++
	}
	return next
}

// sortByName orders records by case-folded name, keeping the original order
// of equal names.
func sortByName(records []ChannelRecord) {
	fold := cases.Fold()
	type keyed struct {
		key string
		rec ChannelRecord
	}
	items := make([]keyed, len(records))
	for i, rec := range records {
		items[i] = keyed{key: fold.String(rec.Name), rec: rec}
	}
	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		}
		return 0
	})
	for i, item := range items {
		records[i] = item.rec
	}
}
