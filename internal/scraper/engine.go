// internal/scraper/engine.go
package scraper

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/valpere/SubScrapexter/internal/archive"
	"github.com/valpere/SubScrapexter/internal/utils"
)

// verboseSampleSize bounds the per-channel debug lines of one run
const verboseSampleSize = 10

// Options configures an extraction engine
type Options struct {
	Quality              Quality
	Encoding             string
	Workers              int
	DescriptionMaxLength int
	Logger               utils.Logger
}

// Engine runs the extraction pipeline over saved subscription pages. An
// Engine keeps no state between runs and may be reused.
type Engine struct {
	opts      Options
	logger    utils.Logger
	recoverer fieldRecoverer
}

// NewEngine creates a new extraction engine, filling unset options with defaults
func NewEngine(opts Options) (*Engine, error) {
	if opts.Quality == "" {
		opts.Quality = DefaultQuality
	}
	if !opts.Quality.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidQuality, opts.Quality)
	}
	if opts.Encoding == "" {
		opts.Encoding = archive.DefaultEncoding
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.DescriptionMaxLength <= 0 {
		opts.DescriptionMaxLength = DefaultDescriptionMaxLength
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}

	return &Engine{
		opts:   opts,
		logger: opts.Logger.WithField("component", "extractor"),
		recoverer: fieldRecoverer{
			quality:              opts.Quality,
			descriptionMaxLength: opts.DescriptionMaxLength,
		},
	}, nil
}

// Options returns the effective engine options
func (e *Engine) Options() Options {
	return e.opts
}

// Extract loads the archive at path and extracts its channels
func (e *Engine) Extract(ctx context.Context, path string) (*Result, error) {
	doc, err := archive.Load(path, e.opts.Encoding)
	if err != nil {
		return nil, err
	}
	e.logger.Infof("loaded %s (%d bytes, %s)", doc.Path, doc.Size, doc.Encoding)

	result, err := e.ExtractText(ctx, doc.Text)
	if err != nil {
		return nil, err
	}
	result.Source = path
	return result, nil
}

// ExtractText extracts channels from already normalized archive text
func (e *Engine) ExtractText(ctx context.Context, text string) (*Result, error) {
	start := time.Now()
	state := NewRunState()
	result := &Result{Quality: e.opts.Quality, Channels: []ChannelRecord{}}

	catalog := CollectImages(text)
	result.Stats.CatalogImages = len(catalog)
	e.logger.Infof("found %d unique profile images", len(catalog))

	sections := SplitSections(text)
	result.Stats.Sections = len(sections)
	e.logger.Infof("found %d channel sections", len(sections))

	outcomes, err := e.recoverAll(ctx, sections)
	if err != nil {
		return nil, err
	}

	records := e.merge(outcomes, state, &result.Stats)

	channels, rstats := reconcile(records, catalog, state, e.opts.Quality)
	result.Stats.BackfilledImages = rstats.Backfilled
	result.Stats.LinkDuplicates = rstats.LinkDuplicates
	if rstats.Backfilled > 0 {
		e.logger.Debugf("back-filled %d images from unused catalog entries", rstats.Backfilled)
	}

	result.Channels = channels
	result.Stats.Duration = time.Since(start)
	e.logger.Infof("extracted %d unique channels", len(channels))
	return result, nil
}

// recoverAll runs field recovery for every section. Results are indexed by
// section so the merge can replay them in document order.
func (e *Engine) recoverAll(ctx context.Context, sections []string) ([]outcome, error) {
	outcomes := make([]outcome, len(sections))

	if e.opts.Workers <= 1 {
		for i, section := range sections {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = e.recoverer.process(section)
		}
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, section := range sections {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = e.recoverer.process(section)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// merge applies the handle dedup gate and the used-image bookkeeping in
// section order.
func (e *Engine) merge(outcomes []outcome, state *RunState, stats *Stats) []ChannelRecord {
	records := make([]ChannelRecord, 0, len(outcomes))
	for i, out := range outcomes {
		if !out.found {
			stats.MissingIdentity++
			continue
		}
		if !state.ClaimHandle(out.record.Handle) {
			stats.Duplicates++
			continue
		}
		if out.err != nil {
			stats.FailedFragments++
			e.logger.Warnf("error processing section %d: %v", i, out.err)
			continue
		}

		rec := out.record
		if rec.ImageURL != "" {
			state.MarkImageUsed(rec.ImageURL)
			stats.InlineImages++
		}
		records = append(records, rec)

		if len(records) <= verboseSampleSize && (rec.SubscriberCount != "" || rec.Description != "") {
			e.logger.Debugf("found: %s - %s - image: %t", rec.Name, rec.SubscriberCount, rec.ImageURL != "")
		}
	}
	return records
}
