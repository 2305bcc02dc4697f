// cmd/subscrapexter/extract.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/SubScrapexter/internal/config"
	apperrors "github.com/valpere/SubScrapexter/internal/errors"
	"github.com/valpere/SubScrapexter/internal/monitoring"
	"github.com/valpere/SubScrapexter/internal/output"
	"github.com/valpere/SubScrapexter/internal/scraper"
	"github.com/valpere/SubScrapexter/internal/utils"
)

// extractFlags maps configuration keys to extract flags
var extractFlags = map[string]string{
	"output.file":        "output",
	"output.dir":         "output-dir",
	"output.format":      "format",
	"extractor.quality":  "quality",
	"extractor.encoding": "encoding",
	"extractor.workers":  "workers",
	"metrics.file":       "metrics-file",
}

func (a *app) extractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <input.mhtml>",
		Short: "Extract channels from a saved subscriptions page",
		Example: `  subscrapexter extract subscriptions.mhtml
  subscrapexter extract subscriptions.mhtml -o channels.json
  subscrapexter extract subscriptions.mhtml -o channels.db --output-dir exports --quality fast`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd, extractFlags)
			if err != nil {
				return err
			}
			return a.runExtract(cmd.Context(), cfg, args[0])
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()
	flags.StringP("output", "o", defaults.Output.File, "output filename")
	flags.String("output-dir", "", "output directory, created if missing")
	flags.StringP("format", "f", "", "csv|json|xml|sql|yaml|sqlite|xlsx (default: from the output extension, csv when unknown)")
	flags.String("quality", defaults.Extractor.Quality, "fast|comprehensive")
	flags.String("encoding", defaults.Extractor.Encoding, "input encoding")
	flags.Int("workers", defaults.Extractor.Workers, "field-recovery workers")
	flags.String("metrics-file", "", "write Prometheus textfile metrics for the run")

	return cmd
}

// runExtract extracts channels from input and writes them per cfg
func (a *app) runExtract(ctx context.Context, cfg *config.Config, input string) (err error) {
	start := time.Now()
	logger := a.newLogger(cfg)
	defer logger.Sync()

	quality, err := scraper.ParseQuality(cfg.Extractor.Quality)
	if err != nil {
		return apperrors.Config(err, "invalid quality")
	}

	var metrics *monitoring.MetricsManager
	if cfg.Metrics.File != "" {
		metrics = monitoring.NewMetricsManager(monitoring.MetricsConfig{})
		metrics.RecordRunInfo(version, string(quality), cfg.Extractor.Encoding)
		defer func() {
			a.writeMetrics(metrics, cfg.Metrics.File, runStatus(err), time.Since(start), logger)
		}()
	}

	engine, err := scraper.NewEngine(scraper.Options{
		Quality:              quality,
		Encoding:             cfg.Extractor.Encoding,
		Workers:              cfg.Extractor.Workers,
		DescriptionMaxLength: cfg.Extractor.DescriptionMaxLength,
		Logger:               logger,
	})
	if err != nil {
		return apperrors.Config(err, "failed to create extraction engine")
	}

	manager, err := output.NewManager(cfg.OutputConfig(version), logger)
	if err != nil {
		return err
	}

	logger.Infof("extracting channels from %s (%s mode)", input, quality)
	result, err := engine.Extract(ctx, input)
	if err != nil {
		return err
	}
	if metrics != nil {
		metrics.RecordExtraction(result)
	}

	if result.Empty() {
		return fmt.Errorf("%w in %s", apperrors.ErrNoChannels, input)
	}

	written, err := manager.Write(result.Channels)
	if err != nil {
		return err
	}
	if metrics != nil {
		metrics.RecordOutput(written)
	}

	renderSummary(a.stdout, result, written, a.verbose)
	return nil
}

func (a *app) writeMetrics(metrics *monitoring.MetricsManager, path, status string, elapsed time.Duration, logger utils.Logger) {
	metrics.RecordRunComplete(status, elapsed, time.Now())
	if err := metrics.WriteTextfile(path); err != nil {
		logger.Warnf("metrics not written: %v", err)
		return
	}
	logger.Debugf("metrics written to %s", path)
}

func runStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case apperrors.Is(err, apperrors.ErrNoChannels):
		return "empty"
	default:
		return "failed"
	}
}
