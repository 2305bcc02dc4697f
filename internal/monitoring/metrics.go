// internal/monitoring/metrics.go
package monitoring

import (
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/valpere/SubScrapexter/internal/output"
	"github.com/valpere/SubScrapexter/internal/scraper"
)

// MetricsManager collects Prometheus metrics for one SubScrapexter run. Each
// manager owns its registry so runs and tests never share collectors.
type MetricsManager struct {
	registry *prometheus.Registry

	// Run metrics
	runInfo      *prometheus.GaugeVec
	runsTotal    *prometheus.CounterVec
	lastRunTime  prometheus.Gauge
	runDuration  prometheus.Gauge
	memoryUsage  prometheus.Gauge
	goroutineCount prometheus.Gauge

	// Extraction metrics
	sectionsFound     prometheus.Gauge
	channelsExtracted prometheus.Gauge
	fragmentsSkipped  *prometheus.GaugeVec
	images            *prometheus.GaugeVec
	fieldCoverage     *prometheus.GaugeVec
	extractionTime    prometheus.Gauge

	// Output metrics
	recordsWritten *prometheus.GaugeVec
	outputSize     *prometheus.GaugeVec
	outputTime     *prometheus.GaugeVec

	namespace string
	subsystem string
}

// MetricsConfig configuration for metrics
type MetricsConfig struct {
	Namespace string `json:"namespace"`
	Subsystem string `json:"subsystem"`
}

// NewMetricsManager creates a new metrics manager
func NewMetricsManager(config MetricsConfig) *MetricsManager {
	if config.Namespace == "" {
		config.Namespace = "subscrapexter"
	}
	if config.Subsystem == "" {
		config.Subsystem = "extractor"
	}

	mm := &MetricsManager{
		registry:  prometheus.NewRegistry(),
		namespace: config.Namespace,
		subsystem: config.Subsystem,
	}

	mm.initializeMetrics()

	return mm
}

// initializeMetrics registers all collectors on the manager's registry
func (mm *MetricsManager) initializeMetrics() {
	factory := promauto.With(mm.registry)

	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      name,
			Help:      help,
		})
	}
	gaugeVec := func(name, help string, labels ...string) *prometheus.GaugeVec {
		return factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      name,
			Help:      help,
		}, labels)
	}

	// Run metrics
	mm.runInfo = gaugeVec("run_info", "Run metadata, always 1", "version", "quality", "encoding")
	mm.runsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "runs_total",
			Help:      "Completed runs by status",
		},
		[]string{"status"},
	)
	mm.lastRunTime = gauge("last_run_timestamp_seconds", "Unix time the run finished")
	mm.runDuration = gauge("run_duration_seconds", "Wall time of the whole run")
	mm.memoryUsage = gauge("memory_usage_bytes", "Heap bytes allocated at the end of the run")
	mm.goroutineCount = gauge("goroutines", "Goroutines alive at the end of the run")

	// Extraction metrics
	mm.sectionsFound = gauge("sections_found", "Channel sections located in the document")
	mm.channelsExtracted = gauge("channels_extracted", "Channel records after reconciliation")
	mm.fragmentsSkipped = gaugeVec("fragments_skipped", "Sections that produced no record", "reason")
	mm.images = gaugeVec("images", "Profile images by source", "source")
	mm.fieldCoverage = gaugeVec("field_coverage", "Records carrying an optional field", "field")
	mm.extractionTime = gauge("extraction_duration_seconds", "Time spent extracting channels")

	// Output metrics
	mm.recordsWritten = gaugeVec("records_written", "Records written to the output file", "format")
	mm.outputSize = gaugeVec("output_size_bytes", "Size of the output file", "format")
	mm.outputTime = gaugeVec("output_duration_seconds", "Time spent writing the output file", "format")
}

// Registry exposes the underlying registry
func (mm *MetricsManager) Registry() *prometheus.Registry {
	return mm.registry
}

// RecordRunInfo records static labels describing the run
func (mm *MetricsManager) RecordRunInfo(version, quality, encoding string) {
	mm.runInfo.WithLabelValues(version, quality, encoding).Set(1)
}

// RecordExtraction records the outcome of an extraction run
func (mm *MetricsManager) RecordExtraction(result *scraper.Result) {
	if result == nil {
		return
	}
	stats := result.Stats

	mm.sectionsFound.Set(float64(stats.Sections))
	mm.channelsExtracted.Set(float64(len(result.Channels)))
	mm.extractionTime.Set(stats.Duration.Seconds())

	mm.fragmentsSkipped.WithLabelValues("missing_identity").Set(float64(stats.MissingIdentity))
	mm.fragmentsSkipped.WithLabelValues("duplicate").Set(float64(stats.Duplicates))
	mm.fragmentsSkipped.WithLabelValues("failed").Set(float64(stats.FailedFragments))
	mm.fragmentsSkipped.WithLabelValues("duplicate_link").Set(float64(stats.LinkDuplicates))

	mm.images.WithLabelValues("catalog").Set(float64(stats.CatalogImages))
	mm.images.WithLabelValues("inline").Set(float64(stats.InlineImages))
	mm.images.WithLabelValues("backfilled").Set(float64(stats.BackfilledImages))

	coverage := scraper.Summarize(result.Channels)
	mm.fieldCoverage.WithLabelValues("subscribers").Set(float64(coverage.WithSubscribers))
	mm.fieldCoverage.WithLabelValues("image").Set(float64(coverage.WithImages))
	mm.fieldCoverage.WithLabelValues("description").Set(float64(coverage.WithDescriptions))
}

// RecordOutput records a completed write
func (mm *MetricsManager) RecordOutput(result *output.Result) {
	if result == nil {
		return
	}
	format := string(result.Format)
	mm.recordsWritten.WithLabelValues(format).Set(float64(result.Records))
	mm.outputSize.WithLabelValues(format).Set(float64(result.Bytes))
	mm.outputTime.WithLabelValues(format).Set(result.Duration.Seconds())
}

// RecordRunComplete marks the run finished with the given status
func (mm *MetricsManager) RecordRunComplete(status string, duration time.Duration, finished time.Time) {
	mm.runsTotal.WithLabelValues(status).Inc()
	mm.runDuration.Set(duration.Seconds())
	mm.lastRunTime.Set(float64(finished.Unix()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	mm.memoryUsage.Set(float64(m.Alloc))
	mm.goroutineCount.Set(float64(runtime.NumGoroutine()))
}

// WriteTextfile writes all metrics in the text exposition format, suitable
// for the node_exporter textfile collector. The file is replaced atomically.
func (mm *MetricsManager) WriteTextfile(path string) error {
	if path == "" {
		return fmt.Errorf("metrics file path cannot be empty")
	}
	if err := prometheus.WriteToTextfile(path, mm.registry); err != nil {
		return fmt.Errorf("failed to write metrics file %s: %w", path, err)
	}
	return nil
}
