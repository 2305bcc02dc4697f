// internal/output/manager.go
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/valpere/SubScrapexter/internal/errors"
	"github.com/valpere/SubScrapexter/internal/scraper"
	"github.com/valpere/SubScrapexter/internal/utils"
)

// Manager manages different output formats
type Manager struct {
	config *Config
	logger utils.Logger
	now    func() time.Time
}

// NewManager creates a new output manager. An empty format is resolved from
// the file extension.
func NewManager(cfg *Config, logger utils.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, apperrors.Config(nil, "output configuration is required")
	}
	if cfg.File == "" {
		return nil, apperrors.Config(nil, "output file is required")
	}

	format, err := ResolveFormat(string(cfg.Format), cfg.File)
	if err != nil {
		return nil, apperrors.Config(err, "invalid output configuration")
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	config := *cfg
	config.Format = format

	return &Manager{
		config: &config,
		logger: logger.WithField("component", "output"),
		now:    time.Now,
	}, nil
}

// Config returns the resolved output configuration
func (m *Manager) Config() Config {
	return *m.config
}

// GetWriter returns the appropriate writer for the configured format
func (m *Manager) GetWriter(path string) (Writer, error) {
	options := WriterOptions{Version: m.config.Version, Now: m.now}
	switch m.config.Format {
	case FormatCSV:
		return NewCSVWriter(path)
	case FormatJSON:
		return NewJSONWriter(path, options)
	case FormatXML:
		return NewXMLWriter(path, options)
	case FormatSQL:
		return NewSQLWriter(path, options)
	case FormatYAML:
		return NewYAMLWriter(path, options)
	case FormatSQLite:
		return NewSQLiteWriter(path, options)
	case FormatXLSX:
		return NewExcelWriter(path)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", m.config.Format)
	}
}

// Write serializes records to the configured destination. An empty list is
// reported as ErrNoChannels and nothing is written.
func (m *Manager) Write(records []scraper.ChannelRecord) (*Result, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: nothing to write", apperrors.ErrNoChannels)
	}

	start := time.Now()
	path := m.config.Path()

	if m.config.Dir != "" {
		if err := os.MkdirAll(m.config.Dir, 0o755); err != nil {
			return nil, apperrors.Output(err, "failed to create output directory: %s", m.config.Dir)
		}
	} else if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, apperrors.Output(err, "output directory does not exist: %s", dir)
		}
	}

	writer, err := m.GetWriter(path)
	if err != nil {
		return nil, apperrors.Output(err, "failed to open %s output: %s", m.config.Format, path)
	}

	if err := writer.Write(records); err != nil {
		writer.Close()
		return nil, apperrors.Output(err, "failed to write %s output: %s", m.config.Format, path)
	}
	if err := writer.Close(); err != nil {
		return nil, apperrors.Output(err, "failed to save %s output: %s", m.config.Format, path)
	}

	result := &Result{
		Path:     path,
		Format:   m.config.Format,
		Records:  len(records),
		Duration: time.Since(start),
	}
	if info, err := os.Stat(path); err == nil {
		result.Bytes = info.Size()
	}

	m.logger.Infof("saved %d channels to %s (%s)", result.Records, path, result.Format)
	return result, nil
}
