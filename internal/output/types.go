// internal/output/types.go
package output

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/valpere/SubScrapexter/internal/scraper"
)

// OutputFormat represents supported output formats
type OutputFormat string

const (
	FormatCSV    OutputFormat = "csv"
	FormatJSON   OutputFormat = "json"
	FormatXML    OutputFormat = "xml"
	FormatSQL    OutputFormat = "sql"
	FormatYAML   OutputFormat = "yaml"
	FormatSQLite OutputFormat = "sqlite"
	FormatXLSX   OutputFormat = "xlsx"
)

// DefaultFormat is used when neither a flag nor the file extension decides
const DefaultFormat = FormatCSV

// Columns is the field order shared by the tabular formats
var Columns = []string{"ChannelName", "ChannelLink", "ChannelImage", "SubscriberCount", "SubsCountRaw", "ChannelDescription"}

var extensionFormats = map[string]OutputFormat{
	".csv":     FormatCSV,
	".json":    FormatJSON,
	".xml":     FormatXML,
	".sql":     FormatSQL,
	".yaml":    FormatYAML,
	".yml":     FormatYAML,
	".db":      FormatSQLite,
	".sqlite":  FormatSQLite,
	".sqlite3": FormatSQLite,
	".xlsx":    FormatXLSX,
}

// ValidOutputFormats returns all valid output format values
func ValidOutputFormats() []OutputFormat {
	return []OutputFormat{FormatCSV, FormatJSON, FormatXML, FormatSQL, FormatYAML, FormatSQLite, FormatXLSX}
}

// IsValid checks if the output format is valid
func (of OutputFormat) IsValid() bool {
	for _, valid := range ValidOutputFormats() {
		if of == valid {
			return true
		}
	}
	return false
}

// GetFileExtension returns the preferred file extension for the format
func (of OutputFormat) GetFileExtension() string {
	switch of {
	case FormatSQLite:
		return ".db"
	case FormatYAML:
		return ".yaml"
	default:
		return "." + string(of)
	}
}

// ParseFormat converts a user-supplied format name
func ParseFormat(s string) (OutputFormat, error) {
	of := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if of == "yml" {
		of = FormatYAML
	}
	if !of.IsValid() {
		return "", fmt.Errorf("unsupported output format: %q", s)
	}
	return of, nil
}

// FormatFromExtension sniffs the format from a file name
func FormatFromExtension(path string) (OutputFormat, bool) {
	of, ok := extensionFormats[strings.ToLower(filepath.Ext(path))]
	return of, ok
}

// ResolveFormat picks the explicit format when given, else the one implied
// by the path extension, else DefaultFormat.
func ResolveFormat(explicit, path string) (OutputFormat, error) {
	if strings.TrimSpace(explicit) != "" {
		return ParseFormat(explicit)
	}
	if of, ok := FormatFromExtension(path); ok {
		return of, nil
	}
	return DefaultFormat, nil
}

// Config holds output configuration
type Config struct {
	Format  OutputFormat `yaml:"format" json:"format"`
	File    string       `yaml:"file,omitempty" json:"file,omitempty"`
	Dir     string       `yaml:"dir,omitempty" json:"dir,omitempty"`
	Version string       `yaml:"-" json:"-"`
}

// Path returns the destination path, File joined under Dir when set
func (c *Config) Path() string {
	if c.Dir == "" {
		return c.File
	}
	return filepath.Join(c.Dir, c.File)
}

// Writer serializes a record list. Close commits the destination file, or
// discards it when Write failed.
type Writer interface {
	Write(records []scraper.ChannelRecord) error
	Close() error
}

// Result describes a completed write
type Result struct {
	Path     string        `json:"path"`
	Format   OutputFormat  `json:"format"`
	Records  int           `json:"records"`
	Bytes    int64         `json:"bytes"`
	Duration time.Duration `json:"duration"`
}

// recordRow flattens a record in Columns order
func recordRow(r scraper.ChannelRecord) []string {
	return []string{r.Name, r.Link, r.ImageURL, r.SubscriberCount, r.SubscriberCountRaw, r.Description}
}
