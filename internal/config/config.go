// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/valpere/SubScrapexter/internal/archive"
	"github.com/valpere/SubScrapexter/internal/output"
	"github.com/valpere/SubScrapexter/internal/scraper"
)

// Default values applied to missing keys
const (
	DefaultOutputFile = "youtube_channels.csv"
	DefaultWorkers    = 1
	DefaultLogLevel   = "info"
)

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", filename)
		}
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes. Environment variables
// in the form $VAR or ${VAR} are expanded before parsing.
func LoadFromBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadFromReader loads configuration from an io.Reader
func LoadFromReader(reader io.Reader) (*Config, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %w", err)
	}

	return LoadFromBytes(data)
}

// Default returns a configuration holding only default values
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

// GenerateTemplate renders a commented YAML configuration with default values
func GenerateTemplate() ([]byte, error) {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration template: %w", err)
	}

	header := "# SubScrapexter configuration\n" +
		"# Values may reference environment variables as ${VAR}.\n" +
		"# quality: fast | comprehensive\n" +
		"# format: csv | json | xml | sql | yaml | sqlite | xlsx (empty: from file extension)\n"
	return append([]byte(header), data...), nil
}

// applyDefaults applies default values to the configuration
func applyDefaults(config *Config) {
	if config.Extractor.Quality == "" {
		config.Extractor.Quality = string(scraper.DefaultQuality)
	}

	if config.Extractor.Encoding == "" {
		config.Extractor.Encoding = archive.DefaultEncoding
	}

	if config.Extractor.Workers == 0 {
		config.Extractor.Workers = DefaultWorkers
	}

	if config.Extractor.DescriptionMaxLength == 0 {
		config.Extractor.DescriptionMaxLength = scraper.DefaultDescriptionMaxLength
	}

	if config.Output.File == "" {
		config.Output.File = DefaultOutputFile
	}

	if config.Logging.Level == "" {
		config.Logging.Level = DefaultLogLevel
	}
}

// OutputConfig converts the output section for the output manager
func (c *Config) OutputConfig(version string) *output.Config {
	return &output.Config{
		Format:  output.OutputFormat(c.Output.Format),
		File:    c.Output.File,
		Dir:     c.Output.Dir,
		Version: version,
	}
}
