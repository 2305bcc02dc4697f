// internal/config/types.go

// Package config provides the configuration file for SubScrapexter runs.
// A file sets defaults for the extractor, the output destination, logging
// and metrics; command-line flags and environment variables override it.
package config

// Config represents the main configuration structure for an extraction run.
type Config struct {
	// Extractor tunes how channels are recovered from the archive
	Extractor ExtractorConfig `yaml:"extractor" json:"extractor"`

	// Output configuration
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Metrics configuration
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// ExtractorConfig defines field recovery settings.
type ExtractorConfig struct {
	// Quality is fast or comprehensive
	Quality string `yaml:"quality" json:"quality"`

	// Encoding names the primary character encoding of the archive
	Encoding string `yaml:"encoding" json:"encoding"`

	// Workers is the number of concurrent field-recovery workers
	Workers int `yaml:"workers" json:"workers"`

	// DescriptionMaxLength caps descriptions, in characters
	DescriptionMaxLength int `yaml:"description_max_length" json:"description_max_length"`
}

// OutputConfig defines where and how results are written.
type OutputConfig struct {
	// File is the output filename
	File string `yaml:"file" json:"file"`

	// Dir is an optional directory, created when missing
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`

	// Format overrides the format sniffed from the file extension
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// MetricsConfig defines the Prometheus textfile export.
type MetricsConfig struct {
	// File receives run metrics in the text exposition format when set
	File string `yaml:"file,omitempty" json:"file,omitempty"`
}
