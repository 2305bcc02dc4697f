// internal/config/validation.go - validation with detailed error messages
package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/valpere/SubScrapexter/internal/output"
	"github.com/valpere/SubScrapexter/internal/scraper"
)

// ValidationError represents a detailed validation error
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []string          `json:"warnings"`
}

func (r *ValidationResult) addError(field, value, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: message})
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	result := c.ValidateWithDetails()
	if len(result.Errors) > 0 {
		return formatValidationError(result)
	}
	return nil
}

// ValidateWithDetails provides detailed validation results
func (c *Config) ValidateWithDetails() *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]ValidationError, 0),
		Warnings: make([]string, 0),
	}

	c.validateExtractor(result)
	c.validateOutput(result)
	c.validateLogging(result)

	return result
}

func (c *Config) validateExtractor(result *ValidationResult) {
	ex := c.Extractor

	if _, err := scraper.ParseQuality(ex.Quality); err != nil {
		result.addError("extractor.quality", ex.Quality, "Quality must be fast or comprehensive")
	}

	if ex.Workers < 1 {
		result.addError("extractor.workers", fmt.Sprint(ex.Workers), "Workers must be at least 1")
	}

	if ex.DescriptionMaxLength < 1 {
		result.addError("extractor.description_max_length", fmt.Sprint(ex.DescriptionMaxLength),
			"Description length limit must be positive")
	}

	// Unknown encodings fall back to latin-1 at decode time.
	if ex.Encoding != "" {
		if _, err := htmlindex.Get(ex.Encoding); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Unknown encoding %q, input will be decoded as latin-1", ex.Encoding))
		}
	}
}

func (c *Config) validateOutput(result *ValidationResult) {
	out := c.Output

	if strings.TrimSpace(out.File) == "" {
		result.addError("output.file", out.File, "Output file is required")
	}

	if out.Format != "" {
		if _, err := output.ParseFormat(out.Format); err != nil {
			result.addError("output.format", out.Format,
				fmt.Sprintf("Unsupported format, expected one of %s", formatList()))
		}
	} else if out.File != "" {
		if _, ok := output.FormatFromExtension(out.File); !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Unrecognized extension on %q, output will be written as csv", out.File))
		}
	}
}

func (c *Config) validateLogging(result *ValidationResult) {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		result.addError("logging.level", c.Logging.Level, "Log level must be debug, info, warn or error")
	}
}

func formatList() string {
	formats := output.ValidOutputFormats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// formatValidationError creates a comprehensive error message
func formatValidationError(result *ValidationResult) error {
	var errorMsg strings.Builder

	errorMsg.WriteString("configuration validation failed:\n")

	for i, err := range result.Errors {
		errorMsg.WriteString(fmt.Sprintf("  %d. %s", i+1, err.Message))
		if err.Field != "" {
			errorMsg.WriteString(fmt.Sprintf(" (field: %s)", err.Field))
		}
		if err.Value != "" {
			errorMsg.WriteString(fmt.Sprintf(" (value: %s)", err.Value))
		}
		errorMsg.WriteString("\n")
	}

	if len(result.Warnings) > 0 {
		errorMsg.WriteString("\nwarnings:\n")
		for i, warning := range result.Warnings {
			errorMsg.WriteString(fmt.Sprintf("  %d. %s\n", i+1, warning))
		}
	}

	return fmt.Errorf("%s", errorMsg.String())
}
