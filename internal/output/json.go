// internal/output/json.go
package output

import (
	"encoding/json"

	"github.com/valpere/SubScrapexter/internal/scraper"
)

// JSONWriter writes channels and export metadata as one JSON document
type JSONWriter struct {
	filename string
	file     *atomicFile
	options  WriterOptions
}

// NewJSONWriter creates a new JSON writer
func NewJSONWriter(filename string, options WriterOptions) (*JSONWriter, error) {
	file, err := createAtomic(filename)
	if err != nil {
		return nil, err
	}

	return &JSONWriter{
		filename: filename,
		file:     file,
		options:  options,
	}, nil
}

// Write writes the export document
func (w *JSONWriter) Write(records []scraper.ChannelRecord) error {
	encoder := json.NewEncoder(w.file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return w.file.fail(encoder.Encode(document{
		Metadata: w.options.metadata(records),
		Channels: records,
	}))
}

// Close commits the JSON file
func (w *JSONWriter) Close() error {
	return w.file.Close()
}
