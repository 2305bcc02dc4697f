// internal/output/yaml.go
package output

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/valpere/SubScrapexter/internal/scraper"
)

// YAMLWriter writes the same export document as JSONWriter in YAML
type YAMLWriter struct {
	filename string
	file     *atomicFile
	encoder  *yaml.Encoder
	options  WriterOptions
}

// NewYAMLWriter creates a new YAML writer
func NewYAMLWriter(filename string, options WriterOptions) (*YAMLWriter, error) {
	file, err := createAtomic(filename)
	if err != nil {
		return nil, err
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)

	return &YAMLWriter{
		filename: filename,
		file:     file,
		encoder:  encoder,
		options:  options,
	}, nil
}

// Write writes the export document
func (w *YAMLWriter) Write(records []scraper.ChannelRecord) error {
	doc := document{
		Metadata: w.options.metadata(records),
		Channels: records,
	}
	if err := w.encoder.Encode(doc); err != nil {
		return w.file.fail(fmt.Errorf("failed to encode YAML: %w", err))
	}
	return nil
}

// Close finishes the YAML stream and commits the file
func (w *YAMLWriter) Close() error {
	var encErr error
	if w.encoder != nil {
		encErr = w.file.fail(w.encoder.Close())
		w.encoder = nil
	}
	closeErr := w.file.Close()
	if encErr != nil {
		return fmt.Errorf("failed to finish YAML document: %w", encErr)
	}
	return closeErr
}
