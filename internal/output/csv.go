// internal/output/csv.go
package output

import (
	"encoding/csv"
	"fmt"

	"github.com/valpere/SubScrapexter/internal/scraper"
)

// CSVWriter writes channels in CSV format
type CSVWriter struct {
	filename string
	file     *atomicFile
	writer   *csv.Writer
}

// NewCSVWriter creates a new CSV writer
func NewCSVWriter(filename string) (*CSVWriter, error) {
	file, err := createAtomic(filename)
	if err != nil {
		return nil, err
	}

	writer := csv.NewWriter(file)
	writer.UseCRLF = true

	return &CSVWriter{
		filename: filename,
		file:     file,
		writer:   writer,
	}, nil
}

// Write writes the header and one row per channel
func (w *CSVWriter) Write(records []scraper.ChannelRecord) error {
	if err := w.writer.Write(Columns); err != nil {
		return w.file.fail(fmt.Errorf("failed to write header: %w", err))
	}

	for _, rec := range records {
		if err := w.writer.Write(recordRow(rec)); err != nil {
			return w.file.fail(fmt.Errorf("failed to write record: %w", err))
		}
	}

	w.writer.Flush()
	return w.file.fail(w.writer.Error())
}

// Close flushes and commits the CSV file
func (w *CSVWriter) Close() error {
	var flushErr error
	if w.writer != nil {
		w.writer.Flush()
		flushErr = w.file.fail(w.writer.Error())
		w.writer = nil
	}
	closeErr := w.file.Close()
	if flushErr != nil {
		return fmt.Errorf("failed to flush CSV: %w", flushErr)
	}
	return closeErr
}
