// internal/output/sql.go
package output

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/valpere/SubScrapexter/internal/scraper"
)

// ChannelsTable is the table name used by the sql and sqlite formats
const ChannelsTable = "youtube_channels"

const createTableSQL = `CREATE TABLE IF NOT EXISTS youtube_channels (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    channel_name VARCHAR(255) NOT NULL,
    channel_link VARCHAR(500) NOT NULL UNIQUE,
    channel_image VARCHAR(500),
    subscriber_count VARCHAR(20),
    subscriber_count_raw INTEGER,
    channel_description TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

const insertColumnsSQL = "INSERT INTO youtube_channels (channel_name, channel_link, channel_image, subscriber_count, subscriber_count_raw, channel_description) VALUES"

var createIndexSQL = []string{
	"CREATE INDEX IF NOT EXISTS idx_channel_name ON youtube_channels(channel_name);",
	"CREATE INDEX IF NOT EXISTS idx_subscriber_count_raw ON youtube_channels(subscriber_count_raw);",
}

// SQLWriter writes a portable SQL script that recreates the channel table
type SQLWriter struct {
	filename string
	file     *atomicFile
	options  WriterOptions
}

// NewSQLWriter creates a new SQL script writer
func NewSQLWriter(filename string, options WriterOptions) (*SQLWriter, error) {
	file, err := createAtomic(filename)
	if err != nil {
		return nil, err
	}

	return &SQLWriter{
		filename: filename,
		file:     file,
		options:  options,
	}, nil
}

// Write writes the script: header, table, inserts and indexes
func (w *SQLWriter) Write(records []scraper.ChannelRecord) error {
	meta := w.options.metadata(records)
	out := bufio.NewWriter(w.file)

	fmt.Fprintln(out, "-- YouTube Channels Export")
	fmt.Fprintf(out, "-- Generated on: %s\n", meta.ExportDate)
	fmt.Fprintf(out, "-- Extractor version: %s\n", meta.ExtractorVersion)
	fmt.Fprintf(out, "-- Total channels: %d\n\n", meta.TotalChannels)

	fmt.Fprintln(out, "-- Create table for YouTube channels")
	fmt.Fprintf(out, "%s\n\n", createTableSQL)

	fmt.Fprintln(out, "-- Clear existing data")
	fmt.Fprintf(out, "DELETE FROM %s;\n\n", ChannelsTable)

	fmt.Fprintln(out, "-- Insert channel data")
	for _, r := range records {
		fmt.Fprintln(out, insertColumnsSQL)
		fmt.Fprintf(out, "  (%s, %s, %s, %s, %s, %s);\n",
			sqlString(r.Name), sqlString(r.Link), sqlString(r.ImageURL),
			sqlString(r.SubscriberCount), sqlInteger(r.SubscriberCountRaw), sqlString(r.Description))
	}

	fmt.Fprintln(out, "\n-- Create indexes for better performance")
	for _, stmt := range createIndexSQL {
		fmt.Fprintln(out, stmt)
	}
	fmt.Fprintln(out, "\n-- End of export")

	if err := out.Flush(); err != nil {
		return w.file.fail(fmt.Errorf("failed to write SQL script: %w", err))
	}
	return nil
}

// Close commits the SQL file
func (w *SQLWriter) Close() error {
	return w.file.Close()
}

// sqlString quotes s as a SQL string literal
func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// sqlInteger renders a raw count, or NULL when it is not a plain integer
func sqlInteger(s string) string {
	if !scraper.IsPlainCount(s) {
		return "NULL"
	}
	return s
}
