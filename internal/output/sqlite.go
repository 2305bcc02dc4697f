// internal/output/sqlite.go
package output

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/valpere/SubScrapexter/internal/scraper"
)

const createMetadataTableSQL = `CREATE TABLE IF NOT EXISTS export_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

// SQLiteWriter writes channels into a fresh SQLite database file
type SQLiteWriter struct {
	filename string
	tmpName  string
	db       *sql.DB
	options  WriterOptions
	failed   bool
	closed   bool
}

// NewSQLiteWriter creates a new SQLite writer. The database is built in a
// temporary file next to filename and moved into place on Close.
func NewSQLiteWriter(filename string, options WriterOptions) (*SQLiteWriter, error) {
	tmp, err := createAtomic(filename)
	if err != nil {
		return nil, err
	}
	tmpName := tmp.Name()
	if err := tmp.File.Close(); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to prepare database file: %w", err)
	}

	db, err := sql.Open("sqlite3", tmpName+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &SQLiteWriter{
		filename: filename,
		tmpName:  tmpName,
		db:       db,
		options:  options,
	}, nil
}

// Write creates the schema and inserts all channels in one transaction
func (w *SQLiteWriter) Write(records []scraper.ChannelRecord) error {
	if err := w.write(records); err != nil {
		w.failed = true
		return err
	}
	return nil
}

func (w *SQLiteWriter) write(records []scraper.ChannelRecord) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	schema := append([]string{createTableSQL, createMetadataTableSQL}, createIndexSQL...)
	for _, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	stmt, err := tx.Prepare(insertColumnsSQL + " (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.Exec(r.Name, r.Link, r.ImageURL, r.SubscriberCount, rawCountValue(r.SubscriberCountRaw), r.Description); err != nil {
			return fmt.Errorf("failed to insert channel %d (%s): %w", i, r.Link, err)
		}
	}

	meta := w.options.metadata(records)
	pairs := [][2]string{
		{"export_date", meta.ExportDate},
		{"extractor_version", meta.ExtractorVersion},
		{"total_channels", strconv.Itoa(meta.TotalChannels)},
		{"channels_with_subscribers", strconv.Itoa(meta.ChannelsWithSubscribers)},
		{"channels_with_images", strconv.Itoa(meta.ChannelsWithImages)},
		{"channels_with_descriptions", strconv.Itoa(meta.ChannelsWithDescriptions)},
	}
	for _, kv := range pairs {
		if _, err := tx.Exec("INSERT OR REPLACE INTO export_metadata (key, value) VALUES (?, ?)", kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to write export metadata: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the database and commits the file, or removes it when Write failed
func (w *SQLiteWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	closeErr := w.db.Close()
	if w.failed || closeErr != nil {
		os.Remove(w.tmpName)
		if closeErr != nil {
			return fmt.Errorf("failed to close SQLite database: %w", closeErr)
		}
		return errDiscarded
	}
	return commitTemp(w.tmpName, w.filename)
}

// rawCountValue stores plain integer counts as INTEGER and anything else as NULL
func rawCountValue(raw string) interface{} {
	if !scraper.IsPlainCount(raw) {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return n
}
