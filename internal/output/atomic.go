// internal/output/atomic.go
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// errDiscarded is returned by Close when an earlier failure discarded the output
var errDiscarded = errors.New("output discarded after a failed write")

// atomicFile is a temporary file in the destination directory that replaces
// the destination on Close. A failed write leaves the destination untouched.
type atomicFile struct {
	*os.File
	dest   string
	failed bool
	done   bool
}

func createAtomic(dest string) (*atomicFile, error) {
	dir, base := filepath.Split(dest)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	return &atomicFile{File: tmp, dest: dest}, nil
}

// fail marks the file as failed when err is non-nil and returns err
func (f *atomicFile) fail(err error) error {
	if err != nil {
		f.failed = true
	}
	return err
}

// Discard removes the temporary file without touching the destination
func (f *atomicFile) Discard() {
	if f.done {
		return
	}
	f.done = true
	f.File.Close()
	os.Remove(f.File.Name())
}

// Close commits the temporary file over the destination, or discards it
// and returns errDiscarded when the write failed.
func (f *atomicFile) Close() error {
	if f.done {
		return nil
	}
	if f.failed {
		f.Discard()
		return errDiscarded
	}
	f.done = true

	tmpName := f.File.Name()
	if err := f.File.Sync(); err != nil {
		f.File.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush %s: %w", tmpName, err)
	}
	if err := f.File.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	return commitTemp(tmpName, f.dest)
}

// commitTemp moves a finished temporary file into place
func commitTemp(tmpName, dest string) error {
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
