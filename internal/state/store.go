// Package state implements address book persistence to the filesystem.
package state

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// maxLineSize bounds a single encoded record.
const maxLineSize = 1 << 20

// Entry is the on-disk form of one contact record.
type Entry struct {
	Name     string   `json:"name"`
	Phones   []string `json:"phones"`
	Birthday *string  `json:"birthday"`

	// Line is the 1-based line the entry was read from. Zero for entries
	// that were not loaded from a file.
	Line int `json:"-"`
}

// LineError reports a line of a book file that could not be decoded.
type LineError struct {
	Path string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("state: %s line %d: %s", e.Path, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// FileStore persists entries as newline-delimited JSON in a single file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore for the book file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save replaces the file with one JSON object per entry, in order. The new
// content is written to a temporary file and renamed over the old one.
func (s *FileStore) Save(entries []Entry) error {
	var buf bytes.Buffer
	for _, e := range entries {
		if e.Phones == nil {
			e.Phones = []string{}
		}
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("state: marshaling %q: %w", e.Name, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("state: creating directory: %w", err)
		}
	}

	if err := atomic.WriteFile(s.path, &buf); err != nil {
		return fmt.Errorf("state: writing %s: %w", s.path, err)
	}
	return nil
}

// Load reads every entry from the file. Blank lines are skipped.
// Returns (entries, true, nil) if the file exists, (nil, false, nil) if not.
func (s *FileStore) Load() ([]Entry, bool, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("state: reading %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	var entries []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return nil, false, &LineError{Path: s.path, Line: line, Err: err}
		}
		e.Line = line
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, false, &LineError{Path: s.path, Line: line + 1, Err: err}
		}
		return nil, false, fmt.Errorf("state: reading %s: %w", s.path, err)
	}
	return entries, true, nil
}
