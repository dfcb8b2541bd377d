package state

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestFileStore_SaveAndLoad(t *testing.T) {
	// Given entries to persist
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "book", "contacts.jsonl"))

	entries := []Entry{
		{Name: "Ann", Phones: []string{"1234567890", "5555555555"}, Birthday: strPtr("1990-04-01")},
		{Name: "Bob", Phones: []string{"0987654321"}},
	}

	// When Save is called
	if err := store.Save(entries); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Then Load returns the same entries with line numbers
	loaded, found, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !found {
		t.Fatal("Load() found = false, want true")
	}
	if len(loaded) != 2 {
		t.Fatalf("Load() len = %d, want 2", len(loaded))
	}
	if loaded[0].Name != "Ann" || loaded[1].Name != "Bob" {
		t.Errorf("names = %q, %q, want Ann, Bob", loaded[0].Name, loaded[1].Name)
	}
	if len(loaded[0].Phones) != 2 || loaded[0].Phones[1] != "5555555555" {
		t.Errorf("Ann phones = %v", loaded[0].Phones)
	}
	if loaded[0].Birthday == nil || *loaded[0].Birthday != "1990-04-01" {
		t.Errorf("Ann birthday = %v, want 1990-04-01", loaded[0].Birthday)
	}
	if loaded[1].Birthday != nil {
		t.Errorf("Bob birthday = %q, want nil", *loaded[1].Birthday)
	}
	if loaded[0].Line != 1 || loaded[1].Line != 2 {
		t.Errorf("lines = %d, %d, want 1, 2", loaded[0].Line, loaded[1].Line)
	}
}

func TestFileStore_SaveWritesOneObjectPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.jsonl")
	store := NewFileStore(path)

	if err := store.Save([]Entry{{Name: "Ann"}, {Name: "Bob", Phones: []string{"1234567890"}}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"name":"Ann","phones":[],"birthday":null}` + "\n" +
		`{"name":"Bob","phones":["1234567890"],"birthday":null}` + "\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestFileStore_SaveEmptyTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.jsonl")
	store := NewFileStore(path)
	if err := store.Save([]Entry{{Name: "Ann"}}); err != nil {
		t.Fatal(err)
	}

	if err := store.Save(nil); err != nil {
		t.Fatalf("Save(nil) error = %v", err)
	}

	loaded, found, err := store.Load()
	if err != nil || !found {
		t.Fatalf("Load() = found %v, err %v", found, err)
	}
	if len(loaded) != 0 {
		t.Errorf("Load() len = %d, want 0", len(loaded))
	}
}

func TestFileStore_LoadNotFound(t *testing.T) {
	// Given no book file
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.jsonl"))

	// When Load is called
	entries, found, err := store.Load()

	// Then it returns not found without error
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if found {
		t.Error("Load() found = true, want false")
	}
	if entries != nil {
		t.Errorf("Load() entries = %v, want nil", entries)
	}
}

func TestFileStore_LoadMalformedLine(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantLine int
	}{
		{name: "truncated object", content: `{"name":"Ann"` + "\n", wantLine: 1},
		{name: "after blank line", content: `{"name":"Ann","phones":[],"birthday":null}` + "\n\n" + "not json\n", wantLine: 3},
		{name: "wrong type", content: `{"name":"Ann","phones":"1234567890","birthday":null}` + "\n", wantLine: 1},
		{name: "trailing garbage", content: `{"name":"Ann","phones":[],"birthday":null} x` + "\n", wantLine: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given a file with a corrupt line
			path := filepath.Join(t.TempDir(), "contacts.jsonl")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			// When Load is called
			_, _, err := NewFileStore(path).Load()

			// Then it reports the line
			var le *LineError
			if !errors.As(err, &le) {
				t.Fatalf("Load() error = %v, want *LineError", err)
			}
			if le.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", le.Line, tt.wantLine)
			}
			if !strings.Contains(err.Error(), path) {
				t.Errorf("error %q should mention %s", err, path)
			}
		})
	}
}

func TestFileStore_LoadOversizedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.jsonl")
	huge := `{"name":"` + strings.Repeat("a", maxLineSize) + `"}` + "\n"
	if err := os.WriteFile(path, []byte(huge), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := NewFileStore(path).Load()

	var le *LineError
	if !errors.As(err, &le) {
		t.Fatalf("Load() error = %v, want *LineError", err)
	}
	if le.Line != 1 {
		t.Errorf("Line = %d, want 1", le.Line)
	}
}

func TestFileStore_LoadDirectory(t *testing.T) {
	_, _, err := NewFileStore(t.TempDir()).Load()

	if err == nil {
		t.Fatal("Load(directory) should return error")
	}
	var le *LineError
	if errors.As(err, &le) {
		t.Errorf("Load(directory) error = %v, want a read error, not *LineError", err)
	}
}
