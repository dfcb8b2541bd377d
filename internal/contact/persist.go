package contact

import (
	"errors"
	"fmt"

	"github.com/smileynet/phonebook/internal/state"
)

// Save writes every record to path as newline-delimited JSON in insertion
// order, replacing the file.
func (b *AddressBook) Save(path string) error {
	entries := make([]state.Entry, 0, b.Len())
	for r := range b.All() {
		entries = append(entries, toEntry(r))
	}
	if err := state.NewFileStore(path).Save(entries); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Load replaces the book's contents with the records in path. A missing file
// leaves the book empty without error. On any other failure the book is left
// unchanged.
func (b *AddressBook) Load(path string) error {
	entries, _, err := state.NewFileStore(path).Load()
	if err != nil {
		var le *state.LineError
		if errors.As(err, &le) {
			return fmt.Errorf("%w: %w", ErrParse, err)
		}
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	index := make(map[string]*Record, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		r, err := fromEntry(e)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrParse, &state.LineError{Path: path, Line: e.Line, Err: err})
		}
		if _, dup := index[r.Name()]; dup {
			return fmt.Errorf("%w: %w", ErrParse, &state.LineError{
				Path: path, Line: e.Line, Err: fmt.Errorf("duplicate contact %q", r.Name()),
			})
		}
		index[r.Name()] = r
		order = append(order, r.Name())
	}

	b.index = index
	b.order = order
	return nil
}

func toEntry(r *Record) state.Entry {
	e := state.Entry{Name: r.Name(), Phones: r.PhoneNumbers()}
	if bd, ok := r.Birthday(); ok {
		s := bd.String()
		e.Birthday = &s
	}
	return e
}

func fromEntry(e state.Entry) (*Record, error) {
	r, err := NewRecord(e.Name)
	if err != nil {
		return nil, err
	}
	for _, p := range e.Phones {
		if err := r.AddPhone(p); err != nil {
			return nil, err
		}
	}
	if e.Birthday != nil {
		if err := r.SetBirthday(*e.Birthday); err != nil {
			return nil, err
		}
	}
	return r, nil
}
