package contact

import (
	"iter"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultPageSize is the number of records per page unless WithPageSize is
// given.
const DefaultPageSize = 5

// AddressBook stores records keyed by name in insertion order.
// It is not safe for concurrent use.
type AddressBook struct {
	index    map[string]*Record
	order    []string
	pageSize int
}

// BookOption configures an AddressBook.
type BookOption func(*AddressBook)

// WithPageSize sets the page size used by ListPage. Values below 1 are
// ignored.
func WithPageSize(n int) BookOption {
	return func(b *AddressBook) {
		if n > 0 {
			b.pageSize = n
		}
	}
}

// NewAddressBook creates an empty AddressBook.
func NewAddressBook(opts ...BookOption) *AddressBook {
	b := &AddressBook{
		index:    make(map[string]*Record),
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// PageSize returns the number of records per page.
func (b *AddressBook) PageSize() int {
	return b.pageSize
}

// Len returns the number of records.
func (b *AddressBook) Len() int {
	return len(b.order)
}

// Records returns the records in insertion order.
func (b *AddressBook) Records() []*Record {
	out := make([]*Record, len(b.order))
	for i, name := range b.order {
		out[i] = b.index[name]
	}
	return out
}

// All iterates over the records in insertion order.
func (b *AddressBook) All() iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		for _, name := range b.order {
			if !yield(b.index[name]) {
				return
			}
		}
	}
}

// AddOrUpdate creates a record for name with phone, or appends phone to the
// existing record. A non-empty birthday is stored in either case, replacing
// any previous one. The book is unchanged if any value is invalid.
func (b *AddressBook) AddOrUpdate(name, phone, birthday string) (*Record, error) {
	n, err := NewName(name)
	if err != nil {
		return nil, err
	}
	p, err := NewPhone(phone)
	if err != nil {
		return nil, err
	}
	var bd Birthday
	if birthday != "" {
		if bd, err = NewBirthday(birthday); err != nil {
			return nil, err
		}
	}

	r, ok := b.index[n.String()]
	if !ok {
		r = &Record{name: n}
		b.insert(r)
	}
	r.phones = append(r.phones, p)
	if !bd.IsZero() {
		r.birthday = bd
	}
	return r, nil
}

// ChangePhone replaces the first phone of the named record and, when
// birthday is not empty, its birthday.
func (b *AddressBook) ChangePhone(name, phone, birthday string) error {
	r, ok := b.FindExact(name)
	if !ok {
		return &NotFoundError{Kind: "contact", Key: name}
	}
	return r.EditFirstPhone(phone, birthday)
}

// Delete removes the named record and reports whether it existed.
func (b *AddressBook) Delete(name string) bool {
	if _, ok := b.index[name]; !ok {
		return false
	}
	delete(b.index, name)
	b.order = slices.DeleteFunc(b.order, func(n string) bool { return n == name })
	return true
}

// FindExact returns the record whose name equals name exactly.
func (b *AddressBook) FindExact(name string) (*Record, bool) {
	r, ok := b.index[name]
	return r, ok
}

// Search returns the records whose name or any phone contains text,
// ignoring case, in insertion order. An empty query matches every record.
func (b *AddressBook) Search(text string) []*Record {
	fold := cases.Fold()
	query := fold.String(strings.TrimSpace(text))

	out := []*Record{}
	for r := range b.All() {
		if matches(r, query, fold) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r *Record, query string, fold cases.Caser) bool {
	if strings.Contains(fold.String(r.Name()), query) {
		return true
	}
	return slices.ContainsFunc(r.phones, func(p Phone) bool {
		return strings.Contains(p.String(), query)
	})
}

func (b *AddressBook) insert(r *Record) {
	b.index[r.Name()] = r
	b.order = append(b.order, r.Name())
}
