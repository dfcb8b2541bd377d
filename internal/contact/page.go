package contact

import "fmt"

// Paginate returns the 1-indexed page of items with the given size. Pages
// past the last non-empty one, page numbers below 1 and sizes below 1 yield
// ErrPageNotFound.
func Paginate[T any](items []T, page, size int) ([]T, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: page size %d", ErrPageNotFound, size)
	}
	if page < 1 || page > pageCount(len(items), size) {
		return nil, fmt.Errorf("%w: page %d", ErrPageNotFound, page)
	}
	start := (page - 1) * size
	end := min(start+size, len(items))
	return items[start:end], nil
}

func pageCount(n, size int) int {
	return (n + size - 1) / size
}

// ListPage returns the records on the 1-indexed page n.
func (b *AddressBook) ListPage(n int) ([]*Record, error) {
	return Paginate(b.Records(), n, b.pageSize)
}

// PageCount returns the number of non-empty pages.
func (b *AddressBook) PageCount() int {
	return pageCount(b.Len(), b.pageSize)
}
