package assistant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/smileynet/phonebook/internal/contact"
)

// FormatRecord renders one contact on a single line.
func FormatRecord(r *contact.Record) string {
	phones := "none"
	if nums := r.PhoneNumbers(); len(nums) > 0 {
		phones = strings.Join(nums, "; ")
	}
	line := fmt.Sprintf("Contact name: %s, phones: %s", r.Name(), phones)
	if bd, ok := r.Birthday(); ok {
		line += ", birthday: " + bd.String()
	}
	return line
}

// FormatRecords renders contacts one per line.
func FormatRecords(records []*contact.Record) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = FormatRecord(r)
	}
	return strings.Join(lines, "\n")
}

// pageError carries the requested page and the number of pages that exist.
type pageError struct {
	page, pages int
	err         error
}

func (e *pageError) Error() string { return e.err.Error() }
func (e *pageError) Unwrap() error { return e.err }

// Describe turns an error from Handle's collaborators into the text shown to
// the user.
func Describe(err error) string {
	var (
		usage    *UsageError
		notFound *contact.NotFoundError
		invalid  *contact.ValidationError
		page     *pageError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &usage):
		return "Usage: " + usage.Usage
	case errors.Is(err, ErrEmptyCommand):
		return "Enter a command. Type 'help' to list them."
	case errors.Is(err, ErrUnknownCommand):
		return "Invalid command. Type 'help' to list them."
	case errors.As(err, &notFound):
		if notFound.Kind == "phone" {
			return fmt.Sprintf("No such phone found: %s.", notFound.Key)
		}
		return "No such contact found."
	case errors.As(err, &invalid):
		return fmt.Sprintf("Invalid %s: %s.", invalid.Field, invalid.Reason)
	case errors.As(err, &page):
		if page.pages == 0 {
			return fmt.Sprintf("Page %d not found. No contacts saved.", page.page)
		}
		return fmt.Sprintf("Page %d not found. Pages: 1-%d.", page.page, page.pages)
	case errors.Is(err, contact.ErrPageNotFound):
		return "Page not found."
	case errors.Is(err, errNoSaver):
		return "Saving is not configured."
	case errors.Is(err, contact.ErrIO), errors.Is(err, contact.ErrParse):
		return "Could not access the address book: " + err.Error()
	default:
		return err.Error()
	}
}
