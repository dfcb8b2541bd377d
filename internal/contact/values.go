// Package contact implements the address book: validated field values,
// contact records, and the insertion-ordered book with search, pagination and
// file persistence.
package contact

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// BirthdayLayout is the only accepted birthday format.
const BirthdayLayout = "2006-01-02"

var validate = validator.New()

// Value is a string value whose every assignment is checked by a format rule.
type Value interface {
	Set(raw string) error
	String() string
}

var (
	_ Value = (*Name)(nil)
	_ Value = (*Phone)(nil)
	_ Value = (*Birthday)(nil)
)

// Name is a contact's display name and the book key.
type Name struct {
	value string
}

// NewName creates a Name. Surrounding whitespace is trimmed.
func NewName(raw string) (Name, error) {
	var n Name
	if err := n.Set(raw); err != nil {
		return Name{}, err
	}
	return n, nil
}

// Set replaces the name, keeping the old value if raw is invalid.
func (n *Name) Set(raw string) error {
	v := strings.TrimSpace(raw)
	if err := validate.Var(v, "required"); err != nil {
		return &ValidationError{Field: "name", Value: raw, Reason: "cannot be empty"}
	}
	n.value = v
	return nil
}

func (n Name) String() string {
	return n.value
}

// Phone is a 10-digit phone number.
type Phone struct {
	value string
}

// NewPhone creates a Phone from raw, which may contain separators such as
// spaces, dashes or parentheses. Only the digits are kept.
func NewPhone(raw string) (Phone, error) {
	var p Phone
	if err := p.Set(raw); err != nil {
		return Phone{}, err
	}
	return p, nil
}

// Set replaces the number, keeping the old value if raw is invalid.
func (p *Phone) Set(raw string) error {
	digits := Digits(raw)
	if err := validate.Var(digits, "len=10,numeric"); err != nil {
		return &ValidationError{Field: "phone", Value: raw, Reason: "must contain exactly 10 digits"}
	}
	p.value = digits
	return nil
}

// String returns the 10 digits.
func (p Phone) String() string {
	return p.value
}

// Digits returns s with every non-digit character removed.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// Birthday is a calendar date in YYYY-MM-DD form.
type Birthday struct {
	date time.Time
	set  bool
}

// NewBirthday parses raw as YYYY-MM-DD. Impossible dates such as 2024-02-30
// are rejected.
func NewBirthday(raw string) (Birthday, error) {
	var b Birthday
	if err := b.Set(raw); err != nil {
		return Birthday{}, err
	}
	return b, nil
}

// Set replaces the date, keeping the old value if raw is invalid.
func (b *Birthday) Set(raw string) error {
	v := strings.TrimSpace(raw)
	d, err := time.Parse(BirthdayLayout, v)
	if err != nil {
		return &ValidationError{Field: "birthday", Value: raw, Reason: "must be a valid date in YYYY-MM-DD format"}
	}
	b.date = d
	b.set = true
	return nil
}

// String returns the date as YYYY-MM-DD, or "" for the zero Birthday.
func (b Birthday) String() string {
	if !b.set {
		return ""
	}
	return b.date.Format(BirthdayLayout)
}

// Time returns the date at midnight UTC.
func (b Birthday) Time() time.Time {
	return b.date
}

// IsZero reports whether no date has been set.
func (b Birthday) IsZero() bool {
	return !b.set
}
