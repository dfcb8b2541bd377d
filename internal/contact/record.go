package contact

import (
	"slices"
	"time"
)

// Record is one contact: a name, its phone numbers in insertion order, and an
// optional birthday. The name is fixed at creation because it is the book key.
type Record struct {
	name     Name
	phones   []Phone
	birthday Birthday
}

// NewRecord creates a Record with no phones and no birthday.
func NewRecord(name string) (*Record, error) {
	n, err := NewName(name)
	if err != nil {
		return nil, err
	}
	return &Record{name: n}, nil
}

// Name returns the contact name.
func (r *Record) Name() string {
	return r.name.String()
}

// Phones returns a copy of the phone numbers in insertion order.
func (r *Record) Phones() []Phone {
	return slices.Clone(r.phones)
}

// PhoneNumbers returns the phone digit strings in insertion order.
func (r *Record) PhoneNumbers() []string {
	out := make([]string, len(r.phones))
	for i, p := range r.phones {
		out[i] = p.String()
	}
	return out
}

// Birthday returns the birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	return r.birthday, !r.birthday.IsZero()
}

// AddPhone validates raw and appends it. Duplicates are allowed.
func (r *Record) AddPhone(raw string) error {
	p, err := NewPhone(raw)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// RemovePhone removes the first phone equal to raw and reports whether one
// was removed.
func (r *Record) RemovePhone(raw string) bool {
	i := r.indexOf(raw)
	if i < 0 {
		return false
	}
	r.phones = slices.Delete(r.phones, i, i+1)
	return true
}

// EditPhone replaces the first phone equal to oldRaw with newRaw.
func (r *Record) EditPhone(oldRaw, newRaw string) error {
	i := r.indexOf(oldRaw)
	if i < 0 {
		return &NotFoundError{Kind: "phone", Key: oldRaw}
	}
	return r.phones[i].Set(newRaw)
}

// EditFirstPhone replaces the first stored phone and, when birthday is not
// empty, the birthday. Nothing changes unless both values are valid.
func (r *Record) EditFirstPhone(newRaw, birthday string) error {
	if len(r.phones) == 0 {
		return &ValidationError{Field: "record", Value: r.Name(), Reason: "no existing phone for contact"}
	}
	p, err := NewPhone(newRaw)
	if err != nil {
		return err
	}
	var b Birthday
	if birthday != "" {
		if b, err = NewBirthday(birthday); err != nil {
			return err
		}
	}
	r.phones[0] = p
	if birthday != "" {
		r.birthday = b
	}
	return nil
}

// FindPhone returns the first phone equal to raw.
func (r *Record) FindPhone(raw string) (Phone, bool) {
	i := r.indexOf(raw)
	if i < 0 {
		return Phone{}, false
	}
	return r.phones[i], true
}

// SetBirthday validates raw and stores it as the birthday.
func (r *Record) SetBirthday(raw string) error {
	return r.birthday.Set(raw)
}

// indexOf compares on digits only, so "123-456-7890" finds "1234567890".
func (r *Record) indexOf(raw string) int {
	digits := Digits(raw)
	if digits == "" {
		return -1
	}
	return slices.IndexFunc(r.phones, func(p Phone) bool {
		return p.String() == digits
	})
}

// DaysToBirthday returns the number of days from today until the next
// birthday anniversary, 0 when today is the anniversary. It returns false when
// no birthday is set. Only the calendar date of today is used.
func (r *Record) DaysToBirthday(today time.Time) (int, bool) {
	next, ok := r.NextBirthday(today)
	if !ok {
		return 0, false
	}
	return int(next.Sub(civilDate(today)).Hours() / 24), true
}

// NextBirthday returns the date of the next anniversary on or after today.
func (r *Record) NextBirthday(today time.Time) (time.Time, bool) {
	if r.birthday.IsZero() {
		return time.Time{}, false
	}
	from := civilDate(today)
	next := anniversary(r.birthday.Time(), from.Year())
	if from.After(next) {
		next = anniversary(r.birthday.Time(), from.Year()+1)
	}
	return next, true
}

// civilDate drops the time of day and location, keeping the calendar date.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// anniversary returns birthday's month and day in year. 29 February maps to
// 28 February in non-leap years.
func anniversary(birthday time.Time, year int) time.Time {
	m, d := birthday.Month(), birthday.Day()
	if m == time.February && d == 29 && !isLeap(year) {
		d = 28
	}
	return time.Date(year, m, d, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
