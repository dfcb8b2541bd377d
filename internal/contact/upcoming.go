package contact

import (
	"cmp"
	"slices"
	"time"
)

// Upcoming is a record whose birthday anniversary falls within a window.
type Upcoming struct {
	Record *Record
	Days   int
	Date   time.Time
}

// UpcomingBirthdays returns the records whose next anniversary is at most
// days away from today, soonest first. Ties keep insertion order.
func (b *AddressBook) UpcomingBirthdays(today time.Time, days int) []Upcoming {
	out := []Upcoming{}
	if days < 0 {
		return out
	}
	for r := range b.All() {
		n, ok := r.DaysToBirthday(today)
		if !ok || n > days {
			continue
		}
		date, _ := r.NextBirthday(today)
		out = append(out, Upcoming{Record: r, Days: n, Date: date})
	}
	slices.SortStableFunc(out, func(a, b Upcoming) int {
		return cmp.Compare(a.Days, b.Days)
	})
	return out
}
