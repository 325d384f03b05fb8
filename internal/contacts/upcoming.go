package contacts

import "time"

// DefaultHorizonDays is the width of the upcoming-birthdays window.
const DefaultHorizonDays = 7

// Congratulation is one row of the upcoming-birthdays report.
type Congratulation struct {
	Name string
	// Birthday is the occurrence inside the window, before any weekend shift.
	Birthday time.Time
	// Date is when to congratulate: Birthday, or the following Monday
	// when Birthday falls on a weekend.
	Date time.Time
}

// DateString formats the congratulation date as DD.MM.YYYY.
func (c Congratulation) DateString() string { return c.Date.Format(DateLayout) }

// UpcomingBirthdays lists contacts whose next birthday lies within
// [today, today+horizonDays], in directory order. Only the calendar date of
// today is used. A non-positive horizon restricts the window to today.
func (d *Directory) UpcomingBirthdays(today time.Time, horizonDays int) []Congratulation {
	if horizonDays < 0 {
		horizonDays = 0
	}
	start := dateOnly(today)
	end := start.AddDate(0, 0, horizonDays)

	var out []Congratulation
	for _, r := range d.Records() {
		b, ok := r.Birthday()
		if !ok {
			continue
		}
		next := NextOccurrence(b.Date(), start)
		if next.After(end) {
			continue
		}
		out = append(out, Congratulation{
			Name:     r.Name(),
			Birthday: next,
			Date:     ShiftWeekend(next),
		})
	}
	return out
}

// NextOccurrence re-anchors birth's month and day onto today's year, or the
// following year when that date has already passed. today must be a date at
// midnight UTC.
func NextOccurrence(birth, today time.Time) time.Time {
	candidate := anniversary(birth, today.Year())
	if candidate.Before(today) {
		candidate = anniversary(birth, today.Year()+1)
	}
	return candidate
}

// ShiftWeekend moves Saturday and Sunday forward to the next Monday.
func ShiftWeekend(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	}
	return t
}

// anniversary returns birth's month and day in year. February 29 in a
// non-leap year becomes March 1.
func anniversary(birth time.Time, year int) time.Time {
	month, day := birth.Month(), birth.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		month, day = time.March, 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
