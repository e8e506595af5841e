package dateutil

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func NextDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1)
}

// CurrentWeek returns the beginning of the ISO week (Monday) containing t.
func CurrentWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return BeginningOfDay(t).AddDate(0, 0, -offset)
}

func NextWeek(t time.Time) time.Time {
	return CurrentWeek(t).AddDate(0, 0, 7)
}

func CurrentMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func NextMonth(t time.Time) time.Time {
	return CurrentMonth(t).AddDate(0, 1, 0)
}

func LastWeek(t time.Time) time.Time {
	return t.AddDate(0, 0, -7)
}

func LastMonth(t time.Time) time.Time {
	return CurrentMonth(t).AddDate(0, -1, 0)
}

// IsSameDay compares calendar dates of both times in the location of a.
func IsSameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsYesterday reports whether prev falls on the calendar day before today,
// using the location of today.
func IsYesterday(prev, today time.Time) bool {
	return IsSameDay(BeginningOfDay(today).AddDate(0, 0, -1), prev)
}
