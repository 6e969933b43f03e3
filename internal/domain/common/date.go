package common

import "time"

const DateLayout = "2006-01-02"

// Clock returns the current instant. Services take one so tests can pin "today".
type Clock func() time.Time

// Today truncates now to a calendar date in loc, returned at midnight UTC so it
// compares cleanly with DATE columns scanned by pgx.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateOnly drops the clock part of t, keeping its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Calendar answers "what day is it" for the business timezone.
type Calendar struct {
	Location *time.Location
	Clock    Clock
}

func (c Calendar) Now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock()
}

// Today is the current business date at midnight UTC.
func (c Calendar) Today() time.Time {
	return Today(c.Now(), c.Location)
}
