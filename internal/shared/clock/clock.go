package clock

import "time"

// Clock abstracts the current time so date-dependent rules (leave
// validation, attendance generation, year scoping) can be tested
// against fixed dates.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func System() Clock {
	return systemClock{}
}

// Today truncates the clock's current time to a calendar date in UTC.
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// DateOf normalizes a timestamp to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
