package clock

import (
	"fmt"
	"time"
)

// Clock supplies "now" in the game's fixed reference timezone. All
// day-boundary and cooldown checks go through it so tests can substitute a
// fixed time.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type systemClock struct {
	loc *time.Location
}

// New returns a Clock pinned to the named timezone, e.g. "Europe/Moscow".
func New(tzName string) (Clock, error) {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", tzName, err)
	}
	return &systemClock{loc: loc}, nil
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *systemClock) Location() *time.Location {
	return c.loc
}

// StartOfDay returns midnight of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}

// ISOWeek returns the ISO year and week number of t in loc. Used to detect
// the weekly leaderboard boundary.
func ISOWeek(t time.Time, loc *time.Location) (int, int) {
	return t.In(loc).ISOWeek()
}
