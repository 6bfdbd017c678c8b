package util

import "time"

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Slot identifies a weekday/hour bucket in local time. Weekday follows
// time.Weekday numbering (Sunday = 0).
type Slot struct {
	Weekday int
	Hour    int
}

// SlotOf converts t into its weekday/hour bucket in loc. A nil loc means UTC.
func SlotOf(t time.Time, loc *time.Location) Slot {
	if loc != nil {
		t = t.In(loc)
	}
	return Slot{Weekday: int(t.Weekday()), Hour: t.Hour()}
}

// NextHour returns the hour after h on a 24 hour clock.
func NextHour(h int) int {
	return (h + 1) % 24
}

// LoadLocation resolves an IANA zone name, falling back to UTC when the
// name is empty or unknown so misconfiguration never stops the process.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
