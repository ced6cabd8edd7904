package domain

import (
	"fmt"
	"strings"
	"time"
)

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateTime parses the date-time shapes found in upstream and fallback
// payloads. Values without a zone are read in loc.
func ParseDateTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: empty date-time", ErrInvalid)
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.In(loc), nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised date-time %q", ErrInvalid, v)
}

// ParseDate returns midnight of the calendar date v in loc.
func ParseDate(v string, loc *time.Location) (time.Time, error) {
	t, err := ParseDateTime(v, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), nil
}

// StartsAt joins Date and Time into a single instant.
func (s ScheduleEntry) StartsAt(loc *time.Location) (time.Time, error) {
	if strings.Contains(s.Date, "T") || strings.TrimSpace(s.Time) == "" {
		return ParseDateTime(s.Date, loc)
	}
	return ParseDateTime(s.Date+"T"+strings.TrimSpace(s.Time), loc)
}

// IsPast reports whether the entry started before now or is flagged past.
func (s ScheduleEntry) IsPast(now time.Time, loc *time.Location) bool {
	if strings.EqualFold(strings.TrimSpace(s.Status), "past") {
		return true
	}
	at, err := s.StartsAt(loc)
	if err != nil {
		return false
	}
	return at.Before(now)
}

// ToActivity projects a past schedule entry into the activity shape.
func (s ScheduleEntry) ToActivity() Activity {
	completed := s.Date
	if !strings.Contains(s.Date, "T") && strings.TrimSpace(s.Time) != "" {
		completed = s.Date + "T" + strings.TrimSpace(s.Time)
	}
	return Activity{
		Event:       s.Event,
		CompletedAt: completed,
		UserID:      s.UserID,
		Status:      s.Status,
	}
}
