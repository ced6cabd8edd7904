// Package ics exports a viewer's calendar entries as an iCalendar feed.
package ics

import (
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"sports_dashboard/internal/domain"
)

const productID = "-//sports_dashboard//calendar//EN"

// uidSpace namespaces event UIDs so the same entry keeps its UID across
// exports and subscribers update instead of duplicating it.
var uidSpace = uuid.MustParse("6f1c3b1e-2d0a-4b8e-9c41-7a52f0d3e9aa")

// Export renders events as all-day VEVENTs. Entries whose date cannot be
// parsed are skipped and counted.
func Export(events []domain.CalendarEvent, name string, loc *time.Location, stamp time.Time) (string, int) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	invalid := 0
	seen := make(map[string]int, len(events))
	for _, e := range events {
		day, err := domain.ParseDate(e.Date, loc)
		if err != nil {
			invalid++
			continue
		}

		// Identical entries are allowed; the occurrence keeps their UIDs apart.
		key := e.Source + "|" + e.Type + "|" + day.Format(time.DateOnly) + "|" + e.Title
		n := seen[key]
		seen[key]++
		if n > 0 {
			key += "|" + strconv.Itoa(n)
		}

		uid := uuid.NewSHA1(uidSpace, []byte(key))
		ev := cal.AddEvent(uid.String() + "@sports_dashboard")
		ev.SetDtStampTime(stamp)
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		ev.SetSummary(title(e))
		if e.Type != "" {
			ev.AddProperty(ical.ComponentPropertyCategories, e.Type)
		}
	}

	return cal.Serialize(), invalid
}

func title(e domain.CalendarEvent) string {
	if e.Title == "" {
		return "Untitled"
	}
	return e.Title
}
