package render

import (
	"fmt"
	"sort"
	"time"

	"sports_dashboard/internal/domain"
)

const (
	EmptySchedule   = "No upcoming schedules. Add schedules from the admin panel."
	EmptyActivities = "No activity history. Activities will appear here after scheduled events complete."
)

type ScheduleItem struct {
	DateLabel string    `json:"date_label"`
	Event     string    `json:"event"`
	StartsAt  time.Time `json:"starts_at"`
}

type ScheduleView struct {
	Items        []ScheduleItem `json:"items"`
	EmptyMessage string         `json:"empty_message,omitempty"`
	// Invalid counts entries whose date-time could not be parsed.
	Invalid int `json:"-"`
}

// Schedule keeps only entries strictly after now, earliest first. Entries with
// an unparseable date-time are treated as happening now and are dropped.
func Schedule(entries []domain.ScheduleEntry, now time.Time, loc *time.Location) ScheduleView {
	view := ScheduleView{Items: []ScheduleItem{}}

	for _, e := range entries {
		at, err := e.StartsAt(loc)
		if err != nil {
			view.Invalid++
			at = now
		}
		if !at.After(now) {
			continue
		}
		view.Items = append(view.Items, ScheduleItem{
			DateLabel: fmt.Sprintf("%d %s", at.Day(), at.Month()),
			Event:     e.Event,
			StartsAt:  at,
		})
	}

	sort.SliceStable(view.Items, func(i, j int) bool {
		return view.Items[i].StartsAt.Before(view.Items[j].StartsAt)
	})

	if len(view.Items) == 0 {
		view.EmptyMessage = EmptySchedule
	}
	return view
}
