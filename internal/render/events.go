package render

import (
	"fmt"
	"sort"
	"time"

	"sports_dashboard/internal/domain"
)

const EmptyEvents = "No events available"

type EventItem struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Meta      string    `json:"meta"`
	StartsAt  time.Time `json:"starts_at"`
	Countdown string    `json:"countdown"`
}

type EventsView struct {
	Items        []EventItem `json:"items"`
	EmptyMessage string      `json:"empty_message,omitempty"`
	Invalid      int         `json:"-"`
}

// Events orders upcoming and past events by start, earliest first, each with
// its countdown label at now.
func Events(rows []domain.EventRow, now time.Time, loc *time.Location) EventsView {
	view := EventsView{Items: make([]EventItem, 0, len(rows))}

	for _, r := range rows {
		at, err := domain.ParseDateTime(r.DateTime, loc)
		if err != nil {
			view.Invalid++
			at = now
		}
		title := r.Title
		if title == "" {
			title = "Untitled"
		}
		location := r.Location
		if location == "" {
			location = "TBA"
		}
		view.Items = append(view.Items, EventItem{
			ID:        r.ID,
			Title:     title,
			Meta:      fmt.Sprintf("%s • %s • %s", at.Format("Monday, January 2, 2006"), at.Format("03:04 PM"), location),
			StartsAt:  at,
			Countdown: Countdown(at, now),
		})
	}

	sort.SliceStable(view.Items, func(i, j int) bool {
		return view.Items[i].StartsAt.Before(view.Items[j].StartsAt)
	})

	if len(view.Items) == 0 {
		view.EmptyMessage = EmptyEvents
	}
	return view
}

type CountdownItem struct {
	ID       string    `json:"id,omitempty"`
	StartsAt time.Time `json:"starts_at"`
	Label    string    `json:"label"`
}

// Countdowns recomputes only the labels of an already rendered event list.
func Countdowns(items []EventItem, now time.Time) []CountdownItem {
	out := make([]CountdownItem, 0, len(items))
	for _, it := range items {
		out = append(out, CountdownItem{
			ID:       it.ID,
			StartsAt: it.StartsAt,
			Label:    Countdown(it.StartsAt, now),
		})
	}
	return out
}
