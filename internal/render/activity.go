package render

import (
	"fmt"
	"math"
	"sort"
	"time"

	"sports_dashboard/internal/domain"
)

type ActivityItem struct {
	TimeLabel   string    `json:"time_label"`
	Event       string    `json:"event"`
	CompletedAt time.Time `json:"completed_at"`
}

type ActivityView struct {
	Items        []ActivityItem `json:"items"`
	EmptyMessage string         `json:"empty_message,omitempty"`
	Invalid      int            `json:"-"`
}

// Activities lists every activity, most recent first.
func Activities(items []domain.Activity, now time.Time, loc *time.Location) ActivityView {
	view := ActivityView{Items: make([]ActivityItem, 0, len(items))}

	for _, a := range items {
		at, err := domain.ParseDateTime(a.CompletedAt, loc)
		if err != nil {
			view.Invalid++
			at = now
		}
		view.Items = append(view.Items, ActivityItem{
			TimeLabel:   ElapsedLabel(at, now),
			Event:       a.Event,
			CompletedAt: at,
		})
	}

	sort.SliceStable(view.Items, func(i, j int) bool {
		return view.Items[i].CompletedAt.After(view.Items[j].CompletedAt)
	})

	if len(view.Items) == 0 {
		view.EmptyMessage = EmptyActivities
	}
	return view
}

// ElapsedLabel buckets the whole days between at and now. A timestamp in the
// future, even by a minute, floors to a negative day count and reads "Scheduled".
func ElapsedLabel(at, now time.Time) string {
	days := int(math.Floor(now.Sub(at).Hours() / 24))

	switch {
	case days < 0:
		return "Scheduled"
	case days == 0:
		return "Today"
	case days == 1:
		return "1 Day ago"
	default:
		return fmt.Sprintf("%d Days ago", days)
	}
}
