package render

import (
	"fmt"
	"time"

	"sports_dashboard/internal/domain"
)

type CalendarCell struct {
	Day        int  `json:"day"`
	InMonth    bool `json:"in_month"`
	Today      bool `json:"today,omitempty"`
	HasEvent   bool `json:"has_event,omitempty"`
	EventCount int  `json:"-"`
}

type CalendarView struct {
	Title     string         `json:"title"`
	Month     time.Month     `json:"month"`
	Year      int            `json:"year"`
	Weekdays  []string       `json:"weekdays"`
	Leading   int            `json:"leading"`
	Cells     []CalendarCell `json:"cells"`
	EventDays int            `json:"event_days"`
	Invalid   int            `json:"-"`
}

// WeekStart maps the configured week start to a weekday. Anything but
// "sunday" starts the week on Monday.
func WeekStart(name string) time.Weekday {
	if name == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

// Calendar lays out month/year as whole weeks. Leading cells carry the
// previous month's trailing day numbers and trailing cells the next month's
// first days; both are marked out of month.
func Calendar(month time.Month, year int, today time.Time, events []domain.CalendarEvent, weekStart time.Weekday, loc *time.Location) CalendarView {
	if loc == nil {
		loc = time.Local
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	daysInPrev := first.AddDate(0, 0, -1).Day()
	leading := (int(first.Weekday()) - int(weekStart) + 7) % 7

	view := CalendarView{
		Title:    fmt.Sprintf("%s %d", month, year),
		Month:    month,
		Year:     year,
		Weekdays: weekdayHeaders(weekStart),
		Leading:  leading,
	}

	counts := make(map[int]int)
	for _, e := range events {
		d, err := domain.ParseDate(e.Date, loc)
		if err != nil {
			view.Invalid++
			continue
		}
		if d.Month() == month && d.Year() == year {
			counts[d.Day()]++
		}
	}
	view.EventDays = len(counts)

	todayLocal := today.In(loc)
	isCurrentMonth := todayLocal.Month() == month && todayLocal.Year() == year

	total := leading + daysInMonth
	trailing := 0
	if total%7 != 0 {
		trailing = 7 - total%7
	}
	view.Cells = make([]CalendarCell, 0, total+trailing)

	for i := leading - 1; i >= 0; i-- {
		view.Cells = append(view.Cells, CalendarCell{Day: daysInPrev - i})
	}
	for day := 1; day <= daysInMonth; day++ {
		view.Cells = append(view.Cells, CalendarCell{
			Day:        day,
			InMonth:    true,
			Today:      isCurrentMonth && day == todayLocal.Day(),
			HasEvent:   counts[day] > 0,
			EventCount: counts[day],
		})
	}
	for day := 1; day <= trailing; day++ {
		view.Cells = append(view.Cells, CalendarCell{Day: day})
	}

	return view
}

func weekdayHeaders(start time.Weekday) []string {
	out := make([]string, 7)
	for i := range out {
		out[i] = time.Weekday((int(start) + i) % 7).String()[:3]
	}
	return out
}
