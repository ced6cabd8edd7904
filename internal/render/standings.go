package render

import (
	"fmt"
	"sort"
	"strconv"

	"sports_dashboard/internal/domain"
)

const EmptyStandings = "No standings available"

type StandingRow struct {
	Position string    `json:"position"`
	Name     string    `json:"name"`
	Played   int       `json:"played"`
	Wins     int       `json:"wins"`
	Draws    int       `json:"draws"`
	Losses   int       `json:"losses"`
	Points   int       `json:"points"`
	Cells    [7]string `json:"cells"`
}

type StandingsView struct {
	Rows         []StandingRow `json:"rows"`
	EmptyMessage string        `json:"empty_message,omitempty"`
}

// Standings ranks by points, highest first. Equal points keep input order.
func Standings(rows []domain.Standing) StandingsView {
	sorted := make([]domain.Standing, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Points > sorted[j].Points
	})

	view := StandingsView{Rows: make([]StandingRow, 0, len(sorted))}
	for i, s := range sorted {
		name := s.Name
		if name == "" {
			name = "Unknown"
		}
		row := StandingRow{
			Position: fmt.Sprintf("%02d", i+1),
			Name:     name,
			Played:   s.Played,
			Wins:     s.Wins,
			Draws:    s.Draws,
			Losses:   s.Losses,
			Points:   s.Points,
		}
		row.Cells = [7]string{
			row.Position,
			row.Name,
			strconv.Itoa(row.Played),
			strconv.Itoa(row.Wins),
			strconv.Itoa(row.Draws),
			strconv.Itoa(row.Losses),
			strconv.Itoa(row.Points),
		}
		view.Rows = append(view.Rows, row)
	}

	if len(view.Rows) == 0 {
		view.EmptyMessage = EmptyStandings
	}
	return view
}
