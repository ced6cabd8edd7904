package service

import (
	"sports_dashboard/internal/render"
)

// View names, used for snapshots, render state and broker messages.
const (
	ViewProfile    = "profile"
	ViewEventsPage = "events-page"
	ViewCountdowns = "countdowns"
	ViewShop       = "shop"
	ViewWatch      = "watch"
)

// Views lists every view a scheduled pass can render.
var Views = []string{ViewProfile, ViewEventsPage, ViewCountdowns, ViewShop, ViewWatch}

type ProfilePage struct {
	Viewer     render.ViewerCard   `json:"viewer"`
	Schedule   render.ScheduleView `json:"schedule"`
	Activities render.ActivityView `json:"activities"`
	Calendar   render.CalendarView `json:"calendar"`
}

type EventsPage struct {
	Standings render.StandingsView `json:"standings"`
	News      render.NewsView      `json:"news"`
	Events    render.EventsView    `json:"events"`
}

type CountdownsPage struct {
	Items []render.CountdownItem `json:"items"`
}

type ShopPage struct {
	Shop render.ShopView `json:"shop"`
	Cart render.CartView `json:"cart"`
}
