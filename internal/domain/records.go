package domain

// ScheduleEntry is a single item of a viewer's schedule as served by
// /api/schedules. Date is YYYY-MM-DD and Time is HH:MM or HH:MM:SS.
type ScheduleEntry struct {
	ID     string `json:"_id,omitempty"`
	UserID string `json:"userId,omitempty"`
	Event  string `json:"event"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status,omitempty"`
}

// Activity is a completed (or synthesized) schedule item.
type Activity struct {
	Event       string `json:"event"`
	CompletedAt string `json:"completedAt"`
	UserID      string `json:"userId,omitempty"`
	Status      string `json:"status,omitempty"`
}

const (
	CalendarTypeSchedule = "schedule"
	CalendarTypeEvent    = "event"

	CalendarSourceCalendar = "calendar"
	CalendarSourceSchedule = "schedule"
)

type CalendarEvent struct {
	Date   string `json:"date"`
	Title  string `json:"title"`
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
}

type Standing struct {
	Name   string `json:"name"`
	Played int    `json:"played"`
	Wins   int    `json:"w"`
	Draws  int    `json:"d"`
	Losses int    `json:"l"`
	Points int    `json:"points"`
}

type NewsArticle struct {
	ID       string `json:"id"`
	Category string `json:"cat,omitempty"`
	Title    string `json:"title,omitempty"`
	Content  string `json:"content,omitempty"`
	Time     string `json:"time,omitempty"`
	Image    string `json:"image,omitempty"`
}

type EventRow struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title,omitempty"`
	DateTime string `json:"datetime"`
	Location string `json:"location,omitempty"`
}

type Product struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Subtitle string  `json:"subtitle,omitempty"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Details  string  `json:"details,omitempty"`
	InStock  bool    `json:"inStock"`
}

type Media struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	MediaType   string `json:"mediaType"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Position    string `json:"position,omitempty"`
	IsActive    bool   `json:"isActive"`
}

type PlayerProfile struct {
	Sport          string `json:"sport,omitempty"`
	Team           string `json:"team,omitempty"`
	Position       string `json:"position,omitempty"`
	DominantHand   string `json:"dominantHand,omitempty"`
	TrainingSkills string `json:"trainingSkills,omitempty"`
	IsPlayer       bool   `json:"isPlayer"`
}

type User struct {
	ID             string         `json:"_id"`
	Name           string         `json:"name"`
	Email          string         `json:"email,omitempty"`
	ProfilePicture string         `json:"profilePicture,omitempty"`
	PlayerProfile  *PlayerProfile `json:"playerProfile,omitempty"`
}

// DemoUser stands in for the viewer when the current user cannot be resolved.
var DemoUser = User{ID: "demo", Name: "Demo User"}

type CartItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
