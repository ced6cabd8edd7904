package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sports_dashboard/internal/domain"
)

var now = time.Date(2024, time.February, 14, 12, 0, 0, 0, time.UTC)

func TestCountdown(t *testing.T) {
	tests := []struct {
		name   string
		target time.Time
		want   string
	}{
		{"hours and minutes", now.Add(90 * time.Minute), "1h 30m"},
		{"days and hours", now.Add(50 * time.Hour), "2d 2h"},
		{"minutes only", now.Add(59*time.Minute + 59*time.Second), "59m"},
		{"exactly now", now, Started},
		{"past", now.Add(-time.Hour), Started},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Countdown(tt.target, now))
		})
	}
}

func TestStandings_SortsByPoints(t *testing.T) {
	view := Standings([]domain.Standing{
		{Name: "A", Points: 3},
		{Name: "B", Points: 5},
		{Points: 3},
	})

	require.Len(t, view.Rows, 3)
	assert.Equal(t, "01", view.Rows[0].Position)
	assert.Equal(t, "B", view.Rows[0].Name)
	assert.Equal(t, "02", view.Rows[1].Position)
	assert.Equal(t, "A", view.Rows[1].Name)
	assert.Equal(t, "Unknown", view.Rows[2].Name)
	assert.Equal(t, [7]string{"01", "B", "0", "0", "0", "0", "5"}, view.Rows[0].Cells)
	assert.Empty(t, view.EmptyMessage)
}

func TestStandings_Empty(t *testing.T) {
	view := Standings(nil)
	assert.Empty(t, view.Rows)
	assert.Equal(t, EmptyStandings, view.EmptyMessage)
}

func TestCalendar_February2024(t *testing.T) {
	events := []domain.CalendarEvent{
		{Date: "2024-02-14", Title: "Final"},
		{Date: "2024-02-14", Title: "Training"},
		{Date: "2024-03-01", Title: "Next month"},
		{Date: "garbage"},
	}

	monday := Calendar(time.February, 2024, now, events, time.Monday, time.UTC)
	assert.Equal(t, "February 2024", monday.Title)
	assert.Equal(t, 3, monday.Leading)
	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, monday.Weekdays)
	assert.Zero(t, len(monday.Cells)%7)
	assert.Equal(t, 1, monday.EventDays)
	assert.Equal(t, 1, monday.Invalid)

	// previous month tail: 29, 30, 31 January
	assert.Equal(t, 29, monday.Cells[0].Day)
	assert.False(t, monday.Cells[0].InMonth)
	assert.Equal(t, 1, monday.Cells[3].Day)
	assert.True(t, monday.Cells[3].InMonth)

	cell := monday.Cells[monday.Leading+13]
	assert.Equal(t, 14, cell.Day)
	assert.True(t, cell.Today)
	assert.True(t, cell.HasEvent)
	assert.Equal(t, 2, cell.EventCount)

	sunday := Calendar(time.February, 2024, now, events, time.Sunday, time.UTC)
	assert.Equal(t, 4, sunday.Leading)
	assert.Equal(t, "Sun", sunday.Weekdays[0])
	assert.Zero(t, len(sunday.Cells)%7)
}

func TestCalendar_TodayOnlyInCurrentMonth(t *testing.T) {
	view := Calendar(time.March, 2024, now, nil, time.Monday, time.UTC)
	for _, c := range view.Cells {
		assert.False(t, c.Today)
	}
	assert.Zero(t, len(view.Cells)%7)
}

func TestSchedule_FutureOnlySorted(t *testing.T) {
	view := Schedule([]domain.ScheduleEntry{
		{Event: "later", Date: "2024-02-20", Time: "10:00"},
		{Event: "past", Date: "2024-02-10", Time: "10:00"},
		{Event: "now", Date: "2024-02-14", Time: "12:00"},
		{Event: "soon", Date: "2024-02-14", Time: "13:00"},
		{Event: "broken", Date: "not a date"},
	}, now, time.UTC)

	require.Len(t, view.Items, 2)
	assert.Equal(t, "soon", view.Items[0].Event)
	assert.Equal(t, "14 February", view.Items[0].DateLabel)
	assert.Equal(t, "later", view.Items[1].Event)
	assert.Equal(t, 1, view.Invalid)
	assert.Empty(t, view.EmptyMessage)
}

func TestSchedule_Empty(t *testing.T) {
	view := Schedule(nil, now, time.UTC)
	assert.Equal(t, EmptySchedule, view.EmptyMessage)
	assert.NotNil(t, view.Items)
}

func TestActivities_MostRecentFirst(t *testing.T) {
	view := Activities([]domain.Activity{
		{Event: "old", CompletedAt: "2024-02-01T09:00:00Z"},
		{Event: "just now", CompletedAt: now.Format(time.RFC3339)},
		{Event: "yesterday", CompletedAt: "2024-02-13T11:00:00Z"},
	}, now, time.UTC)

	require.Len(t, view.Items, 3)
	assert.Equal(t, "just now", view.Items[0].Event)
	assert.Equal(t, "Today", view.Items[0].TimeLabel)
	assert.Equal(t, "1 Day ago", view.Items[1].TimeLabel)
	assert.Equal(t, "13 Days ago", view.Items[2].TimeLabel)
}

func TestElapsedLabel_FutureIsScheduled(t *testing.T) {
	assert.Equal(t, "Scheduled", ElapsedLabel(now.Add(time.Minute), now))
	assert.Equal(t, "Today", ElapsedLabel(now.Add(-23*time.Hour), now))
}

func TestEvents_SortedWithDefaults(t *testing.T) {
	view := Events([]domain.EventRow{
		{ID: "2", Title: "Derby", DateTime: "2024-02-16T18:30", Location: "Main Field"},
		{ID: "1", DateTime: "2024-02-14T13:30"},
	}, now, time.UTC)

	require.Len(t, view.Items, 2)
	assert.Equal(t, "1", view.Items[0].ID)
	assert.Equal(t, "Untitled", view.Items[0].Title)
	assert.Equal(t, "1h 30m", view.Items[0].Countdown)
	assert.Equal(t, "Wednesday, February 14, 2024 • 01:30 PM • TBA", view.Items[0].Meta)
	assert.Equal(t, "Friday, February 16, 2024 • 06:30 PM • Main Field", view.Items[1].Meta)

	later := Countdowns(view.Items, now.Add(2*time.Hour))
	assert.Equal(t, Started, later[0].Label)
	assert.Equal(t, "2d 4h", later[1].Label)
}

func TestNews_Defaults(t *testing.T) {
	view := News([]domain.NewsArticle{{ID: "n1", Image: "   "}, {ID: "n2", Category: "Football", Title: "Win", Image: "a.png"}})

	require.Len(t, view.Cards, 2)
	assert.Equal(t, NewsCard{ID: "n1", Category: "General", Title: "Untitled", Time: "Recently"}, view.Cards[0])
	assert.True(t, view.Cards[1].HasImage)
	assert.Equal(t, EmptyNews, News(nil).EmptyMessage)
}

func TestFindNews_SanitizesBody(t *testing.T) {
	articles := []domain.NewsArticle{{ID: "n1", Content: `<p>Hello</p><script>alert(1)</script>`}}

	detail, err := FindNews(articles, "n1")
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello</p>", detail.Body)

	_, err = FindNews(articles, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShop_GroupsInFixedOrder(t *testing.T) {
	view := Shop([]domain.Product{
		{ID: "p1", Name: "Jersey", Category: "Jerseys", Price: 120},
		{ID: "p2", Name: "Cap", Category: "Accessories", Price: 35.5},
		{ID: "p3", Name: "Mug", Category: "Kitchen", Price: 10},
	})

	require.Len(t, view.Sections, 4)
	assert.Equal(t, "Sports Fest Jackets", view.Sections[0].Category)
	assert.Empty(t, view.Sections[0].Products)
	assert.Equal(t, "120 AED", view.Sections[2].Products[0].PriceLabel)
	assert.Equal(t, "35.5 AED", view.Sections[3].Products[0].PriceLabel)
}

func TestCart_Totals(t *testing.T) {
	view := Cart([]domain.CartItem{{Name: "Jersey", Price: 120}, {Name: "Cap", Price: 35.5}})
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, "155.50", view.TotalLabel)
	assert.Equal(t, 1, view.Lines[1].Index)

	empty := Cart(nil)
	assert.Equal(t, "0.00", empty.TotalLabel)
	assert.Equal(t, EmptyCart, empty.EmptyMessage)
}

func TestClassifyEmbed(t *testing.T) {
	tests := []struct {
		url       string
		typ       string
		embed     string
		clickable bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "youtube", "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=0&rel=0", false},
		{"https://youtu.be/dQw4w9WgXcQ", "youtube", "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=0&rel=0", false},
		{"https://www.instagram.com/p/abc123?igsh=x", "instagram", "https://www.instagram.com/p/abc123/embed/", false},
		{"https://www.tiktok.com/@club/video/7312345678901234567", "tiktok", "https://www.tiktok.com/embed/v2/7312345678901234567", true},
		{"https://vimeo.com/123456", "vimeo", "https://player.vimeo.com/video/123456", false},
		{"https://x.com/club/status/1", "twitter", "https://x.com/club/status/1", true},
		{"https://fb.watch/abc/", "facebook", "https://fb.watch/abc/", true},
		{"https://cdn.example.com/clip.MP4", "video", "https://cdn.example.com/clip.MP4", false},
		{"https://cdn.example.com/photo.webp?w=300", "image", "https://cdn.example.com/photo.webp?w=300", false},
		{"https://example.com/page", "generic", "https://example.com/page", true},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			e := ClassifyEmbed(tt.url)
			assert.Equal(t, tt.typ, e.Type)
			assert.Equal(t, tt.embed, e.EmbedURL)
			assert.Equal(t, tt.clickable, e.Clickable)
		})
	}
}

func TestWatch_GroupsActiveMedia(t *testing.T) {
	view := Watch([]domain.Media{
		{ID: "m1", Title: "Final", Category: "highlights", URL: "https://youtu.be/dQw4w9WgXcQ", IsActive: true},
		{ID: "m2", Title: "Hidden", Category: "highlights", URL: "https://youtu.be/dQw4w9WgXcQ"},
	})

	require.Len(t, view.Groups, 4)
	assert.Equal(t, "No full matches available", view.Groups[0].EmptyMessage)
	assert.Equal(t, "No upcoming matches available", view.Groups[3].EmptyMessage)
	require.Len(t, view.Groups[1].Cards, 1)
	assert.Equal(t, "HIGHLIGHTS", view.Groups[1].Cards[0].Tag)
	assert.Empty(t, view.Groups[1].EmptyMessage)
}

func TestViewer(t *testing.T) {
	demo := Viewer(domain.DemoUser)
	assert.Equal(t, "DU", demo.Initials)
	assert.Equal(t, "Not Set", demo.Team)
	assert.False(t, demo.IsPlayer)

	player := Viewer(domain.User{
		ID:             "u1",
		Name:           "Sara Ali",
		ProfilePicture: "https://cdn.example.com/sara.png",
		PlayerProfile:  &domain.PlayerProfile{IsPlayer: true, Sport: "football", Team: "Falcons"},
	})
	assert.Empty(t, player.Initials)
	assert.Equal(t, "FOOTBALL", player.Sport)
	assert.Equal(t, "Falcons", player.Team)
	assert.Equal(t, "Not Set", player.Position)
}
