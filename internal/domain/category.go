package domain

// Category names one independently resolved data set.
type Category string

const (
	CategorySchedules      Category = "schedules"
	CategoryActivities     Category = "activities"
	CategoryCalendarEvents Category = "calendar_events"
	CategoryStandings      Category = "standings"
	CategoryNews           Category = "news"
	CategoryEvents         Category = "events"
	CategoryProducts       Category = "products"
	CategoryMedia          Category = "media"
)

// Origin records which fallback tier produced a category's records.
type Origin string

const (
	OriginNetwork Origin = "network"
	OriginLocal   Origin = "local"
	OriginDerived Origin = "derived"
	OriginNone    Origin = "none"
)

// Local fallback keys, matching what the admin tooling writes.
const (
	LocalKeySchedules      = "schedules"
	LocalKeyActivities     = "activities"
	LocalKeyCalendarEvents = "calendarEvents"
	LocalKeyStandings      = "bsu-standings"
	LocalKeyNews           = "bsu-news"
	LocalKeyEvents         = "bsu-events"
	LocalKeyCart           = "shoppingCart"
)

// CartKey scopes the cart fallback key to a single viewer.
func CartKey(userID string) string {
	return LocalKeyCart + ":" + userID
}
