package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"sports_dashboard/internal/domain"
	"sports_dashboard/internal/logger"
	"sports_dashboard/internal/render"
	"sports_dashboard/internal/session"
)

type DashboardConfig struct {
	Location  *time.Location
	WeekStart time.Weekday
}

// Dashboard builds views from resolved data. Build only computes a view;
// Run additionally stores the snapshot, publishes it and records the pass.
type Dashboard struct {
	resolver  *Resolver
	carts     *CartService
	snapshots *SnapshotStore
	states    RenderStateStore
	publisher Publisher
	cfg       DashboardConfig
	now       func() time.Time
	logger    *slog.Logger
}

func NewDashboard(
	resolver *Resolver,
	carts *CartService,
	snapshots *SnapshotStore,
	states RenderStateStore,
	publisher Publisher,
	logger *slog.Logger,
	cfg DashboardConfig,
) *Dashboard {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Dashboard{
		resolver:  resolver,
		carts:     carts,
		snapshots: snapshots,
		states:    states,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
		logger:    logger.With("component", "dashboard"),
	}
}

// built is a rendered view plus what the pass learnt while building it.
type built struct {
	payload any
	origins map[domain.Category]domain.Origin
	items   int
	invalid int
}

// Build renders view for sess without recording anything.
func (d *Dashboard) Build(ctx context.Context, view string, sess *session.Session) (any, error) {
	b, err := d.build(ctx, view, sess, d.now())
	if err != nil {
		return nil, err
	}
	return b.payload, nil
}

// Run performs one full pass of view: build, snapshot, publish, record.
// Publishing and recording failures are logged and do not fail the pass.
func (d *Dashboard) Run(ctx context.Context, view string, sess *session.Session) (*domain.PassStats, error) {
	startTime := time.Now()
	stats := &domain.PassStats{
		View:     view,
		PassID:   uuid.NewString(),
		Sequence: d.snapshots.Next(),
	}
	ctx = logger.Ctx(ctx, slog.String("view", view), slog.String("pass_id", stats.PassID))

	now := d.now()
	b, err := d.build(ctx, view, sess, now)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", view, err)
	}
	stats.Origins = b.origins
	stats.Items = b.items
	stats.Invalid = b.invalid
	origin := summarizeOrigins(b.origins)

	if b.invalid > 0 {
		d.logger.WarnContext(ctx, "invalid timestamps treated as now", "count", b.invalid)
	}

	accepted := d.snapshots.Put(Snapshot{
		View:       view,
		PassID:     stats.PassID,
		Sequence:   stats.Sequence,
		Origin:     origin,
		RenderedAt: now,
		Payload:    b.payload,
	})
	if !accepted {
		d.logger.InfoContext(ctx, "stale pass discarded", "sequence", stats.Sequence)
		stats.Duration = time.Since(startTime)
		return stats, nil
	}

	if d.publisher != nil {
		if err := d.publish(ctx, stats, origin, now, b.payload); err != nil {
			d.logger.WarnContext(ctx, "publish view failed", "error", err)
		} else {
			stats.Published = true
		}
	}

	if d.states != nil {
		err := d.states.Record(ctx, &domain.RenderState{
			View:       view,
			PassID:     stats.PassID,
			Sequence:   stats.Sequence,
			Origin:     origin,
			ItemCount:  b.items,
			Invalid:    b.invalid,
			RenderedAt: now,
		})
		if err != nil {
			d.logger.WarnContext(ctx, "record render state failed", "error", err)
		}
	}

	stats.Duration = time.Since(startTime)

	d.logger.InfoContext(ctx, "pass completed",
		"sequence", stats.Sequence,
		"origin", origin,
		"items", stats.Items,
		"invalid", stats.Invalid,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats, nil
}

// Snapshot returns the last accepted pass of view.
func (d *Dashboard) Snapshot(view string) (Snapshot, bool) {
	return d.snapshots.Get(view)
}

// Calendar renders the viewer's calendar for an arbitrary month.
func (d *Dashboard) Calendar(ctx context.Context, sess *session.Session, month time.Month, year int) render.CalendarView {
	events, _ := d.resolver.CalendarEvents(ctx, sess)
	return render.Calendar(month, year, d.now(), events, d.cfg.WeekStart, d.cfg.Location)
}

// CalendarEvents exposes the viewer's merged calendar entries.
func (d *Dashboard) CalendarEvents(ctx context.Context, sess *session.Session) []domain.CalendarEvent {
	events, _ := d.resolver.CalendarEvents(ctx, sess)
	return events
}

func (d *Dashboard) NewsDetail(ctx context.Context, sess *session.Session, id string) (render.NewsDetail, error) {
	articles, _ := d.resolver.News(ctx, sess)
	return render.FindNews(articles, id)
}

func (d *Dashboard) build(ctx context.Context, view string, sess *session.Session, now time.Time) (*built, error) {
	switch view {
	case ViewProfile:
		return d.buildProfile(ctx, sess, now), nil
	case ViewEventsPage:
		return d.buildEventsPage(ctx, sess, now), nil
	case ViewCountdowns:
		return d.buildCountdowns(ctx, sess, now), nil
	case ViewShop:
		return d.buildShop(ctx, sess)
	case ViewWatch:
		return d.buildWatch(ctx, sess), nil
	default:
		return nil, fmt.Errorf("view %q: %w", view, domain.ErrNotFound)
	}
}

func (d *Dashboard) buildProfile(ctx context.Context, sess *session.Session, now time.Time) *built {
	schedules, schedOrigin := d.resolver.Schedules(ctx, sess)
	activities, actOrigin := d.resolver.Activities(ctx, sess)
	events, calOrigin := d.resolver.CalendarEvents(ctx, sess)

	local := now.In(d.cfg.Location)
	page := ProfilePage{
		Viewer:     render.Viewer(sess.Viewer),
		Schedule:   render.Schedule(schedules, now, d.cfg.Location),
		Activities: render.Activities(activities, now, d.cfg.Location),
		Calendar:   render.Calendar(local.Month(), local.Year(), now, events, d.cfg.WeekStart, d.cfg.Location),
	}

	return &built{
		payload: page,
		origins: map[domain.Category]domain.Origin{
			domain.CategorySchedules:      schedOrigin,
			domain.CategoryActivities:     actOrigin,
			domain.CategoryCalendarEvents: calOrigin,
		},
		items:   len(page.Schedule.Items) + len(page.Activities.Items) + page.Calendar.EventDays,
		invalid: page.Schedule.Invalid + page.Activities.Invalid + page.Calendar.Invalid,
	}
}

func (d *Dashboard) buildEventsPage(ctx context.Context, sess *session.Session, now time.Time) *built {
	standings, standOrigin := d.resolver.Standings(ctx, sess)
	news, newsOrigin := d.resolver.News(ctx, sess)
	events, eventsOrigin := d.resolver.Events(ctx, sess)

	page := EventsPage{
		Standings: render.Standings(standings),
		News:      render.News(news),
		Events:    render.Events(events, now, d.cfg.Location),
	}

	return &built{
		payload: page,
		origins: map[domain.Category]domain.Origin{
			domain.CategoryStandings: standOrigin,
			domain.CategoryNews:      newsOrigin,
			domain.CategoryEvents:    eventsOrigin,
		},
		items:   len(page.Standings.Rows) + len(page.News.Cards) + len(page.Events.Items),
		invalid: page.Events.Invalid,
	}
}

// buildCountdowns relabels the events of the last events-page pass; it only
// resolves events itself when no such pass exists yet.
func (d *Dashboard) buildCountdowns(ctx context.Context, sess *session.Session, now time.Time) *built {
	var (
		items   []render.EventItem
		origin  = domain.OriginDerived
		invalid int
	)
	if snap, ok := d.snapshots.Get(ViewEventsPage); ok {
		if page, ok := snap.Payload.(EventsPage); ok {
			items = page.Events.Items
		}
	}
	if items == nil {
		var rows []domain.EventRow
		rows, origin = d.resolver.Events(ctx, sess)
		ev := render.Events(rows, now, d.cfg.Location)
		items, invalid = ev.Items, ev.Invalid
	}

	page := CountdownsPage{Items: render.Countdowns(items, now)}
	return &built{
		payload: page,
		origins: map[domain.Category]domain.Origin{domain.CategoryEvents: origin},
		items:   len(page.Items),
		invalid: invalid,
	}
}

func (d *Dashboard) buildShop(ctx context.Context, sess *session.Session) (*built, error) {
	products, origin := d.resolver.Products(ctx, sess)

	page := ShopPage{Shop: render.Shop(products), Cart: render.Cart(nil)}
	if owner := sess.CartOwner(); d.carts != nil && owner != "" {
		cart, err := d.carts.Items(ctx, owner)
		if err != nil {
			return nil, fmt.Errorf("load cart: %w", err)
		}
		page.Cart = render.Cart(cart)
	}

	return &built{
		payload: page,
		origins: map[domain.Category]domain.Origin{domain.CategoryProducts: origin},
		items:   len(products),
	}, nil
}

func (d *Dashboard) buildWatch(ctx context.Context, sess *session.Session) *built {
	media, origin := d.resolver.Media(ctx, sess)
	page := render.Watch(media)

	items := 0
	for _, g := range page.Groups {
		items += len(g.Cards)
	}
	return &built{
		payload: page,
		origins: map[domain.Category]domain.Origin{domain.CategoryMedia: origin},
		items:   items,
	}
}

func (d *Dashboard) publish(ctx context.Context, stats *domain.PassStats, origin string, now time.Time, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return d.publisher.Publish(ctx, &domain.ViewMessage{
		View:      stats.View,
		PassID:    stats.PassID,
		Sequence:  stats.Sequence,
		Origin:    origin,
		Timestamp: now,
		Payload:   body,
	})
}

// summarizeOrigins flattens per-category origins into "cat=origin,..." in
// category order.
func summarizeOrigins(origins map[domain.Category]domain.Origin) string {
	parts := make([]string, 0, len(origins))
	for cat, origin := range origins {
		parts = append(parts, string(cat)+"="+string(origin))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
