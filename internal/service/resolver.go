package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sports_dashboard/internal/config"
	"sports_dashboard/internal/domain"
	"sports_dashboard/internal/session"
)

// ResolverConfig selects the tiers available per category.
type ResolverConfig struct {
	Paths            config.PathsConfig
	Location         *time.Location
	WriteThrough     bool
	IncludeOwnerless bool
}

// Resolver fetches each category from the network tier, falling back to the
// local store. Categories are resolved independently: a failure in one never
// affects another, and every method returns a usable (possibly empty) list.
type Resolver struct {
	api    UpstreamAPI
	local  LocalStore
	cfg    ResolverConfig
	now    func() time.Time
	logger *slog.Logger
}

func NewResolver(api UpstreamAPI, local LocalStore, cfg ResolverConfig, logger *slog.Logger) *Resolver {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Resolver{
		api:    api,
		local:  local,
		cfg:    cfg,
		now:    time.Now,
		logger: logger.With("component", "resolver"),
	}
}

// Schedules returns the viewer's schedule entries.
func (r *Resolver) Schedules(ctx context.Context, sess *session.Session) ([]domain.ScheduleEntry, domain.Origin) {
	all, origin := r.allSchedules(ctx, sess)
	return filterVisible(all, sess, r.cfg.IncludeOwnerless, func(e domain.ScheduleEntry) string { return e.UserID }), origin
}

// Activities returns the viewer's completed activities. When neither tier has
// any, they are derived from past schedule entries.
func (r *Resolver) Activities(ctx context.Context, sess *session.Session) ([]domain.Activity, domain.Origin) {
	acts, origin := resolveList[domain.Activity](ctx, r, domain.CategoryActivities, sess, r.cfg.Paths.Activities, domain.LocalKeyActivities)

	if len(acts) == 0 {
		schedules, _ := r.allSchedules(ctx, sess)
		now := r.now()
		for _, s := range schedules {
			if !r.visible(s.UserID, sess) || !s.IsPast(now, r.cfg.Location) {
				continue
			}
			acts = append(acts, s.ToActivity())
		}
		if len(acts) > 0 {
			origin = domain.OriginDerived
			r.logger.Debug("derived activities from past schedules", "count", len(acts))
		}
	}

	return filterVisible(acts, sess, r.cfg.IncludeOwnerless, func(a domain.Activity) string { return a.UserID }), origin
}

// CalendarEvents merges calendar entries with the viewer's schedule entries.
// Calendar entries are shared by everyone and are not ownership filtered.
func (r *Resolver) CalendarEvents(ctx context.Context, sess *session.Session) ([]domain.CalendarEvent, domain.Origin) {
	events, origin := resolveList[domain.CalendarEvent](ctx, r, domain.CategoryCalendarEvents, sess, r.cfg.Paths.CalendarEvents, domain.LocalKeyCalendarEvents)

	out := make([]domain.CalendarEvent, 0, len(events))
	for _, e := range events {
		if e.Type == "" {
			e.Type = domain.CalendarTypeEvent
		}
		e.Source = domain.CalendarSourceCalendar
		out = append(out, e)
	}

	schedules, _ := r.Schedules(ctx, sess)
	for _, s := range schedules {
		out = append(out, domain.CalendarEvent{
			Date:   s.Date,
			Title:  s.Event,
			Type:   domain.CalendarTypeSchedule,
			Source: domain.CalendarSourceSchedule,
		})
	}
	return out, origin
}

func (r *Resolver) Standings(ctx context.Context, sess *session.Session) ([]domain.Standing, domain.Origin) {
	return resolveList[domain.Standing](ctx, r, domain.CategoryStandings, sess, r.cfg.Paths.Standings, domain.LocalKeyStandings)
}

func (r *Resolver) News(ctx context.Context, sess *session.Session) ([]domain.NewsArticle, domain.Origin) {
	return resolveList[domain.NewsArticle](ctx, r, domain.CategoryNews, sess, r.cfg.Paths.News, domain.LocalKeyNews)
}

func (r *Resolver) Events(ctx context.Context, sess *session.Session) ([]domain.EventRow, domain.Origin) {
	return resolveList[domain.EventRow](ctx, r, domain.CategoryEvents, sess, r.cfg.Paths.Events, domain.LocalKeyEvents)
}

// Products has no local tier.
func (r *Resolver) Products(ctx context.Context, sess *session.Session) ([]domain.Product, domain.Origin) {
	return resolveList[domain.Product](ctx, r, domain.CategoryProducts, sess, r.cfg.Paths.Products, "")
}

// Media has no local tier.
func (r *Resolver) Media(ctx context.Context, sess *session.Session) ([]domain.Media, domain.Origin) {
	return resolveList[domain.Media](ctx, r, domain.CategoryMedia, sess, r.cfg.Paths.Media, "")
}

// Seed replaces a local fallback payload. The payload must be a JSON array
// and key one of the known fallback keys.
func (r *Resolver) Seed(ctx context.Context, key string, payload []byte) error {
	switch key {
	case domain.LocalKeySchedules, domain.LocalKeyActivities, domain.LocalKeyCalendarEvents,
		domain.LocalKeyStandings, domain.LocalKeyNews, domain.LocalKeyEvents:
	default:
		return fmt.Errorf("unknown local key %q: %w", key, domain.ErrInvalid)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil {
		return fmt.Errorf("payload for %q is not a JSON array: %w", key, domain.ErrInvalid)
	}

	if err := r.local.Put(ctx, key, payload); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (r *Resolver) allSchedules(ctx context.Context, sess *session.Session) ([]domain.ScheduleEntry, domain.Origin) {
	return resolveList[domain.ScheduleEntry](ctx, r, domain.CategorySchedules, sess, r.cfg.Paths.Schedules, domain.LocalKeySchedules)
}

func (r *Resolver) visible(owner string, sess *session.Session) bool {
	return isVisible(owner, sess, r.cfg.IncludeOwnerless)
}

func isVisible(owner string, sess *session.Session, includeOwnerless bool) bool {
	if owner == "" {
		return includeOwnerless
	}
	return owner == sess.Viewer.ID
}

func filterVisible[T any](items []T, sess *session.Session, includeOwnerless bool, owner func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if isVisible(owner(it), sess, includeOwnerless) {
			out = append(out, it)
		}
	}
	return out
}

// resolveList walks the tiers for one category. An empty path skips the
// network tier and an empty key skips the local tier.
func resolveList[T any](ctx context.Context, r *Resolver, cat domain.Category, sess *session.Session, path, key string) ([]T, domain.Origin) {
	log := r.logger.With("category", cat)

	if path != "" {
		var out []T
		err := r.api.Get(ctx, path, sess.Cookie, &out)
		if err == nil {
			if out == nil {
				out = []T{}
			}
			if r.cfg.WriteThrough && key != "" {
				r.writeThrough(ctx, log, key, out)
			}
			return out, domain.OriginNetwork
		}
		log.Warn("network tier unavailable, trying local", "error", err)
	}

	if key == "" {
		return []T{}, domain.OriginNone
	}

	payload, err := r.local.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Error("local tier failed", "key", key, "error", err)
		}
		return []T{}, domain.OriginNone
	}

	var out []T
	if err := json.Unmarshal(payload, &out); err != nil {
		log.Warn("ignoring local data",
			"key", key,
			"error", fmt.Errorf("%w: %v", domain.ErrMalformed, err),
		)
		return []T{}, domain.OriginNone
	}
	if out == nil {
		out = []T{}
	}
	return out, domain.OriginLocal
}

func (r *Resolver) writeThrough(ctx context.Context, log *slog.Logger, key string, items any) {
	payload, err := json.Marshal(items)
	if err != nil {
		log.Error("encode write-through payload", "key", key, "error", err)
		return
	}
	if err := r.local.Put(ctx, key, payload); err != nil {
		log.Warn("write-through failed", "key", key, "error", err)
	}
}
