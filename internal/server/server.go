package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"sports_dashboard/internal/domain"
	dasherrs "sports_dashboard/internal/errors"
	"sports_dashboard/internal/ics"
	"sports_dashboard/internal/render"
	"sports_dashboard/internal/service"
	"sports_dashboard/internal/session"
)

const (
	maxSeedBytes = 1 << 20

	// cartCookie holds the anonymous cart id of a browser without a viewer.
	cartCookie    = "dashboard_cart"
	cartCookieAge = 30 * 24 * time.Hour
)

// publicViews can be read from the snapshot store by anyone. The others are
// rendered for the scheduler's viewer and stay private.
var publicViews = map[string]bool{
	service.ViewEventsPage: true,
	service.ViewCountdowns: true,
	service.ViewWatch:      true,
}

type (
	Dashboard interface {
		Build(ctx context.Context, view string, sess *session.Session) (any, error)
		Snapshot(view string) (service.Snapshot, bool)
		Calendar(ctx context.Context, sess *session.Session, month time.Month, year int) render.CalendarView
		CalendarEvents(ctx context.Context, sess *session.Session) []domain.CalendarEvent
		NewsDetail(ctx context.Context, sess *session.Session, id string) (render.NewsDetail, error)
	}

	Carts interface {
		Items(ctx context.Context, userID string) ([]domain.CartItem, error)
		Add(ctx context.Context, userID string, item domain.CartItem) ([]domain.CartItem, error)
		Remove(ctx context.Context, userID string, index int) ([]domain.CartItem, error)
		Clear(ctx context.Context, userID string) error
	}

	Sessions interface {
		Resolve(ctx context.Context, cookie string) *session.Session
		Forget(cookie string)
	}

	Seeder interface {
		Seed(ctx context.Context, key string, payload []byte) error
	}

	RenderStates interface {
		List(ctx context.Context, limit uint64) ([]domain.RenderState, error)
		Latest(ctx context.Context, view string) (*domain.RenderState, error)
	}
)

type Config struct {
	Listen     string
	CORSOrigin string
	// CookieName is the upstream session cookie forwarded from the browser.
	CookieName string
	// AdminToken is the bearer token for seeding; empty disables seeding.
	AdminToken string
	Location   *time.Location
}

// Server is the HTTP adapter over the rendered views.
type Server struct {
	*http.Server

	dashboard Dashboard
	carts     Carts
	sessions  Sessions
	seeder    Seeder
	states    RenderStates

	cookieName string
	adminToken string
	loc        *time.Location
	now        func() time.Time
}

func New(cfg Config, dashboard Dashboard, carts Carts, sessions Sessions, seeder Seeder, states RenderStates, logger *slog.Logger) *Server {
	r := ErrRouter{Router: mux.NewRouter()}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	srvr := &Server{
		dashboard:  dashboard,
		carts:      carts,
		sessions:   sessions,
		seeder:     seeder,
		states:     states,
		cookieName: cfg.CookieName,
		adminToken: cfg.AdminToken,
		loc:        loc,
		now:        time.Now,
		Server: &http.Server{
			Addr:         cfg.Listen,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			Handler:      handlers.CORS(corsOptions(cfg.CORSOrigin)...)(r),
		},
	}

	r.Use(accessLog(logger.With("component", "http")))
	r.HandleFuncE("/health", srvr.getHealth).Methods(http.MethodGet)
	r.HandleFuncE("/api/session", srvr.deleteSession).Methods(http.MethodDelete)

	r.HandleFuncE("/api/profile", srvr.getView(service.ViewProfile)).Methods(http.MethodGet)
	r.HandleFuncE("/api/events-page", srvr.getView(service.ViewEventsPage)).Methods(http.MethodGet)
	r.HandleFuncE("/api/countdowns", srvr.getView(service.ViewCountdowns)).Methods(http.MethodGet)
	r.HandleFuncE("/api/shop", srvr.getView(service.ViewShop)).Methods(http.MethodGet)
	r.HandleFuncE("/api/watch-sports", srvr.getView(service.ViewWatch)).Methods(http.MethodGet)

	r.HandleFuncE("/api/calendar", srvr.getCalendar).Methods(http.MethodGet)
	r.HandleFuncE("/api/calendar.ics", srvr.getCalendarICS).Methods(http.MethodGet)
	r.HandleFuncE("/api/news/{id}", srvr.getNews).Methods(http.MethodGet)

	r.HandleFuncE("/api/cart", srvr.getCart).Methods(http.MethodGet)
	r.HandleFuncE("/api/cart", srvr.postCart).Methods(http.MethodPost)
	r.HandleFuncE("/api/cart", srvr.deleteCart).Methods(http.MethodDelete)
	r.HandleFuncE("/api/cart/{index:[0-9]+}", srvr.deleteCartItem).Methods(http.MethodDelete)

	r.HandleFuncE("/api/status", srvr.getStatus).Methods(http.MethodGet)
	r.HandleFuncE("/api/snapshots/{view}", srvr.getSnapshot).Methods(http.MethodGet)
	r.HandleFuncE("/api/local/{key}", srvr.putLocal).Methods(http.MethodPut)

	return srvr
}

// corsOptions allows credentials only for an explicit origin; browsers reject
// credentialed responses carrying a wildcard origin.
func corsOptions(origin string) []handlers.CORSOption {
	opts := []handlers.CORSOption{
		handlers.AllowedOrigins([]string{origin}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"content-type", "authorization"}),
	}
	if origin != "*" {
		opts = append(opts, handlers.AllowCredentials())
	}
	return opts
}

func (s *Server) upstreamCookie(r *http.Request) string {
	if c, err := r.Cookie(s.cookieName); err == nil {
		return c.Value
	}
	return ""
}

// session resolves the viewer. Demo sessions pick up the browser's anonymous
// cart id when it has one.
func (s *Server) session(r *http.Request) *session.Session {
	sess := s.sessions.Resolve(r.Context(), s.upstreamCookie(r))
	if sess.Demo {
		if c, err := r.Cookie(cartCookie); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				sess.AnonID = id.String()
			}
		}
	}
	return sess
}

// cartSession is session for cart routes; a demo browser without an
// anonymous cart id is issued one.
func (s *Server) cartSession(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := s.session(r)
	if sess.Demo && sess.AnonID == "" {
		sess.AnonID = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     cartCookie,
			Value:    sess.AnonID,
			Path:     "/",
			MaxAge:   int(cartCookieAge / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) error {
	return WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// deleteSession drops the cached viewer for the caller's cookie, e.g. after a
// logout or a profile change upstream.
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) error {
	if cookie := s.upstreamCookie(r); cookie != "" {
		s.sessions.Forget(cookie)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// getView renders view on demand for the requesting viewer.
func (s *Server) getView(view string) HandlerFuncE {
	return func(w http.ResponseWriter, r *http.Request) error {
		payload, err := s.dashboard.Build(r.Context(), view, s.session(r))
		if err != nil {
			return err
		}
		return WriteJSON(w, http.StatusOK, payload)
	}
}

func (s *Server) getCalendar(w http.ResponseWriter, r *http.Request) error {
	now := s.now().In(s.loc)
	month, year := now.Month(), now.Year()

	q := r.URL.Query()
	if v := q.Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return dasherrs.E(http.StatusBadRequest, "month must be 1-12", dasherrs.Detail{Field: "month", Error: "out of range"})
		}
		month = time.Month(m)
	}
	if v := q.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 || y > 9999 {
			return dasherrs.E(http.StatusBadRequest, "invalid year", dasherrs.Detail{Field: "year", Error: "out of range"})
		}
		year = y
	}

	return WriteJSON(w, http.StatusOK, s.dashboard.Calendar(r.Context(), s.session(r), month, year))
}

func (s *Server) getCalendarICS(w http.ResponseWriter, r *http.Request) error {
	sess := s.session(r)
	events := s.dashboard.CalendarEvents(r.Context(), sess)

	body, invalid := ics.Export(events, sess.Viewer.Name, s.loc, s.now())
	if invalid > 0 {
		slog.WarnContext(r.Context(), "calendar entries skipped in export", "count", invalid)
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	_, err := io.WriteString(w, body)
	return err
}

func (s *Server) getNews(w http.ResponseWriter, r *http.Request) error {
	detail, err := s.dashboard.NewsDetail(r.Context(), s.session(r), mux.Vars(r)["id"])
	if err != nil {
		return err
	}
	return WriteJSON(w, http.StatusOK, detail)
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) error {
	items, err := s.carts.Items(r.Context(), s.cartSession(w, r).CartOwner())
	if err != nil {
		return err
	}
	return WriteJSON(w, http.StatusOK, render.Cart(items))
}

func (s *Server) postCart(w http.ResponseWriter, r *http.Request) error {
	var item domain.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		return dasherrs.E(http.StatusBadRequest, fmt.Sprintf("decode cart item: %s", err))
	}

	items, err := s.carts.Add(r.Context(), s.cartSession(w, r).CartOwner(), item)
	if err != nil {
		return err
	}
	return WriteJSON(w, http.StatusCreated, render.Cart(items))
}

func (s *Server) deleteCart(w http.ResponseWriter, r *http.Request) error {
	if err := s.carts.Clear(r.Context(), s.cartSession(w, r).CartOwner()); err != nil {
		return err
	}
	return WriteJSON(w, http.StatusOK, render.Cart(nil))
}

func (s *Server) deleteCartItem(w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		return dasherrs.E(http.StatusBadRequest, "invalid index")
	}

	items, err := s.carts.Remove(r.Context(), s.cartSession(w, r).CartOwner(), index)
	if err != nil {
		return err
	}
	return WriteJSON(w, http.StatusOK, render.Cart(items))
}

// getStatus lists recent passes, or the latest pass of ?view=.
func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) error {
	if view := r.URL.Query().Get("view"); view != "" {
		state, err := s.states.Latest(r.Context(), view)
		if err != nil {
			return err
		}
		return WriteJSON(w, http.StatusOK, state)
	}

	states, err := s.states.List(r.Context(), 50)
	if err != nil {
		return err
	}
	return WriteJSON(w, http.StatusOK, states)
}

func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) error {
	view := mux.Vars(r)["view"]
	if !publicViews[view] {
		return dasherrs.E(http.StatusNotFound, fmt.Sprintf("no public snapshot for %q", view))
	}
	snap, ok := s.dashboard.Snapshot(view)
	if !ok {
		return dasherrs.E(http.StatusNotFound, fmt.Sprintf("no snapshot for %q yet", view))
	}
	return WriteJSON(w, http.StatusOK, snap)
}

func (s *Server) putLocal(w http.ResponseWriter, r *http.Request) error {
	if s.adminToken == "" {
		return dasherrs.E(http.StatusForbidden, "seeding is disabled")
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
		return dasherrs.E(http.StatusUnauthorized, "invalid admin token")
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSeedBytes))
	if err != nil {
		return dasherrs.E(http.StatusRequestEntityTooLarge, "payload too large")
	}

	if err := s.seeder.Seed(r.Context(), mux.Vars(r)["key"], body); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
