package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sports_dashboard/internal/domain"
)

type ClientTestSuite struct {
	suite.Suite
	server *httptest.Server
	mux    *http.ServeMux
	client *Client
}

func (s *ClientTestSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(s.mux)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.client = New(Config{
		BaseURL:        s.server.URL + "/",
		CookieName:     "connect.sid",
		CurrentUser:    "/users/current-user",
		Timeout:        time.Second,
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}, logger)
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) TestGet_AttachesSessionCookie() {
	s.mux.HandleFunc("/api/schedules", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("connect.sid")
		if err != nil || c.Value != "s%3Aabc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"userId":"u1","event":"Match","date":"2024-02-20","time":"10:00"}]`))
	})

	var out []domain.ScheduleEntry
	err := s.client.Get(context.Background(), "/api/schedules", "s%3Aabc", &out)

	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal("Match", out[0].Event)
	s.Equal("u1", out[0].UserID)
}

func (s *ClientTestSuite) TestGet_RetriesServerErrors() {
	var calls atomic.Int32
	s.mux.HandleFunc("/api/activities", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	var out []domain.Activity
	s.Require().NoError(s.client.Get(context.Background(), "/api/activities", "", &out))
	s.Equal(int32(3), calls.Load())
}

func (s *ClientTestSuite) TestGet_ClientErrorIsUnavailableWithoutRetry() {
	var calls atomic.Int32
	s.mux.HandleFunc("/api/schedules", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	var out []domain.ScheduleEntry
	err := s.client.Get(context.Background(), "/api/schedules", "", &out)

	s.ErrorIs(err, domain.ErrUnavailable)
	s.Equal(int32(1), calls.Load())
}

func (s *ClientTestSuite) TestGet_ExhaustedRetriesIsUnavailable() {
	s.mux.HandleFunc("/api/schedules", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	var out []domain.ScheduleEntry
	s.ErrorIs(s.client.Get(context.Background(), "/api/schedules", "", &out), domain.ErrUnavailable)
}

func (s *ClientTestSuite) TestGet_UndecodableBodyIsUnavailable() {
	s.mux.HandleFunc("/api/schedules", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	})

	var out []domain.ScheduleEntry
	s.ErrorIs(s.client.Get(context.Background(), "/api/schedules", "", &out), domain.ErrUnavailable)
}

func (s *ClientTestSuite) TestCurrentUser() {
	s.mux.HandleFunc("/users/current-user", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"u1","name":"Sara Ali","profilePicture":null,"playerProfile":{"sport":"football","isPlayer":true}}`))
	})

	u, err := s.client.CurrentUser(context.Background(), "cookie")

	s.Require().NoError(err)
	s.Equal("u1", u.ID)
	s.Empty(u.ProfilePicture)
	s.Require().NotNil(u.PlayerProfile)
	s.True(u.PlayerProfile.IsPlayer)
}

func (s *ClientTestSuite) TestCurrentUser_NotAuthenticated() {
	s.mux.HandleFunc("/users/current-user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := s.client.CurrentUser(context.Background(), "")
	s.ErrorIs(err, domain.ErrUnavailable)
}
