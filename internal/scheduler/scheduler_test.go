package scheduler

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sports_dashboard/internal/domain"
	"sports_dashboard/internal/session"
)

type fakeSessions struct{}

func (fakeSessions) Resolve(ctx context.Context, cookie string) *session.Session {
	return &session.Session{Viewer: domain.DemoUser, Cookie: cookie, Demo: true}
}

type blockingRunner struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (r *blockingRunner) Run(ctx context.Context, view string, sess *session.Session) (*domain.PassStats, error) {
	r.calls.Add(1)
	r.started <- struct{}{}
	<-r.release
	return &domain.PassStats{View: view}, nil
}

type recordingRunner struct {
	mu    sync.Mutex
	views []string
}

func (r *recordingRunner) Run(ctx context.Context, view string, sess *session.Session) (*domain.PassStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, view)
	return &domain.PassStats{View: view}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestJob_SkipsWhileStillRunning(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}, 1), release: make(chan struct{})}
	s := NewScheduler(runner, fakeSessions{}, "", nil, time.Second, testLogger())
	job := s.chain.Then(s.job(context.Background(), "events-page"))

	done := make(chan struct{})
	go func() {
		job.Run()
		close(done)
	}()
	<-runner.started

	// the first pass is still in flight, so this tick is dropped
	job.Run()
	assert.Equal(t, int32(1), runner.calls.Load())

	close(runner.release)
	<-done
}

func TestStart_RunsJobsOnceThenStops(t *testing.T) {
	runner := &recordingRunner{}
	jobs := []Job{
		{View: "events-page", Every: time.Hour},
		{View: "countdowns", Every: time.Hour},
	}
	s := NewScheduler(runner, fakeSessions{}, "cookie", jobs, time.Second, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() { errCh <- s.Start(ctx) }()

	require.Eventually(t, func() bool {
		runner.mu.Lock()
		defer runner.mu.Unlock()
		return len(runner.views) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
	assert.Equal(t, []string{"events-page", "countdowns"}, runner.views)
}
