package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"sports_dashboard/internal/domain"
	"sports_dashboard/internal/session"
)

// Runner performs one pass of a view.
type Runner interface {
	Run(ctx context.Context, view string, sess *session.Session) (*domain.PassStats, error)
}

type SessionResolver interface {
	Resolve(ctx context.Context, cookie string) *session.Session
}

// Job runs one view every Every. Cron schedules have second granularity.
type Job struct {
	View  string
	Every time.Duration
}

// Scheduler drives every view on its own cadence. A job whose previous pass is
// still running skips that tick.
type Scheduler struct {
	runner   Runner
	sessions SessionResolver
	cookie   string
	jobs     []Job
	timeout  time.Duration
	chain    cron.Chain
	logger   *slog.Logger
	cronLog  cron.Logger
}

func NewScheduler(runner Runner, sessions SessionResolver, cookie string, jobs []Job, timeout time.Duration, logger *slog.Logger) *Scheduler {
	logger = logger.With("component", "scheduler")
	cl := cronLogger{logger: logger}
	return &Scheduler{
		runner:   runner,
		sessions: sessions,
		cookie:   cookie,
		jobs:     jobs,
		timeout:  timeout,
		chain:    cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		logger:   logger,
		cronLog:  cl,
	}
}

// Start runs every job once, in order, then on schedule until ctx is done.
// It waits for running passes before returning.
func (s *Scheduler) Start(ctx context.Context) error {
	for _, j := range s.jobs {
		s.runPass(ctx, j.View)
	}

	// Schedule bypasses the cron-wide chain; each Then gets its own guard.
	c := cron.New(cron.WithLogger(s.cronLog))
	for _, j := range s.jobs {
		c.Schedule(cron.Every(j.Every), s.chain.Then(s.job(ctx, j.View)))
		s.logger.Info("job scheduled", "view", j.View, "every", j.Every)
	}

	c.Start()
	s.logger.Info("scheduler started", "jobs", len(s.jobs))

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")
	return ctx.Err()
}

func (s *Scheduler) job(ctx context.Context, view string) cron.Job {
	return cron.FuncJob(func() {
		s.runPass(ctx, view)
	})
}

func (s *Scheduler) runPass(ctx context.Context, view string) {
	if ctx.Err() != nil {
		return
	}
	passCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sess := s.sessions.Resolve(passCtx, s.cookie)
	if _, err := s.runner.Run(passCtx, view, sess); err != nil {
		s.logger.Error("pass failed", "view", view, "error", err)
	}
}

// cronLogger routes cron's own logging to slog. Cron logs every wake-up at
// info, which is debug noise here.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
