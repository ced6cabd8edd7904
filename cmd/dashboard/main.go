package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/oklog/run"
	"github.com/sethvargo/go-retry"

	"sports_dashboard/internal/config"
	"sports_dashboard/internal/logger"
	"sports_dashboard/internal/publisher"
	"sports_dashboard/internal/render"
	"sports_dashboard/internal/scheduler"
	"sports_dashboard/internal/server"
	"sports_dashboard/internal/service"
	"sports_dashboard/internal/session"
	"sports_dashboard/internal/source/api"
	"sports_dashboard/internal/storage/postgres"
	"sports_dashboard/migrations"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	log := logger.New(os.Stdout, "info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log = logger.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The database usually comes up alongside us, so wait for it.
	var db *sqlx.DB
	if err := retry.Fibonacci(ctx, time.Second, func(ctx context.Context) error {
		d, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.DSN())
		if err != nil {
			log.Warn("database not ready", "error", err)
			return retry.RetryableError(err)
		}
		db = d
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("connected to database")

	if err := migrations.Run(db, log); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, log)
		if err != nil {
			log.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	localStore := postgres.NewLocalStore(db)
	stateStore := postgres.NewRenderStateStore(db)
	txManager := postgres.NewTransactionManager(db)

	client := api.New(api.Config{
		BaseURL:        cfg.API.BaseURL,
		CookieName:     cfg.API.CookieName,
		CurrentUser:    cfg.API.Paths.CurrentUser,
		Timeout:        cfg.API.Timeout,
		MaxAttempts:    cfg.API.Retry.MaxAttempts,
		InitialBackoff: cfg.API.Retry.InitialBackoff,
		MaxBackoff:     cfg.API.Retry.MaxBackoff,
	}, log)

	sessions := session.NewManager(client, cfg.Session.CacheSize, cfg.Session.CacheTTL, log)
	loc := cfg.Calendar.Location()

	resolver := service.NewResolver(client, localStore, service.ResolverConfig{
		Paths:            cfg.API.Paths,
		Location:         loc,
		WriteThrough:     cfg.Resolver.WriteThroughEnabled(),
		IncludeOwnerless: cfg.Visibility.OwnerlessVisible(),
	}, log)
	carts := service.NewCartService(localStore, txManager, log)
	dashboard := service.NewDashboard(resolver, carts, service.NewSnapshotStore(), stateStore, pub, log,
		service.DashboardConfig{
			Location:  loc,
			WeekStart: render.WeekStart(cfg.Calendar.WeekStart),
		})

	sched := scheduler.NewScheduler(dashboard, sessions, cfg.API.SessionCookie, []scheduler.Job{
		{View: service.ViewProfile, Every: cfg.Poll.Profile},
		{View: service.ViewEventsPage, Every: cfg.Poll.Events},
		{View: service.ViewCountdowns, Every: cfg.Poll.Countdown},
		{View: service.ViewShop, Every: cfg.Poll.Shop},
		{View: service.ViewWatch, Every: cfg.Poll.Shop},
	}, cfg.Poll.Timeout, log)

	srv := server.New(server.Config{
		Listen:     cfg.HTTP.Listen,
		CORSOrigin: cfg.HTTP.CORSOrigin,
		CookieName: cfg.API.CookieName,
		AdminToken: cfg.HTTP.AdminToken,
		Location:   loc,
	}, dashboard, carts, sessions, resolver, stateStore, log)

	var g run.Group
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))
	g.Add(func() error {
		return sched.Start(ctx)
	}, func(error) {
		cancel()
	})
	g.Add(func() error {
		log.Info("http server listening", "addr", cfg.HTTP.Listen)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(error) {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	})

	log.Info("starting sports dashboard",
		"upstream", cfg.API.BaseURL,
		"timezone", loc.String(),
		"publishing", pub != nil,
	)

	err = g.Run()
	var sigErr run.SignalError
	if err != nil && !errors.As(err, &sigErr) && !errors.Is(err, context.Canceled) {
		log.Error("dashboard stopped", "error", err)
		os.Exit(1)
	}
	log.Info("dashboard stopped")
}
