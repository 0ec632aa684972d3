package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/emailportal/portal-client/internal/api/metrics"
	"github.com/emailportal/portal-client/internal/core/cache"
	"github.com/emailportal/portal-client/internal/core/operation"
	"github.com/emailportal/portal-client/internal/core/ports"
	"github.com/emailportal/portal-client/internal/core/service"
	"github.com/emailportal/portal-client/internal/core/validation"
	"github.com/emailportal/portal-client/internal/infrastructure/config"
	mongostore "github.com/emailportal/portal-client/internal/infrastructure/db/mongo"
	redisstore "github.com/emailportal/portal-client/internal/infrastructure/db/redis"
	httpclient "github.com/emailportal/portal-client/internal/infrastructure/http"
	"github.com/emailportal/portal-client/internal/infrastructure/queue"
	"github.com/emailportal/portal-client/internal/infrastructure/storage/file"
	"github.com/emailportal/portal-client/internal/view"
	"github.com/emailportal/portal-client/pkg/logger"
)

// sessionStore is a session backend that can also report its health.
type sessionStore interface {
	ports.KeyValueStore
	Ping(ctx context.Context) error
}

// app holds the wired portal. Every command builds one and closes it on exit.
type app struct {
	cfg        *config.Config
	log        zerolog.Logger
	store      sessionStore
	closeStore func(ctx context.Context) error
	dispatcher *queue.Dispatcher
	validator  *validation.Validator
	sessions   *service.SessionService
	portal     *service.PortalService
	views      *view.Views
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	store, closeStore, err := openSessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("backend", cfg.Session.Backend).Msg("session store ready")

	sessions := service.NewSessionService(store, logger.For("session"))
	client, err := httpclient.NewClient(httpclient.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
	}, sessions,
		httpclient.WithRecorder(metrics.Recorder{}),
		httpclient.WithLogger(logger.For("http")),
	)
	if err != nil {
		_ = closeStore(ctx)
		return nil, err
	}

	dispatcher := queue.NewDispatcher(cfg.Dispatch.Workers, logger.For("dispatcher"))
	dispatcher.Start(ctx)

	queries := cache.New(
		cache.WithScheduler(dispatcher),
		cache.WithObserver(metrics.Recorder{}),
		cache.WithLogger(logger.For("cache")),
	)
	if log.GetLevel() <= zerolog.DebugLevel {
		traceQueries(queries, logger.For("cache"))
	}
	portal := service.NewPortalService(client, sessions, queries, dispatcher, logger.For("portal"))
	validator := validation.New(validation.WithRejectHook(metrics.Recorder{}.Rejected))

	return &app{
		cfg:        cfg,
		log:        log,
		store:      store,
		closeStore: closeStore,
		dispatcher: dispatcher,
		validator:  validator,
		sessions:   sessions,
		portal:     portal,
		views:      view.New(portal, validator, logger.For("view")),
	}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.closeStore(ctx); err != nil {
		a.log.Warn().Err(err).Msg("closing session store")
	}
}

// traceQueries logs every cache state change.
func traceQueries(c *cache.Client, log zerolog.Logger) {
	for _, family := range operation.Families() {
		c.Subscribe(family, func(s cache.Snapshot) {
			ev := log.Debug().
				Str("key", s.Key).
				Stringer("status", s.Status).
				Bool("fetching", s.Fetching).
				Bool("stale", s.Stale).
				Bool("invalidated", s.Invalidated)
			if s.Err != nil {
				ev = ev.Err(s.Err)
			}
			ev.Msg("cache state changed")
		})
	}
}

func openSessionStore(ctx context.Context, cfg *config.Config) (sessionStore, func(context.Context) error, error) {
	switch cfg.Session.Backend {
	case config.BackendRedis:
		s, err := redisstore.Open(ctx, redisstore.Config{
			Addr:   cfg.Redis.Addr,
			DB:     cfg.Redis.DB,
			Prefix: cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open redis session store: %w", err)
		}
		return s, func(context.Context) error { return s.Close() }, nil
	case config.BackendMongo:
		s, err := mongostore.Open(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open mongo session store: %w", err)
		}
		return s, s.Close, nil
	default:
		s, err := file.New(cfg.Session.File, cfg.Session.Secret)
		if err != nil {
			return nil, nil, fmt.Errorf("open session file: %w", err)
		}
		return s, func(context.Context) error { return nil }, nil
	}
}
