package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/emailportal/portal-client/internal/api"
	"github.com/emailportal/portal-client/internal/api/handler"
	"github.com/emailportal/portal-client/internal/api/metrics"
	"github.com/emailportal/portal-client/pkg/logger"
)

const (
	shutdownTimeout     = 10 * time.Second
	queueSampleInterval = 15 * time.Second
)

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	port := fs.String("port", "", "listen port (overrides PORT)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	go metrics.WatchQueue(ctx, a.dispatcher.Depths, queueSampleInterval)

	e := api.NewRouter(api.Deps{
		Views:     a.views,
		Sessions:  a.sessions,
		Validator: a.validator,
		Probes:    map[string]handler.Pinger{"session": a.store},
		Log:       logger.For("api"),
	})

	addr := ":" + a.cfg.Port
	if *port != "" {
		addr = ":" + *port
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().
			Str("addr", addr).
			Str("api", a.cfg.API.BaseURL).
			Str("session_backend", a.cfg.Session.Backend).
			Msg("portal listening")
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	a.dispatcher.Wait()
	return nil
}
