package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cdportal/admin-console/internal/api"
)

const shutdownTimeout = 10 * time.Second

func runServe(ctx context.Context, a *app, _ invocation) error {
	e := api.NewRouter(api.Deps{
		Session:   a.session,
		Companies: a.companies,
		Drivers:   a.drivers,
		Users:     a.users,
		Audit:     a.auditReader,
		Health:    a.health,
		PageSize:  a.cfg.PageSize,
		Log:       a.log,
		Debug:     a.cfg.IsDevelopment(),
	})

	addr := ":" + a.cfg.Port
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().
			Str("addr", addr).
			Str("backend", a.cfg.Backend.URL).
			Bool("authenticated", a.session.Authenticated()).
			Msg("console listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
