package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"acai-backend/internal/config"
	"log/slog"
)

// Start listens on HTTP_PORT and serves router until ctx is cancelled, then
// drains in-flight requests (a checkout waiting on the CEP lookup, say)
// for up to ShutdownTimeout.
func Start(ctx context.Context, cfg config.Config, router http.Handler, log *slog.Logger) error {
	srv := newHTTPServer(cfg, router)
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	return serve(ctx, cfg, srv, ln, log)
}

func newHTTPServer(cfg config.Config, router http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func serve(ctx context.Context, cfg config.Config, srv *http.Server, ln net.Listener, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("acai api listening", "addr", ln.Addr().String(), "env", cfg.Env)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("acai api shutting down", "grace", cfg.ShutdownTimeout)
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
