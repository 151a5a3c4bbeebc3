package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const defaultShutdownTimeout = 10 * time.Second

type closer struct {
	name string
	fn   func(context.Context) error
}

// Start serves HTTP and returns a channel that is closed once the process
// should stop: on SIGINT, SIGTERM or SIGHUP, or when the listener fails.
//
// /health turns 503 as soon as shutdown begins. The channel is closed only
// after app.server.drain_seconds, so load balancers can stop routing first.
func (a *App) Start() <-chan struct{} {
	done := make(chan struct{})
	var once sync.Once
	stop := func(reason string, args ...any) {
		once.Do(func() {
			a.ready.Store(false)
			slog.Info("shutdown requested", append([]any{"reason", reason}, args...)...)

			if drain := a.config.GetSecond("app.server.drain_seconds"); drain > 0 {
				slog.Info("draining before shutdown", "period", drain.String())
				time.Sleep(drain)
			}
			close(done)
		})
	}

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)

		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped unexpectedly", "error", err)
			stop("listener", "error", err)
		}
	}()

	go func() {
		ctx, cancel := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer cancel()

		<-ctx.Done()
		if a.ctx.Err() != nil {
			// Stop was called directly
			return
		}
		stop("signal")
	}()

	return done
}

// ShutdownTimeout bounds Stop, from app.server.shutdown_timeout_seconds.
func (a *App) ShutdownTimeout() time.Duration {
	if d := a.config.GetSecond("app.server.shutdown_timeout_seconds"); d > 0 {
		return d
	}
	return defaultShutdownTimeout
}

// Stop shuts down in dependency order. HTTP stops accepting requests and
// finishes the in-flight ones, then the event consumers are cancelled and
// awaited, and only then are the broker, stores and telemetry closed.
func (a *App) Stop(ctx context.Context) {
	a.ready.Store(false)

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	a.cancel()
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "account event consumers exited with error", "error", err)
	}
	slog.InfoContext(ctx, "account event consumers stopped")

	for _, c := range a.closers {
		if err := c.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", c.name, "error", err)
		}
	}
}
