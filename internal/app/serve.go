package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	apperrors "github.com/sequenz/fibdev/internal/errors"
	"github.com/sequenz/fibdev/internal/logging"
	"github.com/sequenz/fibdev/internal/server"
)

// runServe runs the HTTP API server until interrupted.
func (a *Application) runServe(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	opts := []server.Option{
		server.WithLogger(logging.NewDefaultLogger()),
	}
	if a.Config.RateLimit > 0 {
		opts = append(opts, server.WithRateLimiter(server.NewRateLimiter(server.RateLimiterConfig{
			RequestsPerMinute: a.Config.RateLimit,
		})))
	}

	srv := server.New(a.Config.Addr, a.Factory, a.Config.MaxIndex, opts...)
	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}
	return apperrors.ExitSuccess
}
