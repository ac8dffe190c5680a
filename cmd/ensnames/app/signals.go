package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// shutdownTimeout bounds how long an interrupted run may take to unwind.
const shutdownTimeout = 30 * time.Second

// withSignals returns a context cancelled by the first SIGINT or SIGTERM.
// A second signal, or a run that does not unwind in time, exits at once.
// The returned stop must be called when the run completes.
func withSignals(parent context.Context, logger zerolog.Logger) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Warn().Str("signal", sig.String()).Msg("interrupt received, stopping after the current name")
			cancel()
		case <-done:
			return
		}

		select {
		case sig := <-sigCh:
			logger.Error().Str("signal", sig.String()).Msg("second interrupt, forcing exit")
			os.Exit(1)
		case <-time.After(shutdownTimeout):
			logger.Error().Dur("timeout", shutdownTimeout).Msg("shutdown timed out, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		close(done)
		cancel()
	}
}
