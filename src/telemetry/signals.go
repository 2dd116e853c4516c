package telemetry

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// NotifySignals shuts the service down when a terminating signal arrives or
// the context ends. The signal delivery only forwards a notification; the
// shutdown sequencing runs on an ordinary goroutine, never inside a signal
// handling context. Call once, near construction.
func (s *Service) NotifySignals(ctx context.Context) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGABRT)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			s.logger.Info("msg", "Termination signal received, shutting down telemetry",
				"component", "telemetry",
				"signal", sig.String())
			s.Shutdown()
		case <-ctx.Done():
			s.Shutdown()
		}
	}()
}
