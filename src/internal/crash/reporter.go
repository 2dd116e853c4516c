package crash

import (
	"fmt"
	"sync/atomic"
	"time"

	"tattle/src/internal/config"
	"tattle/src/internal/core"

	"github.com/getsentry/sentry-go"
	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

// sentryLevel translates the shared severity vocabulary into Sentry's.
func sentryLevel(l core.Level) sentry.Level {
	switch l {
	case core.LevelInfo:
		return sentry.LevelInfo
	case core.LevelWarning:
		return sentry.LevelWarning
	case core.LevelError:
		return sentry.LevelError
	case core.LevelFatal:
		return sentry.LevelFatal
	default:
		return sentry.LevelDebug
	}
}

// Reporter forwards discrete severity+message events to the crash-reporting
// service. Fire-and-forget, safe from any goroutine. Events beyond the
// configured rate are dropped so an error storm cannot flood the sink.
type Reporter struct {
	client  *sentry.Client
	scope   *sentry.Scope
	limiter *rate.Limiter
	logger  *log.Logger

	// Statistics
	totalReported atomic.Uint64
	totalLimited  atomic.Uint64
}

// NewReporter creates a crash reporter bound to one installation identity.
// An empty DSN yields a constructed but inert client.
func NewReporter(opts *config.CrashConfig, release, environment, userID string, logger *log.Logger) (*Reporter, error) {
	if opts == nil {
		return nil, fmt.Errorf("crash options cannot be nil")
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         opts.DSN,
		Release:     release,
		Environment: environment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create crash client: %w", err)
	}

	scope := sentry.NewScope()
	scope.SetUser(sentry.User{ID: userID})

	r := &Reporter{
		client:  client,
		scope:   scope,
		limiter: rate.NewLimiter(rate.Limit(opts.EventsPerSecond), opts.EventBurst),
		logger:  logger,
	}

	logger.Info("msg", "Crash reporter initialized",
		"component", "crash_reporter",
		"environment", environment,
		"release", release,
		"dsn_configured", opts.DSN != "")
	return r, nil
}

// Report captures one severity+message event. No return value; delivery is
// best-effort.
func (r *Reporter) Report(level core.Level, message string) {
	if !r.limiter.Allow() {
		r.totalLimited.Add(1)
		return
	}

	event := sentry.NewEvent()
	event.Level = sentryLevel(level)
	event.Message = message
	event.Logger = "stderr"

	r.client.CaptureEvent(event, nil, r.scope)
	r.totalReported.Add(1)
}

// Close flushes buffered events, bounded by timeout.
func (r *Reporter) Close(timeout time.Duration) {
	if !r.client.Flush(timeout) {
		r.logger.Warn("msg", "Crash reporter flush timed out",
			"component", "crash_reporter",
			"timeout", timeout.String())
	}
}

// Stats returns the lifetime reported and rate-limited event counts.
func (r *Reporter) Stats() (reported, limited uint64) {
	return r.totalReported.Load(), r.totalLimited.Load()
}
