// Package telemetry is the host-facing composition point of the subsystem:
// it owns the installation identity, the crash reporter, the bounded record
// buffer and the background flush scheduler, and exposes the single dispatch
// hook the host's logging framework calls.
package telemetry

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"tattle/src/internal/buffer"
	"tattle/src/internal/config"
	"tattle/src/internal/core"
	"tattle/src/internal/crash"
	"tattle/src/internal/flush"
	"tattle/src/internal/identity"
	"tattle/src/internal/transport"
	"tattle/src/internal/version"

	"github.com/lixenwraith/log"
)

// OptOutEnv disables the whole subsystem when set to any non-empty value:
// no events, no buffering, no file I/O, no HTTP calls.
const OptOutEnv = "TATTLE_NO_TELEMETRY"

// eventSink is the crash reporter surface the interceptor needs.
type eventSink interface {
	Report(level core.Level, message string)
	Close(timeout time.Duration)
}

// Service is the process-wide telemetry sink. Construct one at the
// application's top level and pass it to the logging integration; a nil or
// disabled service accepts every call as a no-op.
type Service struct {
	cfg    *config.TelemetryConfig
	logger *log.Logger

	identity  string
	reporter  eventSink
	buf       *buffer.Buffer
	scheduler *flush.Scheduler

	enabled      bool
	shuttingDown atomic.Bool
	shutdownOnce sync.Once
}

// New constructs the service. The opt-out environment variable and the
// config switch are checked once here; a disabled service is inert. An
// unreadable or incomplete identity file aborts construction: it indicates
// a corrupt install, not a recoverable condition.
func New(cfg *config.TelemetryConfig, logger *log.Logger) (*Service, error) {
	s := &Service{cfg: cfg, logger: logger}

	if !cfg.Enabled || os.Getenv(OptOutEnv) != "" {
		logger.Info("msg", "Telemetry disabled",
			"component", "telemetry",
			"opt_out_env", os.Getenv(OptOutEnv) != "")
		return s, nil
	}

	identityPath := cfg.IdentityFile
	if identityPath == "" {
		identityPath = identity.DefaultPath(cfg.Application)
	}
	id, err := identity.GetOrCreate(identityPath, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry identity: %w", err)
	}
	s.identity = id

	release := fmt.Sprintf("%s@%s", cfg.Application, version.Short())
	reporter, err := crash.NewReporter(&cfg.Crash, release, cfg.Environment, id, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry crash reporter: %w", err)
	}
	s.reporter = reporter

	client, err := transport.NewClient(&cfg.Intake, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry intake client: %w", err)
	}

	s.buf = buffer.New(cfg.Buffer.Capacity)
	s.scheduler = flush.NewScheduler(&cfg.Buffer, s.buf, client, &s.shuttingDown, logger)
	s.scheduler.Start()
	s.enabled = true

	// A service reclaimed without Shutdown means the flush loop was never
	// allowed to converge. Protocol violation, not a crash.
	runtime.SetFinalizer(s, func(leaked *Service) {
		if !leaked.shuttingDown.Load() {
			leaked.logger.Warn("msg", "Telemetry service reclaimed without shutdown",
				"component", "telemetry")
		}
	})

	logger.Info("msg", "Telemetry service started",
		"component", "telemetry",
		"environment", cfg.Environment,
		"application", cfg.Application)
	return s, nil
}

// Enabled reports whether the service forwards anything at all.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled
}

// Enqueue buffers one structured record for batched delivery, attaching the
// fixed enrichment fields. Enrichment happens before the buffer lock is
// taken. Overflow drops the record silently.
func (s *Service) Enqueue(rec core.Record) {
	if !s.Enabled() {
		return
	}
	rec["Environment"] = s.cfg.Environment
	rec["Application"] = s.cfg.Application
	rec["Version"] = version.Short()
	s.buf.Append(rec)
}

// Shutdown transitions the service to its terminal state exactly once: the
// shutdown flag flips, the flush loop exits on its next poll, no further
// batch is posted, and buffered crash events get a bounded window to leave.
// A submission already in flight is abandoned, not awaited. Safe to call
// from signal observers and multiple times.
func (s *Service) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.shuttingDown.Store(true)
		if !s.enabled {
			return
		}

		s.logger.Info("msg", "Shutting down telemetry", "component", "telemetry")
		if s.scheduler != nil {
			s.scheduler.Stop()
		}
		if s.reporter != nil {
			s.reporter.Close(time.Duration(s.cfg.Crash.FlushTimeoutMS) * time.Millisecond)
		}
		runtime.SetFinalizer(s, nil)
	})
}

// Stats returns a snapshot of the service counters.
func (s *Service) Stats() map[string]any {
	if !s.Enabled() {
		return map[string]any{"enabled": false}
	}

	appended, dropped := s.buf.Stats()
	flushed, failed := s.scheduler.Stats()

	return map[string]any{
		"enabled":          true,
		"buffered_records": s.buf.Len(),
		"records_appended": appended,
		"records_dropped":  dropped,
		"batches_flushed":  flushed,
		"batches_dropped":  failed,
	}
}
