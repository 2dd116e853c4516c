package telemetry

import "tattle/src/internal/core"

// Mode discriminates normal application logging from special dispatch paths
// of the host framework; only normal records are considered.
type Mode int

const (
	// DispatchNormal is an ordinary application log record.
	DispatchNormal Mode = iota
	// DispatchDirect bypasses telemetry, e.g. raw console writes.
	DispatchDirect
)

// DispatchFunc is the capability the host's logging framework is handed:
// one callable with a fixed signature, registered once at startup.
type DispatchFunc func(level core.Level, loggerID, message string, mode Mode)

// Dispatch is the single hook point for intercepted log records. Only Error
// and Fatal records from loggers other than the designated console logger
// are forwarded, each to both the crash reporter and the record buffer.
// Performs no I/O, never blocks beyond the buffer lock, and never surfaces
// an error to the logging call site.
func (s *Service) Dispatch(level core.Level, loggerID, message string, mode Mode) {
	if !s.Enabled() {
		return
	}
	if mode != DispatchNormal {
		return
	}
	if loggerID == s.cfg.ConsoleLogger {
		return
	}
	if level < core.LevelError {
		return
	}

	s.reporter.Report(level, message)
	s.Enqueue(core.Record{
		"message": message,
		"level":   level.String(),
	})
}
