package telemetry

import (
	"sync"
	"testing"
	"time"

	"tattle/src/internal/buffer"
	"tattle/src/internal/config"
	"tattle/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

type sinkCall struct {
	level   core.Level
	message string
}

type fakeSink struct {
	mu    sync.Mutex
	calls []sinkCall
}

func (f *fakeSink) Report(level core.Level, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sinkCall{level, message})
}

func (f *fakeSink) Close(time.Duration) {}

func (f *fakeSink) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// newDispatchService wires a service around a fake crash sink and a real
// buffer, without the scheduler or any network surface.
func newDispatchService() (*Service, *fakeSink) {
	sink := &fakeSink{}
	cfg := &config.TelemetryConfig{
		Enabled:       true,
		Environment:   "staging",
		Application:   "ettest",
		ConsoleLogger: "stdout",
	}
	s := &Service{
		cfg:      cfg,
		logger:   newTestLogger(),
		reporter: sink,
		buf:      buffer.New(64),
		enabled:  true,
	}
	return s, sink
}

func TestDispatch_Filtering(t *testing.T) {
	s, sink := newDispatchService()

	// Only Error/Fatal from a non-console logger qualify
	s.Dispatch(core.LevelInfo, "default", "info is ignored", DispatchNormal)
	s.Dispatch(core.LevelError, "default", "error is forwarded", DispatchNormal)
	s.Dispatch(core.LevelError, "stdout", "console logger is ignored", DispatchNormal)
	s.Dispatch(core.LevelFatal, "default", "fatal is forwarded", DispatchNormal)

	assert.Equal(t, 2, sink.callCount())
	assert.Equal(t, core.LevelError, sink.calls[0].level)
	assert.Equal(t, "error is forwarded", sink.calls[0].message)
	assert.Equal(t, core.LevelFatal, sink.calls[1].level)

	records := s.buf.Drain()
	require.Len(t, records, 2)
	assert.Equal(t, "error is forwarded", records[0]["message"])
	assert.Equal(t, "Error", records[0]["level"])
	assert.Equal(t, "fatal is forwarded", records[1]["message"])
	assert.Equal(t, "Fatal", records[1]["level"])
}

func TestDispatch_Enrichment(t *testing.T) {
	s, _ := newDispatchService()

	s.Dispatch(core.LevelError, "default", "boom", DispatchNormal)

	records := s.buf.Drain()
	require.Len(t, records, 1)
	assert.Equal(t, "staging", records[0]["Environment"])
	assert.Equal(t, "ettest", records[0]["Application"])
	assert.NotEmpty(t, records[0]["Version"])
}

func TestDispatch_ModeFilter(t *testing.T) {
	s, sink := newDispatchService()

	s.Dispatch(core.LevelError, "default", "bypass", DispatchDirect)

	assert.Equal(t, 0, sink.callCount())
	assert.Equal(t, 0, s.buf.Len())
}

func TestDispatch_DisabledService(t *testing.T) {
	var nilSvc *Service
	// Must not panic
	nilSvc.Dispatch(core.LevelError, "default", "nobody home", DispatchNormal)

	s := &Service{cfg: &config.TelemetryConfig{}, logger: newTestLogger()}
	s.Dispatch(core.LevelError, "default", "disabled", DispatchNormal)
	assert.False(t, s.Enabled())
}
