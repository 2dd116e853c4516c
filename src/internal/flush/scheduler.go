package flush

import (
	"sync"
	"sync/atomic"
	"time"

	"tattle/src/internal/buffer"
	"tattle/src/internal/config"

	"github.com/goccy/go-json"
	"github.com/lixenwraith/log"
)

// Poster ships one serialized batch. A returned error is final; the payload
// is never resubmitted.
type Poster interface {
	Post(body []byte) error
}

// Scheduler owns the background delivery loop. It polls the buffer on a
// fixed interval and flushes when the size reaches the high-water mark or
// the flush deadline passes, whichever comes first. The loop exits once the
// shared shutdown flag is set, and no submission starts after that point.
type Scheduler struct {
	buf    *buffer.Buffer
	poster Poster
	logger *log.Logger

	pollInterval  time.Duration
	flushInterval time.Duration
	highWater     int

	// Write-once, owned by the shutdown coordinator.
	shuttingDown *atomic.Bool

	done chan struct{}
	wg   sync.WaitGroup

	// Statistics
	totalFlushes   atomic.Uint64
	droppedBatches atomic.Uint64
}

// NewScheduler wires the loop to a buffer, a poster and the coordinator's
// shutdown flag. Call Start to begin polling.
func NewScheduler(opts *config.BufferConfig, buf *buffer.Buffer, poster Poster, shuttingDown *atomic.Bool, logger *log.Logger) *Scheduler {
	return &Scheduler{
		buf:           buf,
		poster:        poster,
		logger:        logger,
		pollInterval:  time.Duration(opts.PollIntervalMS) * time.Millisecond,
		flushInterval: time.Duration(opts.FlushIntervalSec) * time.Second,
		highWater:     opts.HighWater,
		shuttingDown:  shuttingDown,
		done:          make(chan struct{}),
	}
}

// Start launches the delivery loop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()

	s.logger.Info("msg", "Flush scheduler started",
		"component", "flush_scheduler",
		"poll_interval", s.pollInterval.String(),
		"flush_interval", s.flushInterval.String(),
		"high_water", s.highWater)
}

// Stop terminates the loop and waits for it to exit. An in-flight submission
// is allowed to finish; no new one starts.
func (s *Scheduler) Stop() {
	close(s.done)
	s.wg.Wait()

	s.logger.Info("msg", "Flush scheduler stopped",
		"component", "flush_scheduler",
		"total_flushes", s.totalFlushes.Load(),
		"dropped_batches", s.droppedBatches.Load())
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	deadline := time.Now().Add(s.flushInterval)

	for {
		select {
		case <-ticker.C:
			if s.shuttingDown.Load() {
				return
			}
			size := s.buf.Len()
			if size == 0 {
				continue
			}
			if size < s.highWater && time.Now().Before(deadline) {
				continue
			}
			deadline = time.Now().Add(s.flushInterval)
			s.flush()

		case <-s.done:
			return
		}
	}
}

// flush drains the buffer, serializes the snapshot and submits it. The
// payload of a failed or shutdown-suppressed cycle is discarded.
func (s *Scheduler) flush() {
	records := s.buf.Drain()
	if len(records) == 0 {
		return
	}

	payload, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		s.droppedBatches.Add(1)
		s.logger.Error("msg", "Failed to serialize batch",
			"component", "flush_scheduler",
			"records", len(records),
			"error", err)
		return
	}

	// The transport is not guaranteed safe during process teardown; a cycle
	// that loses the race with shutdown discards its payload.
	if s.shuttingDown.Load() {
		s.droppedBatches.Add(1)
		return
	}

	if err := s.poster.Post(payload); err != nil {
		s.droppedBatches.Add(1)
		s.logger.Warn("msg", "Batch delivery failed, dropping",
			"component", "flush_scheduler",
			"records", len(records),
			"error", err)
		return
	}

	s.totalFlushes.Add(1)
}

// Stats returns the lifetime delivered and dropped batch counts.
func (s *Scheduler) Stats() (flushed, dropped uint64) {
	return s.totalFlushes.Load(), s.droppedBatches.Load()
}
