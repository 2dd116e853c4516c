package config

import "fmt"

func (c *Config) validate() error {
	t := &c.Telemetry

	if t.Enabled && t.Intake.URL == "" {
		return fmt.Errorf("telemetry.intake.url is required when telemetry is enabled")
	}
	if t.Application == "" {
		return fmt.Errorf("telemetry.application cannot be empty")
	}

	if t.Buffer.Capacity <= 0 {
		return fmt.Errorf("telemetry.buffer.capacity must be positive, got %d", t.Buffer.Capacity)
	}
	if t.Buffer.HighWater <= 0 || t.Buffer.HighWater > t.Buffer.Capacity {
		return fmt.Errorf("telemetry.buffer.high_water must be in 1..capacity, got %d", t.Buffer.HighWater)
	}
	if t.Buffer.PollIntervalMS <= 0 {
		return fmt.Errorf("telemetry.buffer.poll_interval_ms must be positive, got %d", t.Buffer.PollIntervalMS)
	}
	if t.Buffer.FlushIntervalSec <= 0 {
		return fmt.Errorf("telemetry.buffer.flush_interval_sec must be positive, got %d", t.Buffer.FlushIntervalSec)
	}

	if t.Intake.ConnectTimeoutMS <= 0 {
		return fmt.Errorf("telemetry.intake.connect_timeout_ms must be positive, got %d", t.Intake.ConnectTimeoutMS)
	}
	if t.Intake.RequestTimeoutMS <= 0 {
		return fmt.Errorf("telemetry.intake.request_timeout_ms must be positive, got %d", t.Intake.RequestTimeoutMS)
	}

	if t.Crash.EventsPerSecond <= 0 {
		return fmt.Errorf("telemetry.crash.events_per_second must be positive, got %f", t.Crash.EventsPerSecond)
	}
	if t.Crash.EventBurst <= 0 {
		return fmt.Errorf("telemetry.crash.event_burst must be positive, got %d", t.Crash.EventBurst)
	}

	switch c.Logging.Output {
	case "stderr", "stdout", "none":
	default:
		return fmt.Errorf("invalid logging.output: %s", c.Logging.Output)
	}

	return nil
}
