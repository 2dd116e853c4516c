package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := defaults()
	cfg.Telemetry.Intake.URL = "https://intake.example.com/v1/input"
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := defaults()

	assert.Equal(t, 16*1024, cfg.Telemetry.Buffer.Capacity)
	assert.Equal(t, 1024, cfg.Telemetry.Buffer.HighWater)
	assert.Equal(t, int64(100), cfg.Telemetry.Buffer.PollIntervalMS)
	assert.Equal(t, int64(30), cfg.Telemetry.Buffer.FlushIntervalSec)
	assert.Equal(t, "stdout", cfg.Telemetry.ConsoleLogger)
	assert.Equal(t, int64(300), cfg.Telemetry.Intake.ConnectTimeoutMS)
}

func TestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, validConfig().validate())
	})

	t.Run("EnabledNeedsIntakeURL", func(t *testing.T) {
		cfg := defaults()
		err := cfg.validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "intake.url")
	})

	t.Run("DisabledAllowsEmptyURL", func(t *testing.T) {
		cfg := defaults()
		cfg.Telemetry.Enabled = false
		assert.NoError(t, cfg.validate())
	})

	t.Run("HighWaterAboveCapacity", func(t *testing.T) {
		cfg := validConfig()
		cfg.Telemetry.Buffer.HighWater = cfg.Telemetry.Buffer.Capacity + 1
		assert.Error(t, cfg.validate())
	})

	t.Run("NonPositiveIntervals", func(t *testing.T) {
		cfg := validConfig()
		cfg.Telemetry.Buffer.PollIntervalMS = 0
		assert.Error(t, cfg.validate())

		cfg = validConfig()
		cfg.Telemetry.Buffer.FlushIntervalSec = -1
		assert.Error(t, cfg.validate())
	})

	t.Run("InvalidLoggingOutput", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Output = "syslog"
		assert.Error(t, cfg.validate())
	})
}
