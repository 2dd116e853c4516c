package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

type Config struct {
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

// TelemetryConfig controls the whole subsystem: crash event reporting plus
// buffered batch delivery of structured log records.
type TelemetryConfig struct {
	Enabled     bool   `toml:"enabled"`
	Environment string `toml:"environment"`
	Application string `toml:"application"`

	// Path of the persisted anonymous installation identifier.
	// Empty means the per-user config directory.
	IdentityFile string `toml:"identity_file"`

	// Records produced by this logger are console-only and never forwarded.
	ConsoleLogger string `toml:"console_logger"`

	Crash  CrashConfig  `toml:"crash"`
	Intake IntakeConfig `toml:"intake"`
	Buffer BufferConfig `toml:"buffer"`
}

// CrashConfig configures the crash-reporting client.
type CrashConfig struct {
	// Empty DSN leaves the client constructed but inert.
	DSN string `toml:"dsn"`

	// Event rate limit; events past the limit are dropped.
	EventsPerSecond float64 `toml:"events_per_second"`
	EventBurst      int     `toml:"event_burst"`

	// Bound on the final event flush during shutdown.
	FlushTimeoutMS int64 `toml:"flush_timeout_ms"`
}

// IntakeConfig configures the HTTP endpoint receiving batched log records.
type IntakeConfig struct {
	URL          string `toml:"url"`
	APIKey       string `toml:"api_key"`
	APIKeyHeader string `toml:"api_key_header"`

	ConnectTimeoutMS int64 `toml:"connect_timeout_ms"`
	RequestTimeoutMS int64 `toml:"request_timeout_ms"`
}

// BufferConfig controls buffering and the flush policy.
type BufferConfig struct {
	// Soft cap on buffered records; inserts past it are dropped.
	Capacity int `toml:"capacity"`

	// Buffer size that forces an immediate flush.
	HighWater int `toml:"high_water"`

	PollIntervalMS   int64 `toml:"poll_interval_ms"`
	FlushIntervalSec int64 `toml:"flush_interval_sec"`
}

type LoggingConfig struct {
	Output string `toml:"output"` // "stderr", "stdout", "none"
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
}

func defaults() *Config {
	return &Config{
		Telemetry: TelemetryConfig{
			Enabled:       true,
			Environment:   "production",
			Application:   "tattle",
			ConsoleLogger: "stdout",
			Crash: CrashConfig{
				EventsPerSecond: 1,
				EventBurst:      10,
				FlushTimeoutMS:  2000,
			},
			Intake: IntakeConfig{
				APIKeyHeader:     "DD-API-KEY",
				ConnectTimeoutMS: 300,
				RequestTimeoutMS: 1000,
			},
			Buffer: BufferConfig{
				Capacity:         16 * 1024,
				HighWater:        1024,
				PollIntervalMS:   100,
				FlushIntervalSec: 30,
			},
		},
		Logging: LoggingConfig{
			Output: "stderr",
			Level:  "info",
		},
	}
}

func LoadWithCLI(cliArgs []string) (*Config, error) {
	configPath := GetConfigPath()

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix("TATTLE_").
		WithFile(configPath).
		WithArgs(cliArgs).
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	finalConfig := &Config{}
	if err := cfg.Scan(finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	return finalConfig, finalConfig.validate()
}

func customEnvTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = "TATTLE_" + env
	return env
}

func GetConfigPath() string {
	if configFile := os.Getenv("TATTLE_CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv("TATTLE_CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv("TATTLE_CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "tattle.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "tattle.toml")
	}

	return "tattle.toml"
}
